package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/servicehub/admin/internal/domain/partner"
	"github.com/shopspring/decimal"
)

// CompanyModel is the persistence model for the Company aggregate root.
type CompanyModel struct {
	TenantAggregateModel
	Name          string                `gorm:"type:varchar(200);not null"`
	TradeName     string                `gorm:"type:varchar(200)"`
	Document      string                `gorm:"type:varchar(20);not null;index"`
	Type          partner.CompanyType   `gorm:"type:varchar(20);not null;default:'client';index"`
	Email         string                `gorm:"type:varchar(200)"`
	Phone         string                `gorm:"type:varchar(30)"`
	Address       string                `gorm:"type:text"`
	ContactName   string                `gorm:"type:varchar(200)"`
	Status        partner.CompanyStatus `gorm:"type:varchar(20);not null;default:'active';index"`
	BlockedReason string                `gorm:"type:varchar(500)"`
	Balance       decimal.Decimal       `gorm:"type:decimal(18,2);not null;default:0"`
	Notes         string                `gorm:"type:text"`
	Credentials   []CredentialModel     `gorm:"foreignKey:CompanyID"`
}

// TableName returns the table name for GORM
func (CompanyModel) TableName() string {
	return "companies"
}

// ToDomain converts the persistence model to a domain Company with its credentials.
func (m *CompanyModel) ToDomain() *partner.Company {
	c := &partner.Company{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		Name:                m.Name,
		TradeName:           m.TradeName,
		Document:            m.Document,
		Type:                m.Type,
		Email:               m.Email,
		Phone:               m.Phone,
		Address:             m.Address,
		ContactName:         m.ContactName,
		Status:              m.Status,
		BlockedReason:       m.BlockedReason,
		Balance:             m.Balance,
		Notes:               m.Notes,
		Credentials:         make([]partner.Credential, len(m.Credentials)),
	}
	for i := range m.Credentials {
		c.Credentials[i] = m.Credentials[i].ToDomain()
	}
	return c
}

// FromDomain populates the persistence model from a domain Company.
func (m *CompanyModel) FromDomain(c *partner.Company) {
	m.FromDomainTenantAggregateRoot(c.TenantAggregateRoot)
	m.Name = c.Name
	m.TradeName = c.TradeName
	m.Document = c.Document
	m.Type = c.Type
	m.Email = c.Email
	m.Phone = c.Phone
	m.Address = c.Address
	m.ContactName = c.ContactName
	m.Status = c.Status
	m.BlockedReason = c.BlockedReason
	m.Balance = c.Balance
	m.Notes = c.Notes
	m.Credentials = make([]CredentialModel, len(c.Credentials))
	for i := range c.Credentials {
		m.Credentials[i].FromDomain(c.TenantID, c.ID, &c.Credentials[i])
	}
}

// CompanyModelFromDomain creates a new persistence model from a domain Company.
func CompanyModelFromDomain(c *partner.Company) *CompanyModel {
	m := &CompanyModel{}
	m.FromDomain(c)
	return m
}

// CredentialModel is the persistence model for a company portal credential.
// TenantID is stored so usernames can be checked across the tenant.
type CredentialModel struct {
	ID                   uuid.UUID              `gorm:"type:uuid;primaryKey"`
	TenantID             uuid.UUID              `gorm:"type:uuid;not null;index"`
	CompanyID            uuid.UUID              `gorm:"type:uuid;not null;index"`
	Username             string                 `gorm:"type:varchar(50);not null;index"`
	Email                string                 `gorm:"type:varchar(200)"`
	Role                 partner.CredentialRole `gorm:"type:varchar(20);not null;default:'viewer'"`
	PasswordHash         string                 `gorm:"type:varchar(255);not null"`
	Active               bool                   `gorm:"not null"`
	LastPasswordChangeAt time.Time              `gorm:"not null"`
	CreatedAt            time.Time              `gorm:"not null"`
}

// TableName returns the table name for GORM
func (CredentialModel) TableName() string {
	return "company_credentials"
}

// ToDomain converts the persistence model to a domain Credential.
func (m *CredentialModel) ToDomain() partner.Credential {
	return partner.Credential{
		ID:                   m.ID,
		Username:             m.Username,
		Email:                m.Email,
		Role:                 m.Role,
		PasswordHash:         m.PasswordHash,
		Active:               m.Active,
		LastPasswordChangeAt: m.LastPasswordChangeAt,
		CreatedAt:            m.CreatedAt,
	}
}

// FromDomain populates the persistence model from a domain Credential.
func (m *CredentialModel) FromDomain(tenantID, companyID uuid.UUID, c *partner.Credential) {
	m.ID = c.ID
	m.TenantID = tenantID
	m.CompanyID = companyID
	m.Username = c.Username
	m.Email = c.Email
	m.Role = c.Role
	m.PasswordHash = c.PasswordHash
	m.Active = c.Active
	m.LastPasswordChangeAt = c.LastPasswordChangeAt
	m.CreatedAt = c.CreatedAt
}

// WalletTransactionModel is the persistence model for a wallet ledger entry.
// Rows are insert-only.
type WalletTransactionModel struct {
	ID            uuid.UUID                     `gorm:"type:uuid;primaryKey"`
	TenantID      uuid.UUID                     `gorm:"type:uuid;not null;index"`
	CompanyID     uuid.UUID                     `gorm:"type:uuid;not null;index"`
	Type          partner.WalletTransactionType `gorm:"type:varchar(10);not null"`
	Amount        decimal.Decimal               `gorm:"type:decimal(18,2);not null"`
	BalanceBefore decimal.Decimal               `gorm:"type:decimal(18,2);not null"`
	BalanceAfter  decimal.Decimal               `gorm:"type:decimal(18,2);not null"`
	Description   string                        `gorm:"type:varchar(500)"`
	Reference     string                        `gorm:"type:varchar(100)"`
	SourceType    partner.WalletSourceType      `gorm:"type:varchar(20);not null;default:'MANUAL'"`
	SourceID      *uuid.UUID                    `gorm:"type:uuid;index"`
	OperatorID    *uuid.UUID                    `gorm:"type:uuid"`
	CreatedAt     time.Time                     `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (WalletTransactionModel) TableName() string {
	return "wallet_transactions"
}

// ToDomain converts the persistence model to a domain WalletTransaction.
func (m *WalletTransactionModel) ToDomain() *partner.WalletTransaction {
	return &partner.WalletTransaction{
		ID:            m.ID,
		TenantID:      m.TenantID,
		CompanyID:     m.CompanyID,
		Type:          m.Type,
		Amount:        m.Amount,
		BalanceBefore: m.BalanceBefore,
		BalanceAfter:  m.BalanceAfter,
		Description:   m.Description,
		Reference:     m.Reference,
		SourceType:    m.SourceType,
		SourceID:      m.SourceID,
		OperatorID:    m.OperatorID,
		CreatedAt:     m.CreatedAt,
	}
}

// WalletTransactionModelFromDomain creates a persistence model from a domain WalletTransaction.
func WalletTransactionModelFromDomain(t *partner.WalletTransaction) *WalletTransactionModel {
	return &WalletTransactionModel{
		ID:            t.ID,
		TenantID:      t.TenantID,
		CompanyID:     t.CompanyID,
		Type:          t.Type,
		Amount:        t.Amount,
		BalanceBefore: t.BalanceBefore,
		BalanceAfter:  t.BalanceAfter,
		Description:   t.Description,
		Reference:     t.Reference,
		SourceType:    t.SourceType,
		SourceID:      t.SourceID,
		OperatorID:    t.OperatorID,
		CreatedAt:     t.CreatedAt,
	}
}
