package partner

import (
	"github.com/google/uuid"
	"github.com/servicehub/admin/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// AggregateTypeCompany names the company aggregate in events
const AggregateTypeCompany = "Company"

const (
	EventTypeCompanyCreated       = "CompanyCreated"
	EventTypeCompanyUpdated       = "CompanyUpdated"
	EventTypeCompanyStatusChanged = "CompanyStatusChanged"
	EventTypeWalletBalanceChanged = "WalletBalanceChanged"
	EventTypeCredentialChanged    = "CredentialChanged"
)

// CompanyCreatedEvent is published when a company is registered
type CompanyCreatedEvent struct {
	shared.BaseDomainEvent
	CompanyID uuid.UUID   `json:"company_id"`
	Name      string      `json:"name"`
	Type      CompanyType `json:"type"`
}

// NewCompanyCreatedEvent creates a new CompanyCreatedEvent
func NewCompanyCreatedEvent(c *Company) *CompanyCreatedEvent {
	return &CompanyCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCompanyCreated, AggregateTypeCompany, c.ID, c.TenantID),
		CompanyID:       c.ID,
		Name:            c.Name,
		Type:            c.Type,
	}
}

// CompanyUpdatedEvent is published when the profile changes
type CompanyUpdatedEvent struct {
	shared.BaseDomainEvent
	CompanyID uuid.UUID `json:"company_id"`
	Name      string    `json:"name"`
}

// NewCompanyUpdatedEvent creates a new CompanyUpdatedEvent
func NewCompanyUpdatedEvent(c *Company) *CompanyUpdatedEvent {
	return &CompanyUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCompanyUpdated, AggregateTypeCompany, c.ID, c.TenantID),
		CompanyID:       c.ID,
		Name:            c.Name,
	}
}

// CompanyStatusChangedEvent is published on activation, deactivation and blocking
type CompanyStatusChangedEvent struct {
	shared.BaseDomainEvent
	CompanyID uuid.UUID     `json:"company_id"`
	OldStatus CompanyStatus `json:"old_status"`
	NewStatus CompanyStatus `json:"new_status"`
}

// NewCompanyStatusChangedEvent creates a new CompanyStatusChangedEvent
func NewCompanyStatusChangedEvent(c *Company, from, to CompanyStatus) *CompanyStatusChangedEvent {
	return &CompanyStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCompanyStatusChanged, AggregateTypeCompany, c.ID, c.TenantID),
		CompanyID:       c.ID,
		OldStatus:       from,
		NewStatus:       to,
	}
}

// WalletBalanceChangedEvent is published for every wallet movement
type WalletBalanceChangedEvent struct {
	shared.BaseDomainEvent
	CompanyID     uuid.UUID             `json:"company_id"`
	TransactionID uuid.UUID             `json:"transaction_id"`
	Type          WalletTransactionType `json:"type"`
	Amount        decimal.Decimal       `json:"amount"`
	BalanceAfter  decimal.Decimal       `json:"balance_after"`
}

// NewWalletBalanceChangedEvent creates a new WalletBalanceChangedEvent
func NewWalletBalanceChangedEvent(c *Company, tx *WalletTransaction) *WalletBalanceChangedEvent {
	return &WalletBalanceChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeWalletBalanceChanged, AggregateTypeCompany, c.ID, c.TenantID),
		CompanyID:       c.ID,
		TransactionID:   tx.ID,
		Type:            tx.Type,
		Amount:          tx.Amount,
		BalanceAfter:    tx.BalanceAfter,
	}
}

// CredentialChangedEvent is published when a portal credential is created, reset, toggled or removed
type CredentialChangedEvent struct {
	shared.BaseDomainEvent
	CompanyID    uuid.UUID `json:"company_id"`
	CredentialID uuid.UUID `json:"credential_id"`
	Username     string    `json:"username"`
	Action       string    `json:"action"`
}

// NewCredentialChangedEvent creates a new CredentialChangedEvent
func NewCredentialChangedEvent(c *Company, cred *Credential, action string) *CredentialChangedEvent {
	return &CredentialChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCredentialChanged, AggregateTypeCompany, c.ID, c.TenantID),
		CompanyID:       c.ID,
		CredentialID:    cred.ID,
		Username:        cred.Username,
		Action:          action,
	}
}
