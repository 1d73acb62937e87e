package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/servicehub/admin/internal/domain/billing"
	"github.com/shopspring/decimal"
)

// InvoiceModel is the persistence model for the Invoice aggregate root.
type InvoiceModel struct {
	TenantAggregateModel
	Number        string                `gorm:"type:varchar(20);not null;index"`
	CompanyID     uuid.UUID             `gorm:"type:uuid;not null;index"`
	ProjectID     *uuid.UUID            `gorm:"type:uuid;index"`
	TaxRate       decimal.Decimal       `gorm:"type:decimal(5,2);not null;default:0"`
	Subtotal      decimal.Decimal       `gorm:"type:decimal(18,2);not null;default:0"`
	TaxAmount     decimal.Decimal       `gorm:"type:decimal(18,2);not null;default:0"`
	Total         decimal.Decimal       `gorm:"type:decimal(18,2);not null;default:0"`
	Status        billing.InvoiceStatus `gorm:"type:varchar(20);not null;default:'draft';index"`
	IssueDate     *time.Time
	DueDate       time.Time `gorm:"not null;index"`
	PaidAt        *time.Time
	PaymentMethod billing.PaymentMethod `gorm:"type:varchar(20)"`
	CancelReason  string                `gorm:"type:varchar(500)"`
	Notes         string                `gorm:"type:text"`
	Items         []InvoiceItemModel    `gorm:"foreignKey:InvoiceID"`
}

// TableName returns the table name for GORM
func (InvoiceModel) TableName() string {
	return "invoices"
}

// ToDomain converts the persistence model to a domain Invoice with its items.
func (m *InvoiceModel) ToDomain() *billing.Invoice {
	inv := &billing.Invoice{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		Number:              m.Number,
		CompanyID:           m.CompanyID,
		ProjectID:           m.ProjectID,
		TaxRate:             m.TaxRate,
		Subtotal:            m.Subtotal,
		TaxAmount:           m.TaxAmount,
		Total:               m.Total,
		Status:              m.Status,
		IssueDate:           m.IssueDate,
		DueDate:             m.DueDate,
		PaidAt:              m.PaidAt,
		PaymentMethod:       m.PaymentMethod,
		CancelReason:        m.CancelReason,
		Notes:               m.Notes,
		Items:               make([]billing.InvoiceItem, len(m.Items)),
	}
	for i, it := range m.Items {
		inv.Items[i] = billing.InvoiceItem{
			ID:          it.ID,
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Amount:      it.Amount,
			SortOrder:   it.SortOrder,
		}
	}
	return inv
}

// FromDomain populates the persistence model from a domain Invoice.
func (m *InvoiceModel) FromDomain(inv *billing.Invoice) {
	m.FromDomainTenantAggregateRoot(inv.TenantAggregateRoot)
	m.Number = inv.Number
	m.CompanyID = inv.CompanyID
	m.ProjectID = inv.ProjectID
	m.TaxRate = inv.TaxRate
	m.Subtotal = inv.Subtotal
	m.TaxAmount = inv.TaxAmount
	m.Total = inv.Total
	m.Status = inv.Status
	m.IssueDate = inv.IssueDate
	m.DueDate = inv.DueDate
	m.PaidAt = inv.PaidAt
	m.PaymentMethod = inv.PaymentMethod
	m.CancelReason = inv.CancelReason
	m.Notes = inv.Notes
	m.Items = make([]InvoiceItemModel, len(inv.Items))
	for i, it := range inv.Items {
		m.Items[i] = InvoiceItemModel{
			ID:          it.ID,
			InvoiceID:   inv.ID,
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Amount:      it.Amount,
			SortOrder:   it.SortOrder,
		}
	}
}

// InvoiceModelFromDomain creates a new persistence model from a domain Invoice.
func InvoiceModelFromDomain(inv *billing.Invoice) *InvoiceModel {
	m := &InvoiceModel{}
	m.FromDomain(inv)
	return m
}

// InvoiceItemModel is the persistence model for an invoice line.
type InvoiceItemModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	InvoiceID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Description string          `gorm:"type:varchar(500);not null"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	SortOrder   int             `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (InvoiceItemModel) TableName() string {
	return "invoice_items"
}
