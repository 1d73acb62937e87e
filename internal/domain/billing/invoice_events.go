package billing

import (
	"github.com/google/uuid"
	"github.com/servicehub/admin/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// AggregateTypeInvoice names the invoice aggregate in events
const AggregateTypeInvoice = "Invoice"

const (
	EventTypeInvoiceCreated       = "InvoiceCreated"
	EventTypeInvoiceStatusChanged = "InvoiceStatusChanged"
)

// InvoiceCreatedEvent is published when a draft is opened
type InvoiceCreatedEvent struct {
	shared.BaseDomainEvent
	InvoiceID uuid.UUID `json:"invoice_id"`
	Number    string    `json:"number"`
	CompanyID uuid.UUID `json:"company_id"`
}

// NewInvoiceCreatedEvent creates a new InvoiceCreatedEvent
func NewInvoiceCreatedEvent(i *Invoice) *InvoiceCreatedEvent {
	return &InvoiceCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceCreated, AggregateTypeInvoice, i.ID, i.TenantID),
		InvoiceID:       i.ID,
		Number:          i.Number,
		CompanyID:       i.CompanyID,
	}
}

// InvoiceStatusChangedEvent is published when an invoice is issued, paid or cancelled
type InvoiceStatusChangedEvent struct {
	shared.BaseDomainEvent
	InvoiceID uuid.UUID       `json:"invoice_id"`
	Number    string          `json:"number"`
	OldStatus InvoiceStatus   `json:"old_status"`
	NewStatus InvoiceStatus   `json:"new_status"`
	Total     decimal.Decimal `json:"total"`
}

// NewInvoiceStatusChangedEvent creates a new InvoiceStatusChangedEvent
func NewInvoiceStatusChangedEvent(i *Invoice, from, to InvoiceStatus) *InvoiceStatusChangedEvent {
	return &InvoiceStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceStatusChanged, AggregateTypeInvoice, i.ID, i.TenantID),
		InvoiceID:       i.ID,
		Number:          i.Number,
		OldStatus:       from,
		NewStatus:       to,
		Total:           i.Total,
	}
}
