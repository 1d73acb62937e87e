package billing

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/servicehub/admin/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// InvoiceStatus represents the status of an invoice
type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "draft"
	InvoiceStatusIssued    InvoiceStatus = "issued"
	InvoiceStatusPaid      InvoiceStatus = "paid"
	InvoiceStatusCancelled InvoiceStatus = "cancelled"
)

// IsValid reports whether the status is known
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusIssued, InvoiceStatusPaid, InvoiceStatusCancelled:
		return true
	}
	return false
}

// PaymentMethod records how an invoice was settled
type PaymentMethod string

const (
	PaymentMethodExternal PaymentMethod = "external"
	PaymentMethodWallet   PaymentMethod = "wallet"
)

var hundred = decimal.NewFromInt(100)

// InvoiceItem is a billed line
type InvoiceItem struct {
	ID          uuid.UUID
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	Amount      decimal.Decimal
	SortOrder   int
}

// Invoice bills a company for delivered services
type Invoice struct {
	shared.TenantAggregateRoot
	Number        string
	CompanyID     uuid.UUID
	ProjectID     *uuid.UUID
	Items         []InvoiceItem
	TaxRate       decimal.Decimal // percentage, 15 means 15%
	Subtotal      decimal.Decimal
	TaxAmount     decimal.Decimal
	Total         decimal.Decimal
	Status        InvoiceStatus
	IssueDate     *time.Time
	DueDate       time.Time
	PaidAt        *time.Time
	PaymentMethod PaymentMethod
	CancelReason  string
	Notes         string
}

// FormatInvoiceNumber renders INV-YYYYMM-NNNN
func FormatInvoiceNumber(period time.Time, seq int) string {
	return fmt.Sprintf("INV-%s-%04d", period.Format("200601"), seq)
}

// NewInvoice creates an empty draft
func NewInvoice(tenantID uuid.UUID, number string, companyID uuid.UUID, taxRate decimal.Decimal, dueDate time.Time) (*Invoice, error) {
	if strings.TrimSpace(number) == "" {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Invoice number cannot be empty")
	}
	if companyID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_COMPANY", "Invoice must be billed to a company")
	}
	if err := validateTaxRate(taxRate); err != nil {
		return nil, err
	}
	if dueDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_DUE_DATE", "Due date is required")
	}

	inv := &Invoice{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Number:              number,
		CompanyID:           companyID,
		TaxRate:             taxRate,
		Subtotal:            decimal.Zero,
		TaxAmount:           decimal.Zero,
		Total:               decimal.Zero,
		Status:              InvoiceStatusDraft,
		DueDate:             dueDate,
		Items:               make([]InvoiceItem, 0),
	}

	inv.AddDomainEvent(NewInvoiceCreatedEvent(inv))

	return inv, nil
}

// SetProject links the invoice to the project it bills
func (i *Invoice) SetProject(projectID *uuid.UUID) error {
	if err := i.ensureDraft(); err != nil {
		return err
	}
	i.ProjectID = projectID
	i.IncrementVersion()
	return nil
}

// UpdateTerms changes tax rate, due date and notes of a draft
func (i *Invoice) UpdateTerms(taxRate decimal.Decimal, dueDate time.Time, notes string) error {
	if err := i.ensureDraft(); err != nil {
		return err
	}
	if err := validateTaxRate(taxRate); err != nil {
		return err
	}
	if dueDate.IsZero() {
		return shared.NewDomainError("INVALID_DUE_DATE", "Due date is required")
	}
	i.TaxRate = taxRate
	i.DueDate = dueDate
	i.Notes = notes
	i.recalculate()
	i.IncrementVersion()
	return nil
}

// AddItem appends a line to a draft
func (i *Invoice) AddItem(description string, quantity, unitPrice decimal.Decimal) (*InvoiceItem, error) {
	if err := i.ensureDraft(); err != nil {
		return nil, err
	}
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, shared.NewDomainError("INVALID_ITEM", "Item description cannot be empty")
	}
	if !quantity.IsPositive() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be greater than zero")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	i.Items = append(i.Items, InvoiceItem{
		ID:          uuid.New(),
		Description: description,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		Amount:      quantity.Mul(unitPrice).Round(2),
		SortOrder:   len(i.Items),
	})
	i.recalculate()
	i.IncrementVersion()
	return &i.Items[len(i.Items)-1], nil
}

// RemoveItem deletes a line from a draft
func (i *Invoice) RemoveItem(itemID uuid.UUID) error {
	if err := i.ensureDraft(); err != nil {
		return err
	}
	for idx := range i.Items {
		if i.Items[idx].ID == itemID {
			i.Items = append(i.Items[:idx], i.Items[idx+1:]...)
			for j := range i.Items {
				i.Items[j].SortOrder = j
			}
			i.recalculate()
			i.IncrementVersion()
			return nil
		}
	}
	return shared.NewDomainError("NOT_FOUND", "Invoice item not found")
}

// ClearItems removes all lines from a draft
func (i *Invoice) ClearItems() error {
	if err := i.ensureDraft(); err != nil {
		return err
	}
	i.Items = make([]InvoiceItem, 0)
	i.recalculate()
	i.IncrementVersion()
	return nil
}

// Issue finalizes a draft. It needs at least one line and a positive total.
func (i *Invoice) Issue(issueDate time.Time) error {
	if err := i.ensureDraft(); err != nil {
		return err
	}
	if len(i.Items) == 0 {
		return shared.NewDomainError("EMPTY_INVOICE", "Cannot issue an invoice without items")
	}
	if !i.Total.IsPositive() {
		return shared.NewDomainError("INVALID_TOTAL", "Cannot issue an invoice with zero total")
	}
	if i.DueDate.Before(truncateDay(issueDate)) {
		return shared.NewDomainError("INVALID_DUE_DATE", "Due date cannot be before the issue date")
	}

	i.IssueDate = &issueDate
	i.transition(InvoiceStatusIssued)
	return nil
}

// MarkPaid settles an issued invoice
func (i *Invoice) MarkPaid(paidAt time.Time, method PaymentMethod) error {
	if i.Status != InvoiceStatusIssued {
		return shared.NewDomainError("INVALID_STATE", "Only issued invoices can be paid")
	}
	if method == "" {
		method = PaymentMethodExternal
	}
	i.PaidAt = &paidAt
	i.PaymentMethod = method
	i.transition(InvoiceStatusPaid)
	return nil
}

// Cancel voids a draft or issued invoice
func (i *Invoice) Cancel(reason string) error {
	if i.Status != InvoiceStatusDraft && i.Status != InvoiceStatusIssued {
		return shared.NewDomainError("INVALID_STATE", "Only draft or issued invoices can be cancelled")
	}
	i.CancelReason = strings.TrimSpace(reason)
	i.transition(InvoiceStatusCancelled)
	return nil
}

// IsOverdue is true for issued invoices past their due date
func (i *Invoice) IsOverdue(now time.Time) bool {
	return i.Status == InvoiceStatusIssued && truncateDay(now).After(truncateDay(i.DueDate))
}

// IsDraft returns true while lines can still change
func (i *Invoice) IsDraft() bool {
	return i.Status == InvoiceStatusDraft
}

func (i *Invoice) transition(to InvoiceStatus) {
	from := i.Status
	i.Status = to
	i.IncrementVersion()
	i.AddDomainEvent(NewInvoiceStatusChangedEvent(i, from, to))
}

func (i *Invoice) recalculate() {
	subtotal := decimal.Zero
	for _, item := range i.Items {
		subtotal = subtotal.Add(item.Amount)
	}
	i.Subtotal = subtotal.Round(2)
	i.TaxAmount = i.Subtotal.Mul(i.TaxRate).Div(hundred).Round(2)
	i.Total = i.Subtotal.Add(i.TaxAmount)
}

func (i *Invoice) ensureDraft() error {
	if i.Status != InvoiceStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Only draft invoices can be modified")
	}
	return nil
}

func validateTaxRate(rate decimal.Decimal) error {
	if rate.IsNegative() || rate.GreaterThan(hundred) {
		return shared.NewDomainError("INVALID_TAX_RATE", "Tax rate must be between 0 and 100")
	}
	return nil
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
