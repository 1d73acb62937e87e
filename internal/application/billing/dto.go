package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/servicehub/admin/internal/domain/billing"
	"github.com/shopspring/decimal"
)

// InvoiceItemInput is one billed line in create and update requests
type InvoiceItemInput struct {
	Description string          `json:"description" binding:"required,min=1,max=500"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice   decimal.Decimal `json:"unit_price" binding:"decimal_gte0"`
}

// CreateInvoiceRequest represents a request to draft an invoice
type CreateInvoiceRequest struct {
	CompanyID uuid.UUID          `json:"company_id" binding:"required"`
	ProjectID *uuid.UUID         `json:"project_id"`
	TaxRate   decimal.Decimal    `json:"tax_rate" binding:"decimal_gte0"`
	DueDate   time.Time          `json:"due_date" binding:"required"`
	Notes     string             `json:"notes" binding:"max=2000"`
	Items     []InvoiceItemInput `json:"items" binding:"omitempty,dive"`
	CreatedBy *uuid.UUID         `json:"-"`
}

// UpdateInvoiceRequest is a partial update of a draft. Items, when present, replace all lines.
type UpdateInvoiceRequest struct {
	ProjectID *uuid.UUID          `json:"project_id"`
	TaxRate   *decimal.Decimal    `json:"tax_rate" binding:"omitempty,decimal_gte0"`
	DueDate   *time.Time          `json:"due_date"`
	Notes     *string             `json:"notes" binding:"omitempty,max=2000"`
	Items     *[]InvoiceItemInput `json:"items" binding:"omitempty,dive"`
}

// IssueInvoiceRequest finalizes a draft; the issue date defaults to today
type IssueInvoiceRequest struct {
	IssueDate *time.Time `json:"issue_date"`
}

// PayInvoiceRequest records an external payment; the payment time defaults to now
type PayInvoiceRequest struct {
	PaidAt *time.Time `json:"paid_at"`
}

// CancelInvoiceRequest voids an invoice
type CancelInvoiceRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

// InvoiceListFilter represents filter options for the invoice list
type InvoiceListFilter struct {
	Search    string `form:"search"`
	Status    string `form:"status" binding:"omitempty,oneof=draft issued paid cancelled"`
	CompanyID string `form:"company_id" binding:"omitempty,uuid"`
	ProjectID string `form:"project_id" binding:"omitempty,uuid"`
	Overdue   bool   `form:"overdue"`
	OrderBy   string `form:"order_by" binding:"omitempty,oneof=number due_date total created_at"`
	OrderDir  string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
	Page      int    `form:"page" binding:"min=0"`
	PageSize  int    `form:"page_size" binding:"min=0,max=100"`
}

// InvoiceItemResponse represents an invoice line
type InvoiceItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Amount      decimal.Decimal `json:"amount"`
	SortOrder   int             `json:"sort_order"`
}

// InvoiceResponse represents an invoice in API responses
type InvoiceResponse struct {
	ID            uuid.UUID             `json:"id"`
	TenantID      uuid.UUID             `json:"tenant_id"`
	Number        string                `json:"number"`
	CompanyID     uuid.UUID             `json:"company_id"`
	ProjectID     *uuid.UUID            `json:"project_id,omitempty"`
	Items         []InvoiceItemResponse `json:"items"`
	TaxRate       decimal.Decimal       `json:"tax_rate"`
	Subtotal      decimal.Decimal       `json:"subtotal"`
	TaxAmount     decimal.Decimal       `json:"tax_amount"`
	Total         decimal.Decimal       `json:"total"`
	Status        string                `json:"status"`
	IssueDate     *time.Time            `json:"issue_date,omitempty"`
	DueDate       time.Time             `json:"due_date"`
	PaidAt        *time.Time            `json:"paid_at,omitempty"`
	PaymentMethod string                `json:"payment_method,omitempty"`
	CancelReason  string                `json:"cancel_reason,omitempty"`
	Notes         string                `json:"notes"`
	Overdue       bool                  `json:"overdue"`
	CreatedAt     time.Time             `json:"created_at"`
	UpdatedAt     time.Time             `json:"updated_at"`
	Version       int                   `json:"version"`
}

// InvoiceListResponse represents a list item for invoices
type InvoiceListResponse struct {
	ID        uuid.UUID       `json:"id"`
	Number    string          `json:"number"`
	CompanyID uuid.UUID       `json:"company_id"`
	ProjectID *uuid.UUID      `json:"project_id,omitempty"`
	Total     decimal.Decimal `json:"total"`
	Status    string          `json:"status"`
	IssueDate *time.Time      `json:"issue_date,omitempty"`
	DueDate   time.Time       `json:"due_date"`
	Overdue   bool            `json:"overdue"`
	CreatedAt time.Time       `json:"created_at"`
}

// ToInvoiceResponse converts a domain Invoice to InvoiceResponse
func ToInvoiceResponse(inv *billing.Invoice, now time.Time) InvoiceResponse {
	items := make([]InvoiceItemResponse, len(inv.Items))
	for i, item := range inv.Items {
		items[i] = InvoiceItemResponse{
			ID:          item.ID,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Amount:      item.Amount,
			SortOrder:   item.SortOrder,
		}
	}
	return InvoiceResponse{
		ID:            inv.ID,
		TenantID:      inv.TenantID,
		Number:        inv.Number,
		CompanyID:     inv.CompanyID,
		ProjectID:     inv.ProjectID,
		Items:         items,
		TaxRate:       inv.TaxRate,
		Subtotal:      inv.Subtotal,
		TaxAmount:     inv.TaxAmount,
		Total:         inv.Total,
		Status:        string(inv.Status),
		IssueDate:     inv.IssueDate,
		DueDate:       inv.DueDate,
		PaidAt:        inv.PaidAt,
		PaymentMethod: string(inv.PaymentMethod),
		CancelReason:  inv.CancelReason,
		Notes:         inv.Notes,
		Overdue:       inv.IsOverdue(now),
		CreatedAt:     inv.CreatedAt,
		UpdatedAt:     inv.UpdatedAt,
		Version:       inv.Version,
	}
}

// ToInvoiceListResponse converts a domain Invoice to InvoiceListResponse
func ToInvoiceListResponse(inv *billing.Invoice, now time.Time) InvoiceListResponse {
	return InvoiceListResponse{
		ID:        inv.ID,
		Number:    inv.Number,
		CompanyID: inv.CompanyID,
		ProjectID: inv.ProjectID,
		Total:     inv.Total,
		Status:    string(inv.Status),
		IssueDate: inv.IssueDate,
		DueDate:   inv.DueDate,
		Overdue:   inv.IsOverdue(now),
		CreatedAt: inv.CreatedAt,
	}
}
