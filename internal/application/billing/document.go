package billing

import (
	"context"
	"time"

	"github.com/servicehub/admin/internal/domain/shared"
)

// ErrPrintingDisabled is returned when no printer is configured
var ErrPrintingDisabled = shared.NewDomainError("PRINTING_DISABLED", "Invoice printing is not enabled")

// InvoiceDocument is everything a printed invoice shows
type InvoiceDocument struct {
	Issuer      string
	Invoice     InvoiceResponse
	Company     DocumentCompany
	Project     *DocumentProject
	GeneratedAt time.Time
}

// DocumentCompany is the billed party as printed on the invoice
type DocumentCompany struct {
	Name      string
	TradeName string
	Document  string
	Email     string
	Phone     string
	Address   string
}

// DocumentProject identifies the billed project
type DocumentProject struct {
	Code string
	Name string
}

// InvoicePrinter renders invoice documents
type InvoicePrinter interface {
	RenderHTML(ctx context.Context, doc *InvoiceDocument) ([]byte, error)
	RenderPDF(ctx context.Context, doc *InvoiceDocument) ([]byte, error)
}
