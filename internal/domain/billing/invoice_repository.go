package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/servicehub/admin/internal/domain/partner"
	"github.com/servicehub/admin/internal/domain/shared"
)

// InvoiceRepository defines the interface for invoice persistence
type InvoiceRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Invoice, error)

	// FindAllForTenant lists invoices; filter keys: status, company_id, project_id, overdue
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Invoice, error)

	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)

	// Save creates or updates the invoice and its items
	Save(ctx context.Context, invoice *Invoice) error

	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error

	// NextSequence returns the next invoice sequence for the tenant in the month of period
	NextSequence(ctx context.Context, tenantID uuid.UUID, period time.Time) (int, error)
}

// WalletPaymentRepository settles an invoice from the company wallet.
// The invoice, the company balance and the ledger entry are written in one transaction.
type WalletPaymentRepository interface {
	SavePaidWithWallet(ctx context.Context, invoice *Invoice, company *partner.Company, tx *partner.WalletTransaction) error
}
