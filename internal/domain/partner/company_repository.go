package partner

import (
	"context"

	"github.com/google/uuid"
	"github.com/servicehub/admin/internal/domain/shared"
)

// CompanyRepository defines the interface for company persistence.
// Loaded companies include their credentials.
type CompanyRepository interface {
	// FindByIDForTenant finds a company by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Company, error)

	// FindAllForTenant lists companies; filter keys: type, status
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Company, error)

	// CountForTenant counts companies matching the filter
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)

	// Save creates or updates a company and its credentials
	Save(ctx context.Context, company *Company) error

	// SaveWithTransaction saves the company and appends a wallet ledger entry atomically
	SaveWithTransaction(ctx context.Context, company *Company, tx *WalletTransaction) error

	// DeleteForTenant deletes a company
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error

	// ExistsByDocument checks if the document is already registered in the tenant
	ExistsByDocument(ctx context.Context, tenantID uuid.UUID, document string) (bool, error)

	// ExistsByUsername checks if a credential username is taken anywhere in the tenant
	ExistsByUsername(ctx context.Context, tenantID uuid.UUID, username string) (bool, error)
}

// WalletTransactionRepository reads the wallet ledger. Entries are written through CompanyRepository.
type WalletTransactionRepository interface {
	// FindByCompany returns one page of the statement, newest first, plus the total count
	FindByCompany(ctx context.Context, tenantID, companyID uuid.UUID, filter WalletTransactionFilter) ([]WalletTransaction, int64, error)

	// Summarize totals credits and debits for a company
	Summarize(ctx context.Context, tenantID, companyID uuid.UUID) (*WalletSummary, error)

	// ExistsByReference reports whether the tenant ledger has an entry of the
	// given source with this reference
	ExistsByReference(ctx context.Context, tenantID uuid.UUID, source WalletSourceType, reference string) (bool, error)
}
