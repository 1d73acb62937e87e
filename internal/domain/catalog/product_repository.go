package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/servicehub/admin/internal/domain/shared"
)

// ProductFacets lists the distinct classification values in use
type ProductFacets struct {
	Categories []string
	Areas      []string
}

// ProductRepository defines the interface for product persistence.
// Loaded products always include tasks, steps and questions.
type ProductRepository interface {
	// FindByIDForTenant finds a product by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Product, error)

	// FindByCode finds a product by its code within a tenant
	FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*Product, error)

	// FindAllForTenant lists products. The filter is built by ProductQuery.Filter.
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Product, error)

	// CountForTenant counts products matching the filter, ignoring paging
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)

	// FindBySpecialty returns products whose tasks or steps reference the specialty
	FindBySpecialty(ctx context.Context, tenantID, specialtyID uuid.UUID) ([]Product, error)

	// Facets returns the distinct categories and areas of the tenant's products
	Facets(ctx context.Context, tenantID uuid.UUID) (*ProductFacets, error)

	// Save creates or updates a product together with its children
	Save(ctx context.Context, product *Product) error

	// DeleteForTenant deletes a product and its children
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error

	// ExistsByCode checks if a product with the given code exists in the tenant
	ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error)
}
