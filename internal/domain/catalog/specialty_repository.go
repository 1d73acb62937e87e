package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/servicehub/admin/internal/domain/shared"
)

// SpecialtyRepository defines the interface for specialty persistence
type SpecialtyRepository interface {
	// FindByIDForTenant finds a specialty by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Specialty, error)

	// FindByIDs loads several specialties at once, silently skipping unknown IDs
	FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]Specialty, error)

	// FindAllForTenant lists specialties; filter keys: status
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Specialty, error)

	// CountForTenant counts specialties matching the filter
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)

	// Save creates or updates a specialty
	Save(ctx context.Context, specialty *Specialty) error

	// DeleteForTenant deletes a specialty within a tenant
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error

	// ExistsByCode checks if the code is already taken in the tenant
	ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error)
}
