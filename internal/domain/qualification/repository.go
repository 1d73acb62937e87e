package qualification

import (
	"context"

	"github.com/google/uuid"
	"github.com/servicehub/admin/internal/domain/shared"
)

// Repository defines the interface for qualification persistence
type Repository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Qualification, error)
	// FindAllForTenant lists qualifications; filter keys: status, company_id, specialty_id
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Qualification, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	Save(ctx context.Context, q *Qualification) error
	// ExistsOpen reports whether the company already has a non-rejected qualification for the specialty
	ExistsOpen(ctx context.Context, tenantID, companyID, specialtyID uuid.UUID) (bool, error)
}
