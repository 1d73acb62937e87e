package project

import (
	"context"

	"github.com/google/uuid"
	"github.com/servicehub/admin/internal/domain/shared"
)

// ProjectRepository defines the interface for project persistence
type ProjectRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Project, error)
	// FindAllForTenant lists projects; filter keys: status, company_id
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Project, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	Save(ctx context.Context, project *Project) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
	ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error)
}
