package persistence

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/servicehub/admin/internal/domain/project"
	"github.com/servicehub/admin/internal/domain/shared"
	"github.com/servicehub/admin/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormProjectRepository implements project.ProjectRepository using GORM
type GormProjectRepository struct {
	db *gorm.DB
}

// NewGormProjectRepository creates a new GormProjectRepository
func NewGormProjectRepository(db *gorm.DB) *GormProjectRepository {
	return &GormProjectRepository{db: db}
}

func (r *GormProjectRepository) withTasks(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Tasks", func(db *gorm.DB) *gorm.DB {
		return db.Order("sort_order ASC")
	})
}

// FindByIDForTenant finds a project by ID within a tenant
func (r *GormProjectRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*project.Project, error) {
	var model models.ProjectModel
	if err := r.withTasks(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		return nil, notFoundOr(err)
	}
	return model.ToDomain(), nil
}

// FindAllForTenant lists projects with their tasks
func (r *GormProjectRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]project.Project, error) {
	var rows []models.ProjectModel
	query := r.applyFilter(r.withTasks(ctx).Model(&models.ProjectModel{}).Where("tenant_id = ?", tenantID), filter)
	query = paginate(query, filter).Order(projectSort.orderBy(filter, "created_at"))

	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]project.Project, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// CountForTenant counts projects matching the filter
func (r *GormProjectRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.ProjectModel{}).Where("tenant_id = ?", tenantID), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a project and its tasks
func (r *GormProjectRepository) Save(ctx context.Context, p *project.Project) error {
	model := models.ProjectModelFromDomain(p)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(model).Error; err != nil {
			return err
		}
		keep := make([]uuid.UUID, len(model.Tasks))
		for i := range model.Tasks {
			keep[i] = model.Tasks[i].ID
		}
		if err := pruneChildren(tx, &models.ProjectTaskModel{}, "project_id", model.ID, keep); err != nil {
			return err
		}
		for i := range model.Tasks {
			if err := tx.Save(&model.Tasks[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// DeleteForTenant deletes a project and its tasks
func (r *GormProjectRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("tenant_id = ? AND id = ?", tenantID, id).Delete(&models.ProjectModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return tx.Where("project_id = ?", id).Delete(&models.ProjectTaskModel{}).Error
	})
}

// ExistsByCode checks if a project with the given code exists in the tenant
func (r *GormProjectRepository) ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.ProjectModel{}).
		Where("tenant_id = ? AND code = ?", tenantID, strings.ToUpper(strings.TrimSpace(code))).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormProjectRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where(`LOWER(name) LIKE ? ESCAPE '\' OR LOWER(code) LIKE ? ESCAPE '\'`, pattern, pattern)
	}
	for key, value := range filter.Filters {
		s, ok := stringFilter(value)
		if !ok {
			continue
		}
		switch key {
		case "status":
			query = query.Where("status = ?", s)
		case "company_id":
			query = query.Where("company_id = ?", s)
		case "product_id":
			query = query.Where("product_id = ?", s)
		}
	}
	return query
}

// Ensure GormProjectRepository implements ProjectRepository
var _ project.ProjectRepository = (*GormProjectRepository)(nil)
