package persistence

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/servicehub/admin/internal/domain/catalog"
	"github.com/servicehub/admin/internal/domain/shared"
	"github.com/servicehub/admin/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormSpecialtyRepository implements catalog.SpecialtyRepository using GORM
type GormSpecialtyRepository struct {
	db *gorm.DB
}

// NewGormSpecialtyRepository creates a new GormSpecialtyRepository
func NewGormSpecialtyRepository(db *gorm.DB) *GormSpecialtyRepository {
	return &GormSpecialtyRepository{db: db}
}

// FindByIDForTenant finds a specialty by ID within a tenant
func (r *GormSpecialtyRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*catalog.Specialty, error) {
	var model models.SpecialtyModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		return nil, notFoundOr(err)
	}
	return model.ToDomain(), nil
}

// FindByIDs loads several specialties at once
func (r *GormSpecialtyRepository) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]catalog.Specialty, error) {
	if len(ids) == 0 {
		return []catalog.Specialty{}, nil
	}
	var rows []models.SpecialtyModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id IN ?", tenantID, ids).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return specialtiesToDomain(rows), nil
}

// FindByCode finds a specialty by its code within a tenant
func (r *GormSpecialtyRepository) FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*catalog.Specialty, error) {
	var model models.SpecialtyModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND code = ?", tenantID, strings.ToUpper(strings.TrimSpace(code))).
		First(&model).Error; err != nil {
		return nil, notFoundOr(err)
	}
	return model.ToDomain(), nil
}

// FindAllForTenant lists specialties of a tenant
func (r *GormSpecialtyRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]catalog.Specialty, error) {
	var rows []models.SpecialtyModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.SpecialtyModel{}).Where("tenant_id = ?", tenantID), filter)
	query = paginate(query, filter).Order(specialtySort.orderBy(filter, "name"))

	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return specialtiesToDomain(rows), nil
}

// CountForTenant counts specialties matching the filter
func (r *GormSpecialtyRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.SpecialtyModel{}).Where("tenant_id = ?", tenantID), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a specialty
func (r *GormSpecialtyRepository) Save(ctx context.Context, specialty *catalog.Specialty) error {
	return r.db.WithContext(ctx).Save(models.SpecialtyModelFromDomain(specialty)).Error
}

// DeleteForTenant deletes a specialty within a tenant
func (r *GormSpecialtyRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Delete(&models.SpecialtyModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// ExistsByCode checks if the code is already taken in the tenant
func (r *GormSpecialtyRepository) ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.SpecialtyModel{}).
		Where("tenant_id = ? AND code = ?", tenantID, strings.ToUpper(strings.TrimSpace(code))).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormSpecialtyRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where(`LOWER(name) LIKE ? ESCAPE '\' OR LOWER(code) LIKE ? ESCAPE '\'`, pattern, pattern)
	}
	for key, value := range filter.Filters {
		switch key {
		case "status":
			if s, ok := stringFilter(value); ok {
				query = query.Where("status = ?", s)
			}
		}
	}
	return query
}

func specialtiesToDomain(rows []models.SpecialtyModel) []catalog.Specialty {
	out := make([]catalog.Specialty, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out
}

// Ensure GormSpecialtyRepository implements SpecialtyRepository
var _ catalog.SpecialtyRepository = (*GormSpecialtyRepository)(nil)
