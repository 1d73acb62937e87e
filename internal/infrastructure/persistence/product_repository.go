package persistence

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/servicehub/admin/internal/domain/catalog"
	"github.com/servicehub/admin/internal/domain/shared"
	"github.com/servicehub/admin/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormProductRepository implements catalog.ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// withChildren preloads tasks, steps and questions in display order
func (r *GormProductRepository) withChildren(ctx context.Context) *gorm.DB {
	byOrder := func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC") }
	return r.db.WithContext(ctx).
		Preload("Tasks", byOrder).
		Preload("Tasks.Steps", byOrder).
		Preload("Questions", byOrder)
}

// FindByIDForTenant finds a product by ID within a tenant
func (r *GormProductRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*catalog.Product, error) {
	var model models.ProductModel
	if err := r.withChildren(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		return nil, notFoundOr(err)
	}
	return model.ToDomain(), nil
}

// FindByCode finds a product by its code within a tenant
func (r *GormProductRepository) FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*catalog.Product, error) {
	var model models.ProductModel
	if err := r.withChildren(ctx).
		Where("tenant_id = ? AND code = ?", tenantID, strings.ToUpper(strings.TrimSpace(code))).
		First(&model).Error; err != nil {
		return nil, notFoundOr(err)
	}
	return model.ToDomain(), nil
}

// FindAllForTenant lists products. The ordering always ends on code then id so pages are stable.
func (r *GormProductRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]catalog.Product, error) {
	var rows []models.ProductModel
	query := r.applyFilter(r.withChildren(ctx).Model(&models.ProductModel{}).Where("tenant_id = ?", tenantID), filter)
	query = paginate(query, filter).Order(productOrder(filter.OrderBy))

	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return productsToDomain(rows), nil
}

// CountForTenant counts products matching the filter, ignoring paging
func (r *GormProductRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.ProductModel{}).Where("tenant_id = ?", tenantID), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FindBySpecialty returns products whose tasks or steps reference the specialty
func (r *GormProductRepository) FindBySpecialty(ctx context.Context, tenantID, specialtyID uuid.UUID) ([]catalog.Product, error) {
	taskRefs := r.db.Model(&models.ProductTaskModel{}).Select("product_id").Where("specialty_id = ?", specialtyID)
	stepRefs := r.db.Model(&models.TaskStepModel{}).Select("product_id").Where("specialty_id = ?", specialtyID)

	var rows []models.ProductModel
	if err := r.withChildren(ctx).
		Where("tenant_id = ?", tenantID).
		Where("id IN (?) OR id IN (?)", taskRefs, stepRefs).
		Order("code ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return productsToDomain(rows), nil
}

// Facets returns the distinct categories and areas of the tenant's products
func (r *GormProductRepository) Facets(ctx context.Context, tenantID uuid.UUID) (*catalog.ProductFacets, error) {
	facets := &catalog.ProductFacets{Categories: []string{}, Areas: []string{}}

	if err := r.db.WithContext(ctx).Model(&models.ProductModel{}).
		Where("tenant_id = ? AND category <> ''", tenantID).
		Distinct().Order("category ASC").
		Pluck("category", &facets.Categories).Error; err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Model(&models.ProductModel{}).
		Where("tenant_id = ? AND area IS NOT NULL AND area <> ''", tenantID).
		Distinct().Order("area ASC").
		Pluck("area", &facets.Areas).Error; err != nil {
		return nil, err
	}
	return facets, nil
}

// Save creates or updates a product together with its children.
// Children missing from the aggregate are deleted.
func (r *GormProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	model := models.ProductModelFromDomain(product)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(model).Error; err != nil {
			return err
		}

		taskIDs := make([]uuid.UUID, 0, len(model.Tasks))
		stepIDs := make([]uuid.UUID, 0)
		for _, t := range model.Tasks {
			taskIDs = append(taskIDs, t.ID)
			for _, s := range t.Steps {
				stepIDs = append(stepIDs, s.ID)
			}
		}
		questionIDs := make([]uuid.UUID, 0, len(model.Questions))
		for _, q := range model.Questions {
			questionIDs = append(questionIDs, q.ID)
		}

		if err := pruneChildren(tx, &models.TaskStepModel{}, "product_id", model.ID, stepIDs); err != nil {
			return err
		}
		if err := pruneChildren(tx, &models.ProductTaskModel{}, "product_id", model.ID, taskIDs); err != nil {
			return err
		}
		if err := pruneChildren(tx, &models.ProductQuestionModel{}, "product_id", model.ID, questionIDs); err != nil {
			return err
		}

		for i := range model.Tasks {
			task := &model.Tasks[i]
			if err := tx.Omit(clause.Associations).Save(task).Error; err != nil {
				return err
			}
			for j := range task.Steps {
				if err := tx.Save(&task.Steps[j]).Error; err != nil {
					return err
				}
			}
		}
		for i := range model.Questions {
			if err := tx.Save(&model.Questions[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// DeleteForTenant deletes a product and its children
func (r *GormProductRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("tenant_id = ? AND id = ?", tenantID, id).Delete(&models.ProductModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		for _, child := range []interface{}{&models.TaskStepModel{}, &models.ProductTaskModel{}, &models.ProductQuestionModel{}} {
			if err := tx.Where("product_id = ?", id).Delete(child).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// ExistsByCode checks if a product with the given code exists in the tenant
func (r *GormProductRepository) ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.ProductModel{}).
		Where("tenant_id = ? AND code = ?", tenantID, strings.ToUpper(strings.TrimSpace(code))).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormProductRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where(
			`LOWER(name) LIKE ? ESCAPE '\' OR LOWER(code) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\'`,
			pattern, pattern, pattern,
		)
	}
	for key, value := range filter.Filters {
		s, ok := stringFilter(value)
		if !ok {
			continue
		}
		switch key {
		case "category":
			query = query.Where("LOWER(category) = LOWER(?)", s)
		case "area":
			query = query.Where("LOWER(area) = LOWER(?)", s)
		case "status":
			query = query.Where("status = ?", s)
		}
	}
	return query
}

// productOrder mirrors catalog.ProductQuery.Less
func productOrder(orderBy string) string {
	switch catalog.ParseProductSort(orderBy) {
	case catalog.ProductSortPriceAsc:
		return "price ASC, code ASC, id ASC"
	case catalog.ProductSortPriceDesc:
		return "price DESC, code ASC, id ASC"
	case catalog.ProductSortID:
		return "code ASC, id ASC"
	}
	return "LOWER(name) ASC, code ASC, id ASC"
}

func productsToDomain(rows []models.ProductModel) []catalog.Product {
	out := make([]catalog.Product, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out
}

// Ensure GormProductRepository implements ProductRepository
var _ catalog.ProductRepository = (*GormProductRepository)(nil)
