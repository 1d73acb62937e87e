package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/servicehub/admin/internal/domain/qualification"
	"github.com/servicehub/admin/internal/domain/shared"
	"github.com/servicehub/admin/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormQualificationRepository implements qualification.Repository using GORM
type GormQualificationRepository struct {
	db *gorm.DB
}

// NewGormQualificationRepository creates a new GormQualificationRepository
func NewGormQualificationRepository(db *gorm.DB) *GormQualificationRepository {
	return &GormQualificationRepository{db: db}
}

func (r *GormQualificationRepository) withChildren(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Checklist", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC") }).
		Preload("Submissions", func(db *gorm.DB) *gorm.DB { return db.Order("submitted_at ASC") })
}

// FindByIDForTenant finds a qualification by ID within a tenant
func (r *GormQualificationRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*qualification.Qualification, error) {
	var model models.QualificationModel
	if err := r.withChildren(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		return nil, notFoundOr(err)
	}
	return model.ToDomain(), nil
}

// FindAllForTenant lists qualifications with checklist and submissions
func (r *GormQualificationRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]qualification.Qualification, error) {
	var rows []models.QualificationModel
	query := r.applyFilter(r.withChildren(ctx).Model(&models.QualificationModel{}).Where("tenant_id = ?", tenantID), filter)
	query = paginate(query, filter).Order(qualificationSort.orderBy(filter, "created_at"))

	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]qualification.Qualification, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// CountForTenant counts qualifications matching the filter
func (r *GormQualificationRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.QualificationModel{}).Where("tenant_id = ?", tenantID), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a qualification with its checklist and submissions
func (r *GormQualificationRepository) Save(ctx context.Context, q *qualification.Qualification) error {
	model := models.QualificationModelFromDomain(q)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(model).Error; err != nil {
			return err
		}

		checklistIDs := make([]uuid.UUID, len(model.Checklist))
		for i := range model.Checklist {
			checklistIDs[i] = model.Checklist[i].ID
		}
		if err := pruneChildren(tx, &models.ChecklistItemModel{}, "qualification_id", model.ID, checklistIDs); err != nil {
			return err
		}
		submissionIDs := make([]uuid.UUID, len(model.Submissions))
		for i := range model.Submissions {
			submissionIDs[i] = model.Submissions[i].ID
		}
		if err := pruneChildren(tx, &models.SubmissionModel{}, "qualification_id", model.ID, submissionIDs); err != nil {
			return err
		}

		for i := range model.Checklist {
			if err := tx.Save(&model.Checklist[i]).Error; err != nil {
				return err
			}
		}
		for i := range model.Submissions {
			if err := tx.Save(&model.Submissions[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// ExistsOpen reports whether the company already has a non-rejected qualification for the specialty
func (r *GormQualificationRepository) ExistsOpen(ctx context.Context, tenantID, companyID, specialtyID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.QualificationModel{}).
		Where("tenant_id = ? AND company_id = ? AND specialty_id = ? AND status <> ?",
			tenantID, companyID, specialtyID, qualification.StatusRejected).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormQualificationRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
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
		case "specialty_id":
			query = query.Where("specialty_id = ?", s)
		}
	}
	return query
}

// Ensure GormQualificationRepository implements qualification.Repository
var _ qualification.Repository = (*GormQualificationRepository)(nil)
