package persistence

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/servicehub/admin/internal/domain/partner"
	"github.com/servicehub/admin/internal/domain/shared"
	"github.com/servicehub/admin/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCompanyRepository implements partner.CompanyRepository using GORM
type GormCompanyRepository struct {
	db *gorm.DB
}

// NewGormCompanyRepository creates a new GormCompanyRepository
func NewGormCompanyRepository(db *gorm.DB) *GormCompanyRepository {
	return &GormCompanyRepository{db: db}
}

// FindByIDForTenant finds a company by ID within a tenant, with credentials
func (r *GormCompanyRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*partner.Company, error) {
	var model models.CompanyModel
	if err := r.db.WithContext(ctx).
		Preload("Credentials", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		return nil, notFoundOr(err)
	}
	return model.ToDomain(), nil
}

// FindAllForTenant lists companies. Credentials are not loaded.
func (r *GormCompanyRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]partner.Company, error) {
	var rows []models.CompanyModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.CompanyModel{}).Where("tenant_id = ?", tenantID), filter)
	query = paginate(query, filter).Order(companySort.orderBy(filter, "name"))

	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]partner.Company, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// CountForTenant counts companies matching the filter
func (r *GormCompanyRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.CompanyModel{}).Where("tenant_id = ?", tenantID), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a company and its credentials
func (r *GormCompanyRepository) Save(ctx context.Context, company *partner.Company) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return saveCompany(tx, company)
	})
}

// SaveWithTransaction writes the new balance and the ledger entry atomically.
// The balance update only applies while the stored balance still equals tx.BalanceBefore.
func (r *GormCompanyRepository) SaveWithTransaction(ctx context.Context, company *partner.Company, wt *partner.WalletTransaction) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return applyWalletTransaction(tx, company, wt)
	})
}

// DeleteForTenant deletes a company and its credentials
func (r *GormCompanyRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("tenant_id = ? AND id = ?", tenantID, id).Delete(&models.CompanyModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return tx.Where("company_id = ?", id).Delete(&models.CredentialModel{}).Error
	})
}

// ExistsByDocument checks if the document is already registered in the tenant
func (r *GormCompanyRepository) ExistsByDocument(ctx context.Context, tenantID uuid.UUID, document string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.CompanyModel{}).
		Where("tenant_id = ? AND document = ?", tenantID, document).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ExistsByUsername checks if a credential username is taken anywhere in the tenant
func (r *GormCompanyRepository) ExistsByUsername(ctx context.Context, tenantID uuid.UUID, username string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.CredentialModel{}).
		Where("tenant_id = ? AND LOWER(username) = ?", tenantID, strings.ToLower(strings.TrimSpace(username))).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormCompanyRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where(
			`LOWER(name) LIKE ? ESCAPE '\' OR LOWER(trade_name) LIKE ? ESCAPE '\' OR document LIKE ? ESCAPE '\'`,
			pattern, pattern, pattern,
		)
	}
	for key, value := range filter.Filters {
		s, ok := stringFilter(value)
		if !ok {
			continue
		}
		switch key {
		case "type":
			query = query.Where("type = ?", s)
		case "status":
			query = query.Where("status = ?", s)
		}
	}
	return query
}

// saveCompany writes the company row and syncs its credentials inside tx
func saveCompany(tx *gorm.DB, company *partner.Company) error {
	model := models.CompanyModelFromDomain(company)
	if err := tx.Omit(clause.Associations).Save(model).Error; err != nil {
		return err
	}

	keep := make([]uuid.UUID, len(model.Credentials))
	for i := range model.Credentials {
		keep[i] = model.Credentials[i].ID
	}
	if err := pruneChildren(tx, &models.CredentialModel{}, "company_id", model.ID, keep); err != nil {
		return err
	}
	for i := range model.Credentials {
		if err := tx.Save(&model.Credentials[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

// applyWalletTransaction moves the stored balance with a compare-and-swap and appends the ledger row
func applyWalletTransaction(tx *gorm.DB, company *partner.Company, wt *partner.WalletTransaction) error {
	result := tx.Model(&models.CompanyModel{}).
		Where("tenant_id = ? AND id = ? AND balance = ?", company.TenantID, company.ID, wt.BalanceBefore).
		Updates(map[string]interface{}{
			"balance":    company.Balance,
			"version":    company.Version,
			"updated_at": company.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return tx.Create(models.WalletTransactionModelFromDomain(wt)).Error
}

// Ensure GormCompanyRepository implements CompanyRepository
var _ partner.CompanyRepository = (*GormCompanyRepository)(nil)
