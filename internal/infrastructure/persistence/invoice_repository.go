package persistence

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/servicehub/admin/internal/domain/billing"
	"github.com/servicehub/admin/internal/domain/partner"
	"github.com/servicehub/admin/internal/domain/shared"
	"github.com/servicehub/admin/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormInvoiceRepository implements billing.InvoiceRepository and billing.WalletPaymentRepository using GORM
type GormInvoiceRepository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db, now: time.Now}
}

func (r *GormInvoiceRepository) withItems(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("sort_order ASC")
	})
}

// FindByIDForTenant finds an invoice by ID within a tenant
func (r *GormInvoiceRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*billing.Invoice, error) {
	var model models.InvoiceModel
	if err := r.withItems(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		return nil, notFoundOr(err)
	}
	return model.ToDomain(), nil
}

// FindAllForTenant lists invoices with their items
func (r *GormInvoiceRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]billing.Invoice, error) {
	var rows []models.InvoiceModel
	query := r.applyFilter(r.withItems(ctx).Model(&models.InvoiceModel{}).Where("tenant_id = ?", tenantID), filter)
	query = paginate(query, filter).Order(invoiceSort.orderBy(filter, "created_at"))

	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]billing.Invoice, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// CountForTenant counts invoices matching the filter
func (r *GormInvoiceRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.InvoiceModel{}).Where("tenant_id = ?", tenantID), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates the invoice and its items
func (r *GormInvoiceRepository) Save(ctx context.Context, invoice *billing.Invoice) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return saveInvoice(tx, invoice)
	})
}

// SavePaidWithWallet stores the paid invoice, debits the company wallet and appends the ledger entry in one transaction
func (r *GormInvoiceRepository) SavePaidWithWallet(ctx context.Context, invoice *billing.Invoice, company *partner.Company, wt *partner.WalletTransaction) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := applyWalletTransaction(tx, company, wt); err != nil {
			return err
		}
		return saveInvoice(tx, invoice)
	})
}

// DeleteForTenant deletes an invoice and its items
func (r *GormInvoiceRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("tenant_id = ? AND id = ?", tenantID, id).Delete(&models.InvoiceModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return tx.Where("invoice_id = ?", id).Delete(&models.InvoiceItemModel{}).Error
	})
}

// NextSequence returns one more than the highest sequence used in the month of period
func (r *GormInvoiceRepository) NextSequence(ctx context.Context, tenantID uuid.UUID, period time.Time) (int, error) {
	prefix := strings.TrimSuffix(billing.FormatInvoiceNumber(period, 0), "0000")

	var last string
	err := r.db.WithContext(ctx).Model(&models.InvoiceModel{}).
		Select("number").
		Where("tenant_id = ? AND number LIKE ?", tenantID, prefix+"%").
		Order("LENGTH(number) DESC, number DESC").
		Limit(1).
		Scan(&last).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, err
	}
	if last == "" {
		return 1, nil
	}
	seq, err := strconv.Atoi(strings.TrimPrefix(last, prefix))
	if err != nil {
		return 0, err
	}
	return seq + 1, nil
}

func (r *GormInvoiceRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where(`LOWER(number) LIKE ? ESCAPE '\'`, likePattern(filter.Search))
	}
	for key, value := range filter.Filters {
		if key == "overdue" {
			if b, ok := value.(bool); ok && b {
				query = query.Where("status = ? AND due_date < ?", billing.InvoiceStatusIssued, r.now())
			}
			continue
		}
		s, ok := stringFilter(value)
		if !ok {
			continue
		}
		switch key {
		case "status":
			query = query.Where("status = ?", s)
		case "company_id":
			query = query.Where("company_id = ?", s)
		case "project_id":
			query = query.Where("project_id = ?", s)
		}
	}
	return query
}

// saveInvoice writes the invoice row and syncs its items inside tx
func saveInvoice(tx *gorm.DB, invoice *billing.Invoice) error {
	model := models.InvoiceModelFromDomain(invoice)
	if err := tx.Omit(clause.Associations).Save(model).Error; err != nil {
		return err
	}
	keep := make([]uuid.UUID, len(model.Items))
	for i := range model.Items {
		keep[i] = model.Items[i].ID
	}
	if err := pruneChildren(tx, &models.InvoiceItemModel{}, "invoice_id", model.ID, keep); err != nil {
		return err
	}
	for i := range model.Items {
		if err := tx.Save(&model.Items[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

// Ensure GormInvoiceRepository implements the billing repositories
var (
	_ billing.InvoiceRepository       = (*GormInvoiceRepository)(nil)
	_ billing.WalletPaymentRepository = (*GormInvoiceRepository)(nil)
)
