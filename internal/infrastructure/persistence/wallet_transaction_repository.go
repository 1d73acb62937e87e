package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/servicehub/admin/internal/domain/partner"
	"github.com/servicehub/admin/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormWalletTransactionRepository implements partner.WalletTransactionRepository using GORM
type GormWalletTransactionRepository struct {
	db *gorm.DB
}

// NewGormWalletTransactionRepository creates a new GormWalletTransactionRepository
func NewGormWalletTransactionRepository(db *gorm.DB) *GormWalletTransactionRepository {
	return &GormWalletTransactionRepository{db: db}
}

// FindByCompany returns one page of the statement, newest first, plus the total count
func (r *GormWalletTransactionRepository) FindByCompany(ctx context.Context, tenantID, companyID uuid.UUID, filter partner.WalletTransactionFilter) ([]partner.WalletTransaction, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.WalletTransactionModel{}).
		Where("tenant_id = ? AND company_id = ?", tenantID, companyID)
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.DateFrom != nil {
		query = query.Where("created_at >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		query = query.Where("created_at <= ?", *filter.DateTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	var rows []models.WalletTransactionModel
	if err := query.Order("created_at DESC, id DESC").Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	out := make([]partner.WalletTransaction, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, total, nil
}

// walletTotals is the scan target of the summary query
type walletTotals struct {
	Credits decimal.NullDecimal
	Debits  decimal.NullDecimal
	Count   int64
}

// Summarize totals credits and debits for a company and reads its current balance
func (r *GormWalletTransactionRepository) Summarize(ctx context.Context, tenantID, companyID uuid.UUID) (*partner.WalletSummary, error) {
	var company models.CompanyModel
	if err := r.db.WithContext(ctx).Select("id", "balance").
		Where("tenant_id = ? AND id = ?", tenantID, companyID).
		First(&company).Error; err != nil {
		return nil, notFoundOr(err)
	}

	var totals walletTotals
	if err := r.db.WithContext(ctx).Model(&models.WalletTransactionModel{}).
		Select(
			"SUM(CASE WHEN type = ? THEN amount ELSE 0 END) AS credits, "+
				"SUM(CASE WHEN type = ? THEN amount ELSE 0 END) AS debits, "+
				"COUNT(*) AS count",
			partner.WalletTransactionTypeCredit, partner.WalletTransactionTypeDebit,
		).
		Where("tenant_id = ? AND company_id = ?", tenantID, companyID).
		Scan(&totals).Error; err != nil {
		return nil, err
	}

	summary := &partner.WalletSummary{
		CompanyID:    companyID,
		Balance:      company.Balance,
		TotalCredits: decimal.Zero,
		TotalDebits:  decimal.Zero,
		Count:        totals.Count,
	}
	if totals.Credits.Valid {
		summary.TotalCredits = totals.Credits.Decimal
	}
	if totals.Debits.Valid {
		summary.TotalDebits = totals.Debits.Decimal
	}
	return summary, nil
}

// ExistsByReference reports whether an entry of source carries reference
func (r *GormWalletTransactionRepository) ExistsByReference(ctx context.Context, tenantID uuid.UUID, source partner.WalletSourceType, reference string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.WalletTransactionModel{}).
		Where("tenant_id = ? AND source_type = ? AND reference = ?", tenantID, source, reference).
		Count(&count).Error
	return count > 0, err
}

// Ensure GormWalletTransactionRepository implements WalletTransactionRepository
var _ partner.WalletTransactionRepository = (*GormWalletTransactionRepository)(nil)
