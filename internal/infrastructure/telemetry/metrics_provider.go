package telemetry

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/servicehub/admin/internal/domain/billing"
	"github.com/servicehub/admin/internal/domain/qualification"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormSnapshotProvider implements BusinessSnapshotProvider with aggregate queries.
type GormSnapshotProvider struct {
	db  *gorm.DB
	now func() time.Time
}

// NewGormSnapshotProvider creates a GormSnapshotProvider.
func NewGormSnapshotProvider(db *gorm.DB) *GormSnapshotProvider {
	return &GormSnapshotProvider{db: db, now: time.Now}
}

// ActiveTenantIDs returns every tenant that has at least one administrator.
func (p *GormSnapshotProvider) ActiveTenantIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := p.db.WithContext(ctx).
		Table("users").
		Distinct("tenant_id").
		Pluck("tenant_id", &ids).Error
	return ids, err
}

// Snapshot sums wallets, open receivables and pending reviews for a tenant.
func (p *GormSnapshotProvider) Snapshot(ctx context.Context, tenantID uuid.UUID) (BusinessSnapshot, error) {
	db := p.db.WithContext(ctx)
	var snap BusinessSnapshot

	var wallets decimal.NullDecimal
	if err := db.Table("companies").
		Select("SUM(balance)").
		Where("tenant_id = ?", tenantID).
		Scan(&wallets).Error; err != nil {
		return snap, err
	}
	snap.WalletBalance = wallets.Decimal

	var outstanding decimal.NullDecimal
	if err := db.Table("invoices").
		Select("SUM(total)").
		Where("tenant_id = ? AND status = ?", tenantID, billing.InvoiceStatusIssued).
		Scan(&outstanding).Error; err != nil {
		return snap, err
	}
	snap.OutstandingAmount = outstanding.Decimal

	if err := db.Table("invoices").
		Where("tenant_id = ? AND status = ? AND due_date < ?", tenantID, billing.InvoiceStatusIssued, p.now()).
		Count(&snap.OverdueInvoices).Error; err != nil {
		return snap, err
	}

	if err := db.Table("qualifications").
		Where("tenant_id = ? AND status IN ?", tenantID, []qualification.Status{
			qualification.StatusSubmitted,
			qualification.StatusInReview,
		}).
		Count(&snap.PendingQualifs).Error; err != nil {
		return snap, err
	}
	return snap, nil
}

var _ BusinessSnapshotProvider = (*GormSnapshotProvider)(nil)
