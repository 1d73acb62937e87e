package telemetry

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/servicehub/admin/internal/domain/billing"
	"github.com/servicehub/admin/internal/domain/catalog"
	"github.com/servicehub/admin/internal/domain/partner"
	"github.com/servicehub/admin/internal/domain/qualification"
	"github.com/servicehub/admin/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// ErrMeterNil is returned when BusinessMetrics is built without a meter.
var ErrMeterNil = errors.New("telemetry: meter cannot be nil")

// BusinessSnapshotProvider reads tenant-level figures for the periodic gauges.
type BusinessSnapshotProvider interface {
	ActiveTenantIDs(ctx context.Context) ([]uuid.UUID, error)
	Snapshot(ctx context.Context, tenantID uuid.UUID) (BusinessSnapshot, error)
}

// BusinessSnapshot is a point-in-time view of a tenant's billing state.
type BusinessSnapshot struct {
	WalletBalance     decimal.Decimal
	OutstandingAmount decimal.Decimal
	OverdueInvoices   int64
	PendingQualifs    int64
}

// BusinessMetricsConfig configures BusinessMetrics.
type BusinessMetricsConfig struct {
	Meter    metric.Meter
	Logger   *zap.Logger
	Provider BusinessSnapshotProvider
}

// BusinessMetrics turns domain events into counters and samples tenant gauges.
// It implements shared.EventHandler.
type BusinessMetrics struct {
	logger   *zap.Logger
	provider BusinessSnapshotProvider

	walletTxTotal      *Counter
	walletAmountCents  *Counter
	invoiceTransitions *Counter
	invoicePaidCents   *Counter
	repriceTotal       *Counter
	qualDecisions      *Counter

	walletBalance   *FloatGauge
	outstanding     *FloatGauge
	overdueInvoices *Gauge
	pendingQualifs  *Gauge

	stopCh      chan struct{}
	stopOnce    sync.Once
	collectOnce sync.Once
	wg          sync.WaitGroup
}

// NewBusinessMetrics creates every business instrument on cfg.Meter.
func NewBusinessMetrics(cfg BusinessMetricsConfig) (*BusinessMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	bm := &BusinessMetrics{logger: logger, provider: cfg.Provider, stopCh: make(chan struct{})}
	m := cfg.Meter

	var err error
	counters := []struct {
		dst                     **Counter
		name, description, unit string
	}{
		{&bm.walletTxTotal, "hub_wallet_transactions_total", "Wallet movements by type", "{transaction}"},
		{&bm.walletAmountCents, "hub_wallet_amount_total", "Wallet movement volume in cents", "{cent}"},
		{&bm.invoiceTransitions, "hub_invoice_transitions_total", "Invoice status transitions by target status", "{invoice}"},
		{&bm.invoicePaidCents, "hub_invoice_paid_amount_total", "Paid invoice volume in cents", "{cent}"},
		{&bm.repriceTotal, "hub_product_reprice_total", "Product price changes by pricing mode", "{product}"},
		{&bm.qualDecisions, "hub_qualification_transitions_total", "Qualification status transitions", "{qualification}"},
	}
	for _, c := range counters {
		if *c.dst, err = NewCounter(m, c.name, c.description, c.unit); err != nil {
			return nil, err
		}
	}

	if bm.walletBalance, err = NewFloatGauge(m, "hub_wallet_balance", "Sum of company wallet balances", "{currency}"); err != nil {
		return nil, err
	}
	if bm.outstanding, err = NewFloatGauge(m, "hub_invoice_outstanding", "Total of issued, unpaid invoices", "{currency}"); err != nil {
		return nil, err
	}
	if bm.overdueInvoices, err = NewGauge(m, "hub_invoice_overdue", "Issued invoices past their due date", "{invoice}"); err != nil {
		return nil, err
	}
	if bm.pendingQualifs, err = NewGauge(m, "hub_qualification_pending", "Qualifications awaiting a decision", "{qualification}"); err != nil {
		return nil, err
	}
	return bm, nil
}

// EventTypes lists the events BusinessMetrics counts.
func (bm *BusinessMetrics) EventTypes() []string {
	return []string{
		partner.EventTypeWalletBalanceChanged,
		billing.EventTypeInvoiceStatusChanged,
		catalog.EventTypeProductPriceChanged,
		qualification.EventTypeQualificationStatusChanged,
	}
}

// Handle records one domain event. It never fails so metrics cannot block a publisher.
func (bm *BusinessMetrics) Handle(ctx context.Context, event shared.DomainEvent) error {
	tenant := AttrTenantID.String(event.TenantID().String())

	switch e := event.(type) {
	case *partner.WalletBalanceChangedEvent:
		kind := AttrWalletTxType.String(string(e.Type))
		bm.walletTxTotal.Inc(ctx, tenant, kind)
		bm.walletAmountCents.Add(ctx, toCents(e.Amount), tenant, kind)
	case *billing.InvoiceStatusChangedEvent:
		bm.invoiceTransitions.Inc(ctx, tenant, AttrStatus.String(string(e.NewStatus)))
		if e.NewStatus == billing.InvoiceStatusPaid {
			bm.invoicePaidCents.Add(ctx, toCents(e.Total), tenant)
		}
	case *catalog.ProductPriceChangedEvent:
		bm.repriceTotal.Inc(ctx, tenant, AttrReprice.String(string(e.PricingMode)))
	case *qualification.QualificationStatusChangedEvent:
		bm.qualDecisions.Inc(ctx, tenant, AttrStatus.String(string(e.NewStatus)))
	default:
		bm.logger.Debug("Ignoring event in business metrics", zap.String("event_type", event.EventType()))
	}
	return nil
}

// toCents converts an amount to integer cents, rounding half away from zero.
func toCents(amount decimal.Decimal) int64 {
	return amount.Shift(2).Round(0).IntPart()
}

// StartPeriodicCollection samples tenant gauges every interval (default 5m) until Stop.
func (bm *BusinessMetrics) StartPeriodicCollection(ctx context.Context, interval time.Duration) {
	if bm.provider == nil {
		return
	}
	bm.collectOnce.Do(func() {
		if interval <= 0 {
			interval = 5 * time.Minute
		}
		bm.wg.Add(1)
		go bm.run(ctx, interval)
	})
}

func (bm *BusinessMetrics) run(ctx context.Context, interval time.Duration) {
	defer bm.wg.Done()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	bm.Collect(ctx)
	for {
		select {
		case <-bm.stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			bm.Collect(ctx)
		}
	}
}

// Collect samples the gauges once for every active tenant.
func (bm *BusinessMetrics) Collect(ctx context.Context) {
	tenants, err := bm.provider.ActiveTenantIDs(ctx)
	if err != nil {
		bm.logger.Error("Failed to list tenants for metrics collection", zap.Error(err))
		return
	}
	for _, tenantID := range tenants {
		snap, err := bm.provider.Snapshot(ctx, tenantID)
		if err != nil {
			bm.logger.Warn("Failed to collect business snapshot",
				zap.String("tenant_id", tenantID.String()),
				zap.Error(err),
			)
			continue
		}
		tenant := AttrTenantID.String(tenantID.String())
		bm.walletBalance.Record(ctx, snap.WalletBalance.InexactFloat64(), tenant)
		bm.outstanding.Record(ctx, snap.OutstandingAmount.InexactFloat64(), tenant)
		bm.overdueInvoices.Record(ctx, snap.OverdueInvoices, tenant)
		bm.pendingQualifs.Record(ctx, snap.PendingQualifs, tenant)
	}
}

// Stop ends periodic collection and waits for the collector to exit.
func (bm *BusinessMetrics) Stop() {
	bm.stopOnce.Do(func() { close(bm.stopCh) })
	bm.wg.Wait()
}

var _ shared.EventHandler = (*BusinessMetrics)(nil)
