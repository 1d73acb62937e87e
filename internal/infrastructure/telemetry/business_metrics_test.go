package telemetry

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/servicehub/admin/internal/domain/billing"
	"github.com/servicehub/admin/internal/domain/partner"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"
)

type fakeSnapshotProvider struct {
	tenants []uuid.UUID
	snap    BusinessSnapshot
	failFor uuid.UUID
	calls   atomic.Int32
}

func (f *fakeSnapshotProvider) ActiveTenantIDs(context.Context) ([]uuid.UUID, error) {
	f.calls.Add(1)
	return f.tenants, nil
}

func (f *fakeSnapshotProvider) Snapshot(_ context.Context, tenantID uuid.UUID) (BusinessSnapshot, error) {
	if tenantID == f.failFor {
		return BusinessSnapshot{}, errors.New("snapshot failed")
	}
	return f.snap, nil
}

func TestNewBusinessMetrics_NilMeter(t *testing.T) {
	_, err := NewBusinessMetrics(BusinessMetricsConfig{})
	assert.ErrorIs(t, err, ErrMeterNil)
}

func TestBusinessMetrics_Handle(t *testing.T) {
	reader, provider := newTestMeter(t)
	bm, err := NewBusinessMetrics(BusinessMetricsConfig{Meter: provider.Meter("test"), Logger: zaptest.NewLogger(t)})
	require.NoError(t, err)
	ctx := context.Background()
	tenantID := uuid.New()

	company, err := partner.NewCompany(tenantID, "Acme", "123456", partner.CompanyTypeClient)
	require.NoError(t, err)
	credit, err := company.Credit(decimal.RequireFromString("100.25"), "Top up")
	require.NoError(t, err)
	debit, err := company.Debit(decimal.RequireFromString("0.25"), "Fee")
	require.NoError(t, err)
	require.NoError(t, bm.Handle(ctx, partner.NewWalletBalanceChangedEvent(company, credit)))
	require.NoError(t, bm.Handle(ctx, partner.NewWalletBalanceChangedEvent(company, debit)))

	inv, err := billing.NewInvoice(tenantID, "INV-202610-0001", company.ID, decimal.Zero, time.Now().AddDate(0, 0, 10))
	require.NoError(t, err)
	_, err = inv.AddItem("Consulting", decimal.NewFromInt(1), decimal.RequireFromString("40.10"))
	require.NoError(t, err)
	require.NoError(t, bm.Handle(ctx, billing.NewInvoiceStatusChangedEvent(inv, billing.InvoiceStatusIssued, billing.InvoiceStatusPaid)))

	// unrelated events are ignored without error
	require.NoError(t, bm.Handle(ctx, billing.NewInvoiceCreatedEvent(inv)))

	got := collect(t, reader)
	assert.EqualValues(t, 2, sumOf(t, got["hub_wallet_transactions_total"]))
	assert.EqualValues(t, 10050, sumOf(t, got["hub_wallet_amount_total"]))
	assert.EqualValues(t, 1, sumOf(t, got["hub_invoice_transitions_total"]))
	assert.EqualValues(t, 4010, sumOf(t, got["hub_invoice_paid_amount_total"]))
	assert.ElementsMatch(t, []string{
		partner.EventTypeWalletBalanceChanged,
		billing.EventTypeInvoiceStatusChanged,
		"ProductPriceChanged",
		"QualificationStatusChanged",
	}, bm.EventTypes())
}

func TestBusinessMetrics_Collect(t *testing.T) {
	reader, provider := newTestMeter(t)
	healthy, broken := uuid.New(), uuid.New()
	fake := &fakeSnapshotProvider{
		tenants: []uuid.UUID{healthy, broken},
		failFor: broken,
		snap: BusinessSnapshot{
			WalletBalance:     decimal.RequireFromString("250.50"),
			OutstandingAmount: decimal.NewFromInt(80),
			OverdueInvoices:   3,
			PendingQualifs:    2,
		},
	}
	bm, err := NewBusinessMetrics(BusinessMetricsConfig{Meter: provider.Meter("test"), Provider: fake})
	require.NoError(t, err)

	bm.Collect(context.Background())

	got := collect(t, reader)
	overdue, ok := got["hub_invoice_overdue"].Data.(metricdata.Gauge[int64])
	require.True(t, ok)
	require.Len(t, overdue.DataPoints, 1, "failed tenants are skipped")
	assert.EqualValues(t, 3, overdue.DataPoints[0].Value)

	balance, ok := got["hub_wallet_balance"].Data.(metricdata.Gauge[float64])
	require.True(t, ok)
	assert.InDelta(t, 250.5, balance.DataPoints[0].Value, 0.001)
}

func TestBusinessMetrics_PeriodicCollectionStops(t *testing.T) {
	defer goleak.VerifyNone(t)

	_, provider := newTestMeter(t)
	fake := &fakeSnapshotProvider{tenants: []uuid.UUID{uuid.New()}}
	bm, err := NewBusinessMetrics(BusinessMetricsConfig{Meter: provider.Meter("test"), Provider: fake})
	require.NoError(t, err)

	bm.StartPeriodicCollection(context.Background(), 5*time.Millisecond)
	bm.StartPeriodicCollection(context.Background(), 5*time.Millisecond)
	assert.Eventually(t, func() bool { return fake.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)

	bm.Stop()
	bm.Stop()
}
