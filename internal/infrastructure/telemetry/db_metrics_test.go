package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap/zaptest"
)

func TestDBMetrics(t *testing.T) {
	reader, provider := newTestMeter(t)
	meter := provider.Meter("db")
	db := newSQLiteDB(t)

	m, err := NewDBMetrics(meter, 0, zaptest.NewLogger(t))
	require.NoError(t, err)
	require.NoError(t, m.RegisterCallbacks(db))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, m.ObservePool(meter, sqlDB))
	t.Cleanup(func() { assert.NoError(t, m.Stop()) })

	var count int64
	require.NoError(t, db.WithContext(context.Background()).Table("invoices").Count(&count).Error)
	require.NoError(t, db.WithContext(context.Background()).Exec("DELETE FROM invoices WHERE 1 = 0").Error)

	got := collect(t, reader)
	assert.GreaterOrEqual(t, sumOf(t, got["db_query_total"]), int64(2))

	hist, ok := got["db_query_duration_seconds"].Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	assert.NotEmpty(t, hist.DataPoints)

	pool, ok := got["db_pool_connections_max"].Data.(metricdata.Gauge[int64])
	require.True(t, ok)
	assert.EqualValues(t, 1, pool.DataPoints[0].Value, "in-memory sqlite is pinned to one connection")

	conns, ok := got["db_pool_connections"].Data.(metricdata.Gauge[int64])
	require.True(t, ok)
	assert.Len(t, conns.DataPoints, 3)
}

func TestDBMetrics_StopWithoutPool(t *testing.T) {
	_, provider := newTestMeter(t)
	m, err := NewDBMetrics(provider.Meter("db"), 0, nil)
	require.NoError(t, err)
	assert.NoError(t, m.Stop())
}
