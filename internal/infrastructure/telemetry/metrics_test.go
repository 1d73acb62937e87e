package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/servicehub/admin/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap/zaptest"
)

func TestNewMeterProvider_Disabled(t *testing.T) {
	ctx := context.Background()
	mp, err := NewMeterProvider(ctx, config.TelemetryConfig{}, zaptest.NewLogger(t))
	require.NoError(t, err)

	assert.False(t, mp.IsEnabled())
	assert.NotNil(t, mp.Meter("test"))
	assert.NoError(t, mp.ForceFlush(ctx))
	assert.NoError(t, mp.Shutdown(ctx))
}

func TestMetricHelpers(t *testing.T) {
	reader, provider := newTestMeter(t)
	meter := provider.Meter("test")
	ctx := context.Background()

	counter, err := NewCounter(meter, "requests_total", "Requests", "{request}")
	require.NoError(t, err)
	counter.Inc(ctx, AttrHTTPMethod.String("GET"))
	counter.Add(ctx, 4, AttrHTTPMethod.String("POST"))

	hist, err := NewHistogram(meter, HistogramOpts{
		Name:       "latency_seconds",
		Unit:       "s",
		Boundaries: HTTPDurationBuckets,
	})
	require.NoError(t, err)
	hist.RecordDuration(ctx, 30*time.Millisecond)
	hist.Record(ctx, 2)

	gauge, err := NewGauge(meter, "queue_depth", "Depth", "{item}")
	require.NoError(t, err)
	gauge.Record(ctx, 7)

	fgauge, err := NewFloatGauge(meter, "balance", "Balance", "{currency}")
	require.NoError(t, err)
	fgauge.Record(ctx, 12.5)

	got := collect(t, reader)
	assert.EqualValues(t, 5, sumOf(t, got["requests_total"]))

	h, ok := got["latency_seconds"].Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, h.DataPoints, 1)
	assert.EqualValues(t, 2, h.DataPoints[0].Count)
	assert.Equal(t, HTTPDurationBuckets, h.DataPoints[0].Bounds)

	g, ok := got["queue_depth"].Data.(metricdata.Gauge[int64])
	require.True(t, ok)
	assert.EqualValues(t, 7, g.DataPoints[0].Value)

	fg, ok := got["balance"].Data.(metricdata.Gauge[float64])
	require.True(t, ok)
	assert.InDelta(t, 12.5, fg.DataPoints[0].Value, 0.0001)
}

func TestNewMeterProviderWithReader(t *testing.T) {
	mp := newMeterProviderWithReader(nil, sdkmetric.NewManualReader(), zaptest.NewLogger(t))

	assert.True(t, mp.IsEnabled())
	assert.NoError(t, mp.ForceFlush(context.Background()))
	assert.NoError(t, mp.Shutdown(context.Background()))
}
