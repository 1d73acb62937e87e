package telemetry

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBMetrics records query counts, latency and connection pool usage.
type DBMetrics struct {
	queryTotal     *Counter
	queryDuration  *Histogram
	slowQueryTotal *Counter
	slowThreshold  time.Duration
	registration   metric.Registration
	logger         *zap.Logger
}

// NewDBMetrics creates the query instruments. slowThreshold defaults to 200ms.
func NewDBMetrics(meter metric.Meter, slowThreshold time.Duration, logger *zap.Logger) (*DBMetrics, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if slowThreshold <= 0 {
		slowThreshold = 200 * time.Millisecond
	}

	m := &DBMetrics{slowThreshold: slowThreshold, logger: logger}
	var err error
	if m.queryTotal, err = NewCounter(meter, "db_query_total", "Total number of database queries", "{query}"); err != nil {
		return nil, err
	}
	if m.slowQueryTotal, err = NewCounter(meter, "db_slow_query_total", "Queries slower than the configured threshold", "{query}"); err != nil {
		return nil, err
	}
	if m.queryDuration, err = NewHistogram(meter, HistogramOpts{
		Name:        "db_query_duration_seconds",
		Description: "Database query latency",
		Unit:        "s",
		Boundaries:  DBDurationBuckets,
	}); err != nil {
		return nil, err
	}
	return m, nil
}

// ObservePool reports open, in-use and idle connections of sqlDB on every collection.
func (m *DBMetrics) ObservePool(meter metric.Meter, sqlDB *sql.DB) error {
	conns, err := meter.Int64ObservableGauge("db_pool_connections",
		metric.WithDescription("Connections in the pool by state"),
		metric.WithUnit("{connection}"))
	if err != nil {
		return err
	}
	maxConns, err := meter.Int64ObservableGauge("db_pool_connections_max",
		metric.WithDescription("Maximum open connections"),
		metric.WithUnit("{connection}"))
	if err != nil {
		return err
	}

	m.registration, err = meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		stats := sqlDB.Stats()
		o.ObserveInt64(conns, int64(stats.InUse), metric.WithAttributes(AttrDBState.String("in_use")))
		o.ObserveInt64(conns, int64(stats.Idle), metric.WithAttributes(AttrDBState.String("idle")))
		o.ObserveInt64(conns, int64(stats.OpenConnections), metric.WithAttributes(AttrDBState.String("open")))
		o.ObserveInt64(maxConns, int64(stats.MaxOpenConnections))
		return nil
	}, conns, maxConns)
	return err
}

// Stop unregisters the pool callback.
func (m *DBMetrics) Stop() error {
	if m.registration == nil {
		return nil
	}
	return m.registration.Unregister()
}

type metricsStartKey struct{}

// RegisterCallbacks hooks query timing into every GORM operation.
func (m *DBMetrics) RegisterCallbacks(db *gorm.DB) error {
	cb := db.Callback()
	ops := []struct {
		name   string
		before func(string, func(*gorm.DB)) error
		after  func(string, func(*gorm.DB)) error
	}{
		{"create", cb.Create().Before("gorm:create").Register, cb.Create().After("gorm:create").Register},
		{"query", cb.Query().Before("gorm:query").Register, cb.Query().After("gorm:query").Register},
		{"update", cb.Update().Before("gorm:update").Register, cb.Update().After("gorm:update").Register},
		{"delete", cb.Delete().Before("gorm:delete").Register, cb.Delete().After("gorm:delete").Register},
		{"row", cb.Row().Before("gorm:row").Register, cb.Row().After("gorm:row").Register},
		{"raw", cb.Raw().Before("gorm:raw").Register, cb.Raw().After("gorm:raw").Register},
	}
	for _, op := range ops {
		name := op.name
		if err := op.before("metrics:before_"+name, func(db *gorm.DB) {
			if db.Statement.Context != nil {
				db.Statement.Context = context.WithValue(db.Statement.Context, metricsStartKey{}, time.Now())
			}
		}); err != nil {
			return err
		}
		if err := op.after("metrics:after_"+name, func(db *gorm.DB) { m.record(db, name) }); err != nil {
			return err
		}
	}
	return nil
}

func (m *DBMetrics) record(db *gorm.DB, operation string) {
	ctx := db.Statement.Context
	if ctx == nil {
		return
	}
	start, ok := ctx.Value(metricsStartKey{}).(time.Time)
	if !ok {
		return
	}
	elapsed := time.Since(start)

	attrs := []attribute.KeyValue{
		attribute.String("db.operation", operation),
		attribute.String("db.table", tableName(db)),
		attribute.Bool("db.error", db.Error != nil && db.Error != gorm.ErrRecordNotFound),
	}
	m.queryTotal.Inc(ctx, attrs...)
	m.queryDuration.RecordDuration(ctx, elapsed, attrs[:2]...)
	if elapsed > m.slowThreshold {
		m.slowQueryTotal.Inc(ctx, attrs[:2]...)
		m.logger.Warn("Slow query",
			zap.String("operation", operation),
			zap.String("table", tableName(db)),
			zap.Duration("elapsed", elapsed),
		)
	}
}

func tableName(db *gorm.DB) string {
	if db.Statement.Table != "" {
		return db.Statement.Table
	}
	if db.Statement.Schema != nil {
		return db.Statement.Schema.Table
	}
	if strings.TrimSpace(db.Statement.SQL.String()) != "" {
		return "raw"
	}
	return "unknown"
}
