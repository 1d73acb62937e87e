// Package telemetry wires OpenTelemetry tracing, metrics and log export
// together with Pyroscope continuous profiling.
package telemetry

import (
	"context"
	"errors"
	"fmt"

	"github.com/servicehub/admin/internal/infrastructure/config"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.37.0"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ServiceVersion is reported as service.version on every exported signal.
var ServiceVersion = "dev"

func newResource(serviceName string) (*resource.Resource, error) {
	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(ServiceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}
	return res, nil
}

// Providers bundles every telemetry signal started for the process.
type Providers struct {
	Tracer   *TracerProvider
	Meter    *MeterProvider
	Logs     *LoggerProvider
	Profiler *Profiler
}

// Setup starts all providers enabled in cfg. Disabled signals get no-op providers
// so callers never need nil checks.
func Setup(ctx context.Context, cfg config.TelemetryConfig, logger *zap.Logger) (*Providers, error) {
	tp, err := NewTracerProvider(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	mp, err := NewMeterProvider(ctx, cfg, logger)
	if err != nil {
		_ = tp.Shutdown(ctx)
		return nil, err
	}

	lp, err := NewLoggerProvider(ctx, cfg, logger)
	if err != nil {
		_ = mp.Shutdown(ctx)
		_ = tp.Shutdown(ctx)
		return nil, err
	}

	prof, err := NewProfiler(ProfilerConfigFrom(cfg), logger)
	if err != nil {
		_ = lp.Shutdown(ctx)
		_ = mp.Shutdown(ctx)
		_ = tp.Shutdown(ctx)
		return nil, err
	}
	if prof.IsEnabled() {
		if err := tp.EnableSpanProfiles(); err != nil {
			logger.Warn("Failed to enable span profiles", zap.Error(err))
		}
	}

	return &Providers{Tracer: tp, Meter: mp, Logs: lp, Profiler: prof}, nil
}

// LogCore returns the zap core that forwards records to the OTLP log pipeline.
func (p *Providers) LogCore(serviceName string, level zapcore.Level) zapcore.Core {
	return NewZapOTELCore(ZapBridgeConfig{
		ServiceName:    serviceName,
		LoggerProvider: p.Logs,
		Level:          level,
	})
}

// Shutdown flushes and stops every provider, in reverse start order.
func (p *Providers) Shutdown(ctx context.Context) error {
	return errors.Join(
		p.Profiler.Stop(),
		p.Logs.Shutdown(ctx),
		p.Meter.Shutdown(ctx),
		p.Tracer.Shutdown(ctx),
	)
}
