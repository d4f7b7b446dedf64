package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// InitMeter initializes the OpenTelemetry meter provider and installs it
// globally. The provider must be shut down on exit.
func InitMeter(ctx context.Context, cfg Config) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(cfg.Endpoint),
	}
	if cfg.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(cfg.ServiceName, cfg.ServiceVersion, cfg.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(cfg.interval()))),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)
	return mp, nil
}

// Meter returns the module meter from the global provider.
func Meter() metric.Meter {
	return otel.Meter(InstrumentationName)
}

// Metrics holds the instruments recorded by fixture runs.
type Metrics struct {
	runTotal        metric.Int64Counter
	runDuration     metric.Float64Histogram
	fixturesApplied metric.Int64Counter
	applyDuration   metric.Float64Histogram
	purgeDuration   metric.Float64Histogram
	errorTotal      metric.Int64Counter
}

// NewMetrics creates metric instruments on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	runTotal, err := meter.Int64Counter("fixture.run.total",
		metric.WithDescription("Fixture runs by outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating fixture.run.total counter: %w", err)
	}

	runDuration, err := meter.Float64Histogram("fixture.run.duration",
		metric.WithDescription("Duration of fixture runs in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating fixture.run.duration histogram: %w", err)
	}

	fixturesApplied, err := meter.Int64Counter("fixture.applied.total",
		metric.WithDescription("Fixtures applied by outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating fixture.applied.total counter: %w", err)
	}

	applyDuration, err := meter.Float64Histogram("fixture.apply.duration",
		metric.WithDescription("Duration of a single fixture apply in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating fixture.apply.duration histogram: %w", err)
	}

	purgeDuration, err := meter.Float64Histogram("fixture.purge.duration",
		metric.WithDescription("Duration of store purges in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating fixture.purge.duration histogram: %w", err)
	}

	errorTotal, err := meter.Int64Counter("fixture.error.total",
		metric.WithDescription("Errors by code and stage"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating fixture.error.total counter: %w", err)
	}

	return &Metrics{
		runTotal:        runTotal,
		runDuration:     runDuration,
		fixturesApplied: fixturesApplied,
		applyDuration:   applyDuration,
		purgeDuration:   purgeDuration,
		errorTotal:      errorTotal,
	}, nil
}

// NopMetrics returns instruments backed by the no-op meter.
func NopMetrics() *Metrics {
	m, _ := NewMetrics(noop.NewMeterProvider().Meter(InstrumentationName))
	return m
}

// RecordRun records a finished run.
func (m *Metrics) RecordRun(ctx context.Context, status string, duration time.Duration) {
	m.runTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
	m.runDuration.Record(ctx, duration.Seconds())
}

// RecordFixture records one fixture apply.
func (m *Metrics) RecordFixture(ctx context.Context, fixture, status string, duration time.Duration) {
	m.fixturesApplied.Add(ctx, 1, metric.WithAttributes(
		attribute.String("fixture", fixture),
		attribute.String("status", status),
	))
	m.applyDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("fixture", fixture),
	))
}

// RecordPurge records one purge.
func (m *Metrics) RecordPurge(ctx context.Context, mode, status string, duration time.Duration) {
	m.purgeDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("mode", mode),
		attribute.String("status", status),
	))
}

// RecordError records an error by code and stage.
func (m *Metrics) RecordError(ctx context.Context, code, stage string) {
	m.errorTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("code", code),
		attribute.String("stage", stage),
	))
}
