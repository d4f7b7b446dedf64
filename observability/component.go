package observability

import (
	"context"
	stderrors "errors"
	"sync"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/kbukum/datafixture/component"
	"github.com/kbukum/datafixture/logger"
)

// Component manages the tracer and meter providers.
type Component struct {
	cfg     Config
	log     *logger.Logger
	mu      sync.RWMutex
	tp      *sdktrace.TracerProvider
	mp      *sdkmetric.MeterProvider
	metrics *Metrics
}

var _ component.Component = (*Component)(nil)
var _ component.Describable = (*Component)(nil)

// NewComponent creates the observability component. Metrics are no-op
// until Start succeeds with export enabled.
func NewComponent(cfg Config, log *logger.Logger) *Component {
	cfg.ApplyDefaults()
	if log == nil {
		log = logger.NewNop()
	}
	return &Component{cfg: cfg, log: log.WithComponent("observability"), metrics: NopMetrics()}
}

// Name returns the component name.
func (c *Component) Name() string { return "observability" }

// Start installs the OTLP providers when enabled.
func (c *Component) Start(ctx context.Context) error {
	if !c.cfg.Enabled {
		return nil
	}

	tp, err := InitTracer(ctx, c.cfg)
	if err != nil {
		return err
	}
	mp, err := InitMeter(ctx, c.cfg)
	if err != nil {
		_ = tp.Shutdown(ctx)
		return err
	}
	metrics, err := NewMetrics(mp.Meter(InstrumentationName))
	if err != nil {
		_ = tp.Shutdown(ctx)
		_ = mp.Shutdown(ctx)
		return err
	}

	c.mu.Lock()
	c.tp, c.mp, c.metrics = tp, mp, metrics
	c.mu.Unlock()

	c.log.Info("telemetry export enabled", logger.Fields(
		"endpoint", c.cfg.Endpoint,
		"sample_rate", c.cfg.SampleRate,
		"interval", c.cfg.Interval,
	))
	return nil
}

// Stop flushes and shuts down the providers.
func (c *Component) Stop(ctx context.Context) error {
	c.mu.Lock()
	tp, mp := c.tp, c.mp
	c.tp, c.mp = nil, nil
	c.mu.Unlock()

	var errs []error
	if tp != nil {
		errs = append(errs, tp.Shutdown(ctx))
	}
	if mp != nil {
		errs = append(errs, mp.Shutdown(ctx))
	}
	return stderrors.Join(errs...)
}

// Health reports whether export is active.
func (c *Component) Health(_ context.Context) component.Health {
	c.mu.RLock()
	defer c.mu.RUnlock()
	h := component.Health{Name: c.Name(), Status: component.StatusHealthy}
	switch {
	case !c.cfg.Enabled:
		h.Message = "export disabled"
	case c.tp == nil:
		h.Status = component.StatusUnhealthy
		h.Message = "not started"
	}
	return h
}

// Describe returns the export target.
func (c *Component) Describe() component.Description {
	details := "disabled"
	if c.cfg.Enabled {
		details = "otlp http " + c.cfg.Endpoint
	}
	return component.Description{Name: "Telemetry", Type: "observability", Details: details}
}

// Metrics returns the run instruments.
func (c *Component) Metrics() *Metrics {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.metrics
}
