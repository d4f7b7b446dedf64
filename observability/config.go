package observability

import (
	"fmt"
	"time"
)

// Config configures OTLP export of traces and metrics.
type Config struct {
	// Enabled turns on OTLP export. Disabled keeps the no-op providers.
	Enabled bool `mapstructure:"enabled"`
	// ServiceName is reported as service.name; defaults to the app name.
	ServiceName string `mapstructure:"service_name"`
	// ServiceVersion is reported as service.version.
	ServiceVersion string `mapstructure:"service_version"`
	// Environment is the deployment environment (development, production).
	Environment string `mapstructure:"environment"`
	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	Endpoint string `mapstructure:"endpoint"`
	// Insecure allows plain HTTP (for development).
	Insecure bool `mapstructure:"insecure"`
	// SampleRate is the trace sampling rate (0.0 to 1.0).
	SampleRate float64 `mapstructure:"sample_rate"`
	// Interval is the metric export interval (e.g. "15s").
	Interval string `mapstructure:"interval"`
}

// DefaultConfig returns sensible defaults for development.
func DefaultConfig(serviceName string) Config {
	c := Config{ServiceName: serviceName, Insecure: true}
	c.ApplyDefaults()
	return c
}

// ApplyDefaults fills empty fields.
func (c *Config) ApplyDefaults() {
	if c.ServiceVersion == "" {
		c.ServiceVersion = "dev"
	}
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Endpoint == "" {
		c.Endpoint = "localhost:4318"
	}
	if c.SampleRate == 0 {
		c.SampleRate = 1.0
	}
	if c.Interval == "" {
		c.Interval = "15s"
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.SampleRate < 0 || c.SampleRate > 1 {
		return fmt.Errorf("observability.sample_rate must be between 0 and 1 (got: %v)", c.SampleRate)
	}
	if _, err := time.ParseDuration(c.Interval); err != nil {
		return fmt.Errorf("observability.interval: %w", err)
	}
	if c.Enabled && c.Endpoint == "" {
		return fmt.Errorf("observability.endpoint is required when enabled")
	}
	return nil
}

// interval returns the parsed export interval.
func (c *Config) interval() time.Duration {
	d, err := time.ParseDuration(c.Interval)
	if err != nil {
		return 15 * time.Second
	}
	return d
}
