package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/kbukum/datafixture/config"
	"github.com/kbukum/datafixture/database"
	"github.com/kbukum/datafixture/errors"
	"github.com/kbukum/datafixture/observability"
	"github.com/kbukum/datafixture/validation"
)

// ServiceName is used for config file resolution and as the default name.
const ServiceName = "datafixture"

// PurgeConfig configures the purger.
type PurgeConfig struct {
	// Exclude lists tables that are never purged (e.g. schema_migrations).
	Exclude []string `yaml:"exclude" mapstructure:"exclude" validate:"dive,required"`
}

// ExecutorConfig configures how a run is applied.
type ExecutorConfig struct {
	// Transactional wraps each run in one transaction. Nil means true.
	Transactional *bool `yaml:"transactional" mapstructure:"transactional"`
	// Timeout bounds a whole run; "0s" or empty means no limit.
	Timeout string `yaml:"timeout" mapstructure:"timeout"`
}

// IsTransactional reports the effective transaction policy.
func (c *ExecutorConfig) IsTransactional() bool {
	return c.Transactional == nil || *c.Transactional
}

// TimeoutDuration returns the parsed timeout. Call after Validate.
func (c *ExecutorConfig) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// Config is the full configuration of the datafixture commands.
type Config struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Database      database.Config       `yaml:"database" mapstructure:"database"`
	Fixtures      config.FixturesConfig `yaml:"fixtures" mapstructure:"fixtures"`
	Purge         PurgeConfig           `yaml:"purge" mapstructure:"purge"`
	Executor      ExecutorConfig        `yaml:"executor" mapstructure:"executor"`
	Observability observability.Config  `yaml:"observability" mapstructure:"observability"`
}

// ApplyDefaults fills unset values in every section.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = ServiceName
	}
	c.ServiceConfig.ApplyDefaults()
	c.Database.ApplyDefaults()
	c.Fixtures.ApplyDefaults()
	if c.Executor.Timeout == "" {
		c.Executor.Timeout = "0s"
	}
	if c.Observability.ServiceName == "" {
		c.Observability.ServiceName = c.Name
	}
	if c.Observability.ServiceVersion == "" {
		c.Observability.ServiceVersion = c.Version
	}
	if c.Observability.Environment == "" {
		c.Observability.Environment = c.Environment
	}
	c.Observability.ApplyDefaults()
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := validation.Validate(c.Database); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.Database.Validate(); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.Fixtures.Validate(); err != nil {
		return err
	}
	if err := validation.Validate(c.Purge); err != nil {
		return fmt.Errorf("purge: %w", err)
	}
	d, err := time.ParseDuration(c.Executor.Timeout)
	if err != nil {
		return fmt.Errorf("executor.timeout: %w", err)
	}
	if d < 0 {
		return fmt.Errorf("executor.timeout must not be negative (got: %s)", c.Executor.Timeout)
	}
	if err := c.Observability.Validate(); err != nil {
		return err
	}
	return nil
}

// Load reads the configuration. An empty path searches the default
// locations (./cmd/datafixture/config.yml, ./config.yml, ...).
func Load(path string) (*Config, error) {
	cfg := &Config{}
	var opts []config.LoaderOption
	if strings.TrimSpace(path) != "" {
		opts = append(opts, config.WithConfigFile(path))
	}
	if err := config.LoadConfig(ServiceName, cfg, opts...); err != nil {
		return nil, errors.InvalidConfig("could not load configuration").WithCause(err)
	}
	return cfg, nil
}
