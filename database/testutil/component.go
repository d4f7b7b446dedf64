// Package testutil provides testing utilities for the database module.
package testutil

import (
	"context"
	"fmt"
	"sync"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/kbukum/datafixture/component"
	"github.com/kbukum/datafixture/database"
	"github.com/kbukum/datafixture/logger"
	"github.com/kbukum/datafixture/testutil"
)

// MemoryDSN opens a private in-memory SQLite database with foreign keys enforced.
const MemoryDSN = "file::memory:?_foreign_keys=on"

// Component is a test database component that uses SQLite in-memory.
// It implements both component.Component and testutil.TestComponent interfaces.
type Component struct {
	db      *database.DB
	schema  []string
	models  []interface{}
	log     *logger.Logger
	started bool
	mu      sync.RWMutex
}

// Ensure Component implements the required interfaces
var _ component.Component = (*Component)(nil)
var _ testutil.TestComponent = (*Component)(nil)

// NewComponent creates a new test database component.
func NewComponent() *Component {
	return &Component{log: logger.NewNop()}
}

// WithSchema registers DDL statements executed in order on Start.
func (c *Component) WithSchema(statements ...string) *Component {
	c.schema = append(c.schema, statements...)
	return c
}

// WithModels registers models for auto-migration on Start.
func (c *Component) WithModels(models ...interface{}) *Component {
	c.models = append(c.models, models...)
	return c
}

// WithLogger routes connection and query logs to log.
func (c *Component) WithLogger(log *logger.Logger) *Component {
	c.log = log
	return c
}

// DB returns the wrapped *database.DB, or nil if not started.
func (c *Component) DB() *database.DB {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.db
}

// Gorm returns the underlying *gorm.DB, or nil if not started.
func (c *Component) Gorm() *gorm.DB {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.db == nil {
		return nil
	}
	return c.db.GormDB
}

// Name returns the component name.
func (c *Component) Name() string {
	return "database-test"
}

// Start opens the in-memory SQLite database and applies the schema.
func (c *Component) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.started {
		return fmt.Errorf("component already started")
	}

	cfg := database.Config{Driver: database.DriverSQLite, DSN: MemoryDSN, MaxRetries: 1, LogLevel: "silent"}
	db, err := database.NewWithContext(ctx, sqlite.Open(cfg.DSN), cfg, c.log)
	if err != nil {
		return fmt.Errorf("failed to open test database: %w", err)
	}

	for _, stmt := range c.schema {
		if err := db.GormDB.Exec(stmt).Error; err != nil {
			_ = db.Close()
			return fmt.Errorf("schema statement failed: %w", err)
		}
	}
	if len(c.models) > 0 {
		if err := db.GormDB.AutoMigrate(c.models...); err != nil {
			_ = db.Close()
			return fmt.Errorf("auto-migrate failed: %w", err)
		}
	}

	c.db = db
	c.started = true
	return nil
}

// Stop closes the database connection.
func (c *Component) Stop(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.started || c.db == nil {
		return nil
	}

	c.started = false
	return c.db.Close()
}

// Health returns the health status of the test database.
func (c *Component) Health(ctx context.Context) component.Health {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.started || c.db == nil {
		return component.Health{
			Name:    c.Name(),
			Status:  component.StatusUnhealthy,
			Message: "database not started",
		}
	}

	if err := c.db.PingContext(ctx); err != nil {
		return component.Health{
			Name:    c.Name(),
			Status:  component.StatusUnhealthy,
			Message: fmt.Sprintf("ping failed: %v", err),
		}
	}

	return component.Health{
		Name:   c.Name(),
		Status: component.StatusHealthy,
	}
}

// Reset clears all data from all tables while preserving the schema.
func (c *Component) Reset(ctx context.Context) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.started || c.db == nil {
		return fmt.Errorf("component not started")
	}
	return c.withoutForeignKeys(ctx, func(db *gorm.DB) error {
		return clearTables(db)
	})
}

// Snapshot captures the rows of every table.
// Returns a snapshot that can be used with Restore to return to this state.
func (c *Component) Snapshot(ctx context.Context) (interface{}, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.started || c.db == nil {
		return nil, fmt.Errorf("component not started")
	}

	db := c.db.WithContext(ctx)
	schema, err := database.Inspect(db)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}

	snapshot := make(map[string][]map[string]interface{}, len(schema.Tables))
	for _, table := range schema.Tables {
		var rows []map[string]interface{}
		if err := db.Table(table).Find(&rows).Error; err != nil {
			return nil, fmt.Errorf("failed to snapshot table %s: %w", table, err)
		}
		snapshot[table] = rows
	}

	return snapshot, nil
}

// Restore returns the database to a previously captured snapshot state.
// The snapshot must have been created by the Snapshot method.
func (c *Component) Restore(ctx context.Context, snap interface{}) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.started || c.db == nil {
		return fmt.Errorf("component not started")
	}

	snapshot, ok := snap.(map[string][]map[string]interface{})
	if !ok {
		return fmt.Errorf("invalid snapshot type: expected map[string][]map[string]interface{}, got %T", snap)
	}

	return c.withoutForeignKeys(ctx, func(db *gorm.DB) error {
		if err := clearTables(db); err != nil {
			return fmt.Errorf("failed to reset before restore: %w", err)
		}
		for table, rows := range snapshot {
			if len(rows) == 0 {
				continue
			}
			if err := db.Table(table).Create(rows).Error; err != nil {
				return fmt.Errorf("failed to restore rows to table %s: %w", table, err)
			}
		}
		return nil
	})
}

// withoutForeignKeys runs fn with SQLite foreign key enforcement disabled
// so tables can be cleared and refilled in any order. The pragma is a
// no-op inside a transaction, so it runs on the single pooled connection.
func (c *Component) withoutForeignKeys(ctx context.Context, fn func(*gorm.DB) error) error {
	db := c.db.WithContext(ctx)
	if err := db.Exec("PRAGMA foreign_keys = OFF").Error; err != nil {
		return err
	}
	defer db.Exec("PRAGMA foreign_keys = ON")
	return fn(db)
}

func clearTables(db *gorm.DB) error {
	schema, err := database.Inspect(db)
	if err != nil {
		return fmt.Errorf("failed to list tables: %w", err)
	}
	for _, table := range schema.Tables {
		if err := db.Exec("DELETE FROM " + database.QuoteIdent(db, table)).Error; err != nil {
			return fmt.Errorf("failed to clear table %s: %w", table, err)
		}
	}
	return nil
}
