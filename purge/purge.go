package purge

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/kbukum/datafixture/dag"
	"github.com/kbukum/datafixture/database"
	"github.com/kbukum/datafixture/errors"
	"github.com/kbukum/datafixture/logger"
)

// Mode selects how tables are emptied.
type Mode int

const (
	// ModeDelete removes rows with DELETE FROM.
	ModeDelete Mode = 1
	// ModeTruncate removes rows and resets identity sequences. It cannot be
	// undone on every backend.
	ModeTruncate Mode = 2
)

// String returns "delete" or "truncate".
func (m Mode) String() string {
	switch m {
	case ModeDelete:
		return "delete"
	case ModeTruncate:
		return "truncate"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseMode parses "delete" or "truncate".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "delete":
		return ModeDelete, nil
	case "truncate":
		return ModeTruncate, nil
	default:
		return 0, errors.InvalidInput("purge_mode", "must be delete or truncate")
	}
}

// Error reports a table that could not be purged. Table is empty when the
// schema itself could not be read.
type Error struct {
	Table string
	Mode  Mode
	Cause error
}

func (e *Error) Error() string {
	if e.Table == "" {
		return fmt.Sprintf("purge (%s) failed: %v", e.Mode, e.Cause)
	}
	return fmt.Sprintf("purge (%s) of table %q failed: %v", e.Mode, e.Table, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

// ErrorCode returns errors.ErrCodePurgeFailed.
func (e *Error) ErrorCode() errors.ErrorCode { return errors.ErrCodePurgeFailed }

// Purger empties every table except the excluded ones.
type Purger struct {
	excluded map[string]bool
	log      *logger.Logger
}

// Option configures a Purger.
type Option func(*Purger)

// WithExcluded keeps the named tables untouched. Names compare case-insensitively.
func WithExcluded(tables ...string) Option {
	return func(p *Purger) {
		for _, t := range tables {
			p.excluded[strings.ToLower(t)] = true
		}
	}
}

// New creates a Purger.
func New(log *logger.Logger, opts ...Option) *Purger {
	if log == nil {
		log = logger.NewNop()
	}
	p := &Purger{excluded: make(map[string]bool), log: log.WithComponent("purge")}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Plan returns the tables Purge would empty, in the order it would empty
// them. cyclic reports that foreign keys form a cycle and the order fell
// back to table name.
func (p *Purger) Plan(tx *gorm.DB) (tables []string, cyclic bool, err error) {
	schema, err := database.Inspect(tx)
	if err != nil {
		return nil, false, err
	}

	g := dag.New()
	for _, t := range schema.Tables {
		if !p.excluded[strings.ToLower(t)] {
			g.AddNode(t)
		}
	}
	for _, fk := range schema.ForeignKeys {
		if fk.Table == fk.RefTable || !g.Has(fk.Table) || !g.Has(fk.RefTable) {
			continue
		}
		// The referencing table goes first.
		if err := g.AddEdge(fk.Table, fk.RefTable); err != nil {
			return nil, false, err
		}
	}

	order, err := g.TopologicalOrder()
	if err != nil {
		return g.Nodes(), true, nil
	}
	return order, false, nil
}

// Purge empties the tables visible through tx. An empty store is a no-op.
func (p *Purger) Purge(ctx context.Context, tx *gorm.DB, mode Mode) error {
	if mode != ModeDelete && mode != ModeTruncate {
		return &Error{Mode: mode, Cause: fmt.Errorf("unknown purge mode")}
	}
	db := tx.WithContext(ctx)
	log := p.log.WithContext(ctx)
	start := time.Now()

	tables, cyclic, err := p.Plan(db)
	if err != nil {
		return &Error{Mode: mode, Cause: err}
	}
	if len(tables) == 0 {
		log.Debug("nothing to purge")
		return nil
	}

	if mode == ModeTruncate {
		log.Warn("truncating tables, this cannot be undone", map[string]interface{}{
			logger.FieldCount: len(tables),
		})
	}

	dialect := database.Dialect(db)
	if mode == ModeTruncate && dialect == database.DriverPostgres {
		// One statement accepts references between the listed tables and
		// fails if a table left out still references one of them.
		if err := db.Exec(truncateStatement(quoteAll(db, tables))).Error; err != nil {
			return &Error{Mode: mode, Cause: err}
		}
	} else {
		if cyclic {
			if !database.InTransaction(db) {
				return &Error{Mode: mode, Cause: fmt.Errorf("foreign keys between %s form a cycle, purging them requires a transaction", strings.Join(tables, ", "))}
			}
			log.Warn("foreign keys form a cycle, purging in table name order")
			if err := deferConstraints(db); err != nil {
				return &Error{Mode: mode, Cause: err}
			}
		}
		for _, table := range tables {
			if err := ctx.Err(); err != nil {
				return &Error{Table: table, Mode: mode, Cause: err}
			}
			if err := purgeTable(db, dialect, table, mode); err != nil {
				return &Error{Table: table, Mode: mode, Cause: err}
			}
			log.Debug("table purged", map[string]interface{}{logger.FieldTable: table})
		}
	}

	log.Info("database purged", map[string]interface{}{
		logger.FieldPurgeMode: mode.String(),
		logger.FieldCount:     len(tables),
		logger.FieldDuration:  time.Since(start).Milliseconds(),
	})
	return nil
}

func purgeTable(db *gorm.DB, dialect, table string, mode Mode) error {
	quoted := database.QuoteIdent(db, table)
	if err := db.Exec("DELETE FROM " + quoted).Error; err != nil {
		return err
	}

	if mode == ModeTruncate && dialect == database.DriverSQLite && db.Migrator().HasTable("sqlite_sequence") {
		return db.Exec("DELETE FROM sqlite_sequence WHERE name = ?", table).Error
	}
	return nil
}

// truncateStatement empties the quoted tables and resets their sequences.
// Tables outside the list are left alone.
func truncateStatement(quoted []string) string {
	return "TRUNCATE TABLE " + strings.Join(quoted, ", ") + " RESTART IDENTITY"
}

func quoteAll(db *gorm.DB, tables []string) []string {
	quoted := make([]string, len(tables))
	for i, t := range tables {
		quoted[i] = database.QuoteIdent(db, t)
	}
	return quoted
}

// deferConstraints postpones foreign key checks to commit time so tables
// referencing each other can be emptied one after the other.
func deferConstraints(db *gorm.DB) error {
	switch database.Dialect(db) {
	case database.DriverSQLite:
		return db.Exec("PRAGMA defer_foreign_keys = ON").Error
	case database.DriverPostgres:
		return db.Exec("SET CONSTRAINTS ALL DEFERRED").Error
	}
	return nil
}
