package executor

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"

	"github.com/kbukum/datafixture/database"
	"github.com/kbukum/datafixture/errors"
	"github.com/kbukum/datafixture/fixture"
	"github.com/kbukum/datafixture/logger"
	"github.com/kbukum/datafixture/observability"
	"github.com/kbukum/datafixture/purge"
)

// Purger empties the store before fixtures are applied.
type Purger interface {
	Purge(ctx context.Context, tx *gorm.DB, mode purge.Mode) error
}

// Event is reported after each applied fixture. Index is 1-based.
type Event struct {
	Fixture  string
	Index    int
	Total    int
	Duration time.Duration
}

// ProgressFunc receives progress events.
type ProgressFunc func(Event)

// Options controls one run.
type Options struct {
	// Append keeps existing data; the purger is never called.
	Append bool
	// PurgeMode selects delete or truncate. Zero means purge.ModeDelete.
	PurgeMode purge.Mode
	// OnProgress is called after each fixture is applied.
	OnProgress ProgressFunc
}

// Result describes a finished run.
type Result struct {
	RunID    uuid.UUID
	State    State
	Purged   bool
	Applied  []string
	Duration time.Duration
	// RolledBack is set when a transactional run failed and nothing was kept.
	RolledBack bool
}

// Executor applies plans against one database. Runs are serialized.
type Executor struct {
	db            *database.DB
	purger        Purger
	log           *logger.Logger
	metrics       *observability.Metrics
	transactional bool
	timeout       time.Duration

	mu      sync.Mutex
	stateMu sync.RWMutex
	state   State
}

// Option configures an Executor.
type Option func(*Executor)

// WithPurger replaces the default purger.
func WithPurger(p Purger) Option {
	return func(e *Executor) { e.purger = p }
}

// WithLogger sets the logger.
func WithLogger(log *logger.Logger) Option {
	return func(e *Executor) { e.log = log }
}

// WithMetrics records run metrics on m.
func WithMetrics(m *observability.Metrics) Option {
	return func(e *Executor) { e.metrics = m }
}

// WithTransactional selects whether a run is one transaction. Default true.
func WithTransactional(on bool) Option {
	return func(e *Executor) { e.transactional = on }
}

// WithTimeout bounds each run. Zero means no limit.
func WithTimeout(d time.Duration) Option {
	return func(e *Executor) { e.timeout = d }
}

// New creates an Executor for db.
func New(db *database.DB, opts ...Option) *Executor {
	e := &Executor{db: db, transactional: true}
	for _, opt := range opts {
		opt(e)
	}
	if e.log == nil {
		e.log = logger.NewNop()
	}
	e.log = e.log.WithComponent("executor")
	if e.purger == nil {
		e.purger = purge.New(e.log)
	}
	if e.metrics == nil {
		e.metrics = observability.NopMetrics()
	}
	return e
}

// State returns the state of the current or last run.
func (e *Executor) State() State {
	e.stateMu.RLock()
	defer e.stateMu.RUnlock()
	return e.state
}

func (e *Executor) setState(res *Result, s State) {
	e.stateMu.Lock()
	e.state = s
	e.stateMu.Unlock()
	res.State = s
}

// Execute runs plan. Unless opts.Append is set the store is purged before
// the first fixture. Fixtures are applied in plan order and the run stops
// at the first failure. The context is checked between fixtures.
func (e *Executor) Execute(ctx context.Context, plan *fixture.Plan, opts Options) (*Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	res := &Result{RunID: uuid.New()}
	e.setState(res, StateIdle)

	if plan == nil || plan.Len() == 0 {
		e.setState(res, StateFailed)
		return res, &fixture.NoFixturesFoundError{}
	}
	if opts.PurgeMode == 0 {
		opts.PurgeMode = purge.ModeDelete
	}

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}
	ctx = logger.ContextWithRunID(ctx, res.RunID.String())
	ctx, runOp := observability.StartOperation(ctx, observability.SpanRun,
		attribute.String(observability.AttrRunID, res.RunID.String()),
		attribute.Int(observability.AttrFixtureTotal, plan.Len()),
	)
	log := e.log.WithContext(ctx)
	start := time.Now()

	log.Info("fixture run started", map[string]interface{}{
		logger.FieldCount: plan.Len(),
		"append":          opts.Append,
		"transactional":   e.transactional,
	})

	run := func(tx *gorm.DB) error {
		if !opts.Append {
			if err := e.purge(ctx, tx, opts.PurgeMode, res); err != nil {
				return err
			}
		}
		return e.apply(ctx, tx, plan, opts.OnProgress, res)
	}

	var err error
	if e.transactional {
		err = e.db.WithTransaction(ctx, run)
	} else {
		err = e.db.WithoutTransaction(ctx, run)
	}

	res.Duration = time.Since(start)
	runOp.End(err)
	e.metrics.RecordRun(ctx, observability.StatusOf(err), res.Duration)

	if err != nil {
		res.RolledBack = e.transactional
		e.setState(res, StateFailed)
		e.metrics.RecordError(ctx, string(errors.CodeOf(err)), "run")
		log.Error("fixture run failed", logger.MergeWithError(map[string]interface{}{
			logger.FieldCount:    len(res.Applied),
			logger.FieldDuration: res.Duration.Milliseconds(),
			"rolled_back":        res.RolledBack,
		}, err))
		return res, err
	}

	e.setState(res, StateCompleted)
	log.Info("fixture run completed", map[string]interface{}{
		logger.FieldCount:    len(res.Applied),
		logger.FieldDuration: res.Duration.Milliseconds(),
	})
	return res, nil
}

func (e *Executor) purge(ctx context.Context, tx *gorm.DB, mode purge.Mode, res *Result) error {
	e.setState(res, StatePurging)
	ctx, op := observability.StartOperation(ctx, observability.SpanPurge,
		attribute.String(observability.AttrPurgeMode, mode.String()),
	)
	err := e.purger.Purge(ctx, tx, mode)
	d := op.End(err)
	e.metrics.RecordPurge(ctx, mode.String(), observability.StatusOf(err), d)
	if err != nil {
		return err
	}
	res.Purged = true
	return nil
}

func (e *Executor) apply(ctx context.Context, tx *gorm.DB, plan *fixture.Plan, progress ProgressFunc, res *Result) error {
	e.setState(res, StateApplying)
	refs := fixture.NewReferences()
	fixtures := plan.Fixtures()
	total := len(fixtures)

	for i, f := range fixtures {
		if err := ctx.Err(); err != nil {
			return errors.Canceled(err)
		}

		fctx, op := observability.StartOperation(ctx, observability.SpanFixtureApply,
			attribute.String(observability.AttrFixture, f.ID()),
			attribute.Int(observability.AttrFixtureIndex, i+1),
			attribute.Int(observability.AttrFixtureTotal, total),
		)
		err := f.Apply(fctx, tx, refs)
		d := op.End(err)
		e.metrics.RecordFixture(ctx, f.ID(), observability.StatusOf(err), d)
		if err != nil {
			return &FixtureApplicationError{Fixture: f.ID(), Index: i + 1, Cause: err}
		}

		res.Applied = append(res.Applied, f.ID())
		e.log.WithContext(ctx).Debug("fixture applied", map[string]interface{}{
			logger.FieldFixture:  f.ID(),
			logger.FieldDuration: d.Milliseconds(),
		})
		if progress != nil {
			progress(Event{Fixture: f.ID(), Index: i + 1, Total: total, Duration: d})
		}
	}
	return nil
}
