package app

import (
	"context"
	"io"

	"github.com/kbukum/datafixture/config"
	"github.com/kbukum/datafixture/executor"
	"github.com/kbukum/datafixture/fixture"
	"github.com/kbukum/datafixture/logger"
	"github.com/kbukum/datafixture/purge"
)

// ImportOptions are the flags of one import.
type ImportOptions struct {
	// Fixtures are explicit paths; when set, configured groups are ignored.
	Fixtures []string
	// Group names a configured group or a fixture-level group.
	Group string
	// Append keeps existing data and skips the purge and its prompt.
	Append bool
	// Truncate purges with TRUNCATE instead of DELETE.
	Truncate bool
}

// Importer loads fixtures into the database.
type Importer struct {
	loader   *fixture.Loader
	executor *executor.Executor
	fixtures config.FixturesConfig
	prompter Prompter
	out      io.Writer
	log      *logger.Logger
}

// NewImporter creates an Importer. A nil prompter means a non-interactive session.
func NewImporter(loader *fixture.Loader, exec *executor.Executor, fixtures config.FixturesConfig, out io.Writer, prompter Prompter, log *logger.Logger) *Importer {
	if prompter == nil {
		prompter = NonInteractive
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Importer{
		loader:   loader,
		executor: exec,
		fixtures: fixtures,
		prompter: prompter,
		out:      out,
		log:      log.WithComponent("import"),
	}
}

// Run imports the selected fixtures. It returns a nil result and no error
// when the operator declines the purge.
func (i *Importer) Run(ctx context.Context, opts ImportOptions) (*executor.Result, error) {
	heading(i.out, "Loading fixtures")
	if i.prompter.Interactive() && !opts.Append {
		if !i.prompter.Confirm(PurgeQuestion, false) {
			i.log.Info("import declined")
			return nil, nil
		}
		io.WriteString(i.out, "\n")
	}

	sel, err := ResolvePaths(opts.Fixtures, opts.Group, i.fixtures)
	if err != nil {
		return nil, err
	}
	comment(i.out, sel.Label)

	plan, err := selectPlan(ctx, i.loader, sel)
	if err != nil {
		return nil, err
	}

	mode := purge.ModeDelete
	if opts.Truncate {
		mode = purge.ModeTruncate
	}
	res, err := i.executor.Execute(ctx, plan, executor.Options{
		Append:     opts.Append,
		PurgeMode:  mode,
		OnProgress: func(e executor.Event) { tick(i.out, e.Fixture) },
	})
	if err != nil {
		return res, err
	}
	io.WriteString(i.out, "\n")
	return res, nil
}

// selectPlan discovers the selection, narrows it to the group filter and
// orders the result.
func selectPlan(ctx context.Context, loader *fixture.Loader, sel Selection) (*fixture.Plan, error) {
	set, err := loader.Discover(ctx, sel.Paths)
	if err != nil {
		return nil, err
	}
	if sel.Group != "" {
		if set, err = fixture.SelectGroup(set, sel.Group); err != nil {
			return nil, err
		}
	}
	return fixture.Order(set)
}
