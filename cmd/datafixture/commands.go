package main

import (
	"context"
	"time"

	"github.com/symfony-cli/console"

	"github.com/kbukum/datafixture/app"
	"github.com/kbukum/datafixture/bootstrap"
	"github.com/kbukum/datafixture/database"
	"github.com/kbukum/datafixture/errors"
	"github.com/kbukum/datafixture/executor"
	"github.com/kbukum/datafixture/fixture"
	"github.com/kbukum/datafixture/logger"
	"github.com/kbukum/datafixture/observability"
	"github.com/kbukum/datafixture/purge"
	"github.com/kbukum/datafixture/version"
)

var configFlag = &console.StringFlag{Name: "config", Usage: "Path to the configuration file"}

var fixtureFlag = &console.StringSliceFlag{Name: "fixture", Usage: "The directory or file to load data fixtures from (repeatable)"}

var groupFlag = &console.StringFlag{Name: "group", Usage: "Load the paths of a configured group, or the fixtures tagged with it"}

var importCmd = &console.Command{
	Name:  "data-fixture:import",
	Usage: "Import data fixtures to your database",
	Description: `The <info>data-fixture:import</> command loads data fixtures:

  <info>datafixture data-fixture:import</>

Paths come from the configuration file, or from <info>--fixture</>:

  <info>datafixture data-fixture:import --fixture=fixtures/users.yaml --fixture=fixtures/demo/</>

Existing data is purged first unless <info>--append</> is given.`,
	Flags: []console.Flag{
		&console.BoolFlag{Name: "append", Usage: "Append data to existing data"},
		&console.BoolFlag{Name: "purge-with-truncate", Usage: "Truncate tables before inserting data"},
		&console.BoolFlag{Name: "no-transaction", Usage: "Apply fixtures without wrapping the run in a transaction"},
		fixtureFlag,
		groupFlag,
		configFlag,
	},
	Action: func(c *console.Context) error {
		cfg, err := app.Load(c.String("config"))
		if err != nil {
			return exit(err)
		}
		return run("data-fixture:import", cfg, true, func(ctx context.Context, rt *runtime) error {
			transactional := cfg.Executor.IsTransactional() && !c.Bool("no-transaction")
			exec := executor.New(rt.db.DB(),
				executor.WithPurger(purge.New(rt.log, purge.WithExcluded(cfg.Purge.Exclude...))),
				executor.WithLogger(rt.log),
				executor.WithMetrics(rt.obs.Metrics()),
				executor.WithTransactional(transactional),
				executor.WithTimeout(cfg.Executor.TimeoutDuration()),
			)
			importer := app.NewImporter(rt.loader, exec, cfg.Fixtures, c.App.Writer, terminalPrompter{}, rt.log)
			_, err := importer.Run(ctx, app.ImportOptions{
				Fixtures: c.StringSlice("fixture"),
				Group:    c.String("group"),
				Append:   c.Bool("append"),
				Truncate: c.Bool("purge-with-truncate"),
			})
			return err
		})
	},
}

var listCmd = &console.Command{
	Name:  "orm:fixtures:list",
	Usage: "List data fixtures",
	Description: `The <info>orm:fixtures:list</> command prints the fixtures an import would apply, in order:

  <info>datafixture orm:fixtures:list --fixture=fixtures/ --group=demo</>`,
	Flags: []console.Flag{
		fixtureFlag,
		groupFlag,
		configFlag,
	},
	Action: func(c *console.Context) error {
		cfg, err := app.Load(c.String("config"))
		if err != nil {
			return exit(err)
		}
		return run("orm:fixtures:list", cfg, false, func(ctx context.Context, rt *runtime) error {
			_, err := app.NewLister(rt.loader, cfg.Fixtures, c.App.Writer).Run(ctx, app.ListOptions{
				Fixtures: c.StringSlice("fixture"),
				Group:    c.String("group"),
			})
			return err
		})
	},
}

func commands() []*console.Command {
	return []*console.Command{importCmd, listCmd}
}

// runtime carries what a command task needs once components are started.
type runtime struct {
	log    *logger.Logger
	loader *fixture.Loader
	db     *database.Component
	obs    *observability.Component
}

// run boots the application around task. The database is only connected
// for commands that write to it.
func run(name string, cfg *app.Config, withDB bool, task func(ctx context.Context, rt *runtime) error) error {
	if cfg.Version == "" {
		cfg.Version = version.Get().Short()
	}
	started := time.Now()
	a, err := bootstrap.NewApp(cfg)
	if err != nil {
		return exit(err)
	}

	rt := &runtime{
		log: a.Logger,
		obs: observability.NewComponent(cfg.Observability, a.Logger),
	}
	registry := fixture.NewRegistry()
	fixture.RegisterBuiltins(registry)
	rt.loader = fixture.NewLoader(registry, a.Logger, fixture.WithStrictPaths(cfg.Fixtures.StrictPaths))

	if err := a.RegisterComponent(rt.obs); err != nil {
		return exit(err)
	}
	if withDB {
		rt.db = database.NewComponent(cfg.Database, a.Logger)
		if err := a.RegisterComponent(rt.db); err != nil {
			return exit(err)
		}
		a.OnStart(requireHealthy(rt.db))
	}
	a.OnStop(logElapsed(a.Logger, name, started))

	if err := a.RunTask(context.Background(), func(ctx context.Context) error {
		return task(ctx, rt)
	}); err != nil {
		return exit(err)
	}
	return nil
}

func exit(err error) error {
	return console.Exit(err.Error(), errors.ExitCode(err))
}
