// Package bootstrap runs one-shot commands with a managed component
// lifecycle.
//
// An App validates its config, builds the logger, starts the registered
// components in order, runs a single task with SIGINT/SIGTERM wired to
// context cancellation, and stops the components in reverse order.
//
//	app, err := bootstrap.NewApp(&cfg)
//	_ = app.RegisterComponent(database.NewComponent(cfg.Database, app.Logger))
//	err = app.RunTask(ctx, func(ctx context.Context) error {
//	    return importer.Run(ctx, opts)
//	})
package bootstrap
