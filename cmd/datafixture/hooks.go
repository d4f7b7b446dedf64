package main

import (
	"context"
	"fmt"
	"time"

	"github.com/kbukum/datafixture/bootstrap"
	"github.com/kbukum/datafixture/component"
	"github.com/kbukum/datafixture/errors"
	"github.com/kbukum/datafixture/logger"
)

type healthChecker interface {
	Health(ctx context.Context) component.Health
}

// requireHealthy stops the command before any fixture work when c does
// not answer its health check.
func requireHealthy(c healthChecker) bootstrap.Hook {
	return func(ctx context.Context) error {
		h := c.Health(ctx)
		if h.Status == component.StatusHealthy {
			return nil
		}
		return errors.ConnectionFailed(h.Name).WithCause(fmt.Errorf("%s", h.Message))
	}
}

// logElapsed logs how long the command ran once the task is done.
func logElapsed(log *logger.Logger, name string, started time.Time) bootstrap.Hook {
	return func(ctx context.Context) error {
		log.WithContext(ctx).Debug("command finished", map[string]interface{}{
			"command":            name,
			logger.FieldDuration: time.Since(started).Milliseconds(),
		})
		return nil
	}
}
