package main

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/kbukum/datafixture/component"
	"github.com/kbukum/datafixture/errors"
	"github.com/kbukum/datafixture/logger"
)

type staticHealth component.Health

func (h staticHealth) Health(context.Context) component.Health { return component.Health(h) }

func TestRequireHealthy(t *testing.T) {
	tests := []struct {
		name    string
		health  component.Health
		wantErr bool
	}{
		{"healthy", component.Health{Name: "database", Status: component.StatusHealthy}, false},
		{"unhealthy", component.Health{Name: "database", Status: component.StatusUnhealthy, Message: "database not initialized"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := requireHealthy(staticHealth(tt.health))(context.Background())
			if (err != nil) != tt.wantErr {
				t.Fatalf("hook error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil {
				return
			}
			if errors.CodeOf(err) != errors.ErrCodeConnectionFailed {
				t.Errorf("code = %s", errors.CodeOf(err))
			}
			if !strings.Contains(err.Error(), "database not initialized") {
				t.Errorf("Error() = %q", err.Error())
			}
		})
	}
}

func TestLogElapsed(t *testing.T) {
	hook := logElapsed(logger.NewNop(), "orm:fixtures:list", time.Now())
	if err := hook(context.Background()); err != nil {
		t.Errorf("hook error = %v", err)
	}
}
