package bootstrap

import (
	"context"
	stderrors "errors"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/kbukum/datafixture/component"
	"github.com/kbukum/datafixture/config"
	"github.com/kbukum/datafixture/errors"
	"github.com/kbukum/datafixture/logger"
)

// testConfig is a minimal config for testing that satisfies the Config interface.
type testConfig struct {
	config.ServiceConfig
}

// mockComponent implements component.Component for testing.
type mockComponent struct {
	name     string
	startErr error
	stopErr  error
	health   component.Health
	events   *[]string
}

func (m *mockComponent) Name() string { return m.name }
func (m *mockComponent) Start(ctx context.Context) error {
	*m.events = append(*m.events, "start:"+m.name)
	return m.startErr
}
func (m *mockComponent) Stop(ctx context.Context) error {
	*m.events = append(*m.events, "stop:"+m.name)
	return m.stopErr
}
func (m *mockComponent) Health(ctx context.Context) component.Health {
	return m.health
}

func newTestConfig(name, version string) *testConfig {
	return &testConfig{
		ServiceConfig: config.ServiceConfig{
			Name:        name,
			Version:     version,
			Environment: "test",
		},
	}
}

func newTestApp(t *testing.T) *App[*testConfig] {
	t.Helper()
	app, err := NewApp(newTestConfig("datafixture", "1.0.0"), WithLogger(logger.NewNop()), WithSignals())
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}
	return app
}

func healthy(name string, events *[]string) *mockComponent {
	return &mockComponent{
		name:   name,
		events: events,
		health: component.Health{Name: name, Status: component.StatusHealthy},
	}
}

func TestNewApp(t *testing.T) {
	app, err := NewApp(newTestConfig("datafixture", "1.0.0"))
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}
	if app.Name != "datafixture" {
		t.Errorf("expected name 'datafixture', got %q", app.Name)
	}
	if app.Version != "1.0.0" {
		t.Errorf("expected version '1.0.0', got %q", app.Version)
	}
	if app.Components == nil {
		t.Error("expected non-nil components registry")
	}
	if app.Logger == nil {
		t.Error("expected non-nil logger")
	}
	if app.Cfg.Logging.Level == "" {
		t.Error("expected defaults to be applied")
	}
}

func TestNewApp_InvalidConfig(t *testing.T) {
	_, err := NewApp(&testConfig{})
	if err == nil {
		t.Fatal("expected error for missing name")
	}
	if errors.CodeOf(err) != errors.ErrCodeInvalidConfig {
		t.Errorf("CodeOf = %s, want %s", errors.CodeOf(err), errors.ErrCodeInvalidConfig)
	}
}

func TestRunTask_Lifecycle(t *testing.T) {
	app := newTestApp(t)
	var events []string
	_ = app.RegisterComponent(healthy("database", &events))
	_ = app.RegisterComponent(healthy("observability", &events))
	app.OnStart(func(ctx context.Context) error {
		events = append(events, "hook:start")
		return nil
	})
	app.OnStop(func(ctx context.Context) error {
		events = append(events, "hook:stop")
		return nil
	})

	err := app.RunTask(context.Background(), func(ctx context.Context) error {
		events = append(events, "task")
		return nil
	})
	if err != nil {
		t.Fatalf("RunTask failed: %v", err)
	}

	want := []string{
		"start:database", "start:observability", "hook:start", "task",
		"hook:stop", "stop:observability", "stop:database",
	}
	if !reflect.DeepEqual(events, want) {
		t.Errorf("events = %v\nwant %v", events, want)
	}
}

func TestRunTask_TaskErrorWins(t *testing.T) {
	app := newTestApp(t)
	var events []string
	c := healthy("database", &events)
	c.stopErr = fmt.Errorf("close failed")
	_ = app.RegisterComponent(c)

	taskErr := fmt.Errorf("task failed")
	err := app.RunTask(context.Background(), func(ctx context.Context) error { return taskErr })
	if !stderrors.Is(err, taskErr) {
		t.Errorf("RunTask error = %v, want task error", err)
	}
}

func TestRunTask_StopErrorReported(t *testing.T) {
	app := newTestApp(t)
	var events []string
	c := healthy("database", &events)
	c.stopErr = fmt.Errorf("close failed")
	_ = app.RegisterComponent(c)

	err := app.RunTask(context.Background(), func(ctx context.Context) error { return nil })
	if err == nil {
		t.Fatal("expected stop error")
	}
}

func TestRunTask_StartFailure(t *testing.T) {
	app := newTestApp(t)
	var events []string
	_ = app.RegisterComponent(healthy("first", &events))
	broken := healthy("second", &events)
	broken.startErr = fmt.Errorf("unreachable")
	_ = app.RegisterComponent(broken)

	ran := false
	err := app.RunTask(context.Background(), func(ctx context.Context) error {
		ran = true
		return nil
	})
	if err == nil {
		t.Fatal("expected start failure")
	}
	if ran {
		t.Error("task must not run when a component fails to start")
	}
	want := []string{"start:first", "start:second", "stop:first"}
	if !reflect.DeepEqual(events, want) {
		t.Errorf("events = %v, want %v", events, want)
	}
}

func TestRunTask_ContextCanceled(t *testing.T) {
	app := newTestApp(t)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := app.RunTask(ctx, func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	if !stderrors.Is(err, context.DeadlineExceeded) {
		t.Errorf("RunTask error = %v, want deadline exceeded", err)
	}
}

func TestReadyCheck(t *testing.T) {
	app := newTestApp(t)
	var events []string
	_ = app.RegisterComponent(healthy("database", &events))
	if err := app.ReadyCheck(context.Background()); err != nil {
		t.Errorf("ReadyCheck failed: %v", err)
	}

	_ = app.RegisterComponent(&mockComponent{
		name:   "observability",
		events: &events,
		health: component.Health{Name: "observability", Status: component.StatusUnhealthy, Message: "not started"},
	})
	if err := app.ReadyCheck(context.Background()); err == nil {
		t.Error("expected ReadyCheck error for unhealthy component")
	}
}
