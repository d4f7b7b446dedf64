package component

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
)

// mockComponent implements Component for testing.
type mockComponent struct {
	name     string
	startErr error
	stopErr  error
	health   Health
	events   *[]string
}

func (m *mockComponent) Name() string { return m.name }
func (m *mockComponent) Start(ctx context.Context) error {
	if m.events != nil {
		*m.events = append(*m.events, "start:"+m.name)
	}
	return m.startErr
}
func (m *mockComponent) Stop(ctx context.Context) error {
	if m.events != nil {
		*m.events = append(*m.events, "stop:"+m.name)
	}
	return m.stopErr
}
func (m *mockComponent) Health(ctx context.Context) Health {
	return m.health
}

type describedComponent struct{ mockComponent }

func (d *describedComponent) Describe() Description {
	return Description{Type: "database", Details: "sqlite"}
}

func TestRegistry_RegisterDuplicate(t *testing.T) {
	r := NewRegistry(nil)
	if err := r.Register(&mockComponent{name: "database"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := r.Register(&mockComponent{name: "database"}); err == nil {
		t.Error("expected duplicate registration error")
	}
}

func TestRegistry_StartStopOrder(t *testing.T) {
	var events []string
	r := NewRegistry(nil)
	_ = r.Register(&mockComponent{name: "database", events: &events})
	_ = r.Register(&describedComponent{mockComponent{name: "telemetry", events: &events}})

	ctx := context.Background()
	if err := r.StartAll(ctx); err != nil {
		t.Fatalf("StartAll: %v", err)
	}
	if err := r.StopAll(ctx); err != nil {
		t.Fatalf("StopAll: %v", err)
	}

	want := []string{"start:database", "start:telemetry", "stop:telemetry", "stop:database"}
	if !reflect.DeepEqual(events, want) {
		t.Errorf("events = %v, want %v", events, want)
	}
}

func TestRegistry_StartFailureStopsStarted(t *testing.T) {
	var events []string
	r := NewRegistry(nil)
	_ = r.Register(&mockComponent{name: "database", events: &events})
	_ = r.Register(&mockComponent{name: "telemetry", events: &events, startErr: errors.New("exporter down")})

	err := r.StartAll(context.Background())
	if err == nil || !strings.Contains(err.Error(), "telemetry") {
		t.Fatalf("expected start error naming telemetry, got %v", err)
	}
	want := []string{"start:database", "start:telemetry", "stop:database"}
	if !reflect.DeepEqual(events, want) {
		t.Errorf("events = %v, want %v", events, want)
	}
}

func TestRegistry_StopErrors(t *testing.T) {
	r := NewRegistry(nil)
	_ = r.Register(&mockComponent{name: "database", stopErr: errors.New("busy")})
	_ = r.StartAll(context.Background())
	if err := r.StopAll(context.Background()); err == nil {
		t.Error("expected stop error")
	}
}

func TestRegistry_GetAllHealth(t *testing.T) {
	r := NewRegistry(nil)
	_ = r.Register(&mockComponent{name: "database", health: Health{Name: "database", Status: StatusHealthy}})

	if r.Get("database") == nil {
		t.Error("expected component")
	}
	if r.Get("missing") != nil {
		t.Error("expected nil for missing component")
	}
	if len(r.All()) != 1 {
		t.Errorf("All() = %d entries", len(r.All()))
	}
	health := r.HealthAll(context.Background())
	if len(health) != 1 || health[0].Status != StatusHealthy {
		t.Errorf("HealthAll = %+v", health)
	}
}
