package testutil

import (
	"context"
	"testing"

	"github.com/kbukum/datafixture/component"
	"github.com/kbukum/datafixture/testutil"
)

var testSchema = []string{
	"CREATE TABLE users (id INTEGER PRIMARY KEY, name TEXT NOT NULL)",
	"CREATE TABLE orders (id INTEGER PRIMARY KEY, user_id INTEGER NOT NULL REFERENCES users(id))",
}

func TestComponent_Interface(t *testing.T) {
	tc := NewComponent()

	var _ component.Component = tc
	var _ testutil.TestComponent = tc

	if tc.Name() != "database-test" {
		t.Errorf("Name() = %q, want %q", tc.Name(), "database-test")
	}
}

func TestComponent_Lifecycle(t *testing.T) {
	ctx := context.Background()
	tc := NewComponent()

	if h := tc.Health(ctx); h.Status != component.StatusUnhealthy {
		t.Errorf("Health() before start = %v, want unhealthy", h.Status)
	}
	if err := tc.Start(ctx); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	if err := tc.Start(ctx); err == nil {
		t.Error("second Start() should fail")
	}
	if h := tc.Health(ctx); h.Status != component.StatusHealthy {
		t.Errorf("Health() status = %v, want %v", h.Status, component.StatusHealthy)
	}
	if err := tc.Stop(ctx); err != nil {
		t.Fatalf("Stop() failed: %v", err)
	}
}

func TestComponent_SchemaAndForeignKeys(t *testing.T) {
	tc := NewComponent().WithSchema(testSchema...)
	testutil.T(t).Setup(tc)

	db := tc.Gorm()
	if !TableExists(db, "orders") {
		t.Fatal("expected orders table")
	}
	if err := InsertRows(db, "orders", []map[string]interface{}{{"id": 1, "user_id": 42}}); err == nil {
		t.Error("expected foreign key violation for a missing user")
	}
}

func TestComponent_ResetSnapshotRestore(t *testing.T) {
	tc := NewComponent().WithSchema(testSchema...)
	h := testutil.T(t)
	h.Setup(tc)
	db := tc.Gorm()

	MustInsertRows(t, db, "users", []map[string]interface{}{{"id": 1, "name": "alice"}, {"id": 2, "name": "bob"}})
	MustInsertRows(t, db, "orders", []map[string]interface{}{{"id": 10, "user_id": 1}})

	snap := h.Snapshot(tc)

	h.Reset(tc)
	AssertTableEmpty(t, db, "users")
	AssertTableEmpty(t, db, "orders")

	h.Restore(tc, snap)
	AssertRowCount(t, db, "users", 2)
	AssertRowCount(t, db, "orders", 1)

	names := Column[string](t, db, "users", "name")
	if len(names) != 2 || names[0] != "alice" || names[1] != "bob" {
		t.Errorf("names = %v", names)
	}
}

func TestComponent_NotStarted(t *testing.T) {
	ctx := context.Background()
	tc := NewComponent()
	if err := tc.Reset(ctx); err == nil {
		t.Error("Reset before start should fail")
	}
	if _, err := tc.Snapshot(ctx); err == nil {
		t.Error("Snapshot before start should fail")
	}
	if err := tc.Restore(ctx, nil); err == nil {
		t.Error("Restore before start should fail")
	}
	if err := tc.Stop(ctx); err != nil {
		t.Errorf("Stop before start should be a no-op, got %v", err)
	}
}
