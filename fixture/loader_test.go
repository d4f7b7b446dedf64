package fixture

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"gorm.io/gorm"

	"github.com/kbukum/datafixture/errors"
)

const usersYAML = `
groups: [demo]
tables:
  - table: users
    rows:
      - {_ref: alice, id: 1, name: Alice}
      - {id: 2, name: Bob}
`

const ordersYAML = `
depends_on: [users]
tables:
  - table: orders
    rows:
      - {id: 1, user_id: "@alice.id", total: 10}
`

func writeFile(t *testing.T, dir, rel, content string) string {
	t.Helper()
	path := filepath.Join(dir, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", rel, err)
	}
	return path
}

func newTestLoader(opts ...LoaderOption) *Loader {
	reg := NewRegistry()
	RegisterBuiltins(reg)
	return NewLoader(reg, nil, opts...)
}

func TestDiscover_Directory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b/orders.yaml", ordersYAML)
	writeFile(t, dir, "a/users.yaml", usersYAML)
	writeFile(t, dir, "z.yml", "tables: [{table: tags, rows: [{id: 1}]}]")
	writeFile(t, dir, "c/seed.fx", "tables: [{table: seeds, rows: [{id: 1}]}]")
	writeFile(t, dir, "README.md", "not a fixture")
	writeFile(t, dir, ".hidden/secret.yaml", "tables: [{table: secrets, rows: [{id: 1}]}]")

	set, err := newTestLoader().Discover(context.Background(), []string{dir})
	if err != nil {
		t.Fatalf("Discover() error: %v", err)
	}
	want := []string{"users", "orders", "seed", "z"}
	if got := set.IDs(); !reflect.DeepEqual(got, want) {
		t.Errorf("IDs() = %v, want %v", got, want)
	}

	users, _ := set.Get("users")
	if !InGroup(users, "demo") {
		t.Errorf("users groups = %v", users.Groups())
	}
	orders, _ := set.Get("orders")
	if !reflect.DeepEqual(orders.DependsOn(), []string{"users"}) {
		t.Errorf("orders depends on %v", orders.DependsOn())
	}
}

func TestDiscover_Idempotent(t *testing.T) {
	dir := t.TempDir()
	users := writeFile(t, dir, "users.yaml", usersYAML)
	writeFile(t, dir, "orders.yaml", ordersYAML)

	loader := newTestLoader()
	paths := []string{dir, users, dir + string(filepath.Separator)}
	first, err := loader.Discover(context.Background(), paths)
	if err != nil {
		t.Fatalf("Discover() error: %v", err)
	}
	second, err := loader.Discover(context.Background(), paths)
	if err != nil {
		t.Fatalf("second Discover() error: %v", err)
	}
	if !reflect.DeepEqual(first.IDs(), second.IDs()) {
		t.Errorf("discoveries differ: %v vs %v", first.IDs(), second.IDs())
	}
	if first.Len() != 2 {
		t.Errorf("Len() = %d, want 2", first.Len())
	}
}

func TestDiscover_CacheSeesChanges(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "users.yaml", usersYAML)
	loader := newTestLoader()

	if _, err := loader.Discover(context.Background(), []string{path}); err != nil {
		t.Fatalf("Discover() error: %v", err)
	}
	writeFile(t, dir, "users.yaml", "name: people\n"+usersYAML)
	set, err := loader.Discover(context.Background(), []string{path})
	if err != nil {
		t.Fatalf("Discover() error: %v", err)
	}
	if got := set.IDs(); !reflect.DeepEqual(got, []string{"people"}) {
		t.Errorf("IDs() = %v, want [people]", got)
	}
}

func TestDiscover_ExplicitFileAnyExtension(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "users.txt", usersYAML)

	set, err := newTestLoader().Discover(context.Background(), []string{path})
	if err != nil {
		t.Fatalf("Discover() error: %v", err)
	}
	if got := set.IDs(); !reflect.DeepEqual(got, []string{"users"}) {
		t.Errorf("IDs() = %v", got)
	}
}

func TestDiscover_Duplicate(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.yaml", "name: users\n"+usersYAML)
	writeFile(t, dir, "b.yaml", "name: users\n"+usersYAML)

	_, err := newTestLoader().Discover(context.Background(), []string{dir})
	var dup *DuplicateFixtureError
	if !stderrors.As(err, &dup) {
		t.Fatalf("Discover() error = %v, want DuplicateFixtureError", err)
	}
	if dup.ID != "users" {
		t.Errorf("ID = %q", dup.ID)
	}
}

func TestDiscover_MissingPath(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "users.yaml", usersYAML)
	missing := filepath.Join(dir, "nope")

	set, err := newTestLoader().Discover(context.Background(), []string{missing, dir})
	if err != nil {
		t.Fatalf("Discover() error: %v", err)
	}
	if set.Len() != 1 {
		t.Errorf("Len() = %d, want 1", set.Len())
	}

	_, err = newTestLoader(WithStrictPaths(true)).Discover(context.Background(), []string{missing, dir})
	var invalid *InvalidPathError
	if !stderrors.As(err, &invalid) {
		t.Fatalf("strict Discover() error = %v, want InvalidPathError", err)
	}
	if invalid.Path != missing {
		t.Errorf("Path = %q, want %q", invalid.Path, missing)
	}
}

func TestDiscover_NoFixtures(t *testing.T) {
	empty := t.TempDir()
	other := filepath.Join(empty, "missing")

	_, err := newTestLoader().Discover(context.Background(), []string{empty, other, empty})
	var nf *NoFixturesFoundError
	if !stderrors.As(err, &nf) {
		t.Fatalf("Discover() error = %v, want NoFixturesFoundError", err)
	}
	want := "could not find any fixtures to load in:\n\n- " + empty + "\n- " + other
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if errors.ExitCode(err) != errors.ExitNoFixtures {
		t.Errorf("ExitCode = %d", errors.ExitCode(err))
	}
}

func TestDiscover_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := newTestLoader().Discover(ctx, []string{t.TempDir()}); !stderrors.Is(err, context.Canceled) {
		t.Errorf("Discover() error = %v, want context.Canceled", err)
	}
}

func TestDiscover_MultiDocument(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "seed.yaml", `
name: users
tables: [{table: users, rows: [{id: 1}]}]
---
name: orders
depends_on: [users]
tables: [{table: orders, rows: [{id: 1, user_id: 1}]}]
---
`)
	set, err := newTestLoader().Discover(context.Background(), []string{dir})
	if err != nil {
		t.Fatalf("Discover() error: %v", err)
	}
	if got := set.IDs(); !reflect.DeepEqual(got, []string{"users", "orders"}) {
		t.Errorf("IDs() = %v", got)
	}
}

func TestDiscover_InvalidDocuments(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantMsg string
	}{
		{"unknown key", "tables: [{table: users, rows: [{id: 1}]}]\nextra: 1\n", "extra"},
		{"no tables or factory", "name: x\ngroups: [a]\n", "tables"},
		{"tables and factory", "factory: sql\ntables: [{table: users, rows: [{id: 1}]}]\n", "factory"},
		{"bad table name", "tables: [{table: 'users; drop', rows: [{id: 1}]}]\n", "tables[0].table"},
		{"bad column name", "tables: [{table: users, rows: [{'na me': 1}]}]\n", "tables[0].rows[0].na me"},
		{"empty rows", "tables: [{table: users, rows: []}]\n", "rows"},
		{"params without factory", "params: {a: 1}\ntables: [{table: users, rows: [{id: 1}]}]\n", "params"},
		{"unnamed multi document", "tables: [{table: a, rows: [{id: 1}]}]\n---\ntables: [{table: b, rows: [{id: 1}]}]\n", "name"},
		{"unknown factory", "factory: nope\n", "unknown factory"},
		{"bad factory params", "factory: sql\nparams: {statements: []}\n", "statements"},
		{"malformed yaml", "tables: [\n", "invalid fixture"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, dir, "broken.yaml", tt.content)

			_, err := newTestLoader().Discover(context.Background(), []string{dir})
			var invalid *InvalidFixtureError
			if !stderrors.As(err, &invalid) {
				t.Fatalf("Discover() error = %v, want InvalidFixtureError", err)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("Error() = %q, want it to contain %q", err.Error(), tt.wantMsg)
			}
			if errors.ExitCode(err) != errors.ExitInvalidInput {
				t.Errorf("ExitCode = %d", errors.ExitCode(err))
			}
		})
	}
}

func TestDiscover_InvalidDocumentIndex(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "seed.yaml", `---
---
name: users
tables: [{table: users, rows: [{id: 1}]}]
---
name: broken
groups: [a]
`)
	_, err := newTestLoader().Discover(context.Background(), []string{dir})
	var invalid *InvalidFixtureError
	if !stderrors.As(err, &invalid) {
		t.Fatalf("Discover() error = %v, want InvalidFixtureError", err)
	}
	if invalid.Document != 2 {
		t.Errorf("Document = %d, want 2", invalid.Document)
	}
	if !strings.Contains(err.Error(), "(document 3)") {
		t.Errorf("Error() = %q", err.Error())
	}
}

type countingFixture struct {
	Base
	rows int
}

func (f *countingFixture) Apply(_ context.Context, _ *gorm.DB, _ *References) error { return nil }

func TestDiscover_Factory(t *testing.T) {
	reg := NewRegistry()
	RegisterBuiltins(reg)
	var seen Deps
	reg.MustRegister("counter", func(deps Deps) (Fixture, error) {
		seen = deps
		var p struct {
			Rows int `mapstructure:"rows"`
		}
		if err := deps.DecodeParams(&p); err != nil {
			return nil, err
		}
		return &countingFixture{Base: deps.Base(), rows: p.Rows}, nil
	})

	dir := t.TempDir()
	path := writeFile(t, dir, "counter.yaml", "factory: counter\ngroups: [perf]\nparams: {rows: \"25\"}\n")
	writeFile(t, dir, "raw.yaml", "factory: sql\nparams: {statements: ['SELECT 1']}\n")

	set, err := NewLoader(reg, nil).Discover(context.Background(), []string{dir})
	if err != nil {
		t.Fatalf("Discover() error: %v", err)
	}
	f, ok := set.Get("counter")
	if !ok {
		t.Fatal("counter fixture missing")
	}
	if f.(*countingFixture).rows != 25 {
		t.Errorf("rows = %d, want 25", f.(*countingFixture).rows)
	}
	if seen.Source != path || seen.Logger == nil || !reflect.DeepEqual(seen.Groups, []string{"perf"}) {
		t.Errorf("unexpected deps %+v", seen)
	}
	if _, ok := set.Get("raw"); !ok {
		t.Error("raw sql fixture missing")
	}
}

func TestDiscover_FactoryWrongID(t *testing.T) {
	reg := NewRegistry()
	reg.MustRegister("liar", func(deps Deps) (Fixture, error) {
		return stub("other"), nil
	})
	dir := t.TempDir()
	writeFile(t, dir, "x.yaml", "factory: liar\n")

	_, err := NewLoader(reg, nil).Discover(context.Background(), []string{dir})
	if err == nil || !strings.Contains(err.Error(), `want "x"`) {
		t.Errorf("Discover() error = %v", err)
	}
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry()
	f := func(Deps) (Fixture, error) { return nil, nil }
	if err := reg.Register("b", f); err != nil {
		t.Fatalf("Register() error: %v", err)
	}
	if err := reg.Register("a", f); err != nil {
		t.Fatalf("Register() error: %v", err)
	}
	if err := reg.Register("a", f); err == nil {
		t.Error("duplicate Register() should fail")
	}
	if err := reg.Register("", f); err == nil {
		t.Error("empty name should fail")
	}
	if got := reg.Names(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("Names() = %v", got)
	}
	if _, ok := reg.Get("c"); ok {
		t.Error("Get(c) found a factory")
	}
}
