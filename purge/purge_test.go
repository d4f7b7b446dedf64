package purge

import (
	"context"
	stderrors "errors"
	"reflect"
	"strings"
	"testing"

	"gorm.io/gorm"

	dbtest "github.com/kbukum/datafixture/database/testutil"
	"github.com/kbukum/datafixture/errors"
	"github.com/kbukum/datafixture/testutil"
)

var shopSchema = []string{
	"CREATE TABLE users (id INTEGER PRIMARY KEY AUTOINCREMENT, name TEXT)",
	"CREATE TABLE orders (id INTEGER PRIMARY KEY, user_id INTEGER NOT NULL REFERENCES users(id))",
	"CREATE TABLE order_items (id INTEGER PRIMARY KEY, order_id INTEGER NOT NULL REFERENCES orders(id))",
	"CREATE TABLE schema_migrations (version TEXT PRIMARY KEY)",
}

func startDB(t *testing.T, schema ...string) *gorm.DB {
	t.Helper()
	db := dbtest.NewComponent().WithSchema(schema...)
	testutil.T(t).Setup(db)
	return db.Gorm()
}

func seedShop(t *testing.T, db *gorm.DB) {
	t.Helper()
	dbtest.MustExec(t, db, "INSERT INTO users (name) VALUES ('alice'), ('bob')")
	dbtest.MustExec(t, db, "INSERT INTO orders (id, user_id) VALUES (1, 1), (2, 2)")
	dbtest.MustExec(t, db, "INSERT INTO order_items (id, order_id) VALUES (1, 1)")
	dbtest.MustExec(t, db, "INSERT INTO schema_migrations (version) VALUES ('001')")
}

func TestMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"", ModeDelete, false},
		{"delete", ModeDelete, false},
		{"TRUNCATE", ModeTruncate, false},
		{"drop", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseMode(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseMode(%q) = %v, %v", tt.in, got, err)
		}
	}
	if ModeDelete.String() != "delete" || ModeTruncate.String() != "truncate" {
		t.Error("unexpected mode names")
	}
}

func TestPlan_ChildrenFirst(t *testing.T) {
	db := startDB(t, shopSchema...)

	tables, cyclic, err := New(nil, WithExcluded("SCHEMA_MIGRATIONS")).Plan(db)
	if err != nil {
		t.Fatalf("Plan() error: %v", err)
	}
	if cyclic {
		t.Error("Plan() reported a cycle")
	}
	want := []string{"order_items", "orders", "users"}
	if !reflect.DeepEqual(tables, want) {
		t.Errorf("Plan() = %v, want %v", tables, want)
	}
}

func TestPurge_Modes(t *testing.T) {
	tests := []struct {
		mode   Mode
		nextID int64
	}{
		{ModeDelete, 3},
		{ModeTruncate, 1},
	}
	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			db := startDB(t, shopSchema...)
			seedShop(t, db)

			p := New(nil, WithExcluded("schema_migrations"))
			if err := p.Purge(context.Background(), db, tt.mode); err != nil {
				t.Fatalf("Purge() error: %v", err)
			}
			for _, table := range []string{"users", "orders", "order_items"} {
				dbtest.AssertTableEmpty(t, db, table)
			}
			dbtest.AssertRowCount(t, db, "schema_migrations", 1)

			dbtest.MustExec(t, db, "INSERT INTO users (name) VALUES ('carol')")
			if got := dbtest.Column[int64](t, db, "users", "id"); !reflect.DeepEqual(got, []int64{tt.nextID}) {
				t.Errorf("next id = %v, want %d", got, tt.nextID)
			}
		})
	}
}

func TestPurge_EmptyStore(t *testing.T) {
	db := startDB(t)
	for _, mode := range []Mode{ModeDelete, ModeTruncate} {
		if err := New(nil).Purge(context.Background(), db, mode); err != nil {
			t.Errorf("Purge(%s) on empty store error: %v", mode, err)
		}
	}
}

func TestPurge_ForeignKeyCycle(t *testing.T) {
	db := startDB(t,
		"CREATE TABLE a (id INTEGER PRIMARY KEY, b_id INTEGER REFERENCES b(id))",
		"CREATE TABLE b (id INTEGER PRIMARY KEY, a_id INTEGER REFERENCES a(id))",
	)
	dbtest.MustExec(t, db, "INSERT INTO a (id) VALUES (1)")
	dbtest.MustExec(t, db, "INSERT INTO b (id, a_id) VALUES (1, 1)")
	dbtest.MustExec(t, db, "UPDATE a SET b_id = 1")

	p := New(nil)
	tables, cyclic, err := p.Plan(db)
	if err != nil {
		t.Fatalf("Plan() error: %v", err)
	}
	if !cyclic || !reflect.DeepEqual(tables, []string{"a", "b"}) {
		t.Errorf("Plan() = %v cyclic=%v", tables, cyclic)
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		return p.Purge(context.Background(), tx, ModeDelete)
	})
	if err != nil {
		t.Fatalf("Purge() error: %v", err)
	}
	dbtest.AssertTableEmpty(t, db, "a")
	dbtest.AssertTableEmpty(t, db, "b")
}

func TestPurge_ForeignKeyCycleRequiresTransaction(t *testing.T) {
	db := startDB(t,
		"CREATE TABLE a (id INTEGER PRIMARY KEY, b_id INTEGER REFERENCES b(id))",
		"CREATE TABLE b (id INTEGER PRIMARY KEY, a_id INTEGER REFERENCES a(id))",
	)
	dbtest.MustExec(t, db, "INSERT INTO a (id) VALUES (1)")
	dbtest.MustExec(t, db, "INSERT INTO b (id, a_id) VALUES (1, 1)")
	dbtest.MustExec(t, db, "UPDATE a SET b_id = 1")

	err := New(nil).Purge(context.Background(), db, ModeDelete)
	var perr *Error
	if !stderrors.As(err, &perr) {
		t.Fatalf("Purge() error = %v, want *Error", err)
	}
	if !strings.Contains(err.Error(), "requires a transaction") {
		t.Errorf("Error() = %q", err.Error())
	}
	dbtest.AssertRowCount(t, db, "a", 1)
	dbtest.AssertRowCount(t, db, "b", 1)
}

func TestTruncateStatement(t *testing.T) {
	got := truncateStatement([]string{`"order_items"`, `"orders"`, `"users"`})
	want := `TRUNCATE TABLE "order_items", "orders", "users" RESTART IDENTITY`
	if got != want {
		t.Errorf("truncateStatement() = %q, want %q", got, want)
	}
}

func TestPurge_UnknownMode(t *testing.T) {
	db := startDB(t, shopSchema...)
	err := New(nil).Purge(context.Background(), db, Mode(9))
	var perr *Error
	if !stderrors.As(err, &perr) {
		t.Fatalf("Purge() error = %v, want *Error", err)
	}
	if errors.ExitCode(err) != errors.ExitPurge {
		t.Errorf("ExitCode = %d, want %d", errors.ExitCode(err), errors.ExitPurge)
	}
}

func TestError_Message(t *testing.T) {
	err := &Error{Table: "users", Mode: ModeTruncate, Cause: stderrors.New("locked")}
	if err.Error() != `purge (truncate) of table "users" failed: locked` {
		t.Errorf("Error() = %q", err.Error())
	}
	if !stderrors.Is(err, err.Cause) {
		t.Error("Unwrap() lost the cause")
	}
}
