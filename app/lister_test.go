package app

import (
	"bytes"
	"context"
	"reflect"
	"testing"

	"github.com/kbukum/datafixture/config"
)

func TestLister_Run(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "base/users.yaml", usersFixture)
	writeFixture(t, dir, "base/orders.yaml", ordersFixture)
	writeFixture(t, dir, "demo/tags.yaml", "tables: [{table: tags, rows: [{id: 1}]}]\n")

	cfg := config.FixturesConfig{Groups: map[string][]string{
		"default": {dir + "/base"},
		"demo":    {dir + "/base", dir + "/demo"},
	}}

	tests := []struct {
		name  string
		opts  ListOptions
		ids   []string
		label string
	}{
		{"default group", ListOptions{}, []string{"users", "orders"}, "<comment>Loading [ default ] group.</>\n"},
		{"named group", ListOptions{Group: "demo"}, []string{"users", "orders", "tags"}, "<comment>Loading [ demo ] group.</>\n"},
		{"explicit paths", ListOptions{Fixtures: []string{dir + "/demo"}, Group: "demo"}, []string{"tags"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := &bytes.Buffer{}
			plan, err := NewLister(newLoader(), cfg, out).Run(context.Background(), tt.opts)
			if err != nil {
				t.Fatalf("Run() error: %v", err)
			}
			if !reflect.DeepEqual(plan.IDs(), tt.ids) {
				t.Errorf("IDs() = %v, want %v", plan.IDs(), tt.ids)
			}
			header := "<comment>Listing fixtures.</>\n<comment>-----------------</>\n\n" + tt.label
			if got := out.String(); len(got) < len(header) || got[:len(header)] != header {
				t.Errorf("output:\n%s\nwant prefix:\n%s", got, header)
			}
		})
	}
}

func TestLister_ShowsDependencies(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "users.yaml", usersFixture)
	writeFixture(t, dir, "orders.yaml", ordersFixture)

	out := &bytes.Buffer{}
	if _, err := NewLister(newLoader(), config.FixturesConfig{}, out).Run(context.Background(), ListOptions{Fixtures: []string{dir}}); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	want := "<comment>Listing fixtures.</>\n" +
		"<comment>-----------------</>\n" +
		"\n" +
		"  <comment>✔</> <info>users</>\n" +
		"  <comment>✔</> <info>orders</> <comment>(depends on users)</>\n" +
		"\n"
	if got := out.String(); got != want {
		t.Errorf("output:\n%s\nwant:\n%s", got, want)
	}
}
