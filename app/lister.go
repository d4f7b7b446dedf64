package app

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/kbukum/datafixture/config"
	"github.com/kbukum/datafixture/fixture"
)

// ListOptions are the flags of one listing.
type ListOptions struct {
	Fixtures []string
	Group    string
}

// Lister prints the fixtures an import would apply, in plan order.
type Lister struct {
	loader   *fixture.Loader
	fixtures config.FixturesConfig
	out      io.Writer
}

// NewLister creates a Lister.
func NewLister(loader *fixture.Loader, fixtures config.FixturesConfig, out io.Writer) *Lister {
	return &Lister{loader: loader, fixtures: fixtures, out: out}
}

// Run prints the plan without touching the database.
func (l *Lister) Run(ctx context.Context, opts ListOptions) (*fixture.Plan, error) {
	heading(l.out, "Listing fixtures.")
	io.WriteString(l.out, "\n")

	sel, err := ResolvePaths(opts.Fixtures, opts.Group, l.fixtures)
	if err != nil {
		return nil, err
	}
	comment(l.out, sel.Label)

	plan, err := selectPlan(ctx, l.loader, sel)
	if err != nil {
		return nil, err
	}
	for _, f := range plan.Fixtures() {
		if deps := f.DependsOn(); len(deps) > 0 {
			fmt.Fprintf(l.out, "  <comment>✔</> <info>%s</> <comment>(depends on %s)</>\n", f.ID(), strings.Join(deps, ", "))
			continue
		}
		tick(l.out, f.ID())
	}
	io.WriteString(l.out, "\n")
	return plan, nil
}
