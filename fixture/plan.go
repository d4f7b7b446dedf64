package fixture

import (
	stderrors "errors"

	"github.com/kbukum/datafixture/dag"
)

// Step is one entry of a Plan.
type Step struct {
	Fixture Fixture
	// Level is the dependency depth: 0 for fixtures without dependencies.
	Level int
}

// Plan is a set of fixtures in an order that satisfies every dependency.
type Plan struct {
	steps []Step
}

// NewPlan builds a plan from fixtures that are already ordered. It does no
// dependency checks; use Order for that.
func NewPlan(fixtures ...Fixture) *Plan {
	p := &Plan{steps: make([]Step, len(fixtures))}
	for i, f := range fixtures {
		p.steps[i] = Step{Fixture: f}
	}
	return p
}

// Steps returns the plan entries in execution order.
func (p *Plan) Steps() []Step {
	out := make([]Step, len(p.steps))
	copy(out, p.steps)
	return out
}

// Fixtures returns the fixtures in execution order.
func (p *Plan) Fixtures() []Fixture {
	out := make([]Fixture, len(p.steps))
	for i, s := range p.steps {
		out[i] = s.Fixture
	}
	return out
}

// IDs returns fixture identifiers in execution order.
func (p *Plan) IDs() []string {
	out := make([]string, len(p.steps))
	for i, s := range p.steps {
		out[i] = s.Fixture.ID()
	}
	return out
}

// Len returns the number of steps.
func (p *Plan) Len() int { return len(p.steps) }

// Order resolves the dependencies of s into a Plan. Each fixture comes
// after all of its dependencies; fixtures that are ready together keep
// their discovery order.
func Order(s *Set) (*Plan, error) {
	g := dag.New()
	for _, f := range s.fixtures {
		g.AddNode(f.ID())
	}
	for _, f := range s.fixtures {
		for _, dep := range f.DependsOn() {
			if !s.Has(dep) {
				return nil, &UnresolvedDependencyError{Fixture: f.ID(), Dependency: dep}
			}
			if err := g.AddEdge(dep, f.ID()); err != nil {
				return nil, err
			}
		}
	}

	order, err := g.TopologicalOrder()
	if err != nil {
		var cycle *dag.CycleError
		if stderrors.As(err, &cycle) {
			return nil, &CyclicDependencyError{Cycle: cycle.Path}
		}
		return nil, err
	}

	levels, err := g.Levels()
	if err != nil {
		return nil, err
	}
	depth := make(map[string]int, len(order))
	for lvl, ids := range levels {
		for _, id := range ids {
			depth[id] = lvl
		}
	}

	p := &Plan{steps: make([]Step, len(order))}
	for i, id := range order {
		f, _ := s.Get(id)
		p.steps[i] = Step{Fixture: f, Level: depth[id]}
	}
	return p, nil
}
