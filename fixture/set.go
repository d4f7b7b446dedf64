package fixture

// Set is a discovery-ordered collection of fixtures with unique identifiers.
type Set struct {
	fixtures []Fixture
	index    map[string]int
	sources  []string
}

// NewSet creates an empty set.
func NewSet() *Set {
	return &Set{index: make(map[string]int)}
}

// NewSetOf builds a set from fixtures in the given order.
func NewSetOf(fixtures ...Fixture) (*Set, error) {
	s := NewSet()
	for _, f := range fixtures {
		if err := s.Add(f, ""); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Add appends f. source names where f was defined and is used in errors.
func (s *Set) Add(f Fixture, source string) error {
	if i, exists := s.index[f.ID()]; exists {
		return &DuplicateFixtureError{ID: f.ID(), First: s.sourceOr(i), Second: orCode(source)}
	}
	s.index[f.ID()] = len(s.fixtures)
	s.fixtures = append(s.fixtures, f)
	s.sources = append(s.sources, source)
	return nil
}

func (s *Set) sourceOr(i int) string { return orCode(s.sources[i]) }

func orCode(source string) string {
	if source == "" {
		return "<code>"
	}
	return source
}

// Get returns the fixture with the given identifier.
func (s *Set) Get(id string) (Fixture, bool) {
	i, ok := s.index[id]
	if !ok {
		return nil, false
	}
	return s.fixtures[i], true
}

// Has reports whether id is in the set.
func (s *Set) Has(id string) bool {
	_, ok := s.index[id]
	return ok
}

// Source returns where id was defined, or "" for code fixtures.
func (s *Set) Source(id string) string {
	i, ok := s.index[id]
	if !ok {
		return ""
	}
	return s.sources[i]
}

// All returns the fixtures in discovery order.
func (s *Set) All() []Fixture {
	out := make([]Fixture, len(s.fixtures))
	copy(out, s.fixtures)
	return out
}

// IDs returns the identifiers in discovery order.
func (s *Set) IDs() []string {
	out := make([]string, len(s.fixtures))
	for i, f := range s.fixtures {
		out[i] = f.ID()
	}
	return out
}

// Len returns the number of fixtures.
func (s *Set) Len() int { return len(s.fixtures) }

// SelectGroup returns the fixtures that declare group together with their
// transitive dependencies, in discovery order. Dependencies missing from s
// are left for Order to report.
func SelectGroup(s *Set, group string) (*Set, error) {
	keep := make(map[string]bool)
	var visit func(id string)
	visit = func(id string) {
		if keep[id] {
			return
		}
		f, ok := s.Get(id)
		if !ok {
			return
		}
		keep[id] = true
		for _, dep := range f.DependsOn() {
			visit(dep)
		}
	}

	matched := false
	for _, f := range s.fixtures {
		if InGroup(f, group) {
			matched = true
			visit(f.ID())
		}
	}
	if !matched {
		return nil, &GroupNotFoundError{Group: group}
	}

	out := NewSet()
	for i, f := range s.fixtures {
		if keep[f.ID()] {
			// IDs are already unique in s.
			_ = out.Add(f, s.sources[i])
		}
	}
	return out, nil
}
