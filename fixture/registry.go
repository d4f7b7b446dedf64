package fixture

import (
	"fmt"
	"sort"
	"sync"

	"github.com/go-viper/mapstructure/v2"

	"github.com/kbukum/datafixture/logger"
)

// Deps is everything a Factory may use to build a fixture. It is passed
// explicitly so fixtures never reach into global state.
type Deps struct {
	ID        string
	DependsOn []string
	Groups    []string
	Params    map[string]any
	Source    string
	Logger    *logger.Logger
}

// Base returns the identity declared by the document.
func (d Deps) Base() Base {
	return Base{Name: d.ID, Deps: d.DependsOn, GroupList: d.Groups}
}

// DecodeParams decodes Params into out, which must be a pointer to a struct
// or map. Field names follow `mapstructure` tags; scalars are converted
// weakly so "5" fills an int.
func (d Deps) DecodeParams(out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		TagName:          "mapstructure",
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(d.Params); err != nil {
		return fmt.Errorf("params of %q: %w", d.ID, err)
	}
	return nil
}

// Factory builds a fixture from a document that names it.
type Factory func(deps Deps) (Fixture, error)

// Registry maps factory names to code fixtures.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates a new empty Registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a factory. Names are unique.
func (r *Registry) Register(name string, f Factory) error {
	if name == "" || f == nil {
		return fmt.Errorf("fixture: factory name and func are required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("fixture: factory %q already registered", name)
	}
	r.factories[name] = f
	return nil
}

// MustRegister is Register that panics on error. Meant for init-time wiring.
func (r *Registry) MustRegister(name string, f Factory) {
	if err := r.Register(name, f); err != nil {
		panic(err)
	}
}

// Get retrieves a factory by name.
func (r *Registry) Get(name string) (Factory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.factories[name]
	return f, ok
}

// Names returns sorted names of all registered factories.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
