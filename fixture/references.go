package fixture

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/kbukum/datafixture/util"
)

// refPattern matches "@name.column". Names may contain dashes and colons.
var refPattern = regexp.MustCompile(`^@([A-Za-z0-9_:-]+)\.([A-Za-z_][A-Za-z0-9_]*)$`)

// References holds named rows shared between fixtures of one run.
type References struct {
	mu   sync.RWMutex
	rows map[string]map[string]any
}

// NewReferences creates an empty reference table.
func NewReferences() *References {
	return &References{rows: make(map[string]map[string]any)}
}

// Set stores row under name. A name can only be set once per run.
func (r *References) Set(name string, row map[string]any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.rows[name]; exists {
		return fmt.Errorf("reference %q already defined", name)
	}
	cp := make(map[string]any, len(row))
	for k, v := range row {
		cp[k] = v
	}
	r.rows[name] = cp
	return nil
}

// Get returns the row stored under name.
func (r *References) Get(name string) (map[string]any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	row, ok := r.rows[name]
	return row, ok
}

// Value returns one column of a referenced row.
func (r *References) Value(name, column string) (any, error) {
	row, ok := r.Get(name)
	if !ok {
		return nil, fmt.Errorf("unknown reference %q", name)
	}
	v, ok := row[column]
	if !ok {
		return nil, fmt.Errorf("reference %q has no column %q", name, column)
	}
	return v, nil
}

// Names returns the defined reference names, sorted.
func (r *References) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return util.SortedKeys(r.rows)
}

// Len returns the number of references.
func (r *References) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rows)
}

// Resolve substitutes a "@name.column" string with the referenced value.
// A leading "@@" escapes a literal "@". Other values are returned as is.
func (r *References) Resolve(v any) (any, error) {
	s, ok := v.(string)
	if !ok || !strings.HasPrefix(s, "@") {
		return v, nil
	}
	if strings.HasPrefix(s, "@@") {
		return s[1:], nil
	}
	m := refPattern.FindStringSubmatch(s)
	if m == nil {
		return v, nil
	}
	return r.Value(m[1], m[2])
}
