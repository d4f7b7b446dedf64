package fixture

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/kbukum/datafixture/validation"
)

// document is one YAML fixture definition.
type document struct {
	Name      string          `yaml:"name"`
	DependsOn []string        `yaml:"depends_on" validate:"dive,required"`
	Groups    []string        `yaml:"groups" validate:"dive,required"`
	Factory   string          `yaml:"factory" validate:"excluded_with=Tables"`
	Params    map[string]any  `yaml:"params"`
	Tables    []tableDocument `yaml:"tables" validate:"required_without=Factory,dive"`

	// index is the position of the document in its file, empty ones included.
	index int
}

type tableDocument struct {
	Table string           `yaml:"table" validate:"required,identifier"`
	Rows  []map[string]any `yaml:"rows" validate:"required,min=1"`
}

func (d *document) empty() bool {
	return d.Name == "" && d.Factory == "" && len(d.Tables) == 0 &&
		len(d.DependsOn) == 0 && len(d.Groups) == 0 && len(d.Params) == 0
}

// parseDocuments decodes every non-empty YAML document in data. Unknown
// keys are rejected. The first error is returned as *InvalidFixtureError.
func parseDocuments(path string, data []byte) ([]document, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var docs []document
	for i := 0; ; i++ {
		var d document
		err := dec.Decode(&d)
		if stderrors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &InvalidFixtureError{Path: path, Document: i, Cause: err}
		}
		if d.empty() {
			continue
		}
		d.index = i
		docs = append(docs, d)
	}

	if len(docs) == 1 && docs[0].Name == "" {
		docs[0].Name = defaultName(path)
	}
	for i := range docs {
		if err := docs[i].validate(); err != nil {
			return nil, &InvalidFixtureError{Path: path, Document: docs[i].index, Cause: err}
		}
	}
	return docs, nil
}

// defaultName is the file base name without its extension.
func defaultName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func (d *document) validate() error {
	if err := validation.Validate(d); err != nil {
		return err
	}

	v := validation.New().
		Required("name", d.Name).
		Custom(!strings.ContainsAny(d.Name, " \t\r\n"), "name", "must not contain whitespace").
		Custom(d.Factory != "" || len(d.Params) == 0, "params", "requires factory")

	for ti, t := range d.Tables {
		for ri, row := range t.Rows {
			for col, val := range row {
				field := fmt.Sprintf("tables[%d].rows[%d].%s", ti, ri, col)
				if col == RefKey {
					s, ok := val.(string)
					v.Custom(ok && s != "", field, "must be a non-empty string")
					continue
				}
				v.Identifier(field, col)
			}
		}
	}

	if appErr := v.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

// build turns a validated document into a fixture.
func (d *document) build(path string, registry *Registry, deps Deps) (Fixture, error) {
	deps.ID = d.Name
	deps.DependsOn = d.DependsOn
	deps.Groups = d.Groups
	deps.Params = d.Params
	deps.Source = path

	if d.Factory == "" {
		return newDataFixture(deps.Base(), path, d.Tables), nil
	}

	if registry == nil {
		return nil, fmt.Errorf("factory %q: no registry configured", d.Factory)
	}
	factory, ok := registry.Get(d.Factory)
	if !ok {
		return nil, fmt.Errorf("unknown factory %q (registered: %s)", d.Factory, strings.Join(registry.Names(), ", "))
	}
	f, err := factory(deps)
	if err != nil {
		return nil, fmt.Errorf("factory %q: %w", d.Factory, err)
	}
	if f == nil {
		return nil, fmt.Errorf("factory %q returned no fixture", d.Factory)
	}
	if f.ID() != d.Name {
		return nil, fmt.Errorf("factory %q built fixture %q, want %q", d.Factory, f.ID(), d.Name)
	}
	return f, nil
}
