package fixture

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// SQLFactoryName is the factory name of the raw SQL fixture.
const SQLFactoryName = "sql"

type sqlParams struct {
	Statements []string `mapstructure:"statements"`
}

// SQLFixture executes raw statements in order.
type SQLFixture struct {
	Base
	Statements []string
}

// Apply executes each statement through tx.
func (f *SQLFixture) Apply(ctx context.Context, tx *gorm.DB, _ *References) error {
	db := tx.WithContext(ctx)
	for i, stmt := range f.Statements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("statement %d: %w", i+1, err)
		}
	}
	return nil
}

// SQLFactory builds a SQLFixture from params {statements: [...]}.
func SQLFactory(deps Deps) (Fixture, error) {
	var p sqlParams
	if err := deps.DecodeParams(&p); err != nil {
		return nil, err
	}
	if len(p.Statements) == 0 {
		return nil, fmt.Errorf("params.statements is required")
	}
	return &SQLFixture{Base: deps.Base(), Statements: p.Statements}, nil
}

// RegisterBuiltins adds the factories every registry ships with.
func RegisterBuiltins(r *Registry) {
	r.MustRegister(SQLFactoryName, SQLFactory)
}
