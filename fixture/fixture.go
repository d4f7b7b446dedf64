package fixture

import (
	"context"
	"strings"

	"gorm.io/gorm"
)

// Fixture is a unit of seed data applied to the store.
type Fixture interface {
	// ID returns the unique fixture identifier.
	ID() string
	// DependsOn returns the identifiers that must be applied first.
	DependsOn() []string
	// Groups returns the groups the fixture belongs to.
	Groups() []string
	// Apply writes the fixture through tx. Rows registered in refs by
	// earlier fixtures can be looked up, and new ones added.
	Apply(ctx context.Context, tx *gorm.DB, refs *References) error
}

// Base carries the identity part of a Fixture. Code fixtures embed it and
// implement only Apply.
type Base struct {
	Name      string
	Deps      []string
	GroupList []string
}

// ID returns the fixture identifier.
func (b Base) ID() string { return b.Name }

// DependsOn returns a copy of the declared dependencies.
func (b Base) DependsOn() []string { return append([]string(nil), b.Deps...) }

// Groups returns a copy of the group names.
func (b Base) Groups() []string { return append([]string(nil), b.GroupList...) }

// InGroup reports whether f declares group. Group names compare case-insensitively.
func InGroup(f Fixture, group string) bool {
	for _, g := range f.Groups() {
		if strings.EqualFold(g, group) {
			return true
		}
	}
	return false
}

// Func adapts a function into a Fixture.
type Func struct {
	Base
	Fn func(ctx context.Context, tx *gorm.DB, refs *References) error
}

// Apply calls Fn.
func (f *Func) Apply(ctx context.Context, tx *gorm.DB, refs *References) error {
	if f.Fn == nil {
		return nil
	}
	return f.Fn(ctx, tx, refs)
}
