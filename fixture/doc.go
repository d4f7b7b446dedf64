// Package fixture defines data fixtures and everything needed to turn a set
// of search paths into an ordered execution plan.
//
// A Fixture is a named unit of seed data with optional dependencies and
// group membership. Fixtures come from YAML documents found by a Loader or
// from Go code registered in a Registry and referenced by a document's
// factory key.
//
//	loader := fixture.NewLoader(registry, log)
//	set, err := loader.Discover(ctx, []string{"fixtures/"})
//	plan, err := fixture.Order(set)
//
// Plans are stable: fixtures that become ready at the same time keep the
// order in which they were discovered.
package fixture
