// Package testutil provides testing utilities for the database module.
//
// It includes an in-memory SQLite test component that implements both
// component.Component and testutil.TestComponent, plus row helpers for
// seeding and asserting table contents.
//
// # Quick Start
//
//	db := testutil.NewComponent().WithSchema(
//	    "CREATE TABLE users (id INTEGER PRIMARY KEY, name TEXT)",
//	)
//	roottest.T(t).Setup(db)
//
//	testutil.MustInsertRows(t, db.Gorm(), "users", []map[string]interface{}{
//	    {"id": 1, "name": "Alice"},
//	})
//	testutil.AssertRowCount(t, db.Gorm(), "users", 1)
//
// The in-memory database lives on a single pooled connection, so every
// statement inside a transaction must go through the transaction handle.
package testutil
