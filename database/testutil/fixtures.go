package testutil

import (
	"fmt"
	"testing"

	"gorm.io/gorm"

	"github.com/kbukum/datafixture/database"
)

// InsertRows inserts rows into a table one by one.
func InsertRows(db *gorm.DB, table string, rows []map[string]interface{}) error {
	for _, row := range rows {
		if err := db.Table(table).Create(row).Error; err != nil {
			return fmt.Errorf("failed to insert row into %s: %w", table, err)
		}
	}
	return nil
}

// MustInsertRows inserts rows and fails the test on error.
func MustInsertRows(t testing.TB, db *gorm.DB, table string, rows []map[string]interface{}) {
	t.Helper()
	if err := InsertRows(db, table, rows); err != nil {
		t.Fatalf("InsertRows failed: %v", err)
	}
}

// MustExec runs a statement and fails the test on error.
func MustExec(t testing.TB, db *gorm.DB, sql string, args ...interface{}) {
	t.Helper()
	if err := db.Exec(sql, args...).Error; err != nil {
		t.Fatalf("exec %q failed: %v", sql, err)
	}
}

// TableExists checks if a table exists in the database.
func TableExists(db *gorm.DB, table string) bool {
	return db.Migrator().HasTable(table)
}

// CountRows returns the number of rows in a table.
func CountRows(db *gorm.DB, table string) (int64, error) {
	var count int64
	err := db.Table(table).Count(&count).Error
	return count, err
}

// AssertTableEmpty fails the test if the table is not empty.
func AssertTableEmpty(t testing.TB, db *gorm.DB, table string) {
	t.Helper()
	AssertRowCount(t, db, table, 0)
}

// AssertRowCount fails the test if the table doesn't have the expected row count.
func AssertRowCount(t testing.TB, db *gorm.DB, table string, expected int64) {
	t.Helper()
	count, err := CountRows(db, table)
	if err != nil {
		t.Fatalf("failed to count rows in %s: %v", table, err)
	}
	if count != expected {
		t.Errorf("table %s row count = %d, want %d", table, count, expected)
	}
}

// Column returns one column of a table ordered by that column.
func Column[T any](t testing.TB, db *gorm.DB, table, column string) []T {
	t.Helper()
	var out []T
	quoted := database.QuoteIdent(db, column)
	if err := db.Table(table).Order(quoted).Pluck(column, &out).Error; err != nil {
		t.Fatalf("failed to read %s.%s: %v", table, column, err)
	}
	return out
}
