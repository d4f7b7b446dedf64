package database

import (
	"fmt"
	"sort"
	"strings"

	"gorm.io/gorm"
)

// ForeignKey is a reference from Table to RefTable.
type ForeignKey struct {
	Table    string `gorm:"column:table_name"`
	RefTable string `gorm:"column:ref_table"`
}

// Schema is the set of user tables and the references between them.
type Schema struct {
	Tables      []string
	ForeignKeys []ForeignKey
}

// Dialect returns the dialector name of db ("sqlite", "postgres").
func Dialect(db *gorm.DB) string {
	return db.Dialector.Name()
}

// InTransaction reports whether statements on db run inside a transaction.
func InTransaction(db *gorm.DB) bool {
	committer, ok := db.Statement.ConnPool.(gorm.TxCommitter)
	return ok && committer != nil
}

// QuoteIdent quotes a table or column name for the dialect of db.
// Schema-qualified names are quoted per part.
func QuoteIdent(db *gorm.DB, name string) string {
	var b strings.Builder
	db.Dialector.QuoteTo(&b, name)
	return b.String()
}

// Inspect lists the user tables visible through db, sorted by name, and
// the foreign keys between them. Internal SQLite tables are skipped.
func Inspect(db *gorm.DB) (*Schema, error) {
	tables, err := db.Migrator().GetTables()
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}

	userTables := make([]string, 0, len(tables))
	for _, t := range tables {
		if strings.HasPrefix(t, "sqlite_") {
			continue
		}
		userTables = append(userTables, t)
	}
	sort.Strings(userTables)

	var fks []ForeignKey
	switch Dialect(db) {
	case DriverSQLite:
		fks, err = sqliteForeignKeys(db, userTables)
	case DriverPostgres:
		fks, err = postgresForeignKeys(db)
	}
	if err != nil {
		return nil, fmt.Errorf("list foreign keys: %w", err)
	}

	return &Schema{Tables: userTables, ForeignKeys: fks}, nil
}

type sqliteForeignKey struct {
	Table string `gorm:"column:table"`
}

func sqliteForeignKeys(db *gorm.DB, tables []string) ([]ForeignKey, error) {
	var out []ForeignKey
	for _, t := range tables {
		var rows []sqliteForeignKey
		if err := db.Raw(fmt.Sprintf("PRAGMA foreign_key_list(%s)", QuoteIdent(db, t))).Scan(&rows).Error; err != nil {
			return nil, err
		}
		for _, r := range rows {
			out = append(out, ForeignKey{Table: t, RefTable: r.Table})
		}
	}
	return out, nil
}

const postgresForeignKeyQuery = `
SELECT DISTINCT tc.table_name AS table_name, ccu.table_name AS ref_table
FROM information_schema.table_constraints tc
JOIN information_schema.constraint_column_usage ccu
  ON tc.constraint_name = ccu.constraint_name
 AND tc.constraint_schema = ccu.constraint_schema
WHERE tc.constraint_type = 'FOREIGN KEY'
  AND tc.table_schema = CURRENT_SCHEMA()
ORDER BY 1, 2`

func postgresForeignKeys(db *gorm.DB) ([]ForeignKey, error) {
	var out []ForeignKey
	err := db.Raw(postgresForeignKeyQuery).Scan(&out).Error
	return out, err
}
