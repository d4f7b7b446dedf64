package fixture

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/kbukum/datafixture/database"
	"github.com/kbukum/datafixture/util"
)

// RefKey is the row key that names a row for later reference.
const RefKey = "_ref"

// Row is a set of column values.
type Row map[string]any

// TableData is the rows inserted into one table.
type TableData struct {
	Table string
	Rows  []Row
}

// DataFixture inserts literal rows, table by table, in document order.
type DataFixture struct {
	Base
	Source string
	Tables []TableData
}

var _ Fixture = (*DataFixture)(nil)

func newDataFixture(base Base, source string, tables []tableDocument) *DataFixture {
	f := &DataFixture{Base: base, Source: source, Tables: make([]TableData, len(tables))}
	for i, t := range tables {
		rows := make([]Row, len(t.Rows))
		for j, r := range t.Rows {
			rows[j] = Row(r)
		}
		f.Tables[i] = TableData{Table: t.Table, Rows: rows}
	}
	return f
}

// Apply inserts every row. "@name.column" values are resolved against refs
// and rows carrying RefKey are stored in refs once inserted, including the
// columns the database filled in.
func (f *DataFixture) Apply(ctx context.Context, tx *gorm.DB, refs *References) error {
	db := tx.WithContext(ctx)
	for _, t := range f.Tables {
		for i, row := range t.Rows {
			values, name, err := prepareRow(row, refs)
			if err != nil {
				return fmt.Errorf("%s row %d: %w", t.Table, i+1, err)
			}
			if name == "" {
				if err := db.Table(t.Table).Create(values).Error; err != nil {
					return fmt.Errorf("%s row %d: %w", t.Table, i+1, err)
				}
				continue
			}
			stored, err := insertReturning(db, t.Table, values)
			if err != nil {
				return fmt.Errorf("%s row %d: %w", t.Table, i+1, err)
			}
			if err := refs.Set(name, stored); err != nil {
				return fmt.Errorf("%s row %d: %w", t.Table, i+1, err)
			}
		}
	}
	return nil
}

// prepareRow copies row without RefKey, resolving references and encoding
// nested maps and lists as JSON text.
func prepareRow(row Row, refs *References) (map[string]interface{}, string, error) {
	values := make(map[string]interface{}, len(row))
	var name string
	for col, v := range row {
		if col == RefKey {
			name, _ = v.(string)
			continue
		}
		resolved, err := refs.Resolve(v)
		if err != nil {
			return nil, "", fmt.Errorf("column %s: %w", col, err)
		}
		switch resolved.(type) {
		case map[string]any, []any:
			raw, err := json.Marshal(resolved)
			if err != nil {
				return nil, "", fmt.Errorf("column %s: %w", col, err)
			}
			resolved = string(raw)
		}
		values[col] = resolved
	}
	return values, name, nil
}

// insertReturning inserts values and returns the persisted row, generated
// keys and defaults included. Both supported backends accept RETURNING.
func insertReturning(db *gorm.DB, table string, values map[string]interface{}) (map[string]interface{}, error) {
	cols := util.SortedKeys(values)

	var q strings.Builder
	q.WriteString("INSERT INTO ")
	q.WriteString(database.QuoteIdent(db, table))
	args := make([]interface{}, len(cols))
	if len(cols) == 0 {
		q.WriteString(" DEFAULT VALUES")
	} else {
		quoted := make([]string, len(cols))
		for i, col := range cols {
			quoted[i] = database.QuoteIdent(db, col)
			args[i] = values[col]
		}
		q.WriteString(" (" + strings.Join(quoted, ", ") + ") VALUES (")
		q.WriteString(strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ") + ")")
	}
	q.WriteString(" RETURNING *")

	stored := make(map[string]interface{}, len(values))
	for col, v := range values {
		stored[col] = v
	}
	var returned map[string]interface{}
	if err := db.Raw(q.String(), args...).Scan(&returned).Error; err != nil {
		return nil, err
	}
	for col, v := range returned {
		stored[col] = v
	}
	return stored, nil
}
