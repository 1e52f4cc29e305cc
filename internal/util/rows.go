package util

import (
	"database/sql"

	"github.com/kottster/adminkit/internal"
)

// CoerceFunc converts one raw driver value into its API representation using
// the column's inferred metadata. A nil column means the value came from a
// raw query with no schema backing.
type CoerceFunc func(val any, col *internal.SchemaColumn) any

// ScanRecords drains rows into records, applying coerce per value. Column
// metadata is looked up by result column name when data is non-nil.
func ScanRecords(rows *sql.Rows, data *internal.TableData, coerce CoerceFunc) ([]internal.Record, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	records := make([]internal.Record, 0)
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		record := make(internal.Record, len(columns))
		for i, name := range columns {
			var col *internal.SchemaColumn
			if data != nil {
				col = data.ColumnSchema(name)
			}
			record[name] = coerce(values[i], col)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}
