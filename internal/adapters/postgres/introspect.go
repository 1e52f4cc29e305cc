package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/kottster/adminkit/internal"
)

// schemaQuery is one aggregate pass over the catalog: tables and columns
// joined with CTEs for primary keys (auto-increment via the serial sequence
// lookup), foreign keys and enum labels. Array element types are resolved
// through pg_attribute/format_type when data_type is ARRAY.
const schemaQuery = `
WITH pk AS (
    SELECT kcu.table_name, kcu.column_name
    FROM information_schema.table_constraints tc
    JOIN information_schema.key_column_usage kcu
        ON kcu.constraint_name = tc.constraint_name AND kcu.table_schema = tc.table_schema
    WHERE tc.constraint_type = 'PRIMARY KEY' AND tc.table_schema = $1
), fk AS (
    SELECT kcu.table_name, kcu.column_name,
           ccu.table_name AS foreign_table_name, ccu.column_name AS foreign_column_name
    FROM information_schema.table_constraints tc
    JOIN information_schema.key_column_usage kcu
        ON kcu.constraint_name = tc.constraint_name AND kcu.table_schema = tc.table_schema
    JOIN information_schema.constraint_column_usage ccu
        ON ccu.constraint_name = tc.constraint_name AND ccu.table_schema = tc.table_schema
    WHERE tc.constraint_type = 'FOREIGN KEY' AND tc.table_schema = $1
), enums AS (
    SELECT t.typname, string_agg(e.enumlabel, ',' ORDER BY e.enumsortorder) AS labels
    FROM pg_type t
    JOIN pg_enum e ON e.enumtypid = t.oid
    GROUP BY t.typname
)
SELECT
    t.table_name,
    c.column_name,
    c.data_type,
    c.udt_name,
    c.is_nullable = 'YES' AS nullable,
    pk.column_name IS NOT NULL AS is_primary_key,
    pg_get_serial_sequence(quote_ident(t.table_name), c.column_name) IS NOT NULL AS is_auto_increment,
    fk.foreign_table_name,
    fk.foreign_column_name,
    en.labels AS enum_values,
    CASE WHEN c.data_type = 'ARRAY' THEN (
        SELECT format_type(a.atttypelem, a.atttypmod)
        FROM pg_attribute a
        WHERE a.attrelid = (quote_ident(c.table_schema) || '.' || quote_ident(c.table_name))::regclass
          AND a.attname = c.column_name
    ) END AS array_element_type
FROM information_schema.tables t
JOIN information_schema.columns c
    ON c.table_name = t.table_name AND c.table_schema = t.table_schema
LEFT JOIN pk ON pk.table_name = c.table_name AND pk.column_name = c.column_name
LEFT JOIN fk ON fk.table_name = c.table_name AND fk.column_name = c.column_name
LEFT JOIN enums en ON en.typname = c.udt_name
WHERE t.table_schema = $1 AND t.table_type = 'BASE TABLE'
ORDER BY t.table_name, c.ordinal_position`

// GetDatabaseSchema builds a fresh schema from the catalog. Any catalog
// query failure fails the whole call.
func (a *postgresAdapter) GetDatabaseSchema(ctx context.Context) (*internal.DatabaseSchema, error) {
	rows, err := a.db.QueryContext(ctx, schemaQuery, a.schemaName)
	if err != nil {
		return nil, fmt.Errorf("unable to query catalog: %w", err)
	}
	defer rows.Close()

	schema := &internal.DatabaseSchema{Name: a.schemaName}
	var current *internal.SchemaTable
	for rows.Next() {
		var tableName, columnName, dataType, udtName string
		var nullable, isPrimaryKey, isAutoIncrement bool
		var foreignTable, foreignColumn, enumValues, arrayElementType sql.NullString
		if err := rows.Scan(&tableName, &columnName, &dataType, &udtName, &nullable,
			&isPrimaryKey, &isAutoIncrement, &foreignTable, &foreignColumn,
			&enumValues, &arrayElementType); err != nil {
			return nil, fmt.Errorf("unable to scan catalog row: %w", err)
		}

		if current == nil || current.Name != tableName {
			schema.Tables = append(schema.Tables, internal.SchemaTable{Name: tableName})
			current = &schema.Tables[len(schema.Tables)-1]
		}

		col := internal.SchemaColumn{
			Name:     columnName,
			FullType: dataType,
			Nullable: nullable,
		}
		switch {
		case dataType == "ARRAY" && arrayElementType.Valid:
			col.Type = arrayElementType.String + "[]"
			col.FullType = col.Type
			col.IsArray = true
		case dataType == "USER-DEFINED":
			col.Type = udtName
			col.FullType = udtName
		default:
			col.Type = dataType
		}
		if isPrimaryKey {
			col.PrimaryKey = &internal.PrimaryKey{AutoIncrement: isAutoIncrement}
		}
		if foreignTable.Valid && foreignColumn.Valid {
			col.ForeignKey = &internal.ForeignKey{Table: foreignTable.String, Column: foreignColumn.String}
		}
		if enumValues.Valid {
			col.EnumValues = enumValues.String
		}
		a.mapping.ClassifyColumn(&col)
		current.Columns = append(current.Columns, col)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("unable to read catalog rows: %w", err)
	}
	a.logger.Debug("discovered %d tables in schema %s", len(schema.Tables), a.schemaName)
	return schema, nil
}

// getConnectionStringFromURL normalizes a postgres URL into a lib/pq DSN,
// defaulting sslmode off for local development connections.
func getConnectionStringFromURL(urlstr string) (string, error) {
	if !strings.Contains(urlstr, "://") {
		return "", fmt.Errorf("invalid postgres url: %s", urlstr)
	}
	if !strings.Contains(urlstr, "sslmode=") {
		sep := "?"
		if strings.Contains(urlstr, "?") {
			sep = "&"
		}
		urlstr += sep + "sslmode=disable"
	}
	return urlstr, nil
}
