package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/kottster/adminkit/internal"
	"golang.org/x/sync/errgroup"
)

const listTablesQuery = `
SELECT table_name
FROM information_schema.tables
WHERE table_schema = DATABASE() AND table_type = 'BASE TABLE'
ORDER BY table_name`

// tableColumnsQuery resolves primary keys and auto-increment through the
// constraint catalog plus the EXTRA flag. COLUMN_TYPE carries the full
// definition including enum labels and display widths. The key_column_usage
// join matches the PK constraint only (always named PRIMARY in MySQL); a
// looser join would yield one row per constraint for columns that also sit
// in a UNIQUE index.
const tableColumnsQuery = `
SELECT
    c.column_name,
    c.data_type,
    c.column_type,
    c.is_nullable = 'YES' AS nullable,
    tc.constraint_type = 'PRIMARY KEY' AS is_primary_key,
    c.extra LIKE '%auto_increment%' AS is_auto_increment
FROM information_schema.columns c
LEFT JOIN information_schema.key_column_usage kcu
    ON kcu.table_schema = c.table_schema
    AND kcu.table_name = c.table_name
    AND kcu.column_name = c.column_name
    AND kcu.constraint_name = 'PRIMARY'
LEFT JOIN information_schema.table_constraints tc
    ON tc.constraint_name = kcu.constraint_name
    AND tc.table_schema = kcu.table_schema
    AND tc.table_name = kcu.table_name
    AND tc.constraint_type = 'PRIMARY KEY'
WHERE c.table_schema = DATABASE() AND c.table_name = ?
ORDER BY c.ordinal_position`

const tableForeignKeysQuery = `
SELECT
    kcu.column_name,
    kcu.referenced_table_name,
    kcu.referenced_column_name
FROM information_schema.key_column_usage kcu
JOIN information_schema.referential_constraints rc
    ON rc.constraint_name = kcu.constraint_name
    AND rc.constraint_schema = kcu.table_schema
WHERE kcu.table_schema = DATABASE()
    AND kcu.table_name = ?
    AND kcu.referenced_table_name IS NOT NULL`

// GetDatabaseSchema introspects each table concurrently and returns tables
// sorted by name.
func (a *mysqlAdapter) GetDatabaseSchema(ctx context.Context) (*internal.DatabaseSchema, error) {
	rows, err := a.db.QueryContext(ctx, listTablesQuery)
	if err != nil {
		return nil, fmt.Errorf("unable to list tables: %w", err)
	}
	defer rows.Close()
	var tableNames []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("unable to scan table name: %w", err)
		}
		tableNames = append(tableNames, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("unable to read table list: %w", err)
	}

	schema := &internal.DatabaseSchema{Name: a.schemaName}
	var mu sync.Mutex
	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(4)
	for _, name := range tableNames {
		name := name
		group.Go(func() error {
			table, err := a.introspectTable(gctx, name)
			if err != nil {
				return err
			}
			mu.Lock()
			schema.Tables = append(schema.Tables, *table)
			mu.Unlock()
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	sort.Slice(schema.Tables, func(i, j int) bool {
		return schema.Tables[i].Name < schema.Tables[j].Name
	})
	a.logger.Debug("discovered %d tables in schema %s", len(schema.Tables), a.schemaName)
	return schema, nil
}

func (a *mysqlAdapter) introspectTable(ctx context.Context, tableName string) (*internal.SchemaTable, error) {
	fks, err := a.tableForeignKeys(ctx, tableName)
	if err != nil {
		return nil, err
	}

	rows, err := a.db.QueryContext(ctx, tableColumnsQuery, tableName)
	if err != nil {
		return nil, fmt.Errorf("unable to query columns for %s: %w", tableName, err)
	}
	defer rows.Close()

	table := &internal.SchemaTable{Name: tableName}
	for rows.Next() {
		var columnName, dataType, columnType string
		var nullable bool
		var isPrimaryKey, isAutoIncrement sql.NullBool
		if err := rows.Scan(&columnName, &dataType, &columnType, &nullable,
			&isPrimaryKey, &isAutoIncrement); err != nil {
			return nil, fmt.Errorf("unable to scan column for %s: %w", tableName, err)
		}
		col := internal.SchemaColumn{
			Name:     columnName,
			Type:     strings.ToLower(dataType),
			FullType: columnType,
			Nullable: nullable,
		}
		// tinyint(1) is the conventional boolean encoding.
		if strings.EqualFold(columnType, "tinyint(1)") {
			col.Type = "boolean"
		}
		if col.Type == "enum" || col.Type == "set" {
			col.EnumValues = parseEnumValues(columnType)
		}
		if isPrimaryKey.Valid && isPrimaryKey.Bool {
			col.PrimaryKey = &internal.PrimaryKey{AutoIncrement: isAutoIncrement.Valid && isAutoIncrement.Bool}
		}
		if fk, ok := fks[columnName]; ok {
			col.ForeignKey = fk
		}
		a.mapping.ClassifyColumn(&col)
		table.Columns = append(table.Columns, col)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("unable to read columns for %s: %w", tableName, err)
	}
	return table, nil
}

func (a *mysqlAdapter) tableForeignKeys(ctx context.Context, tableName string) (map[string]*internal.ForeignKey, error) {
	rows, err := a.db.QueryContext(ctx, tableForeignKeysQuery, tableName)
	if err != nil {
		return nil, fmt.Errorf("unable to query foreign keys for %s: %w", tableName, err)
	}
	defer rows.Close()
	fks := make(map[string]*internal.ForeignKey)
	for rows.Next() {
		var column, refTable, refColumn string
		if err := rows.Scan(&column, &refTable, &refColumn); err != nil {
			return nil, fmt.Errorf("unable to scan foreign key for %s: %w", tableName, err)
		}
		fks[column] = &internal.ForeignKey{Table: refTable, Column: refColumn}
	}
	return fks, rows.Err()
}
