package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"

	"github.com/kottster/adminkit/internal"
)

const listTablesQuery = `
SELECT name, sql FROM sqlite_master
WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
ORDER BY name`

// GetDatabaseSchema walks sqlite_master and the table_info / foreign_key_list
// pragmas. The stored CREATE TABLE text supplies what the pragmas cannot:
// the AUTOINCREMENT keyword and CHECK ... IN enum constraints.
func (a *sqliteAdapter) GetDatabaseSchema(ctx context.Context) (*internal.DatabaseSchema, error) {
	rows, err := a.db.QueryContext(ctx, listTablesQuery)
	if err != nil {
		return nil, fmt.Errorf("unable to list tables: %w", err)
	}
	defer rows.Close()
	type tableEntry struct {
		name string
		sql  string
	}
	var entries []tableEntry
	for rows.Next() {
		var name string
		var createSQL sql.NullString
		if err := rows.Scan(&name, &createSQL); err != nil {
			return nil, fmt.Errorf("unable to scan table name: %w", err)
		}
		entries = append(entries, tableEntry{name: name, sql: createSQL.String})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("unable to read table list: %w", err)
	}

	schema := &internal.DatabaseSchema{Name: a.schemaName}
	for _, entry := range entries {
		table, err := a.introspectTable(ctx, entry.name, entry.sql)
		if err != nil {
			return nil, err
		}
		schema.Tables = append(schema.Tables, *table)
	}
	a.logger.Debug("discovered %d tables", len(schema.Tables))
	return schema, nil
}

func (a *sqliteAdapter) introspectTable(ctx context.Context, tableName, createSQL string) (*internal.SchemaTable, error) {
	fks, err := a.tableForeignKeys(ctx, tableName)
	if err != nil {
		return nil, err
	}

	rows, err := a.db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", quoteIdentifier(tableName)))
	if err != nil {
		return nil, fmt.Errorf("unable to query columns for %s: %w", tableName, err)
	}
	defer rows.Close()

	table := &internal.SchemaTable{Name: tableName}
	for rows.Next() {
		var cid int
		var name, declaredType string
		var notNull, pk int
		var defaultValue sql.NullString
		if err := rows.Scan(&cid, &name, &declaredType, &notNull, &defaultValue, &pk); err != nil {
			return nil, fmt.Errorf("unable to scan column for %s: %w", tableName, err)
		}
		col := internal.SchemaColumn{
			Name:     name,
			Type:     internal.NormalizeBaseType(declaredType),
			FullType: declaredType,
			Nullable: notNull == 0,
		}
		if col.Type == "" {
			col.Type = "text"
		}
		if pk > 0 {
			col.PrimaryKey = &internal.PrimaryKey{
				AutoIncrement: isAutoIncrement(createSQL, name, col.Type),
			}
		}
		if fk, ok := fks[name]; ok {
			col.ForeignKey = fk
		}
		if values := parseCheckEnumValues(createSQL, name); values != "" {
			col.EnumValues = values
		}
		a.mapping.ClassifyColumn(&col)
		table.Columns = append(table.Columns, col)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("unable to read columns for %s: %w", tableName, err)
	}
	return table, nil
}

func (a *sqliteAdapter) tableForeignKeys(ctx context.Context, tableName string) (map[string]*internal.ForeignKey, error) {
	rows, err := a.db.QueryContext(ctx, fmt.Sprintf("PRAGMA foreign_key_list(%s)", quoteIdentifier(tableName)))
	if err != nil {
		return nil, fmt.Errorf("unable to query foreign keys for %s: %w", tableName, err)
	}
	defer rows.Close()
	fks := make(map[string]*internal.ForeignKey)
	for rows.Next() {
		var id, seq int
		var refTable, from string
		var to sql.NullString
		var onUpdate, onDelete, match string
		if err := rows.Scan(&id, &seq, &refTable, &from, &to, &onUpdate, &onDelete, &match); err != nil {
			return nil, fmt.Errorf("unable to scan foreign key for %s: %w", tableName, err)
		}
		refColumn := to.String
		if refColumn == "" {
			refColumn = "id"
		}
		fks[from] = &internal.ForeignKey{Table: refTable, Column: refColumn}
	}
	return fks, rows.Err()
}

// isAutoIncrement reports whether the column generates its own value. An
// INTEGER primary key is a rowid alias and auto-generates even without the
// AUTOINCREMENT keyword.
func isAutoIncrement(createSQL, columnName, baseType string) bool {
	if baseType == "integer" || baseType == "int" {
		return true
	}
	pattern := regexp.MustCompile(`(?is)["'\x60\[]?` + regexp.QuoteMeta(columnName) + `["'\x60\]]?[^,]*AUTOINCREMENT`)
	return pattern.MatchString(createSQL)
}

// parseCheckEnumValues pulls comma-joined labels out of a constraint of the
// form CHECK (col IN ('a', 'b')). The first constraint naming the column
// wins.
func parseCheckEnumValues(createSQL, columnName string) string {
	pattern := regexp.MustCompile(`(?is)CHECK\s*\(\s*["'\x60\[]?` + regexp.QuoteMeta(columnName) + `["'\x60\]]?\s+IN\s*\(([^)]+)\)`)
	m := pattern.FindStringSubmatch(createSQL)
	if m == nil {
		return ""
	}
	parts := strings.Split(m[1], ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		values = append(values, strings.Trim(strings.TrimSpace(part), `'"`))
	}
	return strings.Join(values, ",")
}
