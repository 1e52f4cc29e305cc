package sqlserver

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/kottster/adminkit/internal"
)

// schemaQuery resolves primary keys and foreign keys through the
// INFORMATION_SCHEMA constraint views and identity columns through
// COLUMNPROPERTY. Enums do not exist in this dialect.
const schemaQuery = `
WITH pk AS (
    SELECT kcu.TABLE_NAME, kcu.COLUMN_NAME
    FROM INFORMATION_SCHEMA.TABLE_CONSTRAINTS tc
    JOIN INFORMATION_SCHEMA.KEY_COLUMN_USAGE kcu
        ON kcu.CONSTRAINT_NAME = tc.CONSTRAINT_NAME AND kcu.TABLE_SCHEMA = tc.TABLE_SCHEMA
    WHERE tc.CONSTRAINT_TYPE = 'PRIMARY KEY' AND tc.TABLE_SCHEMA = @p1
), fk AS (
    SELECT kcu.TABLE_NAME, kcu.COLUMN_NAME,
           kcu2.TABLE_NAME AS FOREIGN_TABLE_NAME, kcu2.COLUMN_NAME AS FOREIGN_COLUMN_NAME
    FROM INFORMATION_SCHEMA.REFERENTIAL_CONSTRAINTS rc
    JOIN INFORMATION_SCHEMA.KEY_COLUMN_USAGE kcu
        ON kcu.CONSTRAINT_NAME = rc.CONSTRAINT_NAME AND kcu.CONSTRAINT_SCHEMA = rc.CONSTRAINT_SCHEMA
    JOIN INFORMATION_SCHEMA.KEY_COLUMN_USAGE kcu2
        ON kcu2.CONSTRAINT_NAME = rc.UNIQUE_CONSTRAINT_NAME AND kcu2.CONSTRAINT_SCHEMA = rc.UNIQUE_CONSTRAINT_SCHEMA
        AND kcu2.ORDINAL_POSITION = kcu.ORDINAL_POSITION
    WHERE kcu.TABLE_SCHEMA = @p1
)
SELECT
    t.TABLE_NAME,
    c.COLUMN_NAME,
    c.DATA_TYPE,
    CASE WHEN c.CHARACTER_MAXIMUM_LENGTH IS NOT NULL AND c.CHARACTER_MAXIMUM_LENGTH > 0
         THEN c.DATA_TYPE + '(' + CAST(c.CHARACTER_MAXIMUM_LENGTH AS VARCHAR(12)) + ')'
         ELSE c.DATA_TYPE END AS FULL_TYPE,
    CASE WHEN c.IS_NULLABLE = 'YES' THEN 1 ELSE 0 END AS NULLABLE,
    CASE WHEN pk.COLUMN_NAME IS NOT NULL THEN 1 ELSE 0 END AS IS_PRIMARY_KEY,
    COLUMNPROPERTY(OBJECT_ID(QUOTENAME(c.TABLE_SCHEMA) + '.' + QUOTENAME(c.TABLE_NAME)), c.COLUMN_NAME, 'IsIdentity') AS IS_IDENTITY,
    fk.FOREIGN_TABLE_NAME,
    fk.FOREIGN_COLUMN_NAME
FROM INFORMATION_SCHEMA.TABLES t
JOIN INFORMATION_SCHEMA.COLUMNS c
    ON c.TABLE_NAME = t.TABLE_NAME AND c.TABLE_SCHEMA = t.TABLE_SCHEMA
LEFT JOIN pk ON pk.TABLE_NAME = c.TABLE_NAME AND pk.COLUMN_NAME = c.COLUMN_NAME
LEFT JOIN fk ON fk.TABLE_NAME = c.TABLE_NAME AND fk.COLUMN_NAME = c.COLUMN_NAME
WHERE t.TABLE_SCHEMA = @p1 AND t.TABLE_TYPE = 'BASE TABLE'
ORDER BY t.TABLE_NAME, c.ORDINAL_POSITION`

// GetDatabaseSchema builds a fresh schema from the catalog in a single pass.
func (a *sqlserverAdapter) GetDatabaseSchema(ctx context.Context) (*internal.DatabaseSchema, error) {
	rows, err := a.db.QueryContext(ctx, schemaQuery, a.schemaName)
	if err != nil {
		return nil, fmt.Errorf("unable to query catalog: %w", err)
	}
	defer rows.Close()

	schema := &internal.DatabaseSchema{Name: a.schemaName}
	var current *internal.SchemaTable
	for rows.Next() {
		var tableName, columnName, dataType, fullType string
		var nullable, isPrimaryKey bool
		var isIdentity sql.NullInt64
		var foreignTable, foreignColumn sql.NullString
		if err := rows.Scan(&tableName, &columnName, &dataType, &fullType, &nullable,
			&isPrimaryKey, &isIdentity, &foreignTable, &foreignColumn); err != nil {
			return nil, fmt.Errorf("unable to scan catalog row: %w", err)
		}

		if current == nil || current.Name != tableName {
			schema.Tables = append(schema.Tables, internal.SchemaTable{Name: tableName})
			current = &schema.Tables[len(schema.Tables)-1]
		}

		col := internal.SchemaColumn{
			Name:     columnName,
			Type:     strings.ToLower(dataType),
			FullType: strings.ToLower(fullType),
			Nullable: nullable,
		}
		if isPrimaryKey {
			col.PrimaryKey = &internal.PrimaryKey{AutoIncrement: isIdentity.Valid && isIdentity.Int64 == 1}
		}
		if foreignTable.Valid && foreignColumn.Valid {
			col.ForeignKey = &internal.ForeignKey{Table: foreignTable.String, Column: foreignColumn.String}
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
