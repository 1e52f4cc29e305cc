package mysql

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/kottster/adminkit/internal"
	"github.com/shopmonkeyus/go-common/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAdapter(t *testing.T) (*mysqlAdapter, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return &mysqlAdapter{
		db:         db,
		logger:     logger.NewTestLogger(),
		schemaName: "shop",
		mapping:    newTypeMapping(),
		health:     internal.HealthConnected,
	}, mock
}

func TestIntrospectTableEmitsEachColumnOnce(t *testing.T) {
	adapter, mock := newTestAdapter(t)

	mock.ExpectQuery(tableForeignKeysQuery).WithArgs("users").
		WillReturnRows(sqlmock.NewRows([]string{"column_name", "referenced_table_name", "referenced_column_name"}))
	mock.ExpectQuery(tableColumnsQuery).WithArgs("users").
		WillReturnRows(sqlmock.NewRows([]string{"column_name", "data_type", "column_type", "nullable", "is_primary_key", "is_auto_increment"}).
			AddRow("id", "int", "int(11)", false, true, true).
			AddRow("email", "varchar", "varchar(255)", false, nil, nil))

	table, err := adapter.introspectTable(context.Background(), "users")
	require.NoError(t, err)

	names := make([]string, 0, len(table.Columns))
	for _, col := range table.Columns {
		names = append(names, col.Name)
	}
	assert.Equal(t, []string{"id", "email"}, names)
	require.NotNil(t, table.Columns[0].PrimaryKey)
	assert.True(t, table.Columns[0].PrimaryKey.AutoIncrement)
	assert.Nil(t, table.Columns[1].PrimaryKey)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTableColumnsQueryJoinsPrimaryConstraintOnly(t *testing.T) {
	// a column that sits in the PK plus a UNIQUE constraint must match at
	// most one key_column_usage row, or it would be emitted twice
	assert.Contains(t, tableColumnsQuery, "kcu.constraint_name = 'PRIMARY'")
	assert.NotContains(t, tableColumnsQuery, "referenced_table_name IS NULL")
}
