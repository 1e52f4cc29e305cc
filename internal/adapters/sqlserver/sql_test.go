package sqlserver

import (
	"testing"

	"github.com/kottster/adminkit/internal"
	"github.com/stretchr/testify/assert"
)

func testTableData() *internal.TableData {
	return &internal.TableData{
		Schema: &internal.SchemaTable{
			Name: "users",
			Columns: []internal.SchemaColumn{
				{Name: "id", Type: "int", ReturnedJSType: internal.JSTypeNumber, PrimaryKey: &internal.PrimaryKey{AutoIncrement: true}},
				{Name: "name", Type: "nvarchar", ReturnedJSType: internal.JSTypeString},
				{Name: "age", Type: "int", ReturnedJSType: internal.JSTypeNumber},
				{Name: "active", Type: "bit", ReturnedJSType: internal.JSTypeBoolean},
			},
		},
		Config:            internal.TablePageConfig{Table: "users"},
		PrimaryKeyColumn:  "id",
		SelectableColumns: []string{"id", "name", "age", "active"},
		SearchableColumns: []string{"name"},
		SortableColumns:   []string{"age"},
		FilterableColumns: []string{"name", "age", "active"},
	}
}

func TestBuildListQueryDefaultsToPrimaryKeyOrder(t *testing.T) {
	data := testTableData()
	query, countQuery, args, err := buildListQuery(data, internal.RecordsInput{
		Search:   "Alice",
		Page:     1,
		PageSize: 10,
	})
	assert.NoError(t, err)
	assert.Equal(t, "SELECT [id], [name], [age], [active] FROM [users] WHERE (LOWER(CAST([name] AS NVARCHAR(MAX))) LIKE @p1) ORDER BY [id] ASC OFFSET 0 ROWS FETCH NEXT 10 ROWS ONLY", query)
	assert.Equal(t, "SELECT COUNT(*) FROM [users] WHERE (LOWER(CAST([name] AS NVARCHAR(MAX))) LIKE @p1)", countQuery)
	assert.Equal(t, []any{"%alice%"}, args)
}

func TestBuildListQueryNoPrimaryKeyOrderFallback(t *testing.T) {
	data := testTableData()
	data.PrimaryKeyColumn = ""
	query, _, _, err := buildListQuery(data, internal.RecordsInput{Page: 1, PageSize: 5})
	assert.NoError(t, err)
	assert.Equal(t, "SELECT [id], [name], [age], [active] FROM [users] ORDER BY (SELECT NULL) OFFSET 0 ROWS FETCH NEXT 5 ROWS ONLY", query)
}

func TestBuildListQueryBooleanFilters(t *testing.T) {
	data := testTableData()
	query, _, args, err := buildListQuery(data, internal.RecordsInput{
		Filters: []internal.FilterItem{
			{Column: "active", Operator: internal.FilterIsTrue},
			{Column: "age", Operator: internal.FilterLessThan, Value: 65},
		},
		Sorting:  []internal.SortItem{{Column: "age", Direction: internal.SortAsc}},
		Page:     3,
		PageSize: 20,
	})
	assert.NoError(t, err)
	assert.Equal(t, "SELECT [id], [name], [age], [active] FROM [users] WHERE [active] = 1 AND [age] < @p1 ORDER BY [age] ASC OFFSET 40 ROWS FETCH NEXT 20 ROWS ONLY", query)
	assert.Equal(t, []any{65}, args)
}

func TestBuildGetQueryUsesTop(t *testing.T) {
	data := testTableData()
	query, args := buildGetQuery(data, map[string]any{"id": 7})
	assert.Equal(t, "SELECT TOP 1 [id], [name], [age], [active] FROM [users] WHERE [id] = @p1", query)
	assert.Equal(t, []any{7}, args)
}

func TestBuildInsertOutputsInserted(t *testing.T) {
	data := testTableData()
	query, args := buildInsert(data, internal.Record{"name": "Bob", "age": 30})
	assert.Equal(t, "INSERT INTO [users] ([name], [age]) OUTPUT INSERTED.* VALUES (@p1, @p2)", query)
	assert.Equal(t, []any{"Bob", 30}, args)
}

func TestQuoteIdentifier(t *testing.T) {
	assert.Equal(t, "[users]", quoteIdentifier("users"))
	assert.Equal(t, "[odd]]name]", quoteIdentifier("odd]name"))
}

func TestWrapPaginated(t *testing.T) {
	assert.Equal(t,
		"SELECT * FROM (SELECT 1 AS n) AS q ORDER BY (SELECT NULL) OFFSET 100 ROWS FETCH NEXT 50 ROWS ONLY",
		wrapPaginated("SELECT 1 AS n", 3, 50))
}
