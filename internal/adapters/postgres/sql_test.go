package postgres

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
				{Name: "id", Type: "integer", ReturnedJSType: internal.JSTypeNumber, PrimaryKey: &internal.PrimaryKey{AutoIncrement: true}},
				{Name: "name", Type: "text", ReturnedJSType: internal.JSTypeString},
				{Name: "age", Type: "integer", ReturnedJSType: internal.JSTypeNumber},
				{Name: "active", Type: "boolean", ReturnedJSType: internal.JSTypeBoolean},
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

func TestBuildListQuerySearch(t *testing.T) {
	data := testTableData()
	query, countQuery, args, err := buildListQuery(data, internal.RecordsInput{
		Search:   "alice",
		Page:     1,
		PageSize: 10,
	})
	assert.NoError(t, err)
	assert.Equal(t, `SELECT "id", "name", "age", "active" FROM "users" WHERE ("name"::text ILIKE $1) LIMIT 10 OFFSET 0`, query)
	assert.Equal(t, `SELECT COUNT(*) FROM "users" WHERE ("name"::text ILIKE $1)`, countQuery)
	assert.Equal(t, []any{"%alice%"}, args)
}

func TestBuildListQueryFiltersAndSort(t *testing.T) {
	data := testTableData()
	query, _, args, err := buildListQuery(data, internal.RecordsInput{
		Filters: []internal.FilterItem{
			{Column: "age", Operator: internal.FilterGreaterThanOrEqual, Value: 21},
			{Column: "active", Operator: internal.FilterIsTrue},
			{Column: "age", Operator: internal.FilterBetween, Value: []any{30, 40}},
		},
		Sorting:  []internal.SortItem{{Column: "age", Direction: internal.SortDesc}},
		Page:     2,
		PageSize: 25,
	})
	assert.NoError(t, err)
	assert.Equal(t, `SELECT "id", "name", "age", "active" FROM "users" WHERE "age" >= $1 AND "active" IS TRUE AND "age" BETWEEN $2 AND $3 ORDER BY "age" DESC LIMIT 25 OFFSET 25`, query)
	assert.Equal(t, []any{21, 30, 40}, args)
}

func TestBuildListQueryRejectsUnknownOperator(t *testing.T) {
	data := testTableData()
	_, _, _, err := buildListQuery(data, internal.RecordsInput{
		Filters:  []internal.FilterItem{{Column: "age", Operator: "fuzzyMatch", Value: 1}},
		PageSize: 10,
	})
	assert.EqualError(t, err, "unsupported filter operator: fuzzyMatch")
}

func TestBuildListQueryRejectsUnfilterableColumn(t *testing.T) {
	data := testTableData()
	_, _, _, err := buildListQuery(data, internal.RecordsInput{
		Filters:  []internal.FilterItem{{Column: "id", Operator: internal.FilterEqual, Value: 1}},
		PageSize: 10,
	})
	assert.EqualError(t, err, "column id is not filterable")
}

func TestBuildListQueryRejectsUnsortableColumn(t *testing.T) {
	data := testTableData()
	_, _, _, err := buildListQuery(data, internal.RecordsInput{
		Sorting:  []internal.SortItem{{Column: "name", Direction: internal.SortAsc}},
		PageSize: 10,
	})
	assert.EqualError(t, err, "column name is not sortable")
}

func TestBuildListQueryNestedFilter(t *testing.T) {
	data := testTableData()
	data.Config.Relationships = []internal.Relationship{{
		Relation:                    internal.RelationOneToMany,
		Key:                         "orders__c__user_id",
		TargetTable:                 "orders",
		TargetTableKeyColumn:        "id",
		TargetTableForeignKeyColumn: "user_id",
	}}
	query, countQuery, args, err := buildListQuery(data, internal.RecordsInput{
		Filters: []internal.FilterItem{
			{Column: "total", Operator: internal.FilterEqual, Value: 5, NestedTableKey: "orders__c__user_id"},
		},
		PageSize: 10,
	})
	assert.NoError(t, err)
	assert.Equal(t, `SELECT "id", "name", "age", "active" FROM "users" WHERE "id" IN (SELECT "user_id" FROM "orders" WHERE "total" = $1) LIMIT 10 OFFSET 0`, query)
	assert.Equal(t, `SELECT COUNT(*) FROM "users" WHERE "id" IN (SELECT "user_id" FROM "orders" WHERE "total" = $1)`, countQuery)
	assert.Equal(t, []any{5}, args)
}

func TestBuildListQueryNestedFilterUnknownKey(t *testing.T) {
	data := testTableData()
	_, _, _, err := buildListQuery(data, internal.RecordsInput{
		Filters: []internal.FilterItem{
			{Column: "total", Operator: internal.FilterEqual, Value: 5, NestedTableKey: "orders__c__user_id"},
		},
		PageSize: 10,
	})
	assert.EqualError(t, err, "no relationship found for nested filter key orders__c__user_id")
}

func TestBuildListQueryNestedFilterMalformedKey(t *testing.T) {
	data := testTableData()
	_, _, _, err := buildListQuery(data, internal.RecordsInput{
		Filters: []internal.FilterItem{
			{Column: "total", Operator: internal.FilterEqual, Value: 5, NestedTableKey: "orders__x__user_id"},
		},
		PageSize: 10,
	})
	assert.EqualError(t, err, "malformed nested table key segment: orders__x__user_id")
}

func TestBuildInsert(t *testing.T) {
	data := testTableData()
	query, args := buildInsert(data, internal.Record{"name": "Bob", "age": 30})
	assert.Equal(t, `INSERT INTO "users" ("name", "age") VALUES ($1, $2) RETURNING *`, query)
	assert.Equal(t, []any{"Bob", 30}, args)
}

func TestBuildUpdate(t *testing.T) {
	data := testTableData()
	query, args := buildUpdate(data, map[string]any{"id": 7}, internal.Record{"name": "Carol"})
	assert.Equal(t, `UPDATE "users" SET "name" = $1 WHERE "id" = $2`, query)
	assert.Equal(t, []any{"Carol", 7}, args)
}

func TestBuildDelete(t *testing.T) {
	data := testTableData()
	query, args := buildDelete(data, map[string]any{"id": 7})
	assert.Equal(t, `DELETE FROM "users" WHERE "id" = $1`, query)
	assert.Equal(t, []any{7}, args)
}

func TestWrapPaginated(t *testing.T) {
	assert.Equal(t, "SELECT * FROM (SELECT 1) AS q LIMIT 50 OFFSET 0", wrapPaginated("SELECT 1", 1, 50))
	assert.Equal(t, "SELECT * FROM (SELECT 1) AS q LIMIT 50 OFFSET 100", wrapPaginated("SELECT 1", 3, 50))
}
