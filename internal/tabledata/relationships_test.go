package tabledata

import (
	"testing"

	"github.com/kottster/adminkit/internal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSchema() *internal.DatabaseSchema {
	return &internal.DatabaseSchema{
		Name: "public",
		Tables: []internal.SchemaTable{
			{
				Name: "customers",
				Columns: []internal.SchemaColumn{
					{Name: "id", Type: "integer", PrimaryKey: &internal.PrimaryKey{AutoIncrement: true}},
					{Name: "full_name", Type: "text"},
				},
			},
			{
				Name: "orders",
				Columns: []internal.SchemaColumn{
					{Name: "id", Type: "integer", PrimaryKey: &internal.PrimaryKey{AutoIncrement: true}},
					{Name: "customer_id", Type: "integer", ForeignKey: &internal.ForeignKey{Table: "customers", Column: "id"}},
					{Name: "total", Type: "numeric"},
				},
			},
		},
	}
}

func TestGetAllPossibleRelationshipsForward(t *testing.T) {
	rels := GetAllPossibleRelationships(internal.TablePageConfig{Table: "orders"}, testSchema())
	require.Len(t, rels, 1)
	assert.Equal(t, internal.Relationship{
		Relation:             internal.RelationOneToOne,
		Key:                  "customers__p__customer_id",
		ForeignKeyColumn:     "customer_id",
		TargetTable:          "customers",
		TargetTableKeyColumn: "id",
	}, rels[0])
}

func TestGetAllPossibleRelationshipsReverse(t *testing.T) {
	rels := GetAllPossibleRelationships(internal.TablePageConfig{Table: "customers"}, testSchema())
	require.Len(t, rels, 1)
	assert.Equal(t, internal.Relationship{
		Relation:                    internal.RelationOneToMany,
		Key:                         "orders__c__customer_id",
		TargetTable:                 "orders",
		TargetTableKeyColumn:        "id",
		TargetTableForeignKeyColumn: "customer_id",
	}, rels[0])
}

func TestGetAllPossibleRelationshipsUnknownTable(t *testing.T) {
	assert.Nil(t, GetAllPossibleRelationships(internal.TablePageConfig{Table: "missing"}, testSchema()))
}

func TestGetAllPossibleRelationshipsSkipsTablesWithoutPrimaryKey(t *testing.T) {
	schema := testSchema()
	schema.Tables[1].Columns[0].PrimaryKey = nil
	rels := GetAllPossibleRelationships(internal.TablePageConfig{Table: "customers"}, schema)
	assert.Empty(t, rels)
}

func TestMergeRelationshipsAuthoredOverrides(t *testing.T) {
	derived := GetAllPossibleRelationships(internal.TablePageConfig{Table: "orders"}, testSchema())
	authored := []internal.Relationship{
		{Key: "customers__p__customer_id", PreviewColumns: []string{"full_name"}},
		{Key: "tags__m__order_tags", Relation: internal.RelationManyToMany, JunctionTable: "order_tags"},
	}
	merged := mergeRelationships(authored, derived)
	require.Len(t, merged, 2)

	// derived fields survive under the authored overlay
	assert.Equal(t, "customers", merged[0].TargetTable)
	assert.Equal(t, []string{"full_name"}, merged[0].PreviewColumns)

	// authored-only entries pass through untouched
	assert.Equal(t, "tags__m__order_tags", merged[1].Key)
}

func TestMergeRelationshipsExclusion(t *testing.T) {
	derived := GetAllPossibleRelationships(internal.TablePageConfig{Table: "orders"}, testSchema())
	merged := mergeRelationships([]internal.Relationship{
		{Key: "customers__p__customer_id", Excluded: true},
	}, derived)
	require.Len(t, merged, 1)
	assert.True(t, merged[0].Excluded)
}
