package tabledata

import (
	"testing"

	"github.com/kottster/adminkit/internal"
	"github.com/stretchr/testify/assert"
)

func TestFindNameLikeColumns(t *testing.T) {
	columns := []internal.SchemaColumn{
		{Name: "id", Type: "integer", PrimaryKey: &internal.PrimaryKey{AutoIncrement: true}},
		{Name: "full_name", Type: "text"},
		{Name: "created_at", Type: "timestamp"},
	}
	assert.Equal(t, []string{"full_name"}, FindNameLikeColumns(columns, 1))
}

func TestFindNameLikeColumnsExactBeatsSubstring(t *testing.T) {
	columns := []internal.SchemaColumn{
		{Name: "nickname", Type: "text"},
		{Name: "title", Type: "text"},
	}
	assert.Equal(t, []string{"title"}, FindNameLikeColumns(columns, 2))
}

func TestFindNameLikeColumnsPriorityOrder(t *testing.T) {
	columns := []internal.SchemaColumn{
		{Name: "email", Type: "text"},
		{Name: "name", Type: "text"},
		{Name: "username", Type: "text"},
	}
	assert.Equal(t, []string{"name", "username", "email"}, FindNameLikeColumns(columns, 3))
}

func TestFindNameLikeColumnsSkipsKeysAndEnums(t *testing.T) {
	columns := []internal.SchemaColumn{
		{Name: "name", Type: "integer", PrimaryKey: &internal.PrimaryKey{}},
		{Name: "title", Type: "text", EnumValues: "a,b"},
		{Name: "label", Type: "integer", ForeignKey: &internal.ForeignKey{Table: "labels", Column: "id"}},
	}
	assert.Empty(t, FindNameLikeColumns(columns, 3))
}
