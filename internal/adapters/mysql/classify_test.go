package mysql

import (
	"testing"
	"time"

	"github.com/kottster/adminkit/internal"
	"github.com/stretchr/testify/assert"
)

func TestTypeMappingTotality(t *testing.T) {
	mapping := newTypeMapping()
	for typ := range mapping.JSTypes {
		col := internal.SchemaColumn{Name: "col", Type: typ}
		mapping.ClassifyColumn(&col)
		assert.NotEmpty(t, col.ReturnedJSType, "type %s", typ)
		assert.NotNil(t, col.FormField, "type %s", typ)
	}
}

func TestParseEnumValues(t *testing.T) {
	assert.Equal(t, "a,b,c", parseEnumValues("enum('a','b','c')"))
	assert.Equal(t, "pending,shipped", parseEnumValues("ENUM('pending','shipped')"))
	assert.Equal(t, "x,y", parseEnumValues("set('x','y')"))
	assert.Equal(t, "", parseEnumValues("varchar(255)"))
	assert.Equal(t, "", parseEnumValues(""))

	// commas and doubled quotes inside a label belong to the label
	assert.Equal(t, "a, b,c", parseEnumValues("enum('a, b','c')"))
	assert.Equal(t, "it's,other", parseEnumValues("enum('it''s','other')"))
}

func TestClassifyEnumColumn(t *testing.T) {
	mapping := newTypeMapping()
	col := internal.SchemaColumn{
		Name:       "status",
		Type:       "enum",
		FullType:   "enum('a','b','c')",
		EnumValues: parseEnumValues("enum('a','b','c')"),
	}
	mapping.ClassifyColumn(&col)
	assert.Equal(t, internal.FormFieldSelect, col.FormField.Type)
	assert.Equal(t, []internal.FormFieldOption{
		{Label: "a", Value: "a"},
		{Label: "b", Value: "b"},
		{Label: "c", Value: "c"},
	}, col.FormField.Options)
}

func TestCoerceValue(t *testing.T) {
	ts := time.Date(2024, 7, 9, 18, 28, 3, 0, time.UTC)
	assert.Equal(t, "2024-07-09T18:28:03Z", coerceValue(ts, nil))

	numCol := &internal.SchemaColumn{Type: "decimal", ReturnedJSType: internal.JSTypeNumber}
	assert.Equal(t, 12.5, coerceValue([]byte("12.5000"), numCol))

	boolCol := &internal.SchemaColumn{Type: "tinyint", ReturnedJSType: internal.JSTypeBoolean}
	assert.Equal(t, true, coerceValue(int64(1), boolCol))
	assert.Equal(t, false, coerceValue(int64(0), boolCol))
	assert.Equal(t, true, coerceValue([]byte("1"), boolCol))

	assert.Nil(t, coerceValue(nil, numCol))
}

func TestPrepareValueForUpsert(t *testing.T) {
	dateCol := &internal.SchemaColumn{Type: "datetime", ReturnedJSType: internal.JSTypeDate}
	assert.Equal(t, "2024-07-09 18:28:03", prepareValueForUpsert("2024-07-09T18:28:03Z", dateCol))
	assert.Equal(t, "plain", prepareValueForUpsert("plain", &internal.SchemaColumn{ReturnedJSType: internal.JSTypeString}))
	assert.Nil(t, prepareValueForUpsert(nil, dateCol))
}
