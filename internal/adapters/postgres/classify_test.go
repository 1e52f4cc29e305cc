package postgres

import (
	"testing"
	"time"

	"github.com/kottster/adminkit/internal"
	"github.com/shopmonkeyus/go-common/logger"
	"github.com/stretchr/testify/assert"
)

func TestTypeMappingTotality(t *testing.T) {
	mapping := newTypeMapping(logger.NewTestLogger())
	for typ := range mapping.JSTypes {
		col := internal.SchemaColumn{Name: "col", Type: typ}
		mapping.ClassifyColumn(&col)
		assert.NotEmpty(t, col.ReturnedJSType, "type %s", typ)
		assert.NotNil(t, col.FormField, "type %s", typ)
		assert.NotEmpty(t, col.FormField.Type, "type %s", typ)
	}
}

func TestClassifyArrayColumn(t *testing.T) {
	mapping := newTypeMapping(logger.NewTestLogger())
	col := internal.SchemaColumn{Name: "tags", Type: "text[]", FullType: "text[]", IsArray: true}
	mapping.ClassifyColumn(&col)
	assert.Equal(t, internal.JSTypeString, col.ReturnedJSType)
	assert.True(t, col.ReturnedAsArray)
	assert.True(t, col.FormField.AsArray)
}

func TestClassifyUnknownTypeFallsBackToString(t *testing.T) {
	mapping := newTypeMapping(logger.NewTestLogger())
	col := internal.SchemaColumn{Name: "geo", Type: "geometry"}
	mapping.ClassifyColumn(&col)
	assert.Equal(t, internal.JSTypeString, col.ReturnedJSType)
}

func TestCoerceValue(t *testing.T) {
	ts := time.Date(2024, 7, 9, 18, 28, 3, 0, time.UTC)
	assert.Equal(t, "2024-07-09T18:28:03Z", coerceValue(ts, nil))

	numCol := &internal.SchemaColumn{Type: "numeric", ReturnedJSType: internal.JSTypeNumber}
	assert.Equal(t, 12.5, coerceValue([]byte("12.5000"), numCol))

	boolCol := &internal.SchemaColumn{Type: "boolean", ReturnedJSType: internal.JSTypeBoolean}
	assert.Equal(t, true, coerceValue("t", boolCol))
	assert.Equal(t, false, coerceValue("f", boolCol))
}

func TestCoerceValueArrays(t *testing.T) {
	arrCol := &internal.SchemaColumn{Type: "text[]", IsArray: true, ReturnedAsArray: true, ReturnedJSType: internal.JSTypeString}
	assert.Equal(t, []any{"a", "b", "c"}, coerceValue("{a,b,c}", arrCol))

	// non-array value for an array column defaults to an empty array
	assert.Equal(t, []any{}, coerceValue(nil, arrCol))
	assert.Equal(t, []any{}, coerceValue(42, arrCol))
}
