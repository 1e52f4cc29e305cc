package sqlite

import (
	"testing"

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

func TestCoerceValue(t *testing.T) {
	boolCol := &internal.SchemaColumn{Type: "boolean", ReturnedJSType: internal.JSTypeBoolean}
	assert.Equal(t, true, coerceValue(int64(1), boolCol))
	assert.Equal(t, false, coerceValue(int64(0), boolCol))

	numCol := &internal.SchemaColumn{Type: "numeric", ReturnedJSType: internal.JSTypeNumber}
	assert.Equal(t, 12.5, coerceValue([]byte("12.5"), numCol))

	// date text stored in a text-affinity column is normalized to RFC 3339
	dateCol := &internal.SchemaColumn{Type: "datetime", ReturnedJSType: internal.JSTypeDate}
	assert.Equal(t, "2024-07-09T18:28:03Z", coerceValue("2024-07-09 18:28:03", dateCol))
}

func TestPrepareValueForUpsert(t *testing.T) {
	boolCol := &internal.SchemaColumn{Type: "boolean", ReturnedJSType: internal.JSTypeBoolean}
	assert.Equal(t, 1, prepareValueForUpsert(true, boolCol))
	assert.Equal(t, 0, prepareValueForUpsert(false, boolCol))

	dateCol := &internal.SchemaColumn{Type: "datetime", ReturnedJSType: internal.JSTypeDate}
	assert.Equal(t, "2024-07-09 18:28:03", prepareValueForUpsert("2024-07-09T18:28:03Z", dateCol))
}
