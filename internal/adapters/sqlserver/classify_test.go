package sqlserver

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

func TestCoerceValueTrimsMoneyScale(t *testing.T) {
	moneyCol := &internal.SchemaColumn{Type: "money", ReturnedJSType: internal.JSTypeNumber}
	assert.Equal(t, 19.99, coerceValue([]byte("19.9900"), moneyCol))
	assert.Equal(t, int64(20), coerceValue([]byte("20.0000"), moneyCol))
}

func TestCoerceValueBufferPassthrough(t *testing.T) {
	bufCol := &internal.SchemaColumn{Type: "varbinary", ReturnedJSType: internal.JSTypeBuffer}
	raw := []byte{0x01, 0x02}
	assert.Equal(t, raw, coerceValue(raw, bufCol))
}

func TestCoerceValueDate(t *testing.T) {
	ts := time.Date(2024, 7, 9, 18, 28, 3, 0, time.UTC)
	assert.Equal(t, "2024-07-09T18:28:03Z", coerceValue(ts, nil))
}

func TestPrepareValueForUpsert(t *testing.T) {
	dateCol := &internal.SchemaColumn{Type: "datetime2", ReturnedJSType: internal.JSTypeDate}
	assert.Equal(t, "2024-07-09 18:28:03", prepareValueForUpsert("2024-07-09T18:28:03Z", dateCol))

	bufCol := &internal.SchemaColumn{Type: "varbinary", ReturnedJSType: internal.JSTypeBuffer}
	assert.Equal(t, []byte("abc"), prepareValueForUpsert("abc", bufCol))
}
