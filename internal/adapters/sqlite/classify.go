package sqlite

import (
	"strings"
	"time"

	"github.com/kottster/adminkit/internal"
	"github.com/kottster/adminkit/internal/util"
)

// newTypeMapping covers the affinity names commonly seen in declared column
// types. Unknown declared types fall through to the classifier's default.
func newTypeMapping() *internal.TypeMapping {
	return &internal.TypeMapping{
		JSTypes: map[string]internal.JSType{
			"int":              internal.JSTypeNumber,
			"integer":          internal.JSTypeNumber,
			"tinyint":          internal.JSTypeNumber,
			"smallint":         internal.JSTypeNumber,
			"mediumint":        internal.JSTypeNumber,
			"bigint":           internal.JSTypeNumber,
			"unsigned big int": internal.JSTypeNumber,
			"int2":             internal.JSTypeNumber,
			"int8":             internal.JSTypeNumber,
			"real":             internal.JSTypeNumber,
			"double":           internal.JSTypeNumber,
			"double precision": internal.JSTypeNumber,
			"float":            internal.JSTypeNumber,
			"numeric":          internal.JSTypeNumber,
			"decimal":          internal.JSTypeNumber,

			"boolean": internal.JSTypeBoolean,
			"bool":    internal.JSTypeBoolean,

			"date":      internal.JSTypeDate,
			"datetime":  internal.JSTypeDate,
			"timestamp": internal.JSTypeDate,

			"character":         internal.JSTypeString,
			"varchar":           internal.JSTypeString,
			"varying character": internal.JSTypeString,
			"nchar":             internal.JSTypeString,
			"native character":  internal.JSTypeString,
			"nvarchar":          internal.JSTypeString,
			"text":              internal.JSTypeString,
			"clob":              internal.JSTypeString,
			"time":              internal.JSTypeString,
			"uuid":              internal.JSTypeString,

			"blob": internal.JSTypeBuffer,

			"json": internal.JSTypeObject,
		},
		ContentHints: map[string]internal.ContentHint{
			"int":       internal.ContentHintNumber,
			"integer":   internal.ContentHintNumber,
			"tinyint":   internal.ContentHintNumber,
			"smallint":  internal.ContentHintNumber,
			"mediumint": internal.ContentHintNumber,
			"bigint":    internal.ContentHintNumber,
			"real":      internal.ContentHintNumber,
			"double":    internal.ContentHintNumber,
			"float":     internal.ContentHintNumber,
			"numeric":   internal.ContentHintNumber,
			"decimal":   internal.ContentHintNumber,

			"boolean": internal.ContentHintBoolean,
			"bool":    internal.ContentHintBoolean,

			"date":      internal.ContentHintDate,
			"datetime":  internal.ContentHintDate,
			"timestamp": internal.ContentHintDate,

			"character": internal.ContentHintString,
			"varchar":   internal.ContentHintString,
			"nvarchar":  internal.ContentHintString,
			"text":      internal.ContentHintString,
			"clob":      internal.ContentHintString,
			"uuid":      internal.ContentHintString,
		},
		DateFields: map[string]internal.FormFieldType{
			"date":      internal.FormFieldDatePicker,
			"datetime":  internal.FormFieldDateTimePicker,
			"timestamp": internal.FormFieldDateTimePicker,
			"time":      internal.FormFieldTimePicker,
		},
		TextareaTypes: map[string]bool{
			"text": true,
			"clob": true,
			"json": true,
		},
	}
}

// coerceValue converts one raw driver value into its API representation.
// Storage classes are loose here, so declared-type hints drive the shape.
func coerceValue(val any, col *internal.SchemaColumn) any {
	if val == nil {
		return nil
	}
	switch v := val.(type) {
	case time.Time:
		return v.UTC().Format(time.RFC3339)
	case []byte:
		if col != nil && col.ReturnedJSType == internal.JSTypeBuffer {
			return v
		}
		return coerceText(string(v), col)
	case string:
		return coerceText(v, col)
	case int64:
		if col != nil && col.ReturnedJSType == internal.JSTypeBoolean {
			return v != 0
		}
		return v
	default:
		return v
	}
}

func coerceText(s string, col *internal.SchemaColumn) any {
	if col == nil {
		return s
	}
	switch col.ReturnedJSType {
	case internal.JSTypeNumber:
		return util.ToNumber(s)
	case internal.JSTypeBoolean:
		return s == "1" || strings.EqualFold(s, "true")
	case internal.JSTypeDate:
		if t, ok := util.ParseDateValue(s); ok {
			return t.UTC().Format(time.RFC3339)
		}
		return s
	default:
		return s
	}
}

// prepareValueForUpsert normalizes incoming date strings to the naive text
// format date functions understand, and booleans to integer storage.
func prepareValueForUpsert(val any, col *internal.SchemaColumn) any {
	if col == nil || val == nil {
		return val
	}
	switch col.ReturnedJSType {
	case internal.JSTypeDate:
		if s, ok := val.(string); ok {
			if t, ok := util.ParseDateValue(s); ok {
				return t.UTC().Format(util.DateTimeNaiveFormat)
			}
		}
	case internal.JSTypeBoolean:
		if b, ok := val.(bool); ok {
			if b {
				return 1
			}
			return 0
		}
	}
	return val
}
