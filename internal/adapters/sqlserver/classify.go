package sqlserver

import (
	"strings"
	"time"

	"github.com/kottster/adminkit/internal"
	"github.com/kottster/adminkit/internal/util"
)

func newTypeMapping() *internal.TypeMapping {
	return &internal.TypeMapping{
		JSTypes: map[string]internal.JSType{
			"tinyint":    internal.JSTypeNumber,
			"smallint":   internal.JSTypeNumber,
			"int":        internal.JSTypeNumber,
			"bigint":     internal.JSTypeNumber,
			"decimal":    internal.JSTypeNumber,
			"numeric":    internal.JSTypeNumber,
			"money":      internal.JSTypeNumber,
			"smallmoney": internal.JSTypeNumber,
			"float":      internal.JSTypeNumber,
			"real":       internal.JSTypeNumber,

			"bit": internal.JSTypeBoolean,

			"date":           internal.JSTypeDate,
			"datetime":       internal.JSTypeDate,
			"datetime2":      internal.JSTypeDate,
			"smalldatetime":  internal.JSTypeDate,
			"datetimeoffset": internal.JSTypeDate,

			"time":             internal.JSTypeString,
			"char":             internal.JSTypeString,
			"varchar":          internal.JSTypeString,
			"nchar":            internal.JSTypeString,
			"nvarchar":         internal.JSTypeString,
			"text":             internal.JSTypeString,
			"ntext":            internal.JSTypeString,
			"uniqueidentifier": internal.JSTypeString,
			"xml":              internal.JSTypeString,

			"binary":    internal.JSTypeBuffer,
			"varbinary": internal.JSTypeBuffer,
			"image":     internal.JSTypeBuffer,
		},
		ContentHints: map[string]internal.ContentHint{
			"tinyint":    internal.ContentHintNumber,
			"smallint":   internal.ContentHintNumber,
			"int":        internal.ContentHintNumber,
			"bigint":     internal.ContentHintNumber,
			"decimal":    internal.ContentHintNumber,
			"numeric":    internal.ContentHintNumber,
			"money":      internal.ContentHintNumber,
			"smallmoney": internal.ContentHintNumber,
			"float":      internal.ContentHintNumber,
			"real":       internal.ContentHintNumber,

			"bit": internal.ContentHintBoolean,

			"date":           internal.ContentHintDate,
			"datetime":       internal.ContentHintDate,
			"datetime2":      internal.ContentHintDate,
			"smalldatetime":  internal.ContentHintDate,
			"datetimeoffset": internal.ContentHintDate,

			"char":             internal.ContentHintString,
			"varchar":          internal.ContentHintString,
			"nchar":            internal.ContentHintString,
			"nvarchar":         internal.ContentHintString,
			"text":             internal.ContentHintString,
			"ntext":            internal.ContentHintString,
			"uniqueidentifier": internal.ContentHintString,
		},
		DateFields: map[string]internal.FormFieldType{
			"date":           internal.FormFieldDatePicker,
			"datetime":       internal.FormFieldDateTimePicker,
			"datetime2":      internal.FormFieldDateTimePicker,
			"smalldatetime":  internal.FormFieldDateTimePicker,
			"datetimeoffset": internal.FormFieldDateTimePicker,
			"time":           internal.FormFieldTimePicker,
		},
		TextareaTypes: map[string]bool{
			"text":  true,
			"ntext": true,
			"xml":   true,
		},
	}
}

// coerceValue converts one raw driver value into its API representation.
// Money and decimal values arrive as []byte strings with fixed scale, so
// trailing zeros are trimmed before numeric parsing.
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
		return util.ToNumber(util.TrimTrailingZeros(s))
	case internal.JSTypeBoolean:
		return s == "1" || strings.EqualFold(s, "true")
	default:
		return s
	}
}

// prepareValueForUpsert truncates incoming ISO-8601 timestamps to the
// timezone-naive form the datetime family expects, and turns incoming strings
// for binary columns back into raw bytes.
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
	case internal.JSTypeBuffer:
		if s, ok := val.(string); ok {
			return []byte(s)
		}
	}
	return val
}
