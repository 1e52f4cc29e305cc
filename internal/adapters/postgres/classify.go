package postgres

import (
	"time"

	"github.com/kottster/adminkit/internal"
	"github.com/kottster/adminkit/internal/util"
	"github.com/lib/pq"
	"github.com/shopmonkeyus/go-common/logger"
)

func newTypeMapping(log logger.Logger) *internal.TypeMapping {
	return &internal.TypeMapping{
		SupportsArrays: true,
		JSTypes: map[string]internal.JSType{
			"smallint":         internal.JSTypeNumber,
			"integer":          internal.JSTypeNumber,
			"bigint":           internal.JSTypeNumber,
			"int":              internal.JSTypeNumber,
			"int2":             internal.JSTypeNumber,
			"int4":             internal.JSTypeNumber,
			"int8":             internal.JSTypeNumber,
			"numeric":          internal.JSTypeNumber,
			"decimal":          internal.JSTypeNumber,
			"real":             internal.JSTypeNumber,
			"double precision": internal.JSTypeNumber,
			"float4":           internal.JSTypeNumber,
			"float8":           internal.JSTypeNumber,
			"money":            internal.JSTypeNumber,
			"smallserial":      internal.JSTypeNumber,
			"serial":           internal.JSTypeNumber,
			"bigserial":        internal.JSTypeNumber,
			"oid":              internal.JSTypeNumber,

			"boolean": internal.JSTypeBoolean,
			"bool":    internal.JSTypeBoolean,

			"date":                        internal.JSTypeDate,
			"timestamp":                   internal.JSTypeDate,
			"timestamptz":                 internal.JSTypeDate,
			"timestamp without time zone": internal.JSTypeDate,
			"timestamp with time zone":    internal.JSTypeDate,

			"time":                   internal.JSTypeString,
			"timetz":                 internal.JSTypeString,
			"time without time zone": internal.JSTypeString,
			"time with time zone":    internal.JSTypeString,
			"interval":               internal.JSTypeString,

			"character varying": internal.JSTypeString,
			"varchar":           internal.JSTypeString,
			"character":         internal.JSTypeString,
			"char":              internal.JSTypeString,
			"bpchar":            internal.JSTypeString,
			"text":              internal.JSTypeString,
			"citext":            internal.JSTypeString,
			"name":              internal.JSTypeString,
			"uuid":              internal.JSTypeString,
			"cidr":              internal.JSTypeString,
			"inet":              internal.JSTypeString,
			"macaddr":           internal.JSTypeString,
			"bit":               internal.JSTypeString,
			"bit varying":       internal.JSTypeString,
			"xml":               internal.JSTypeString,

			"bytea": internal.JSTypeBuffer,

			"json":  internal.JSTypeObject,
			"jsonb": internal.JSTypeObject,
		},
		ContentHints: map[string]internal.ContentHint{
			"smallint":         internal.ContentHintNumber,
			"integer":          internal.ContentHintNumber,
			"bigint":           internal.ContentHintNumber,
			"int":              internal.ContentHintNumber,
			"int2":             internal.ContentHintNumber,
			"int4":             internal.ContentHintNumber,
			"int8":             internal.ContentHintNumber,
			"numeric":          internal.ContentHintNumber,
			"decimal":          internal.ContentHintNumber,
			"real":             internal.ContentHintNumber,
			"double precision": internal.ContentHintNumber,
			"float4":           internal.ContentHintNumber,
			"float8":           internal.ContentHintNumber,
			"money":            internal.ContentHintNumber,
			"smallserial":      internal.ContentHintNumber,
			"serial":           internal.ContentHintNumber,
			"bigserial":        internal.ContentHintNumber,

			"boolean": internal.ContentHintBoolean,
			"bool":    internal.ContentHintBoolean,

			"date":                        internal.ContentHintDate,
			"timestamp":                   internal.ContentHintDate,
			"timestamptz":                 internal.ContentHintDate,
			"timestamp without time zone": internal.ContentHintDate,
			"timestamp with time zone":    internal.ContentHintDate,

			"character varying": internal.ContentHintString,
			"varchar":           internal.ContentHintString,
			"character":         internal.ContentHintString,
			"char":              internal.ContentHintString,
			"bpchar":            internal.ContentHintString,
			"text":              internal.ContentHintString,
			"citext":            internal.ContentHintString,
			"name":              internal.ContentHintString,
			"uuid":              internal.ContentHintString,
		},
		ReturnedAsArray: map[string]bool{
			"smallint":          true,
			"integer":           true,
			"bigint":            true,
			"int2":              true,
			"int4":              true,
			"int8":              true,
			"numeric":           true,
			"real":              true,
			"double precision":  true,
			"boolean":           true,
			"character varying": true,
			"varchar":           true,
			"character":         true,
			"bpchar":            true,
			"text":              true,
			"uuid":              true,
		},
		DateFields: map[string]internal.FormFieldType{
			"date":                        internal.FormFieldDatePicker,
			"timestamp":                   internal.FormFieldDateTimePicker,
			"timestamptz":                 internal.FormFieldDateTimePicker,
			"timestamp without time zone": internal.FormFieldDateTimePicker,
			"timestamp with time zone":    internal.FormFieldDateTimePicker,
			"time":                        internal.FormFieldTimePicker,
			"timetz":                      internal.FormFieldTimePicker,
			"time without time zone":      internal.FormFieldTimePicker,
			"time with time zone":         internal.FormFieldTimePicker,
		},
		TextareaTypes: map[string]bool{
			"text":  true,
			"xml":   true,
			"bytea": true,
			"json":  true,
			"jsonb": true,
		},
		OnUnknownType: func(baseType string) {
			log.Warn("unknown column type %s, treating as string", baseType)
		},
	}
}

// coerceValue converts one raw driver value into its API representation.
// Dates become ISO-8601 strings, arrays arrive from lib/pq as `{...}` text
// and get parsed, and non-array values on array columns default to an empty
// array.
func coerceValue(val any, col *internal.SchemaColumn) any {
	if val == nil {
		if col != nil && col.ReturnedAsArray {
			return []any{}
		}
		return nil
	}
	switch v := val.(type) {
	case time.Time:
		return v.UTC().Format(time.RFC3339)
	case []byte:
		return coerceText(string(v), col)
	case string:
		return coerceText(v, col)
	default:
		if col != nil && col.ReturnedAsArray {
			return []any{}
		}
		return v
	}
}

func coerceText(s string, col *internal.SchemaColumn) any {
	if col == nil {
		return s
	}
	if col.ReturnedAsArray {
		return parseArrayLiteral(s)
	}
	switch col.ReturnedJSType {
	case internal.JSTypeNumber:
		return util.ToNumber(s)
	case internal.JSTypeBoolean:
		return s == "t" || s == "true"
	default:
		return s
	}
}

// parseArrayLiteral parses a postgres `{a,b,c}` array literal into a native
// slice, through pq's own array scanner.
func parseArrayLiteral(s string) []any {
	var arr pq.StringArray
	if err := arr.Scan([]byte(s)); err != nil {
		return []any{}
	}
	out := make([]any, len(arr))
	for i, v := range arr {
		out[i] = v
	}
	return out
}

// prepareValueForUpsert converts an API value into what the driver stores.
// Array columns go through pq.Array so the wire format matches the column
// type.
func prepareValueForUpsert(val any, col *internal.SchemaColumn) any {
	if col == nil || val == nil {
		return val
	}
	if col.IsArray {
		if items, ok := val.([]any); ok {
			if col.ReturnedJSType == internal.JSTypeNumber {
				nums := make([]float64, 0, len(items))
				for _, item := range items {
					if f, ok := item.(float64); ok {
						nums = append(nums, f)
					}
				}
				return pq.Array(nums)
			}
			strs := make([]string, 0, len(items))
			for _, item := range items {
				if s, ok := item.(string); ok {
					strs = append(strs, s)
				}
			}
			return pq.Array(strs)
		}
	}
	return val
}
