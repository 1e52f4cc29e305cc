package mysql

import (
	"regexp"
	"strings"
	"time"

	"github.com/kottster/adminkit/internal"
	"github.com/kottster/adminkit/internal/util"
)

func newTypeMapping() *internal.TypeMapping {
	return &internal.TypeMapping{
		JSTypes: map[string]internal.JSType{
			"tinyint":   internal.JSTypeNumber,
			"smallint":  internal.JSTypeNumber,
			"mediumint": internal.JSTypeNumber,
			"int":       internal.JSTypeNumber,
			"integer":   internal.JSTypeNumber,
			"bigint":    internal.JSTypeNumber,
			"decimal":   internal.JSTypeNumber,
			"numeric":   internal.JSTypeNumber,
			"float":     internal.JSTypeNumber,
			"double":    internal.JSTypeNumber,
			"real":      internal.JSTypeNumber,
			"year":      internal.JSTypeNumber,

			"boolean": internal.JSTypeBoolean,
			"bool":    internal.JSTypeBoolean,
			"bit":     internal.JSTypeBoolean,

			"date":      internal.JSTypeDate,
			"datetime":  internal.JSTypeDate,
			"timestamp": internal.JSTypeDate,

			"time":       internal.JSTypeString,
			"char":       internal.JSTypeString,
			"varchar":    internal.JSTypeString,
			"tinytext":   internal.JSTypeString,
			"text":       internal.JSTypeString,
			"mediumtext": internal.JSTypeString,
			"longtext":   internal.JSTypeString,
			"enum":       internal.JSTypeString,
			"set":        internal.JSTypeString,
			"uuid":       internal.JSTypeString,

			"binary":     internal.JSTypeBuffer,
			"varbinary":  internal.JSTypeBuffer,
			"tinyblob":   internal.JSTypeBuffer,
			"blob":       internal.JSTypeBuffer,
			"mediumblob": internal.JSTypeBuffer,
			"longblob":   internal.JSTypeBuffer,

			"json": internal.JSTypeObject,
		},
		ContentHints: map[string]internal.ContentHint{
			"tinyint":   internal.ContentHintNumber,
			"smallint":  internal.ContentHintNumber,
			"mediumint": internal.ContentHintNumber,
			"int":       internal.ContentHintNumber,
			"integer":   internal.ContentHintNumber,
			"bigint":    internal.ContentHintNumber,
			"decimal":   internal.ContentHintNumber,
			"numeric":   internal.ContentHintNumber,
			"float":     internal.ContentHintNumber,
			"double":    internal.ContentHintNumber,
			"real":      internal.ContentHintNumber,
			"year":      internal.ContentHintNumber,

			"boolean": internal.ContentHintBoolean,
			"bool":    internal.ContentHintBoolean,
			"bit":     internal.ContentHintBoolean,

			"date":      internal.ContentHintDate,
			"datetime":  internal.ContentHintDate,
			"timestamp": internal.ContentHintDate,

			"char":       internal.ContentHintString,
			"varchar":    internal.ContentHintString,
			"tinytext":   internal.ContentHintString,
			"text":       internal.ContentHintString,
			"mediumtext": internal.ContentHintString,
			"longtext":   internal.ContentHintString,
			"enum":       internal.ContentHintString,
			"uuid":       internal.ContentHintString,
		},
		DateFields: map[string]internal.FormFieldType{
			"date":      internal.FormFieldDatePicker,
			"datetime":  internal.FormFieldDateTimePicker,
			"timestamp": internal.FormFieldDateTimePicker,
			"time":      internal.FormFieldTimePicker,
		},
		TextareaTypes: map[string]bool{
			"text":       true,
			"mediumtext": true,
			"longtext":   true,
			"tinyblob":   true,
			"blob":       true,
			"mediumblob": true,
			"longblob":   true,
			"json":       true,
		},
	}
}

var enumValuesPattern = regexp.MustCompile(`(?i)^(?:enum|set)\((.+)\)$`)

// parseEnumValues extracts the labels out of a column_type string like
// enum('a','b','c'), comma-joined. Labels are split only on commas between
// quoted values, so commas and doubled quotes inside a label survive.
func parseEnumValues(columnType string) string {
	m := enumValuesPattern.FindStringSubmatch(strings.TrimSpace(columnType))
	if m == nil {
		return ""
	}
	body := m[1]
	var values []string
	var current strings.Builder
	inQuote := false
	for i := 0; i < len(body); i++ {
		c := body[i]
		switch {
		case c == '\'':
			if inQuote && i+1 < len(body) && body[i+1] == '\'' {
				current.WriteByte('\'')
				i++
				continue
			}
			inQuote = !inQuote
		case c == ',' && !inQuote:
			values = append(values, current.String())
			current.Reset()
		case inQuote:
			current.WriteByte(c)
		}
	}
	values = append(values, current.String())
	return strings.Join(values, ",")
}

// coerceValue converts one raw driver value into its API representation.
// The driver hands back []byte for most textual and decimal types.
func coerceValue(val any, col *internal.SchemaColumn) any {
	if val == nil {
		return nil
	}
	switch v := val.(type) {
	case time.Time:
		return v.UTC().Format(time.RFC3339)
	case []byte:
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
	default:
		return s
	}
}

// prepareValueForUpsert truncates incoming ISO-8601 timestamps to the
// timezone-naive format MySQL datetime columns expect. Sub-second precision
// and offsets are dropped at this boundary.
func prepareValueForUpsert(val any, col *internal.SchemaColumn) any {
	if col == nil || val == nil {
		return val
	}
	if col.ReturnedJSType == internal.JSTypeDate {
		if s, ok := val.(string); ok {
			if t, ok := util.ParseDateValue(s); ok {
				return t.UTC().Format(util.DateTimeNaiveFormat)
			}
		}
	}
	return val
}
