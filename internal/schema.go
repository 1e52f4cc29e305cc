package internal

import (
	"regexp"
	"strings"
)

// JSType is the javascript-facing type a column value is returned as.
type JSType string

const (
	JSTypeString  JSType = "string"
	JSTypeNumber  JSType = "number"
	JSTypeBoolean JSType = "boolean"
	JSTypeDate    JSType = "date"
	JSTypeBuffer  JSType = "buffer"
	JSTypeObject  JSType = "object"
)

// ContentHint buckets a column for default sort/search/filter behavior.
type ContentHint string

const (
	ContentHintString  ContentHint = "string"
	ContentHintNumber  ContentHint = "number"
	ContentHintBoolean ContentHint = "boolean"
	ContentHintDate    ContentHint = "date"
)

// FormFieldType identifies the input widget a column implies in the UI.
type FormFieldType string

const (
	FormFieldInput          FormFieldType = "input"
	FormFieldNumberInput    FormFieldType = "numberInput"
	FormFieldTextarea       FormFieldType = "textarea"
	FormFieldSelect         FormFieldType = "select"
	FormFieldCheckbox       FormFieldType = "checkbox"
	FormFieldRecordSelect   FormFieldType = "recordSelect"
	FormFieldDatePicker     FormFieldType = "datePicker"
	FormFieldDateTimePicker FormFieldType = "dateTimePicker"
	FormFieldTimePicker     FormFieldType = "timePicker"
)

// FormFieldOption is a single choice for a select form field.
type FormFieldOption struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// FormField is UI-agnostic metadata describing the input widget for a column.
// It is derived purely from the column's type information and never persisted.
type FormField struct {
	Type    FormFieldType     `json:"type"`
	AsArray bool              `json:"asArray,omitempty"`
	Options []FormFieldOption `json:"options,omitempty"`
}

// PrimaryKey describes a column's primary key participation.
type PrimaryKey struct {
	AutoIncrement bool `json:"autoIncrement"`
}

// ForeignKey describes the target of a column's foreign key constraint.
// A column has at most one target.
type ForeignKey struct {
	Table  string `json:"table"`
	Column string `json:"column"`
}

// SchemaColumn is a single discovered column with its inferred metadata.
type SchemaColumn struct {
	Name            string      `json:"name"`
	Type            string      `json:"type"`
	FullType        string      `json:"fullType"`
	Nullable        bool        `json:"nullable"`
	EnumValues      string      `json:"enumValues,omitempty"` // comma-joined
	IsArray         bool        `json:"isArray,omitempty"`
	ReturnedJSType  JSType      `json:"returnedJsType"`
	ReturnedAsArray bool        `json:"returnedAsArray,omitempty"`
	ContentHint     ContentHint `json:"contentHint,omitempty"`
	FormField       *FormField  `json:"formField,omitempty"`
	PrimaryKey      *PrimaryKey `json:"primaryKey,omitempty"`
	ForeignKey      *ForeignKey `json:"foreignKey,omitempty"`
}

// SchemaTable is a discovered table and its columns, in catalog order.
type SchemaTable struct {
	Name    string         `json:"name"`
	Columns []SchemaColumn `json:"columns"`
}

// DatabaseSchema is the result of one introspection pass. It is built fresh
// on every call and never cached by this package; callers needing low-latency
// repeated access cache it themselves.
type DatabaseSchema struct {
	Name   string        `json:"name"`
	Tables []SchemaTable `json:"tables"`
}

// Table returns the named table or nil if absent.
func (s *DatabaseSchema) Table(name string) *SchemaTable {
	for i := range s.Tables {
		if s.Tables[i].Name == name {
			return &s.Tables[i]
		}
	}
	return nil
}

// Column returns the named column or nil if absent.
func (t *SchemaTable) Column(name string) *SchemaColumn {
	for i := range t.Columns {
		if t.Columns[i].Name == name {
			return &t.Columns[i]
		}
	}
	return nil
}

// PrimaryKeyColumn returns the first column flagged as primary key, or nil.
func (t *SchemaTable) PrimaryKeyColumn() *SchemaColumn {
	for i := range t.Columns {
		if t.Columns[i].PrimaryKey != nil {
			return &t.Columns[i]
		}
	}
	return nil
}

var typeModifier = regexp.MustCompile(`\(.*?\)`)

// NormalizeBaseType reduces a raw catalog type to its lookup key: array
// notation stripped, length/precision dropped, lowercased.
func NormalizeBaseType(rawType string) string {
	t := strings.TrimSpace(rawType)
	t = strings.TrimSuffix(t, "[]")
	if strings.HasPrefix(strings.ToUpper(t), "ARRAY") {
		t = strings.TrimSpace(t[len("ARRAY"):])
	}
	t = typeModifier.ReplaceAllString(t, "")
	return strings.ToLower(strings.TrimSpace(t))
}

// TypeMapping is a dialect's classification table, keyed by normalized base
// type.
type TypeMapping struct {

	// JSTypes maps a base type to the type its values are returned as.
	JSTypes map[string]JSType

	// ContentHints maps a base type to its search/sort bucket. Base types
	// absent here carry no hint.
	ContentHints map[string]ContentHint

	// ReturnedAsArray lists base types whose array values arrive from the
	// driver as native arrays rather than strings needing a later parse.
	ReturnedAsArray map[string]bool

	// DateFields maps date/time base types to the picker widget they imply.
	DateFields map[string]FormFieldType

	// TextareaTypes lists long text/binary/xml base types rendered as a
	// textarea instead of a plain input.
	TextareaTypes map[string]bool

	// SupportsArrays is set for dialects with native array columns.
	SupportsArrays bool

	// OnUnknownType, when set, is invoked for base types missing from
	// JSTypes before the fallback to string.
	OnUnknownType func(baseType string)
}

// ClassifyColumn fills the inferred metadata on col from its raw catalog type
// information. Pure aside from the optional unknown-type callback.
func (m *TypeMapping) ClassifyColumn(col *SchemaColumn) {
	raw := col.Type
	if raw == "" {
		raw = col.FullType
	}
	base := NormalizeBaseType(raw)

	if m.SupportsArrays && !col.IsArray {
		trimmed := strings.TrimSpace(raw)
		if strings.HasSuffix(trimmed, "[]") || strings.HasPrefix(strings.ToUpper(trimmed), "ARRAY") {
			col.IsArray = true
		}
	}

	jsType, known := m.JSTypes[base]
	if !known {
		if m.OnUnknownType != nil {
			m.OnUnknownType(base)
		}
		jsType = JSTypeString
	}
	col.ReturnedJSType = jsType
	col.ReturnedAsArray = col.IsArray && m.ReturnedAsArray[base]
	col.ContentHint = m.ContentHints[base]
	col.FormField = m.selectFormField(col, base)
}

func (m *TypeMapping) selectFormField(col *SchemaColumn, base string) *FormField {
	field := &FormField{AsArray: col.IsArray}
	switch {
	case col.ForeignKey != nil:
		field.Type = FormFieldRecordSelect
	case col.EnumValues != "":
		field.Type = FormFieldSelect
		for _, v := range strings.Split(col.EnumValues, ",") {
			field.Options = append(field.Options, FormFieldOption{Label: v, Value: v})
		}
	default:
		if picker, ok := m.DateFields[base]; ok {
			field.Type = picker
			break
		}
		if m.TextareaTypes[base] {
			field.Type = FormFieldTextarea
			break
		}
		switch col.ReturnedJSType {
		case JSTypeNumber:
			field.Type = FormFieldNumberInput
		case JSTypeBoolean:
			field.Type = FormFieldCheckbox
		case JSTypeDate:
			field.Type = FormFieldDatePicker
		default:
			field.Type = FormFieldInput
		}
	}
	return field
}
