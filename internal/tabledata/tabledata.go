package tabledata

import (
	"sort"

	"github.com/kottster/adminkit/internal"
	"github.com/kottster/adminkit/internal/util"
)

const defaultPreviewColumnCount = 1

// ResolveTableData merges the authored configuration with schema-derived
// defaults into the fully processed form query building works from. A
// configured table missing from the schema yields an empty result rather than
// an error, so pages referencing stale tables degrade instead of breaking.
func ResolveTableData(config internal.TablePageConfig, schema *internal.DatabaseSchema) *internal.TableData {
	table := schema.Table(config.Table)
	if table == nil {
		return &internal.TableData{Config: config}
	}

	data := &internal.TableData{
		Schema: table,
		Config: config,
	}
	data.PrimaryKeyColumn = resolvePrimaryKey(config, table)
	data.Config.Relationships = resolveRelationships(config, schema)
	data.Config.Columns = resolveColumns(config, table)
	sortByPosition(data.Config.Columns)

	for _, col := range table.Columns {
		data.SelectableColumns = append(data.SelectableColumns, col.Name)
	}
	for _, col := range data.Config.Columns {
		if col.Sortable != nil && *col.Sortable {
			data.SortableColumns = append(data.SortableColumns, col.Column)
		}
		if col.Searchable != nil && *col.Searchable {
			data.SearchableColumns = append(data.SearchableColumns, col.Column)
		}
		if col.Filterable != nil && *col.Filterable {
			data.FilterableColumns = append(data.FilterableColumns, col.Column)
		}
	}
	return data
}

func resolvePrimaryKey(config internal.TablePageConfig, table *internal.SchemaTable) string {
	if config.PrimaryKeyColumn != "" {
		return config.PrimaryKeyColumn
	}
	if pk := table.PrimaryKeyColumn(); pk != nil {
		return pk.Name
	}
	return ""
}

// resolveRelationships recomputes the derived set from the live schema on
// every call, overlays authored entries by key and fills default preview
// columns from the name-likeness heuristic.
func resolveRelationships(config internal.TablePageConfig, schema *internal.DatabaseSchema) []internal.Relationship {
	derived := GetAllPossibleRelationships(config, schema)
	merged := mergeRelationships(config.Relationships, derived)
	for i := range merged {
		if len(merged[i].PreviewColumns) > 0 {
			continue
		}
		target := schema.Table(merged[i].TargetTable)
		if target == nil {
			continue
		}
		merged[i].PreviewColumns = FindNameLikeColumns(target.Columns, defaultPreviewColumnCount)
	}
	return merged
}

// resolveColumns produces one processed column config per schema column,
// keeping authored values and filling the rest from schema-derived defaults.
func resolveColumns(config internal.TablePageConfig, table *internal.SchemaTable) []internal.TablePageColumn {
	resolved := make([]internal.TablePageColumn, 0, len(table.Columns))
	for _, schemaCol := range table.Columns {
		col := internal.TablePageColumn{Column: schemaCol.Name}
		if authored := config.Column(schemaCol.Name); authored != nil {
			col = *authored
		}
		if col.Label == "" {
			if schemaCol.ForeignKey != nil {
				col.Label = util.ForeignKeyLabel(schemaCol.Name)
			} else {
				col.Label = util.HumanizeColumnName(schemaCol.Name)
			}
		}
		if col.Sortable == nil {
			col.Sortable = boolPtr(defaultSortable(schemaCol))
		}
		if col.Searchable == nil {
			col.Searchable = boolPtr(defaultSearchable(schemaCol))
		}
		if col.Filterable == nil {
			col.Filterable = boolPtr(true)
		}
		if col.FormField == nil && schemaCol.FormField != nil {
			col.FormField = schemaCol.FormField
		}
		resolved = append(resolved, col)
	}
	return resolved
}

func defaultSortable(col internal.SchemaColumn) bool {
	switch col.ContentHint {
	case internal.ContentHintNumber, internal.ContentHintBoolean, internal.ContentHintDate:
		return true
	}
	return false
}

func defaultSearchable(col internal.SchemaColumn) bool {
	return col.ContentHint == internal.ContentHintString && col.ForeignKey == nil
}

func sortByPosition(columns []internal.TablePageColumn) {
	sort.SliceStable(columns, func(i, j int) bool {
		pi, pj := columns[i].Position, columns[j].Position
		switch {
		case pi == nil && pj == nil:
			return false
		case pi == nil:
			return false
		case pj == nil:
			return true
		default:
			return *pi < *pj
		}
	})
}

func boolPtr(b bool) *bool {
	return &b
}
