package internal

// Record is one row keyed by column name, with values already coerced to
// their API representation.
type Record map[string]any

// SortDirection orders a sorted column.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// SortItem is one entry of a sort specification.
type SortItem struct {
	Column    string        `json:"column"`
	Direction SortDirection `json:"direction"`
}

// RecordsInput is the list-query request: search, filters, sorting and
// pagination. Page is 1-based. A set NestedTableKey addresses a related
// table instead: the query lists its records scoped to the parent record
// named by ParentPrimaryKey.
type RecordsInput struct {
	Search           string       `json:"search,omitempty"`
	Filters          []FilterItem `json:"filters,omitempty"`
	Sorting          []SortItem   `json:"sorting,omitempty"`
	Page             int          `json:"page,omitempty"`
	PageSize         int          `json:"pageSize,omitempty"`
	NestedTableKey   string       `json:"nestedTableKey,omitempty"`
	ParentPrimaryKey any          `json:"parentPrimaryKey,omitempty"`
}

// Offset returns the row offset implied by the pagination settings.
func (in RecordsInput) Offset() int {
	page := in.Page
	if page < 1 {
		page = 1
	}
	return (page - 1) * in.PageSize
}

// RecordsResult is one page of records plus the unpaginated total.
type RecordsResult struct {
	Records      []Record `json:"records"`
	TotalRecords int      `json:"totalRecords"`
}

// TableData is the output of resolving a table page configuration against a
// live schema: the schema table plus the fully processed configuration and
// the derived column capability sets.
type TableData struct {
	Schema *SchemaTable    `json:"tableSchema,omitempty"`
	Config TablePageConfig `json:"tablePageConfig"`

	PrimaryKeyColumn  string   `json:"primaryKeyColumn,omitempty"`
	SelectableColumns []string `json:"selectableColumns,omitempty"`
	SearchableColumns []string `json:"searchableColumns,omitempty"`
	SortableColumns   []string `json:"sortableColumns,omitempty"`
	FilterableColumns []string `json:"filterableColumns,omitempty"`
}

// ColumnSchema returns the schema column for name, or nil when the resolver
// ran without a matching schema table.
func (d *TableData) ColumnSchema(name string) *SchemaColumn {
	if d.Schema == nil {
		return nil
	}
	return d.Schema.Column(name)
}

// CanSort reports whether the column is in the sortable set.
func (d *TableData) CanSort(column string) bool {
	return sliceContains(d.SortableColumns, column)
}

// CanFilter reports whether the column is in the filterable set.
func (d *TableData) CanFilter(column string) bool {
	return sliceContains(d.FilterableColumns, column)
}

func sliceContains(slice []string, val string) bool {
	for _, item := range slice {
		if item == val {
			return true
		}
	}
	return false
}
