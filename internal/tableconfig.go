package internal

// FetchStrategy selects where a table page gets its rows from.
type FetchStrategy string

const (
	FetchStrategyDatabaseTable FetchStrategy = "databaseTable"
	FetchStrategyRawSQLQuery   FetchStrategy = "rawSqlQuery"
	FetchStrategyCustomFetch   FetchStrategy = "customFetch"
)

// RelationKind discriminates the Relationship union.
type RelationKind string

const (
	RelationOneToOne   RelationKind = "oneToOne"
	RelationOneToMany  RelationKind = "oneToMany"
	RelationManyToMany RelationKind = "manyToMany"
)

// Relationship is a derived or declared foreign-key link between two tables.
// Key is stable and unique within one table configuration; for derived
// relationships it encodes the link so it can be parsed back as a nested
// table key segment.
type Relationship struct {
	Relation RelationKind `json:"relation"`
	Key      string       `json:"key"`

	// oneToOne
	ForeignKeyColumn string `json:"foreignKeyColumn,omitempty"`

	TargetTable          string `json:"targetTable"`
	TargetTableKeyColumn string `json:"targetTableKeyColumn"`

	// oneToMany
	TargetTableForeignKeyColumn string `json:"targetTableForeignKeyColumn,omitempty"`

	// manyToMany
	JunctionTable                string `json:"junctionTable,omitempty"`
	JunctionTableSourceKeyColumn string `json:"junctionTableSourceKeyColumn,omitempty"`
	JunctionTableTargetKeyColumn string `json:"junctionTableTargetKeyColumn,omitempty"`

	PreviewColumns []string `json:"previewColumns,omitempty"`
	IncludeColumns []string `json:"includeColumns,omitempty"`
	ExcludeColumns []string `json:"excludeColumns,omitempty"`
	Position       *int     `json:"position,omitempty"`

	// Excluded removes an auto-derived relationship so it does not
	// resurface on the next schema walk.
	Excluded bool `json:"excluded,omitempty"`
}

// TablePageColumn is the authored configuration for one column of a table
// page. Unset pointer fields fall back to schema-derived defaults at
// resolution time.
type TablePageColumn struct {
	Column                     string     `json:"column"`
	Label                      string     `json:"label,omitempty"`
	Hidden                     bool       `json:"hidden,omitempty"`
	Sortable                   *bool      `json:"sortable,omitempty"`
	Searchable                 *bool      `json:"searchable,omitempty"`
	Filterable                 *bool      `json:"filterable,omitempty"`
	Position                   *int       `json:"position,omitempty"`
	RelationshipPreviewColumns []string   `json:"relationshipPreviewColumns,omitempty"`
	FormField                  *FormField `json:"formField,omitempty"`
}

// TablePageConfig is the declarative, mergeable description of one table
// view. It is authored partially, resolved at request time against the live
// schema, and never mutated in place: every merge or resolution produces a
// new value.
type TablePageConfig struct {
	Table            string            `json:"table,omitempty"`
	PrimaryKeyColumn string            `json:"primaryKeyColumn,omitempty"`
	PageSize         int               `json:"pageSize,omitempty"`
	Columns          []TablePageColumn `json:"columns,omitempty"`
	Relationships    []Relationship    `json:"relationships,omitempty"`
	FetchStrategy    FetchStrategy     `json:"fetchStrategy,omitempty"`
	RawSQLQuery      string            `json:"rawSqlQuery,omitempty"`
	RawSQLCountQuery string            `json:"rawSqlCountQuery,omitempty"`
	DataSource       string            `json:"dataSource,omitempty"`

	AllowInsert *bool `json:"allowInsert,omitempty"`
	AllowUpdate *bool `json:"allowUpdate,omitempty"`
	AllowDelete *bool `json:"allowDelete,omitempty"`

	AllowedRoleIDsToInsert []string `json:"allowedRoleIdsToInsert,omitempty"`
	AllowedRoleIDsToUpdate []string `json:"allowedRoleIdsToUpdate,omitempty"`
	AllowedRoleIDsToDelete []string `json:"allowedRoleIdsToDelete,omitempty"`

	// Nested holds configurations for linked tables, keyed by the nested
	// table key string.
	Nested map[string]TablePageConfig `json:"nested,omitempty"`
}

// Allows reports whether the action flag permits a mutation; nil means
// allowed.
func Allows(flag *bool) bool {
	return flag == nil || *flag
}

// MergeTablePageConfig overlays override onto base field by field and returns
// a new configuration. Scalars are replaced when set in the override, slices
// are replaced wholesale, and the Nested map is merged per key with a
// recursive merge for keys present on both sides.
func MergeTablePageConfig(base, override TablePageConfig) TablePageConfig {
	merged := base

	if override.Table != "" {
		merged.Table = override.Table
	}
	if override.PrimaryKeyColumn != "" {
		merged.PrimaryKeyColumn = override.PrimaryKeyColumn
	}
	if override.PageSize != 0 {
		merged.PageSize = override.PageSize
	}
	if override.Columns != nil {
		merged.Columns = override.Columns
	}
	if override.Relationships != nil {
		merged.Relationships = override.Relationships
	}
	if override.FetchStrategy != "" {
		merged.FetchStrategy = override.FetchStrategy
	}
	if override.RawSQLQuery != "" {
		merged.RawSQLQuery = override.RawSQLQuery
	}
	if override.RawSQLCountQuery != "" {
		merged.RawSQLCountQuery = override.RawSQLCountQuery
	}
	if override.DataSource != "" {
		merged.DataSource = override.DataSource
	}
	if override.AllowInsert != nil {
		merged.AllowInsert = override.AllowInsert
	}
	if override.AllowUpdate != nil {
		merged.AllowUpdate = override.AllowUpdate
	}
	if override.AllowDelete != nil {
		merged.AllowDelete = override.AllowDelete
	}
	if override.AllowedRoleIDsToInsert != nil {
		merged.AllowedRoleIDsToInsert = override.AllowedRoleIDsToInsert
	}
	if override.AllowedRoleIDsToUpdate != nil {
		merged.AllowedRoleIDsToUpdate = override.AllowedRoleIDsToUpdate
	}
	if override.AllowedRoleIDsToDelete != nil {
		merged.AllowedRoleIDsToDelete = override.AllowedRoleIDsToDelete
	}
	if override.Nested != nil {
		nested := make(map[string]TablePageConfig, len(base.Nested)+len(override.Nested))
		for key, cfg := range base.Nested {
			nested[key] = cfg
		}
		for key, cfg := range override.Nested {
			if existing, ok := nested[key]; ok {
				nested[key] = MergeTablePageConfig(existing, cfg)
			} else {
				nested[key] = cfg
			}
		}
		merged.Nested = nested
	}
	return merged
}

// Column returns the authored configuration for a column, or nil.
func (c *TablePageConfig) Column(name string) *TablePageColumn {
	for i := range c.Columns {
		if c.Columns[i].Column == name {
			return &c.Columns[i]
		}
	}
	return nil
}

// Relationship returns the relationship with the given key, or nil.
func (c *TablePageConfig) Relationship(key string) *Relationship {
	for i := range c.Relationships {
		if c.Relationships[i].Key == key {
			return &c.Relationships[i]
		}
	}
	return nil
}
