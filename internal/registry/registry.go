package registry

import (
	"fmt"

	"github.com/kottster/adminkit/internal"
)

// DataSourceConfig is one persisted data source document: which adapter
// dialect to use, how to reach it and any per-table configuration overrides
// keyed by table name.
type DataSourceConfig struct {
	Name         string                              `json:"name"`
	Type         string                              `json:"type"`
	URL          string                              `json:"url"`
	SchemaName   string                              `json:"schemaName,omitempty"`
	TablesConfig map[string]internal.TablePageConfig `json:"tablesConfig,omitempty"`
}

// Registry holds the loaded page and data source configurations. It is read
// only after loading, so no locking is needed.
type Registry struct {
	pages       map[string]internal.TablePageConfig
	dataSources map[string]DataSourceConfig
}

// NewStaticRegistry builds a registry from in-memory configuration, for
// programmatic setups that do not load documents from disk.
func NewStaticRegistry(pages map[string]internal.TablePageConfig, dataSources []DataSourceConfig) *Registry {
	r := &Registry{
		pages:       make(map[string]internal.TablePageConfig, len(pages)),
		dataSources: make(map[string]DataSourceConfig, len(dataSources)),
	}
	for key, cfg := range pages {
		r.pages[key] = cfg
	}
	for _, cfg := range dataSources {
		r.dataSources[cfg.Name] = cfg
	}
	return r
}

// Page returns the stored configuration for a page key.
func (r *Registry) Page(key string) (internal.TablePageConfig, bool) {
	cfg, ok := r.pages[key]
	return cfg, ok
}

// DataSource returns the named data source configuration.
func (r *Registry) DataSource(name string) (DataSourceConfig, bool) {
	cfg, ok := r.dataSources[name]
	return cfg, ok
}

// DataSources returns every loaded data source configuration.
func (r *Registry) DataSources() []DataSourceConfig {
	out := make([]DataSourceConfig, 0, len(r.dataSources))
	for _, cfg := range r.dataSources {
		out = append(out, cfg)
	}
	return out
}

// TableConfig resolves the effective stored config for a table on a data
// source, falling back to a bare config naming the table.
func (r *Registry) TableConfig(dataSource, table string) (internal.TablePageConfig, error) {
	ds, ok := r.dataSources[dataSource]
	if !ok {
		return internal.TablePageConfig{}, fmt.Errorf("data source not found: %s", dataSource)
	}
	if cfg, ok := ds.TablesConfig[table]; ok {
		if cfg.Table == "" {
			cfg.Table = table
		}
		return cfg, nil
	}
	return internal.TablePageConfig{Table: table, DataSource: dataSource}, nil
}
