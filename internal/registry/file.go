package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kottster/adminkit/internal"
	"github.com/kottster/adminkit/internal/util"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// pageSchema validates the shape of a persisted page document before it is
// decoded, so a hand-edited file fails with a pointer to the bad field
// instead of a zero value downstream.
const pageSchema = `{
	"type": "object",
	"properties": {
		"table": {"type": "string"},
		"primaryKeyColumn": {"type": "string"},
		"pageSize": {"type": "integer", "minimum": 1},
		"fetchStrategy": {"enum": ["databaseTable", "rawSqlQuery", "customFetch"]},
		"rawSqlQuery": {"type": "string"},
		"rawSqlCountQuery": {"type": "string"},
		"dataSource": {"type": "string"},
		"columns": {"type": "array", "items": {
			"type": "object",
			"properties": {"column": {"type": "string"}},
			"required": ["column"]
		}},
		"relationships": {"type": "array", "items": {
			"type": "object",
			"properties": {
				"relation": {"enum": ["oneToOne", "oneToMany", "manyToMany"]},
				"key": {"type": "string"}
			},
			"required": ["relation", "key"]
		}},
		"nested": {"type": "object"}
	}
}`

const dataSourceSchema = `{
	"type": "object",
	"properties": {
		"name": {"type": "string"},
		"type": {"enum": ["postgres", "mysql", "sqlserver", "sqlite"]},
		"url": {"type": "string"},
		"schemaName": {"type": "string"},
		"tablesConfig": {"type": "object"}
	},
	"required": ["name", "type", "url"]
}`

var (
	pageValidator       = jsonschema.MustCompileString("page.json", pageSchema)
	dataSourceValidator = jsonschema.MustCompileString("datasource.json", dataSourceSchema)
)

// NewFileRegistry loads every page and data source document below dir. Pages
// live in dir/pages/*.json keyed by file name; data sources in
// dir/data-sources/*.json keyed by their declared name.
func NewFileRegistry(dir string) (*Registry, error) {
	if !util.Exists(dir) {
		return nil, fmt.Errorf("config directory does not exist: %s", dir)
	}
	r := &Registry{
		pages:       make(map[string]internal.TablePageConfig),
		dataSources: make(map[string]DataSourceConfig),
	}

	pageFiles, err := filepath.Glob(filepath.Join(dir, "pages", "*.json"))
	if err != nil {
		return nil, err
	}
	for _, file := range pageFiles {
		var cfg internal.TablePageConfig
		if err := loadValidated(file, pageValidator, &cfg); err != nil {
			return nil, err
		}
		key := strings.TrimSuffix(filepath.Base(file), ".json")
		r.pages[key] = cfg
	}

	dsFiles, err := filepath.Glob(filepath.Join(dir, "data-sources", "*.json"))
	if err != nil {
		return nil, err
	}
	for _, file := range dsFiles {
		var cfg DataSourceConfig
		if err := loadValidated(file, dataSourceValidator, &cfg); err != nil {
			return nil, err
		}
		r.dataSources[cfg.Name] = cfg
	}
	return r, nil
}

// loadValidated reads a JSON document, checks it against the schema and then
// decodes it into out.
func loadValidated(filename string, schema *jsonschema.Schema, out any) error {
	buf, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("error reading config file: %w", err)
	}
	var doc any
	if err := json.Unmarshal(buf, &doc); err != nil {
		return fmt.Errorf("error decoding config file %s: %w", filename, err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("invalid config file %s: %w", filename, err)
	}
	if err := json.Unmarshal(buf, out); err != nil {
		return fmt.Errorf("error decoding config file %s: %w", filename, err)
	}
	return nil
}
