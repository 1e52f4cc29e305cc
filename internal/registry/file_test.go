package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kottster/adminkit/internal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, sub, name, content string) {
	t.Helper()
	path := filepath.Join(dir, sub)
	require.NoError(t, os.MkdirAll(path, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(path, name), []byte(content), 0644))
}

func TestNewFileRegistry(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "pages", "users.json", `{
		"table": "users",
		"dataSource": "main",
		"pageSize": 50,
		"columns": [{"column": "name", "label": "Full name"}]
	}`)
	writeConfig(t, dir, "data-sources", "main.json", `{
		"name": "main",
		"type": "postgres",
		"url": "postgres://localhost/app",
		"tablesConfig": {"users": {"pageSize": 10}}
	}`)

	r, err := NewFileRegistry(dir)
	require.NoError(t, err)

	page, ok := r.Page("users")
	require.True(t, ok)
	assert.Equal(t, "users", page.Table)
	assert.Equal(t, 50, page.PageSize)
	require.Len(t, page.Columns, 1)
	assert.Equal(t, "Full name", page.Columns[0].Label)

	ds, ok := r.DataSource("main")
	require.True(t, ok)
	assert.Equal(t, "postgres", ds.Type)

	cfg, err := r.TableConfig("main", "users")
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.PageSize)
	assert.Equal(t, "users", cfg.Table)
}

func TestNewFileRegistryMissingDir(t *testing.T) {
	_, err := NewFileRegistry(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestNewFileRegistryRejectsInvalidPage(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "pages", "bad.json", `{"fetchStrategy": "telepathy"}`)
	_, err := NewFileRegistry(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.json")
}

func TestNewFileRegistryRejectsDataSourceWithoutURL(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "data-sources", "main.json", `{"name": "main", "type": "postgres"}`)
	_, err := NewFileRegistry(dir)
	assert.Error(t, err)
}

func TestTableConfigUnknownDataSource(t *testing.T) {
	r := NewStaticRegistry(nil, nil)
	_, err := r.TableConfig("ghost", "users")
	assert.EqualError(t, err, "data source not found: ghost")
}

func TestStaticRegistry(t *testing.T) {
	r := NewStaticRegistry(
		map[string]internal.TablePageConfig{"users": {Table: "users"}},
		[]DataSourceConfig{{Name: "main", Type: "sqlite", URL: "sqlite://app.db"}},
	)
	page, ok := r.Page("users")
	require.True(t, ok)
	assert.Equal(t, "users", page.Table)
	assert.Len(t, r.DataSources(), 1)
}
