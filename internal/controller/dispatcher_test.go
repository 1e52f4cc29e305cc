package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kottster/adminkit/internal"
	"github.com/kottster/adminkit/internal/registry"
	"github.com/shopmonkeyus/go-common/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePermissions struct {
	valid    bool
	user     any
	message  string
	hasRoles bool
}

func (p *fakePermissions) EnsureValidToken(r *http.Request) TokenValidation {
	return TokenValidation{IsTokenValid: p.valid, User: p.user, ErrorMessage: p.message}
}

func (p *fakePermissions) CheckUserForRoles(user any, roleIDs []string) bool {
	return p.hasRoles
}

// fakeAdapter records which mutating calls reached it and what the last list
// query asked for.
type fakeAdapter struct {
	schema    *internal.DatabaseSchema
	records   []internal.Record
	created   bool
	updated   bool
	deleted   bool
	lastData  *internal.TableData
	lastInput internal.RecordsInput
}

func (a *fakeAdapter) Dialect() string                          { return "fake" }
func (a *fakeAdapter) Start(config internal.AdapterConfig) error { return nil }
func (a *fakeAdapter) Stop() error                              { return nil }
func (a *fakeAdapter) Health() internal.HealthState             { return internal.HealthConnected }
func (a *fakeAdapter) Configuration() []internal.ConnectionField { return nil }

func (a *fakeAdapter) Test(ctx context.Context, log logger.Logger, dsn string) error {
	return nil
}

func (a *fakeAdapter) GetDatabaseSchema(ctx context.Context) (*internal.DatabaseSchema, error) {
	return a.schema, nil
}

func (a *fakeAdapter) GetRecords(ctx context.Context, data *internal.TableData, input internal.RecordsInput) (*internal.RecordsResult, error) {
	a.lastData = data
	a.lastInput = input
	return &internal.RecordsResult{Records: a.records, TotalRecords: len(a.records)}, nil
}

func (a *fakeAdapter) GetRecord(ctx context.Context, data *internal.TableData, key map[string]any) (internal.Record, error) {
	return a.records[0], nil
}

func (a *fakeAdapter) CreateRecord(ctx context.Context, data *internal.TableData, values internal.Record) (internal.Record, error) {
	a.created = true
	return values, nil
}

func (a *fakeAdapter) UpdateRecord(ctx context.Context, data *internal.TableData, key map[string]any, values internal.Record) error {
	a.updated = true
	return nil
}

func (a *fakeAdapter) DeleteRecord(ctx context.Context, data *internal.TableData, key map[string]any) error {
	a.deleted = true
	return nil
}

func (a *fakeAdapter) ExecuteQuery(ctx context.Context, query string, countQuery string, page, pageSize int) (*internal.RecordsResult, error) {
	return &internal.RecordsResult{Records: a.records, TotalRecords: len(a.records)}, nil
}

var _ internal.Adapter = (*fakeAdapter)(nil)

func testAdapter() *fakeAdapter {
	return &fakeAdapter{
		schema: &internal.DatabaseSchema{
			Name: "public",
			Tables: []internal.SchemaTable{
				{
					Name: "users",
					Columns: []internal.SchemaColumn{
						{Name: "id", Type: "integer", PrimaryKey: &internal.PrimaryKey{AutoIncrement: true}},
						{Name: "name", Type: "text", ContentHint: internal.ContentHintString},
					},
				},
				{
					Name: "orders",
					Columns: []internal.SchemaColumn{
						{Name: "id", Type: "integer", PrimaryKey: &internal.PrimaryKey{AutoIncrement: true}},
						{Name: "user_id", Type: "integer", ForeignKey: &internal.ForeignKey{Table: "users", Column: "id"}},
						{Name: "total", Type: "numeric", ContentHint: internal.ContentHintNumber},
					},
				},
			},
		},
		records: []internal.Record{{"id": int64(1), "name": "Alice"}},
	}
}

func newTestController(t *testing.T, stage string, perms PermissionChecker, pages map[string]internal.TablePageConfig) (*Controller, *fakeAdapter) {
	c := New(Config{
		Logger:      logger.NewTestLogger(),
		Stage:       stage,
		Registry:    registry.NewStaticRegistry(pages, nil),
		Permissions: perms,
	})
	adapter := testAdapter()
	c.RegisterDataSource("main", adapter)
	return c, adapter
}

func usersPage() map[string]internal.TablePageConfig {
	return map[string]internal.TablePageConfig{
		"users": {Table: "users", DataSource: "main"},
	}
}

func testRequest() *http.Request {
	return httptest.NewRequest(http.MethodPost, "/api", nil)
}

func TestExecuteRejectsInvalidToken(t *testing.T) {
	c, _ := newTestController(t, "development", &fakePermissions{valid: false}, usersPage())
	env := c.Execute(testRequest(), ActionRequest{Action: ActionGetRecords, Page: "users"})
	assert.Equal(t, "error", env.Status)
	assert.Equal(t, "invalid token", env.Error)

	c, _ = newTestController(t, "development", &fakePermissions{valid: false, message: "token expired"}, usersPage())
	env = c.Execute(testRequest(), ActionRequest{Action: ActionGetRecords, Page: "users"})
	assert.Equal(t, "token expired", env.Error)
}

func TestExecuteGetRecords(t *testing.T) {
	c, _ := newTestController(t, "development", &fakePermissions{valid: true}, usersPage())
	env := c.Execute(testRequest(), ActionRequest{Action: ActionGetRecords, Page: "users"})
	require.Equal(t, "success", env.Status)
	result, ok := env.Result.(*internal.RecordsResult)
	require.True(t, ok)
	assert.Equal(t, 1, result.TotalRecords)
}

func TestExecuteGetNestedRecords(t *testing.T) {
	c, adapter := newTestController(t, "development", &fakePermissions{valid: true}, usersPage())
	env := c.Execute(testRequest(), ActionRequest{
		Action: ActionGetRecords,
		Page:   "users",
		Input:  json.RawMessage(`{"nestedTableKey":"orders__c__user_id","parentPrimaryKey":1}`),
	})
	require.Equal(t, "success", env.Status)
	require.NotNil(t, adapter.lastData)
	assert.Equal(t, "orders", adapter.lastData.Config.Table)
	require.Len(t, adapter.lastInput.Filters, 1)
	assert.Equal(t, internal.FilterItem{
		Column:   "user_id",
		Operator: internal.FilterEqual,
		Value:    float64(1),
	}, adapter.lastInput.Filters[0])
	assert.Empty(t, adapter.lastInput.NestedTableKey)
}

func TestExecuteGetNestedRecordsAppliesNestedConfig(t *testing.T) {
	pages := map[string]internal.TablePageConfig{
		"users": {
			Table:      "users",
			DataSource: "main",
			Nested: map[string]internal.TablePageConfig{
				"orders__c__user_id": {
					Columns: []internal.TablePageColumn{{Column: "total", Hidden: true}},
				},
			},
		},
	}
	c, adapter := newTestController(t, "development", &fakePermissions{valid: true}, pages)
	env := c.Execute(testRequest(), ActionRequest{
		Action: ActionGetRecords,
		Page:   "users",
		Input:  json.RawMessage(`{"nestedTableKey":"orders__c__user_id","parentPrimaryKey":1}`),
	})
	require.Equal(t, "success", env.Status)
	require.NotNil(t, adapter.lastData)
	assert.Equal(t, "orders", adapter.lastData.Config.Table)
	col := adapter.lastData.Config.Column("total")
	require.NotNil(t, col)
	assert.True(t, col.Hidden)
}

func TestExecuteGetNestedRecordsRequiresParentKey(t *testing.T) {
	c, _ := newTestController(t, "development", &fakePermissions{valid: true}, usersPage())
	env := c.Execute(testRequest(), ActionRequest{
		Action: ActionGetRecords,
		Page:   "users",
		Input:  json.RawMessage(`{"nestedTableKey":"orders__c__user_id"}`),
	})
	assert.Equal(t, "error", env.Status)
	assert.Equal(t, "missing parent primary key value", env.Error)
}

func TestExecuteGetNestedRecordsUnknownKey(t *testing.T) {
	c, _ := newTestController(t, "development", &fakePermissions{valid: true}, usersPage())
	env := c.Execute(testRequest(), ActionRequest{
		Action: ActionGetRecords,
		Page:   "users",
		Input:  json.RawMessage(`{"nestedTableKey":"payments__c__user_id","parentPrimaryKey":1}`),
	})
	assert.Equal(t, "error", env.Status)
	assert.Equal(t, "no relationship found for nested table key payments__c__user_id", env.Error)
}

func TestExecuteUnknownAction(t *testing.T) {
	c, _ := newTestController(t, "development", &fakePermissions{valid: true}, usersPage())
	env := c.Execute(testRequest(), ActionRequest{Action: "table_truncate", Page: "users"})
	assert.Equal(t, "error", env.Status)
	assert.Equal(t, "unknown action: table_truncate", env.Error)
}

func TestExecuteDataSourceNotFound(t *testing.T) {
	pages := map[string]internal.TablePageConfig{
		"users": {Table: "users", DataSource: "missing"},
	}
	c, _ := newTestController(t, "development", &fakePermissions{valid: true}, pages)
	env := c.Execute(testRequest(), ActionRequest{Action: ActionGetRecords, Page: "users"})
	assert.Equal(t, "error", env.Status)
	assert.Equal(t, "data source not found: missing", env.Error)
}

func TestExecuteCreateDeniedByConfig(t *testing.T) {
	denied := false
	pages := map[string]internal.TablePageConfig{
		"users": {Table: "users", DataSource: "main", AllowInsert: &denied},
	}
	c, adapter := newTestController(t, "development", &fakePermissions{valid: true}, pages)
	env := c.Execute(testRequest(), ActionRequest{
		Action: ActionCreateRecord,
		Page:   "users",
		Input:  json.RawMessage(`{"values":{"name":"Bob"}}`),
	})
	assert.Equal(t, "error", env.Status)
	assert.Equal(t, "you do not have permission to create records", env.Error)
	assert.False(t, adapter.created)
}

func TestExecuteRoleCheckInProduction(t *testing.T) {
	pages := map[string]internal.TablePageConfig{
		"users": {Table: "users", DataSource: "main", AllowedRoleIDsToDelete: []string{"admin"}},
	}
	c, adapter := newTestController(t, StageProduction, &fakePermissions{valid: true, hasRoles: false}, pages)
	env := c.Execute(testRequest(), ActionRequest{
		Action: ActionDeleteRecord,
		Page:   "users",
		Input:  json.RawMessage(`{"primaryKey":1}`),
	})
	assert.Equal(t, "error", env.Status)
	assert.Equal(t, "you do not have permission to delete records in this table", env.Error)
	assert.False(t, adapter.deleted)
}

func TestExecuteRoleCheckSkippedOutsideProduction(t *testing.T) {
	pages := map[string]internal.TablePageConfig{
		"users": {Table: "users", DataSource: "main", AllowedRoleIDsToDelete: []string{"admin"}},
	}
	c, adapter := newTestController(t, "development", &fakePermissions{valid: true, hasRoles: false}, pages)
	env := c.Execute(testRequest(), ActionRequest{
		Action: ActionDeleteRecord,
		Page:   "users",
		Input:  json.RawMessage(`{"primaryKey":1}`),
	})
	require.Equal(t, "success", env.Status)
	assert.True(t, adapter.deleted)
	assert.Equal(t, internal.Record{"deleted": true}, env.Result)
}

func TestExecuteUpdateRefetches(t *testing.T) {
	c, adapter := newTestController(t, "development", &fakePermissions{valid: true}, usersPage())
	env := c.Execute(testRequest(), ActionRequest{
		Action: ActionUpdateRecord,
		Page:   "users",
		Input:  json.RawMessage(`{"primaryKey":1,"values":{"name":"Bob"}}`),
	})
	require.Equal(t, "success", env.Status)
	assert.True(t, adapter.updated)
	assert.Equal(t, adapter.records[0], env.Result)
}

func TestExecuteCustomFetch(t *testing.T) {
	pages := map[string]internal.TablePageConfig{
		"report": {FetchStrategy: internal.FetchStrategyCustomFetch},
	}
	c, _ := newTestController(t, "development", &fakePermissions{valid: true}, pages)

	env := c.Execute(testRequest(), ActionRequest{Action: ActionGetRecords, Page: "report"})
	assert.Equal(t, "error", env.Status)
	assert.Equal(t, "custom fetch function not registered for page report", env.Error)

	c.RegisterCustomFetch("report", func(ctx context.Context, input internal.RecordsInput) (*internal.RecordsResult, error) {
		return &internal.RecordsResult{Records: []internal.Record{{"n": 1}}, TotalRecords: 1}, nil
	})
	env = c.Execute(testRequest(), ActionRequest{Action: ActionGetRecords, Page: "report"})
	assert.Equal(t, "success", env.Status)
}

func TestExecuteCustomAction(t *testing.T) {
	c, _ := newTestController(t, "development", &fakePermissions{valid: true}, usersPage())
	c.RegisterCustomAction("ping", func(ctx context.Context, input map[string]any) (any, error) {
		return map[string]any{"pong": input["n"]}, nil
	})
	env := c.Execute(testRequest(), ActionRequest{
		Action: ActionCustom,
		Custom: "ping",
		Input:  json.RawMessage(`{"n":5}`),
	})
	require.Equal(t, "success", env.Status)
	assert.Equal(t, map[string]any{"pong": float64(5)}, env.Result)

	env = c.Execute(testRequest(), ActionRequest{Action: ActionCustom, Custom: "nope"})
	assert.Equal(t, "custom action not registered: nope", env.Error)
}

func TestExecuteContainsPanics(t *testing.T) {
	c, _ := newTestController(t, "development", &fakePermissions{valid: true}, usersPage())
	c.RegisterCustomAction("boom", func(ctx context.Context, input map[string]any) (any, error) {
		panic("kaboom")
	})
	env := c.Execute(testRequest(), ActionRequest{Action: ActionCustom, Custom: "boom"})
	assert.Equal(t, "error", env.Status)
	assert.Contains(t, env.Error, "kaboom")
}

func TestConfigurePageOverride(t *testing.T) {
	c, adapter := newTestController(t, "development", &fakePermissions{valid: true}, usersPage())
	denied := false
	c.ConfigurePage("users", internal.TablePageConfig{AllowDelete: &denied})
	env := c.Execute(testRequest(), ActionRequest{
		Action: ActionDeleteRecord,
		Page:   "users",
		Input:  json.RawMessage(`{"primaryKey":1}`),
	})
	assert.Equal(t, "error", env.Status)
	assert.Equal(t, "you do not have permission to delete records", env.Error)
	assert.False(t, adapter.deleted)
}
