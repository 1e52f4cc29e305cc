package controller

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/kottster/adminkit/internal"
	"github.com/kottster/adminkit/internal/tabledata"
	"github.com/kottster/adminkit/internal/util"
)

// Actions accepted by Execute.
const (
	ActionGetRecords   = "table_getRecords"
	ActionGetRecord    = "table_getRecord"
	ActionCreateRecord = "table_createRecord"
	ActionUpdateRecord = "table_updateRecord"
	ActionDeleteRecord = "table_deleteRecord"
	ActionCustom       = "custom"
)

// ActionRequest is the envelope consumed from the request-handling layer.
type ActionRequest struct {
	Action string          `json:"action"`
	Page   string          `json:"page"`
	Custom string          `json:"custom,omitempty"`
	Input  json.RawMessage `json:"input,omitempty"`
}

// Envelope is the uniform result shape for every action.
type Envelope struct {
	Status string `json:"status"`
	Result any    `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

func success(result any) Envelope {
	return Envelope{Status: "success", Result: result}
}

func failure(err error) Envelope {
	return Envelope{Status: "error", Error: err.Error()}
}

type recordInput struct {
	PrimaryKey any             `json:"primaryKey"`
	Values     internal.Record `json:"values,omitempty"`
}

// Execute validates the caller's token, resolves the page configuration,
// enforces permissions and dispatches the action. Every failure, including a
// panic inside an adapter, comes back as an error envelope.
func (c *Controller) Execute(r *http.Request, req ActionRequest) (envelope Envelope) {
	defer func() {
		if rec := recover(); rec != nil {
			err := util.PanicError(rec)
			c.logger.Error("panic handling %s: %s", req.Action, err)
			envelope = failure(err)
		}
	}()

	validation := c.permissions.EnsureValidToken(r)
	if !validation.IsTokenValid {
		msg := validation.ErrorMessage
		if msg == "" {
			msg = "invalid token"
		}
		return failure(fmt.Errorf("%s", msg))
	}

	ctx := r.Context()
	config := c.resolvePageConfig(req.Page)

	var result any
	var err error
	switch req.Action {
	case ActionGetRecords:
		result, err = c.getRecords(ctx, req, config)
	case ActionGetRecord:
		result, err = c.getRecord(ctx, req, config)
	case ActionCreateRecord:
		result, err = c.createRecord(ctx, req, config, validation.User)
	case ActionUpdateRecord:
		result, err = c.updateRecord(ctx, req, config, validation.User)
	case ActionDeleteRecord:
		result, err = c.deleteRecord(ctx, req, config, validation.User)
	case ActionCustom:
		result, err = c.customAction(ctx, req)
	default:
		err = fmt.Errorf("unknown action: %s", req.Action)
	}
	if err != nil {
		return failure(err)
	}
	return success(result)
}

// resolveAdapter maps the page's data source to a started adapter. Pages on
// a live SQL fetch strategy cannot run without one.
func (c *Controller) resolveAdapter(config internal.TablePageConfig) (internal.Adapter, error) {
	adapter, ok := c.adapters[config.DataSource]
	if !ok {
		return nil, fmt.Errorf("data source not found: %s", config.DataSource)
	}
	return adapter, nil
}

// resolveTableData introspects the live schema and resolves the processed
// table configuration against it.
func (c *Controller) resolveTableData(ctx context.Context, config internal.TablePageConfig) (internal.Adapter, *internal.TableData, error) {
	adapter, err := c.resolveAdapter(config)
	if err != nil {
		return nil, nil, err
	}
	schema, err := adapter.GetDatabaseSchema(ctx)
	if err != nil {
		return nil, nil, err
	}
	return adapter, tabledata.ResolveTableData(config, schema), nil
}

func (c *Controller) getRecords(ctx context.Context, req ActionRequest, config internal.TablePageConfig) (any, error) {
	var input internal.RecordsInput
	if len(req.Input) > 0 {
		if err := json.Unmarshal(req.Input, &input); err != nil {
			return nil, fmt.Errorf("invalid input: %w", err)
		}
	}
	if input.PageSize <= 0 {
		input.PageSize = config.PageSize
	}
	if input.PageSize <= 0 {
		input.PageSize = 20
	}
	if input.Page <= 0 {
		input.Page = 1
	}

	switch config.FetchStrategy {
	case internal.FetchStrategyCustomFetch:
		fn, ok := c.customFetch[req.Page]
		if !ok {
			return nil, fmt.Errorf("custom fetch function not registered for page %s", req.Page)
		}
		return fn(ctx, input)
	case internal.FetchStrategyRawSQLQuery:
		adapter, err := c.resolveAdapter(config)
		if err != nil {
			return nil, err
		}
		return adapter.ExecuteQuery(ctx, config.RawSQLQuery, config.RawSQLCountQuery, input.Page, input.PageSize)
	default:
		if input.NestedTableKey != "" {
			return c.getNestedRecords(ctx, config, input)
		}
		adapter, data, err := c.resolveTableData(ctx, config)
		if err != nil {
			return nil, err
		}
		return adapter.GetRecords(ctx, data, input)
	}
}

// getNestedRecords lists records of a related table scoped to one parent
// record. The relationship is addressed by the input's nested table key, and
// the page's nested configuration for that key, when present, shapes the
// related table's view.
func (c *Controller) getNestedRecords(ctx context.Context, config internal.TablePageConfig, input internal.RecordsInput) (any, error) {
	segments, err := tabledata.ParseNestedTableKey(input.NestedTableKey)
	if err != nil {
		return nil, err
	}
	if len(segments) != 1 {
		return nil, fmt.Errorf("nested table key %s spans more than one relationship", input.NestedTableKey)
	}
	if input.ParentPrimaryKey == nil {
		return nil, fmt.Errorf("missing parent primary key value")
	}
	adapter, err := c.resolveAdapter(config)
	if err != nil {
		return nil, err
	}
	schema, err := adapter.GetDatabaseSchema(ctx)
	if err != nil {
		return nil, err
	}
	data := tabledata.ResolveTableData(config, schema)
	rel := data.Config.Relationship(input.NestedTableKey)
	if rel == nil {
		return nil, fmt.Errorf("no relationship found for nested table key %s", input.NestedTableKey)
	}

	var scopeColumn string
	switch rel.Relation {
	case internal.RelationOneToMany:
		scopeColumn = rel.TargetTableForeignKeyColumn
	case internal.RelationOneToOne:
		scopeColumn = rel.TargetTableKeyColumn
	default:
		return nil, fmt.Errorf("nested listing is not supported for %s relationships", rel.Relation)
	}

	nested := config.Nested[input.NestedTableKey]
	if nested.Table == "" {
		nested.Table = rel.TargetTable
	}
	nestedData := tabledata.ResolveTableData(nested, schema)

	scoped := input
	scoped.NestedTableKey = ""
	scoped.ParentPrimaryKey = nil
	scoped.Filters = append([]internal.FilterItem{{
		Column:   scopeColumn,
		Operator: internal.FilterEqual,
		Value:    input.ParentPrimaryKey,
	}}, input.Filters...)
	return adapter.GetRecords(ctx, nestedData, scoped)
}

func (c *Controller) getRecord(ctx context.Context, req ActionRequest, config internal.TablePageConfig) (any, error) {
	var input recordInput
	if err := json.Unmarshal(req.Input, &input); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}
	adapter, data, err := c.resolveTableData(ctx, config)
	if err != nil {
		return nil, err
	}
	key, err := primaryKeyLookup(data, input.PrimaryKey)
	if err != nil {
		return nil, err
	}
	return adapter.GetRecord(ctx, data, key)
}

func (c *Controller) createRecord(ctx context.Context, req ActionRequest, config internal.TablePageConfig, user any) (any, error) {
	if !internal.Allows(config.AllowInsert) {
		return nil, fmt.Errorf("you do not have permission to create records")
	}
	if err := c.checkRoles(user, config.AllowedRoleIDsToInsert, "create"); err != nil {
		return nil, err
	}
	var input recordInput
	if err := json.Unmarshal(req.Input, &input); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}
	adapter, data, err := c.resolveTableData(ctx, config)
	if err != nil {
		return nil, err
	}
	return adapter.CreateRecord(ctx, data, input.Values)
}

func (c *Controller) updateRecord(ctx context.Context, req ActionRequest, config internal.TablePageConfig, user any) (any, error) {
	if !internal.Allows(config.AllowUpdate) {
		return nil, fmt.Errorf("you do not have permission to update records")
	}
	if err := c.checkRoles(user, config.AllowedRoleIDsToUpdate, "update"); err != nil {
		return nil, err
	}
	var input recordInput
	if err := json.Unmarshal(req.Input, &input); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}
	adapter, data, err := c.resolveTableData(ctx, config)
	if err != nil {
		return nil, err
	}
	key, err := primaryKeyLookup(data, input.PrimaryKey)
	if err != nil {
		return nil, err
	}
	if err := adapter.UpdateRecord(ctx, data, key, input.Values); err != nil {
		return nil, err
	}
	return adapter.GetRecord(ctx, data, key)
}

func (c *Controller) deleteRecord(ctx context.Context, req ActionRequest, config internal.TablePageConfig, user any) (any, error) {
	if !internal.Allows(config.AllowDelete) {
		return nil, fmt.Errorf("you do not have permission to delete records")
	}
	if err := c.checkRoles(user, config.AllowedRoleIDsToDelete, "delete"); err != nil {
		return nil, err
	}
	var input recordInput
	if err := json.Unmarshal(req.Input, &input); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}
	adapter, data, err := c.resolveTableData(ctx, config)
	if err != nil {
		return nil, err
	}
	key, err := primaryKeyLookup(data, input.PrimaryKey)
	if err != nil {
		return nil, err
	}
	if err := adapter.DeleteRecord(ctx, data, key); err != nil {
		return nil, err
	}
	return internal.Record{"deleted": true}, nil
}

func (c *Controller) customAction(ctx context.Context, req ActionRequest) (any, error) {
	fn, ok := c.customActions[req.Custom]
	if !ok {
		return nil, fmt.Errorf("custom action not registered: %s", req.Custom)
	}
	input := make(map[string]any)
	if len(req.Input) > 0 {
		if err := json.Unmarshal(req.Input, &input); err != nil {
			return nil, fmt.Errorf("invalid input: %w", err)
		}
	}
	return fn(ctx, input)
}

// checkRoles enforces the page's role allow-list for a mutation. The check is
// skipped outside production so local development does not require roles.
func (c *Controller) checkRoles(user any, roleIDs []string, action string) error {
	if len(roleIDs) == 0 || c.stage != StageProduction {
		return nil
	}
	if !c.permissions.CheckUserForRoles(user, roleIDs) {
		return fmt.Errorf("you do not have permission to %s records in this table", action)
	}
	return nil
}

func primaryKeyLookup(data *internal.TableData, value any) (map[string]any, error) {
	if data.PrimaryKeyColumn == "" {
		return nil, fmt.Errorf("table %s has no primary key column", data.Config.Table)
	}
	if value == nil {
		return nil, fmt.Errorf("missing primary key value")
	}
	return map[string]any{data.PrimaryKeyColumn: value}, nil
}
