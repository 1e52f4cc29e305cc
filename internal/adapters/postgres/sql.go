package postgres

import (
	"fmt"
	"strings"

	"github.com/kottster/adminkit/internal"
	"github.com/kottster/adminkit/internal/tabledata"
	"github.com/lib/pq"
)

func quoteIdentifier(name string) string {
	return pq.QuoteIdentifier(name)
}

// builder collects positional arguments while SQL text is assembled.
type builder struct {
	args []any
}

func (b *builder) add(val any) string {
	b.args = append(b.args, val)
	return fmt.Sprintf("$%d", len(b.args))
}

// searchCondition matches the term case-insensitively across all searchable
// columns, OR-combined.
func searchCondition(b *builder, columns []string, term string) string {
	pattern := b.add("%" + term + "%")
	conds := make([]string, len(columns))
	for i, col := range columns {
		conds[i] = fmt.Sprintf("%s::text ILIKE %s", quoteIdentifier(col), pattern)
	}
	return "(" + strings.Join(conds, " OR ") + ")"
}

// filterCondition translates one filter operator into a predicate. An
// unsupported operator is a hard failure.
func filterCondition(b *builder, item internal.FilterItem) (string, error) {
	ref := quoteIdentifier(item.Column)
	switch item.Operator {
	case internal.FilterEqual:
		return fmt.Sprintf("%s = %s", ref, b.add(item.Value)), nil
	case internal.FilterNotEqual:
		return fmt.Sprintf("%s <> %s", ref, b.add(item.Value)), nil
	case internal.FilterGreaterThan, internal.FilterDateAfter:
		return fmt.Sprintf("%s > %s", ref, b.add(item.Value)), nil
	case internal.FilterGreaterThanOrEqual:
		return fmt.Sprintf("%s >= %s", ref, b.add(item.Value)), nil
	case internal.FilterLessThan, internal.FilterDateBefore:
		return fmt.Sprintf("%s < %s", ref, b.add(item.Value)), nil
	case internal.FilterLessThanOrEqual:
		return fmt.Sprintf("%s <= %s", ref, b.add(item.Value)), nil
	case internal.FilterContains:
		return fmt.Sprintf("%s::text ILIKE %s", ref, b.add("%"+stringValue(item.Value)+"%")), nil
	case internal.FilterNotContains:
		return fmt.Sprintf("%s::text NOT ILIKE %s", ref, b.add("%"+stringValue(item.Value)+"%")), nil
	case internal.FilterStartsWith:
		return fmt.Sprintf("%s::text ILIKE %s", ref, b.add(stringValue(item.Value)+"%")), nil
	case internal.FilterEndsWith:
		return fmt.Sprintf("%s::text ILIKE %s", ref, b.add("%"+stringValue(item.Value))), nil
	case internal.FilterIsNull:
		return fmt.Sprintf("%s IS NULL", ref), nil
	case internal.FilterIsNotNull:
		return fmt.Sprintf("%s IS NOT NULL", ref), nil
	case internal.FilterIsTrue:
		return fmt.Sprintf("%s IS TRUE", ref), nil
	case internal.FilterIsFalse:
		return fmt.Sprintf("%s IS FALSE", ref), nil
	case internal.FilterBetween, internal.FilterDateBetween:
		low, high, err := item.Range()
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s BETWEEN %s AND %s", ref, b.add(low), b.add(high)), nil
	default:
		return "", fmt.Errorf("unsupported filter operator: %s", item.Operator)
	}
}

func stringValue(val any) string {
	if s, ok := val.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", val)
}

// whereClause builds the combined search+filter predicate. Filters on
// columns outside the filterable set are configuration errors.
func whereClause(b *builder, data *internal.TableData, input internal.RecordsInput) (string, error) {
	var conds []string
	if input.Search != "" && len(data.SearchableColumns) > 0 {
		conds = append(conds, searchCondition(b, data.SearchableColumns, input.Search))
	}
	for _, item := range input.Filters {
		if err := item.Validate(); err != nil {
			return "", err
		}
		if item.NestedTableKey != "" {
			cond, err := nestedFilterCondition(b, data, item)
			if err != nil {
				return "", err
			}
			conds = append(conds, cond)
			continue
		}
		if !data.CanFilter(item.Column) {
			return "", fmt.Errorf("column %s is not filterable", item.Column)
		}
		cond, err := filterCondition(b, item)
		if err != nil {
			return "", err
		}
		conds = append(conds, cond)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), nil
}

// nestedFilterCondition scopes the base table to rows linked to related
// records matching the filter, as an IN subquery over the relationship's key
// columns. The filter column belongs to the related table, so the base
// table's filterable set does not apply.
func nestedFilterCondition(b *builder, data *internal.TableData, item internal.FilterItem) (string, error) {
	segments, err := tabledata.ParseNestedTableKey(item.NestedTableKey)
	if err != nil {
		return "", err
	}
	if len(segments) != 1 {
		return "", fmt.Errorf("nested filter key %s spans more than one relationship", item.NestedTableKey)
	}
	rel := data.Config.Relationship(item.NestedTableKey)
	if rel == nil {
		return "", fmt.Errorf("no relationship found for nested filter key %s", item.NestedTableKey)
	}
	cond, err := filterCondition(b, item)
	if err != nil {
		return "", err
	}
	switch rel.Relation {
	case internal.RelationOneToOne:
		return fmt.Sprintf("%s IN (SELECT %s FROM %s WHERE %s)",
			quoteIdentifier(rel.ForeignKeyColumn), quoteIdentifier(rel.TargetTableKeyColumn),
			quoteIdentifier(rel.TargetTable), cond), nil
	case internal.RelationOneToMany:
		if data.PrimaryKeyColumn == "" {
			return "", fmt.Errorf("nested filter %s requires a primary key on table %s", item.NestedTableKey, data.Config.Table)
		}
		return fmt.Sprintf("%s IN (SELECT %s FROM %s WHERE %s)",
			quoteIdentifier(data.PrimaryKeyColumn), quoteIdentifier(rel.TargetTableForeignKeyColumn),
			quoteIdentifier(rel.TargetTable), cond), nil
	default:
		return "", fmt.Errorf("nested filters are not supported for %s relationships", rel.Relation)
	}
}

func orderClause(data *internal.TableData, sorting []internal.SortItem) (string, error) {
	if len(sorting) == 0 {
		return "", nil
	}
	parts := make([]string, 0, len(sorting))
	for _, item := range sorting {
		if !data.CanSort(item.Column) {
			return "", fmt.Errorf("column %s is not sortable", item.Column)
		}
		dir := "ASC"
		if item.Direction == internal.SortDesc {
			dir = "DESC"
		}
		parts = append(parts, fmt.Sprintf("%s %s", quoteIdentifier(item.Column), dir))
	}
	return " ORDER BY " + strings.Join(parts, ", "), nil
}

func selectColumns(data *internal.TableData) string {
	if len(data.SelectableColumns) == 0 {
		return "*"
	}
	cols := make([]string, len(data.SelectableColumns))
	for i, col := range data.SelectableColumns {
		cols[i] = quoteIdentifier(col)
	}
	return strings.Join(cols, ", ")
}

// buildListQuery returns the page query, the matching count query and their
// shared arguments.
func buildListQuery(data *internal.TableData, input internal.RecordsInput) (string, string, []any, error) {
	b := &builder{}
	table := quoteIdentifier(data.Config.Table)
	where, err := whereClause(b, data, input)
	if err != nil {
		return "", "", nil, err
	}
	order, err := orderClause(data, input.Sorting)
	if err != nil {
		return "", "", nil, err
	}
	query := fmt.Sprintf("SELECT %s FROM %s%s%s LIMIT %d OFFSET %d",
		selectColumns(data), table, where, order, input.PageSize, input.Offset())
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s%s", table, where)
	return query, countQuery, b.args, nil
}

func buildGetQuery(data *internal.TableData, key map[string]any) (string, []any) {
	b := &builder{}
	conds := make([]string, 0, len(key))
	for col, val := range key {
		conds = append(conds, fmt.Sprintf("%s = %s", quoteIdentifier(col), b.add(val)))
	}
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s LIMIT 1",
		selectColumns(data), quoteIdentifier(data.Config.Table), strings.Join(conds, " AND "))
	return query, b.args
}

// buildInsert walks the schema columns in catalog order so statement shape is
// deterministic, including only values actually supplied.
func buildInsert(data *internal.TableData, values internal.Record) (string, []any) {
	b := &builder{}
	var cols, placeholders []string
	for _, col := range data.Schema.Columns {
		val, ok := values[col.Name]
		if !ok {
			continue
		}
		cols = append(cols, quoteIdentifier(col.Name))
		placeholders = append(placeholders, b.add(prepareValueForUpsert(val, &col)))
	}
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING *",
		quoteIdentifier(data.Config.Table), strings.Join(cols, ", "), strings.Join(placeholders, ", "))
	return query, b.args
}

func buildUpdate(data *internal.TableData, key map[string]any, values internal.Record) (string, []any) {
	b := &builder{}
	var sets []string
	for _, col := range data.Schema.Columns {
		val, ok := values[col.Name]
		if !ok {
			continue
		}
		sets = append(sets, fmt.Sprintf("%s = %s", quoteIdentifier(col.Name), b.add(prepareValueForUpsert(val, &col))))
	}
	var conds []string
	for col, val := range key {
		conds = append(conds, fmt.Sprintf("%s = %s", quoteIdentifier(col), b.add(val)))
	}
	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s",
		quoteIdentifier(data.Config.Table), strings.Join(sets, ", "), strings.Join(conds, " AND "))
	return query, b.args
}

func buildDelete(data *internal.TableData, key map[string]any) (string, []any) {
	b := &builder{}
	var conds []string
	for col, val := range key {
		conds = append(conds, fmt.Sprintf("%s = %s", quoteIdentifier(col), b.add(val)))
	}
	query := fmt.Sprintf("DELETE FROM %s WHERE %s",
		quoteIdentifier(data.Config.Table), strings.Join(conds, " AND "))
	return query, b.args
}

func wrapPaginated(query string, page, pageSize int) string {
	offset := 0
	if page > 1 {
		offset = (page - 1) * pageSize
	}
	return fmt.Sprintf("SELECT * FROM (%s) AS q LIMIT %d OFFSET %d", query, pageSize, offset)
}
