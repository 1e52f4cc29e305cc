package internal

import "fmt"

// FilterOperator is one of the supported column filter predicates.
type FilterOperator string

const (
	FilterEqual              FilterOperator = "equal"
	FilterNotEqual           FilterOperator = "notEqual"
	FilterGreaterThan        FilterOperator = "greaterThan"
	FilterGreaterThanOrEqual FilterOperator = "greaterThanOrEqual"
	FilterLessThan           FilterOperator = "lessThan"
	FilterLessThanOrEqual    FilterOperator = "lessThanOrEqual"
	FilterContains           FilterOperator = "contains"
	FilterNotContains        FilterOperator = "notContains"
	FilterStartsWith         FilterOperator = "startsWith"
	FilterEndsWith           FilterOperator = "endsWith"
	FilterIsNull             FilterOperator = "isNull"
	FilterIsNotNull          FilterOperator = "isNotNull"
	FilterIsTrue             FilterOperator = "isTrue"
	FilterIsFalse            FilterOperator = "isFalse"
	FilterBetween            FilterOperator = "between"
	FilterDateBetween        FilterOperator = "dateBetween"
	FilterDateBefore         FilterOperator = "dateBefore"
	FilterDateAfter          FilterOperator = "dateAfter"
)

// FilterOperators lists every supported operator.
var FilterOperators = []FilterOperator{
	FilterEqual, FilterNotEqual,
	FilterGreaterThan, FilterGreaterThanOrEqual,
	FilterLessThan, FilterLessThanOrEqual,
	FilterContains, FilterNotContains,
	FilterStartsWith, FilterEndsWith,
	FilterIsNull, FilterIsNotNull,
	FilterIsTrue, FilterIsFalse,
	FilterBetween, FilterDateBetween,
	FilterDateBefore, FilterDateAfter,
}

var valuelessOperators = map[FilterOperator]bool{
	FilterIsNull:    true,
	FilterIsNotNull: true,
	FilterIsTrue:    true,
	FilterIsFalse:   true,
}

var rangeOperators = map[FilterOperator]bool{
	FilterBetween:     true,
	FilterDateBetween: true,
}

// FilterItem is one column predicate. The value shape depends on the
// operator: none for null/boolean checks, a [low, high] pair for range
// operators, a scalar otherwise.
type FilterItem struct {
	Column         string         `json:"column"`
	Operator       FilterOperator `json:"operator"`
	Value          any            `json:"value,omitempty"`
	NestedTableKey string         `json:"nestedTableKey,omitempty"`
}

// NeedsValue reports whether the operator carries a comparison value.
func (f FilterItem) NeedsValue() bool {
	return !valuelessOperators[f.Operator]
}

// Range returns the [low, high] pair for range operators.
func (f FilterItem) Range() (any, any, error) {
	pair, ok := f.Value.([]any)
	if !ok || len(pair) != 2 {
		return nil, nil, fmt.Errorf("filter operator %s on column %s requires a [low, high] value pair", f.Operator, f.Column)
	}
	return pair[0], pair[1], nil
}

// Validate checks the operator is known and the value shape matches it.
func (f FilterItem) Validate() error {
	known := false
	for _, op := range FilterOperators {
		if op == f.Operator {
			known = true
			break
		}
	}
	if !known {
		return fmt.Errorf("unsupported filter operator: %s", f.Operator)
	}
	if rangeOperators[f.Operator] {
		_, _, err := f.Range()
		return err
	}
	if f.NeedsValue() && f.Value == nil {
		return fmt.Errorf("filter operator %s on column %s requires a value", f.Operator, f.Column)
	}
	return nil
}
