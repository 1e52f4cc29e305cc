package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterItemValidate(t *testing.T) {
	assert.NoError(t, FilterItem{Column: "a", Operator: FilterEqual, Value: 1}.Validate())
	assert.NoError(t, FilterItem{Column: "a", Operator: FilterIsNull}.Validate())
	assert.NoError(t, FilterItem{Column: "a", Operator: FilterBetween, Value: []any{1, 10}}.Validate())

	err := FilterItem{Column: "a", Operator: "fuzzyMatch"}.Validate()
	assert.EqualError(t, err, "unsupported filter operator: fuzzyMatch")

	err = FilterItem{Column: "a", Operator: FilterBetween, Value: 5}.Validate()
	assert.EqualError(t, err, "filter operator between on column a requires a [low, high] value pair")

	err = FilterItem{Column: "a", Operator: FilterEqual}.Validate()
	assert.EqualError(t, err, "filter operator equal on column a requires a value")
}

func TestFilterItemNeedsValue(t *testing.T) {
	for _, op := range []FilterOperator{FilterIsNull, FilterIsNotNull, FilterIsTrue, FilterIsFalse} {
		assert.False(t, FilterItem{Operator: op}.NeedsValue(), "operator %s", op)
	}
	assert.True(t, FilterItem{Operator: FilterEqual}.NeedsValue())
	assert.True(t, FilterItem{Operator: FilterDateBetween}.NeedsValue())
}

func TestFilterItemRange(t *testing.T) {
	low, high, err := FilterItem{Operator: FilterBetween, Value: []any{1, 10}}.Range()
	assert.NoError(t, err)
	assert.Equal(t, 1, low)
	assert.Equal(t, 10, high)

	_, _, err = FilterItem{Column: "age", Operator: FilterBetween, Value: []any{1}}.Range()
	assert.Error(t, err)
}
