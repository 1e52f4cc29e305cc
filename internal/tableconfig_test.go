package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func boolPtr(b bool) *bool { return &b }

func TestMergeTablePageConfig(t *testing.T) {
	base := TablePageConfig{
		Table:       "orders",
		PageSize:    25,
		DataSource:  "main",
		AllowDelete: boolPtr(true),
	}
	override := TablePageConfig{
		PageSize:    50,
		AllowDelete: boolPtr(false),
	}
	merged := MergeTablePageConfig(base, override)
	assert.Equal(t, "orders", merged.Table)
	assert.Equal(t, 50, merged.PageSize)
	assert.Equal(t, "main", merged.DataSource)
	assert.False(t, *merged.AllowDelete)
}

func TestMergeTablePageConfigNestedDeepMerge(t *testing.T) {
	base := TablePageConfig{
		Table: "customers",
		Nested: map[string]TablePageConfig{
			"orders__c__customer_id": {Table: "orders", PageSize: 10},
			"kept__c__customer_id":   {Table: "kept"},
		},
	}
	override := TablePageConfig{
		Nested: map[string]TablePageConfig{
			"orders__c__customer_id": {PageSize: 99},
			"added__p__added_id":     {Table: "added"},
		},
	}
	merged := MergeTablePageConfig(base, override)
	assert.Len(t, merged.Nested, 3)
	assert.Equal(t, "orders", merged.Nested["orders__c__customer_id"].Table)
	assert.Equal(t, 99, merged.Nested["orders__c__customer_id"].PageSize)
	assert.Equal(t, "kept", merged.Nested["kept__c__customer_id"].Table)
	assert.Equal(t, "added", merged.Nested["added__p__added_id"].Table)

	// base is not mutated
	assert.Equal(t, 10, base.Nested["orders__c__customer_id"].PageSize)
}

func TestAllows(t *testing.T) {
	assert.True(t, Allows(nil))
	assert.True(t, Allows(boolPtr(true)))
	assert.False(t, Allows(boolPtr(false)))
}
