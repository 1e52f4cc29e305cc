package sqlite

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const usersDDL = `CREATE TABLE users (
	id INTEGER PRIMARY KEY,
	name TEXT NOT NULL,
	status TEXT CHECK (status IN ('active', 'blocked', 'deleted')),
	role TEXT CHECK ("role" IN ("admin", "member"))
)`

const countersDDL = `CREATE TABLE counters (
	counter INTEGER PRIMARY KEY AUTOINCREMENT,
	label TEXT
)`

func TestIsAutoIncrement(t *testing.T) {
	// integer primary keys alias the rowid and always auto-generate
	assert.True(t, isAutoIncrement(usersDDL, "id", "integer"))
	assert.True(t, isAutoIncrement("", "id", "int"))

	assert.True(t, isAutoIncrement(countersDDL, "counter", "integer"))
	assert.False(t, isAutoIncrement(usersDDL, "name", "text"))
	assert.False(t, isAutoIncrement(countersDDL, "label", "text"))
}

func TestParseCheckEnumValues(t *testing.T) {
	assert.Equal(t, "active,blocked,deleted", parseCheckEnumValues(usersDDL, "status"))
	assert.Equal(t, "admin,member", parseCheckEnumValues(usersDDL, "role"))
	assert.Equal(t, "", parseCheckEnumValues(usersDDL, "name"))
	assert.Equal(t, "", parseCheckEnumValues("", "status"))
}
