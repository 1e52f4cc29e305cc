package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTrimTrailingZeros(t *testing.T) {
	assert.Equal(t, "12.5", TrimTrailingZeros("12.5000"))
	assert.Equal(t, "3", TrimTrailingZeros("3.00"))
	assert.Equal(t, "100", TrimTrailingZeros("100"))
	assert.Equal(t, "0.001", TrimTrailingZeros("0.00100"))
}

func TestParseDateValue(t *testing.T) {
	for _, val := range []string{
		"2024-07-09T18:28:03.69708Z",
		"2024-07-09T18:28:03Z",
		"2024-07-09 18:28:03",
		"2024-07-09T18:28:03",
		"2024-07-09",
	} {
		parsed, ok := ParseDateValue(val)
		assert.True(t, ok, "value %s", val)
		assert.Equal(t, 2024, parsed.Year())
		assert.Equal(t, time.July, parsed.Month())
	}
	_, ok := ParseDateValue("not a date")
	assert.False(t, ok)
}

func TestToNumber(t *testing.T) {
	assert.Equal(t, int64(42), ToNumber("42"))
	assert.Equal(t, 12.5, ToNumber("12.5000"))
	assert.Equal(t, int64(3), ToNumber("3.00"))
	assert.Equal(t, "abc", ToNumber("abc"))
}
