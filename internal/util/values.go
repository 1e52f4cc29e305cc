package util

import (
	"strconv"
	"strings"
	"time"
)

// DateTimeNaiveFormat is the timezone-naive layout used when storing
// timestamps into dialects whose datetime columns carry no offset.
const DateTimeNaiveFormat = "2006-01-02 15:04:05"

// TrimTrailingZeros normalizes the string form of a decimal value so that
// "12.5000" becomes "12.5" and "3.00" becomes "3".
func TrimTrailingZeros(s string) string {
	if !strings.Contains(s, ".") {
		return s
	}
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

// ParseDateValue parses the timestamp representations that arrive from the
// API or from drivers that return temporal values as text.
func ParseDateValue(val string) (time.Time, bool) {
	for _, layout := range []string{
		time.RFC3339Nano,
		time.RFC3339,
		DateTimeNaiveFormat,
		"2006-01-02T15:04:05",
		"2006-01-02",
	} {
		if t, err := time.Parse(layout, val); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ToNumber converts a textual numeric value to a native number when it parses
// cleanly, returning the trimmed string otherwise.
func ToNumber(s string) any {
	trimmed := TrimTrailingZeros(s)
	if n, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return f
	}
	return trimmed
}
