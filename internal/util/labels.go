package util

import (
	"regexp"
	"strings"
)

var (
	camelBoundary      = regexp.MustCompile(`([a-z0-9])([A-Z])`)
	digitBoundary      = regexp.MustCompile(`([a-zA-Z])([0-9])`)
	underscoreIDSuffix = regexp.MustCompile(`_[iI][dD]$`)
	camelIDSuffix      = regexp.MustCompile(`([a-z0-9])(Id|ID)$`)
)

// HumanizeColumnName converts a camelCase or snake_case column name to a
// readable phrase: "createdAt" -> "Created at", "unit_price2" -> "Unit price 2".
func HumanizeColumnName(name string) string {
	s := camelBoundary.ReplaceAllString(name, "$1 $2")
	s = digitBoundary.ReplaceAllString(s, "$1 $2")
	s = strings.ReplaceAll(s, "_", " ")
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return s
	}
	s = strings.ToLower(s)
	return strings.ToUpper(s[:1]) + s[1:]
}

// ForeignKeyLabel derives a label for a foreign key column by stripping a
// trailing _id (or camelCase Id) suffix first: "customer_id" -> "Customer".
// A bare id ending without a word boundary is part of the name, so "paid"
// stays "Paid".
func ForeignKeyLabel(name string) string {
	stripped := underscoreIDSuffix.ReplaceAllString(name, "")
	if stripped == name {
		stripped = camelIDSuffix.ReplaceAllString(name, "$1")
	}
	if stripped == "" {
		stripped = name
	}
	return HumanizeColumnName(stripped)
}
