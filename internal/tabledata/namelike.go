package tabledata

import (
	"sort"
	"strings"

	"github.com/kottster/adminkit/internal"
)

// nameFragments is priority-ordered: an earlier fragment beats a later one
// when ranking candidate label columns.
var nameFragments = []string{
	"name",
	"title",
	"first_name",
	"last_name",
	"full_name",
	"username",
	"email",
	"label",
	"slug",
	"display_name",
	"description",
	"subject",
}

// FindNameLikeColumns returns up to max column names judged likely to hold a
// human-readable label. Primary keys, foreign keys and enum columns are never
// candidates. Exact fragment matches win over substring matches; within one
// pass, matches sort by fragment priority and then alphabetically.
func FindNameLikeColumns(columns []internal.SchemaColumn, max int) []string {
	type match struct {
		column   string
		priority int
	}
	candidate := func(col internal.SchemaColumn) bool {
		return col.PrimaryKey == nil && col.ForeignKey == nil && col.EnumValues == ""
	}

	var exact, partial []match
	for _, col := range columns {
		if !candidate(col) {
			continue
		}
		lower := strings.ToLower(col.Name)
		for i, fragment := range nameFragments {
			if lower == fragment {
				exact = append(exact, match{column: col.Name, priority: i})
				break
			}
			if strings.Contains(lower, fragment) {
				partial = append(partial, match{column: col.Name, priority: i})
				break
			}
		}
	}

	matches := exact
	if len(matches) == 0 {
		matches = partial
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].priority != matches[j].priority {
			return matches[i].priority < matches[j].priority
		}
		return matches[i].column < matches[j].column
	})

	var names []string
	for _, m := range matches {
		names = append(names, m.column)
		if len(names) == max {
			break
		}
	}
	return names
}
