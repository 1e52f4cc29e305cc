package tabledata

import (
	"fmt"
	"strings"

	"github.com/kottster/adminkit/internal"
)

// NestedTableKeySegment addresses one hop along a relationship path: either
// up to a parent record through a foreign key column, or down to child
// records through the child's foreign key column.
type NestedTableKeySegment struct {
	Table    string
	Relation internal.RelationKind
	Column   string
}

// EncodeNestedTableKey serializes the path as ___-joined segments of the form
// table__p__column or table__c__column.
func EncodeNestedTableKey(segments []NestedTableKeySegment) string {
	parts := make([]string, len(segments))
	for i, seg := range segments {
		marker := "p"
		if seg.Relation == internal.RelationOneToMany {
			marker = "c"
		}
		parts[i] = fmt.Sprintf("%s__%s__%s", seg.Table, marker, seg.Column)
	}
	return strings.Join(parts, "___")
}

// ParseNestedTableKey is the inverse of EncodeNestedTableKey. A malformed
// segment is a hard failure, not a skipped entry.
func ParseNestedTableKey(key string) ([]NestedTableKeySegment, error) {
	if key == "" {
		return nil, fmt.Errorf("empty nested table key")
	}
	parts := strings.Split(key, "___")
	segments := make([]NestedTableKeySegment, 0, len(parts))
	for _, part := range parts {
		seg, err := parseSegment(part)
		if err != nil {
			return nil, err
		}
		segments = append(segments, seg)
	}
	return segments, nil
}

func parseSegment(part string) (NestedTableKeySegment, error) {
	for _, marker := range []string{"__p__", "__c__"} {
		idx := strings.Index(part, marker)
		if idx <= 0 || idx+len(marker) >= len(part) {
			continue
		}
		relation := internal.RelationOneToOne
		if marker == "__c__" {
			relation = internal.RelationOneToMany
		}
		return NestedTableKeySegment{
			Table:    part[:idx],
			Relation: relation,
			Column:   part[idx+len(marker):],
		}, nil
	}
	return NestedTableKeySegment{}, fmt.Errorf("malformed nested table key segment: %s", part)
}
