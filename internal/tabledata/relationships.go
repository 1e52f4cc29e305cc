package tabledata

import (
	"fmt"

	"github.com/kottster/adminkit/internal"
)

// GetAllPossibleRelationships walks the foreign keys touching the configured
// table in both directions. Order follows schema column order, so the result
// is deterministic for a given schema. Tables without a single-column primary
// key are skipped silently on the reverse walk.
func GetAllPossibleRelationships(config internal.TablePageConfig, schema *internal.DatabaseSchema) []internal.Relationship {
	table := schema.Table(config.Table)
	if table == nil {
		return nil
	}
	var rels []internal.Relationship

	for _, col := range table.Columns {
		if col.ForeignKey == nil {
			continue
		}
		rels = append(rels, internal.Relationship{
			Relation:             internal.RelationOneToOne,
			Key:                  fmt.Sprintf("%s__p__%s", col.ForeignKey.Table, col.Name),
			ForeignKeyColumn:     col.Name,
			TargetTable:          col.ForeignKey.Table,
			TargetTableKeyColumn: col.ForeignKey.Column,
		})
	}

	for _, other := range schema.Tables {
		if other.Name == table.Name {
			continue
		}
		pk := other.PrimaryKeyColumn()
		if pk == nil {
			continue
		}
		for _, col := range other.Columns {
			if col.ForeignKey == nil || col.ForeignKey.Table != table.Name {
				continue
			}
			rels = append(rels, internal.Relationship{
				Relation:                    internal.RelationOneToMany,
				Key:                         fmt.Sprintf("%s__c__%s", other.Name, col.Name),
				TargetTable:                 other.Name,
				TargetTableKeyColumn:        pk.Name,
				TargetTableForeignKeyColumn: col.Name,
			})
		}
	}
	return rels
}

// mergeRelationships unions authored relationships with freshly derived ones.
// An authored entry wins field by field over the derived entry sharing its
// key; derived entries without an authored counterpart pass through. Authored
// entries with no derived counterpart (manyToMany, or links the schema no
// longer carries) are kept as-is.
func mergeRelationships(authored []internal.Relationship, derived []internal.Relationship) []internal.Relationship {
	authoredByKey := make(map[string]internal.Relationship, len(authored))
	for _, rel := range authored {
		authoredByKey[rel.Key] = rel
	}
	var merged []internal.Relationship
	seen := make(map[string]bool, len(derived))
	for _, rel := range derived {
		seen[rel.Key] = true
		if override, ok := authoredByKey[rel.Key]; ok {
			merged = append(merged, overlayRelationship(rel, override))
		} else {
			merged = append(merged, rel)
		}
	}
	for _, rel := range authored {
		if !seen[rel.Key] {
			merged = append(merged, rel)
		}
	}
	return merged
}

func overlayRelationship(base, override internal.Relationship) internal.Relationship {
	merged := base
	if override.Relation != "" {
		merged.Relation = override.Relation
	}
	if override.ForeignKeyColumn != "" {
		merged.ForeignKeyColumn = override.ForeignKeyColumn
	}
	if override.TargetTable != "" {
		merged.TargetTable = override.TargetTable
	}
	if override.TargetTableKeyColumn != "" {
		merged.TargetTableKeyColumn = override.TargetTableKeyColumn
	}
	if override.TargetTableForeignKeyColumn != "" {
		merged.TargetTableForeignKeyColumn = override.TargetTableForeignKeyColumn
	}
	if override.JunctionTable != "" {
		merged.JunctionTable = override.JunctionTable
	}
	if override.JunctionTableSourceKeyColumn != "" {
		merged.JunctionTableSourceKeyColumn = override.JunctionTableSourceKeyColumn
	}
	if override.JunctionTableTargetKeyColumn != "" {
		merged.JunctionTableTargetKeyColumn = override.JunctionTableTargetKeyColumn
	}
	if override.PreviewColumns != nil {
		merged.PreviewColumns = override.PreviewColumns
	}
	if override.IncludeColumns != nil {
		merged.IncludeColumns = override.IncludeColumns
	}
	if override.ExcludeColumns != nil {
		merged.ExcludeColumns = override.ExcludeColumns
	}
	if override.Position != nil {
		merged.Position = override.Position
	}
	if override.Excluded {
		merged.Excluded = true
	}
	return merged
}
