package filter

import (
	"sort"
	"time"

	"github.com/mwhitby/metabrowse/internal/domain/metadata"
)

// Direction orders a sorted column.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Sortable field names, matching the record's wire field names.
const (
	FieldType           = "memberType"
	FieldName           = "memberName"
	FieldLastModified   = "lastModifiedDate"
	FieldLastModifiedBy = "lastModifiedByName"
	FieldOperation      = "changeOperation"
)

// Sort orders a snapshot copy of the visible set by one field. The input
// slice is never mutated, so canonical and selection state are unaffected.
// A missing field value sorts as the empty string.
func Sort(visible []metadata.Record, field string, dir Direction) []metadata.Record {
	ordered := make([]metadata.Record, len(visible))
	copy(ordered, visible)

	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := sortValue(ordered[i], field), sortValue(ordered[j], field)
		if dir == Desc {
			return a > b
		}
		return a < b
	})
	return ordered
}

func sortValue(rec metadata.Record, field string) string {
	switch field {
	case FieldType:
		return rec.Type
	case FieldName:
		return rec.Name
	case FieldLastModifiedBy:
		return rec.LastModifiedBy
	case FieldOperation:
		return string(rec.Operation)
	case FieldLastModified:
		if rec.LastModifiedDate.IsZero() {
			return ""
		}
		// RFC 3339 in UTC sorts chronologically as text
		return rec.LastModifiedDate.UTC().Format(time.RFC3339Nano)
	default:
		return ""
	}
}
