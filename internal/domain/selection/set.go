// Package selection tracks which items are selected, addressed only by
// item key so the selection survives re-filtering and re-sorting.
package selection

import (
	"sort"

	"github.com/mwhitby/metabrowse/internal/domain/metadata"
)

// Set is a persistent identity-keyed selection. It may hold keys for
// records that are currently filtered out; those stay selected until
// explicitly deselected or removed by a completed retrieval.
type Set struct {
	keys map[string]struct{}
}

// NewSet returns an empty selection.
func NewSet() *Set {
	return &Set{keys: make(map[string]struct{})}
}

// Has reports whether the key is selected.
func (s *Set) Has(key string) bool {
	_, ok := s.keys[key]
	return ok
}

// Len returns the number of selected keys.
func (s *Set) Len() int {
	return len(s.keys)
}

// Keys returns the selected keys in sorted order.
func (s *Set) Keys() []string {
	keys := make([]string, 0, len(s.keys))
	for key := range s.keys {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// ApplyVisibleToggle reconciles a selection event scoped to the currently
// visible rows: every visible key is cleared first, then exactly the
// reported keys are re-added. Keys outside the visible window are never
// touched, which is what keeps selection correct across interleaved
// filter changes.
func (s *Set) ApplyVisibleToggle(visibleKeys, selectedKeys []string) {
	for _, key := range visibleKeys {
		delete(s.keys, key)
	}
	for _, key := range selectedKeys {
		s.keys[key] = struct{}{}
	}
}

// Remove drops the given keys, typically after a retrieval reports them
// as successfully processed.
func (s *Set) Remove(keys ...string) {
	for _, key := range keys {
		delete(s.keys, key)
	}
}

// Clear empties the selection. Used on org change, mode change, query
// submission, and the reset-filters action.
func (s *Set) Clear() {
	s.keys = make(map[string]struct{})
}

// Rows materializes the selected records from the canonical set, in
// canonical order. It deliberately reads the canonical set rather than
// the visible one so selections outside the current filter stay intact.
func (s *Set) Rows(canonical []metadata.Record) []metadata.Record {
	rows := make([]metadata.Record, 0, len(s.keys))
	for _, rec := range canonical {
		if s.Has(rec.Key()) {
			rows = append(rows, rec)
		}
	}
	return rows
}
