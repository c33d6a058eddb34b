package criteria

import "errors"

var (
	// ErrNoOrgSelected indicates search is blocked because no org is selected.
	ErrNoOrgSelected = errors.New("no org selected")
	// ErrTypeRequired indicates AllMetadata mode needs a concrete metadata type.
	ErrTypeRequired = errors.New("metadata type required in AllMetadata mode")
)

// CanSearch reports whether the snapshot permits query execution. A false
// result disables the search action in the presenting view; it is never
// surfaced as an error.
func CanSearch(s Snapshot) bool {
	return ValidateSearch(s) == nil
}

// ValidateSearch returns the reason a search is blocked, or nil.
func ValidateSearch(s Snapshot) error {
	if s.OrgUsername == "" {
		return ErrNoOrgSelected
	}
	if s.Mode == ModeAllMetadata && (s.MetadataType == "" || s.MetadataType == AllTypes) {
		return ErrTypeRequired
	}
	return nil
}
