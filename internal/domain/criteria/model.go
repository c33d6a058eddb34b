package criteria

// QueryMode selects which backend query the panel runs.
type QueryMode string

const (
	ModeRecentChanges QueryMode = "RecentChanges"
	ModeAllMetadata   QueryMode = "AllMetadata"
)

// Sentinel filter values surfaced by the panel's pick lists.
const (
	// AllTypes means no metadata-type filter. Not a valid value in
	// AllMetadata mode, where a concrete type must be chosen.
	AllTypes = "All"
	// AllPackages means no package filter.
	AllPackages = "All"
	// LocalOnly restricts results to unpackaged components.
	LocalOnly = "Local"
)

// Snapshot is the current filter and query configuration. It is a plain
// value: transitions produce a new Snapshot rather than mutating in place.
type Snapshot struct {
	OrgUsername   string    `json:"orgUsername"`
	Mode          QueryMode `json:"queryMode"`
	MetadataType  string    `json:"metadataType"`  // AllTypes, "" (unset), or a concrete type
	PackageFilter string    `json:"packageFilter"` // AllPackages, LocalOnly, or a namespace
	NamePart      string    `json:"namePart"`
	AuthorPart    string    `json:"authorPart"`
	DateFrom      string    `json:"dateFrom"` // day granularity, inclusive; malformed values ignored
	DateTo        string    `json:"dateTo"`
	// SearchTerm matches across type, name, and author. Callers debounce
	// it before recomputation since it changes on every keystroke.
	SearchTerm string `json:"searchTerm"`
}

// Default returns the snapshot the panel starts from.
func Default() Snapshot {
	return Snapshot{
		Mode:          ModeRecentChanges,
		MetadataType:  AllTypes,
		PackageFilter: AllPackages,
	}
}

// WithMode switches the query mode, applying the mode transition rules:
// entering AllMetadata clears an AllTypes type filter so the user must
// choose a concrete type; entering RecentChanges restores an empty type
// filter to AllTypes.
func (s Snapshot) WithMode(mode QueryMode) Snapshot {
	s.Mode = mode
	switch mode {
	case ModeAllMetadata:
		if s.MetadataType == AllTypes {
			s.MetadataType = ""
		}
	case ModeRecentChanges:
		if s.MetadataType == "" {
			s.MetadataType = AllTypes
		}
	}
	return s
}

// Cleared resets every filter dimension while keeping the org and mode.
func (s Snapshot) Cleared() Snapshot {
	out := Default()
	out.OrgUsername = s.OrgUsername
	out.Mode = s.Mode
	if s.Mode == ModeAllMetadata {
		out.MetadataType = ""
	}
	return out
}
