package metadata

import "time"

// ChangeOperation describes how a metadata item was last changed.
type ChangeOperation string

const (
	OpCreated  ChangeOperation = "Created"
	OpModified ChangeOperation = "Modified"
	OpDeleted  ChangeOperation = "Deleted"
)

// Record is one metadata item returned by a query.
type Record struct {
	Type             string          `json:"memberType"`
	Name             string          `json:"memberName"`
	LastModifiedDate time.Time       `json:"lastModifiedDate"`
	LastModifiedBy   string          `json:"lastModifiedByName"`
	Operation        ChangeOperation `json:"changeOperation"`
	// LocalFile reports whether the item already exists as a local file.
	// Nil when the backend did not run the local check.
	LocalFile *bool `json:"localFileExists,omitempty"`

	// Presentation data computed once at ingestion. Filtering never
	// consults these fields.
	DocURL string `json:"typeDocUrl,omitempty"`
	Title  string `json:"title,omitempty"`
}

// Key returns the stable identity of the record. Two records with the
// same key are the same logical item even if other fields differ.
func (r Record) Key() string {
	return Key(r.Type, r.Name)
}

// Key derives the identity key for a (type, name) pair.
func Key(memberType, memberName string) string {
	return memberType + "::" + memberName
}
