package bridge

import "github.com/mwhitby/metabrowse/internal/domain/metadata"

// Event is an inbound message from the backend. The set of concrete types
// is closed: Decode fails on unknown tags, and the reconciler matches the
// union exhaustively so a missing handler is a compile-time bug, not a
// silently dropped message.
type Event interface {
	isEvent()
}

// Org is one authenticated org in the org list.
type Org struct {
	Username string `json:"username"`
	Alias    string `json:"alias,omitempty"`
}

// Initialize is the first event after the channel opens.
type Initialize struct {
	Orgs                []Org    `json:"orgs"`
	SelectedOrgUsername string   `json:"selectedOrgUsername"`
	MetadataTypes       []string `json:"metadataTypes"`
	CheckLocalAvailable bool     `json:"checkLocalAvailable"`
	LocalPackageOptions []string `json:"localPackageOptions"`
	DefaultLocalPackage string   `json:"defaultLocalPackage"`
}

// ImageResources carries icon URIs keyed by resource name.
type ImageResources struct {
	Images map[string]string `json:"images"`
}

// ListOrgsResult answers a ListOrgs request.
type ListOrgsResult struct {
	Orgs                []Org  `json:"orgs"`
	SelectedOrgUsername string `json:"selectedOrgUsername"`
}

// ListPackagesResult answers a ListPackages request.
type ListPackagesResult struct {
	Packages []string `json:"packages"`
}

// ListMetadataTypesResult answers a ListMetadataTypes request.
type ListMetadataTypesResult struct {
	MetadataTypes []string `json:"metadataTypes"`
}

// QueryResult answers a QueryMetadata request with raw records.
type QueryResult struct {
	Records []metadata.RawRecord `json:"records"`
}

// QueryError reports a failed query. Terminal for the current query; a new
// explicit submission is required.
type QueryError struct {
	Message string `json:"message"`
}

// ProcessedFile names one item a retrieval successfully processed. The
// backend is inconsistent about field-name casing ("Type" vs "type");
// encoding/json matches keys case-insensitively, which covers both.
type ProcessedFile struct {
	Type string `json:"type"`
	Name string `json:"name"`
}

// Key returns the item key for the processed file.
func (f ProcessedFile) Key() string {
	return metadata.Key(f.Type, f.Name)
}

// PostRetrieveLocalCheck annotates canonical records with local-file
// existence after a retrieval finishes.
type PostRetrieveLocalCheck struct {
	Files        []ProcessedFile `json:"files"`
	DeletedFiles []ProcessedFile `json:"deletedFiles"`
}

// RetrieveState toggles the retrieval-in-progress flag.
type RetrieveState struct {
	IsRetrieving bool `json:"isRetrieving"`
}

func (Initialize) isEvent()              {}
func (ImageResources) isEvent()          {}
func (ListOrgsResult) isEvent()          {}
func (ListPackagesResult) isEvent()      {}
func (ListMetadataTypesResult) isEvent() {}
func (QueryResult) isEvent()             {}
func (QueryError) isEvent()              {}
func (PostRetrieveLocalCheck) isEvent()  {}
func (RetrieveState) isEvent()           {}
