package mcp

import (
	"github.com/mwhitby/metabrowse/internal/bridge"
	"github.com/mwhitby/metabrowse/internal/domain/criteria"
	"github.com/mwhitby/metabrowse/internal/domain/metadata"
	"github.com/mwhitby/metabrowse/internal/panel"
)

type EmptyParams struct{}

type SelectOrgParams struct {
	Username string `json:"username" jsonschema:"org username to switch to"`
}

type SetQueryModeParams struct {
	Mode string `json:"mode" jsonschema:"query mode: RecentChanges or AllMetadata"`
}

// SetFiltersParams updates filter dimensions. Omitted fields are left
// unchanged; send an empty string to clear a single dimension.
type SetFiltersParams struct {
	MetadataType  *string `json:"metadata_type,omitempty" jsonschema:"metadata type, or All for no type filter"`
	PackageFilter *string `json:"package_filter,omitempty" jsonschema:"namespace, Local for unpackaged only, or All"`
	NamePart      *string `json:"name_part,omitempty" jsonschema:"case-insensitive name substring"`
	AuthorPart    *string `json:"author_part,omitempty" jsonschema:"case-insensitive last-modified-by substring"`
	DateFrom      *string `json:"date_from,omitempty" jsonschema:"inclusive lower date bound, e.g. 2025-01-10"`
	DateTo        *string `json:"date_to,omitempty" jsonschema:"inclusive upper date bound, e.g. 2025-01-31"`
}

type SetSearchTermParams struct {
	Term string `json:"term" jsonschema:"free-text term matched against type, name, and author"`
}

type GetResultsParams struct {
	Limit  int `json:"limit,omitempty" jsonschema:"maximum rows to return (0 means all)"`
	Offset int `json:"offset,omitempty" jsonschema:"offset into the visible rows"`
}

type SortResultsParams struct {
	Field     string `json:"field" jsonschema:"memberType, memberName, lastModifiedDate, lastModifiedByName, or changeOperation"`
	Direction string `json:"direction,omitempty" jsonschema:"asc or desc (default asc)"`
}

type SetSelectionParams struct {
	Keys []string `json:"keys" jsonschema:"selected row keys in type::name form, scoped to the visible rows"`
}

type RetrieveSelectedParams struct {
	LocalPackage string `json:"local_package,omitempty" jsonschema:"target package directory (omit to keep the current choice)"`
}

type ItemParams struct {
	Key string `json:"key" jsonschema:"row key in type::name form"`
}

type RecentQueriesParams struct {
	Limit int `json:"limit,omitempty" jsonschema:"maximum entries to return (default 10)"`
}

// StateResponse summarizes the panel without dumping every result row.
type StateResponse struct {
	Criteria        criteria.Snapshot `json:"criteria"`
	Orgs            []bridge.Org      `json:"orgs"`
	MetadataTypes   []string          `json:"metadata_types"`
	Packages        []string          `json:"packages"`
	VisibleCount    int               `json:"visible_count"`
	SelectedCount   int               `json:"selected_count"`
	Sort            panel.SortState   `json:"sort"`
	CanSearch       bool              `json:"can_search"`
	SearchPerformed bool              `json:"search_performed"`
	Querying        bool              `json:"querying"`
	Retrieving      bool              `json:"retrieving"`
	QueryError      string            `json:"query_error,omitempty"`
	LocalPackage    string            `json:"local_package,omitempty"`
}

type ResultsResponse struct {
	Total  int               `json:"total"`
	Offset int               `json:"offset"`
	Rows   []metadata.Record `json:"rows"`
}

type SelectionResponse struct {
	Keys []string          `json:"keys"`
	Rows []metadata.Record `json:"rows"`
}

type StatusResponse struct {
	Status string `json:"status"`
}

type QueryAcceptedResponse struct {
	Status string `json:"status"`
	// Results arrive asynchronously; poll get_state until querying is
	// false, then read get_results.
	Hint string `json:"hint"`
}

type RecentQueriesResponse struct {
	Entries []panel.QueryLogEntry `json:"entries"`
}
