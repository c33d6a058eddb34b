package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `metabrowse browses Salesforce org metadata: query recent source-tracking changes or full type listings, filter and sort locally, then retrieve components into the project.

Core concepts:
- Org: a connected Salesforce org, addressed by username. Select one before anything else.
- Query mode: RecentChanges (source-tracking changes) or AllMetadata (full listing; requires a concrete metadata type).
- Canonical results: what the last run_query fetched. Filtering and sorting never re-fetch; they rearrange the canonical set locally.
- Row key: every result row is addressed as type::name (e.g. ApexClass::AccountService).
- Selection: keyed by row key. Rows hidden by the current filter stay selected; clear_filters is the only full reset.

Default workflow:
1) list_orgs, then select_org.
2) Optionally set_query_mode and set_filters (AllMetadata needs metadata_type).
3) run_query, then poll get_state until querying is false.
4) Narrow with set_filters / set_search_term / sort_results; read rows with get_results.
5) set_selection with row keys, then retrieve_selected (or retrieve_item for one row).
6) open_item / open_retrieve_folder to inspect what landed.

Asynchrony:
- run_query, retrieve_selected, and retrieve_item are fire-and-forget. Progress shows up in get_state (querying, retrieving, query_error).
- If two queries are submitted, the later arrival wins; there is no partial merging.

Docs (read on demand):
- metabrowse://docs/index
- metabrowse://docs/filters
- metabrowse://docs/retrieval
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "metabrowse://docs/index",
		Name:        "docs_index",
		Title:       "metabrowse docs index",
		Description: "Entry point for agent-facing docs: tool map and known limitations.",
		Content: `# metabrowse: Agent Docs Index

## Quick start

1. ` + "`list_orgs`" + ` then ` + "`select_org`" + `.
2. ` + "`run_query`" + ` (RecentChanges mode works with no further setup).
3. Poll ` + "`get_state`" + ` until ` + "`querying`" + ` is false.
4. ` + "`get_results`" + ` with a ` + "`limit`" + ` to control token usage.

## Docs (read on demand)

- ` + "`metabrowse://docs/filters`" + ` — filter semantics: sentinels, date bounds, package classification.
- ` + "`metabrowse://docs/retrieval`" + ` — selection and retrieval lifecycle.

## Capabilities & intentional limitations

- Queries and retrievals are asynchronous; tools return immediately and state catches up.
- ` + "`get_results`" + ` can return large result sets if you omit ` + "`limit`" + `.
- Sorting is text-based per column; dates sort chronologically.
`,
	},
	{
		URI:         "metabrowse://docs/filters",
		Name:        "docs_filters",
		Title:       "Filter semantics",
		Description: "How the filter dimensions combine: sentinels, date bounds, package classification, free-text search.",
		Content: `# Filter semantics

All dimensions AND together. Filtering is local: it narrows the canonical set from the last query without re-fetching.

## Sentinels

- ` + "`metadata_type: \"All\"`" + ` — no type filter (invalid in AllMetadata mode, where a concrete type is required).
- ` + "`package_filter: \"All\"`" + ` — no package filter.
- ` + "`package_filter: \"Local\"`" + ` — unpackaged components only. A component counts as local when its name has no namespace prefix; a single ` + "`__`" + ` followed by a suffix like ` + "`__c`" + ` or ` + "`__mdt`" + ` is a custom-object suffix, not a namespace.
- Any other value is a namespace prefix match.

## Text filters

- ` + "`name_part`" + ` and ` + "`author_part`" + ` are case-insensitive substring matches.
- ` + "`set_search_term`" + ` matches across type, name, and author (OR across the three), and is debounced.

## Date bounds

- ` + "`date_from`" + ` / ` + "`date_to`" + ` are inclusive at day granularity: ` + "`date_to: 2025-01-31`" + ` includes all of Jan 31.
- Malformed dates are ignored rather than failing the query.
`,
	},
	{
		URI:         "metabrowse://docs/retrieval",
		Name:        "docs_retrieval",
		Title:       "Selection and retrieval",
		Description: "Selection stability rules and the retrieve lifecycle.",
		Content: `# Selection and retrieval

## Selection rules

- ` + "`set_selection`" + ` is scoped to the currently visible rows: listed keys become selected, visible-but-unlisted keys are deselected, and rows hidden by the filter keep their prior state.
- Changing filters never drops selections; ` + "`clear_filters`" + ` empties the selection deliberately.
- ` + "`get_selection`" + ` returns every selected row, including hidden ones.

## Retrieval lifecycle

1. ` + "`retrieve_selected`" + ` submits the batch (optionally targeting a ` + "`local_package`" + ` directory).
2. The backend reports processed items as it goes; those rows leave the selection and gain a local-file marker.
3. ` + "`get_state`" + ` shows ` + "`retrieving`" + ` while the batch runs.
4. Rows whose change operation is a delete are retrieved as deletions.

A retrieval that processes only part of the batch leaves the rest selected, so retrying ` + "`retrieve_selected`" + ` picks up exactly the remainder.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		doc := doc

		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
