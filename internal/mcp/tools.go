package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// registerTools registers the panel tools on the SDK server. Tool input
// schemas are inferred from the params structs in types.go.
func registerTools(server *sdkmcp.Server, h *Handler) {
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_state",
		Description: "Get the panel state summary: criteria, org lists, result counts, and the querying/retrieving flags",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, _ EmptyParams) (*sdkmcp.CallToolResult, StateResponse, error) {
		out, err := h.State(ctx)
		return nil, out, err
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_orgs",
		Description: "Request a fresh org list from the backend; the refreshed list shows up in get_state shortly after",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, _ EmptyParams) (*sdkmcp.CallToolResult, StateResponse, error) {
		out, err := h.ListOrgs(ctx)
		return nil, out, err
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "select_org",
		Description: "Switch the active org. Clears the current results and selection and refreshes the org's metadata types and packages",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, params SelectOrgParams) (*sdkmcp.CallToolResult, StateResponse, error) {
		out, err := h.SelectOrg(ctx, params)
		return nil, out, err
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "set_query_mode",
		Description: "Switch between RecentChanges (source-tracking changes) and AllMetadata (full listing for one type)",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, params SetQueryModeParams) (*sdkmcp.CallToolResult, StateResponse, error) {
		out, err := h.SetQueryMode(ctx, params)
		return nil, out, err
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "set_filters",
		Description: "Update filter dimensions (type, package, name, author, date range). Filtering is local and immediate; omitted fields are unchanged",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, params SetFiltersParams) (*sdkmcp.CallToolResult, StateResponse, error) {
		out, err := h.SetFilters(ctx, params)
		return nil, out, err
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "set_search_term",
		Description: "Set the free-text search term matched against type, name, and author. Recomputation is debounced",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, params SetSearchTermParams) (*sdkmcp.CallToolResult, StateResponse, error) {
		out, err := h.SetSearchTerm(ctx, params)
		return nil, out, err
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "clear_filters",
		Description: "Reset every filter dimension and empty the selection; the fetched results are kept",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, _ EmptyParams) (*sdkmcp.CallToolResult, StateResponse, error) {
		out, err := h.ClearFilters(ctx)
		return nil, out, err
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "run_query",
		Description: "Submit the metadata query for the current criteria. Fire-and-forget: poll get_state until querying is false",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, _ EmptyParams) (*sdkmcp.CallToolResult, QueryAcceptedResponse, error) {
		out, err := h.RunQuery(ctx)
		return nil, out, err
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_results",
		Description: "Read the visible (filtered, sorted) result rows, with optional limit/offset paging",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, params GetResultsParams) (*sdkmcp.CallToolResult, ResultsResponse, error) {
		out, err := h.Results(ctx, params)
		return nil, out, err
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "sort_results",
		Description: "Sort the visible rows by one column; the sort sticks across later filter changes",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, params SortResultsParams) (*sdkmcp.CallToolResult, ResultsResponse, error) {
		out, err := h.SortResults(ctx, params)
		return nil, out, err
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "set_selection",
		Description: "Set the selection over the visible rows. Rows hidden by the current filter keep their prior selection state",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, params SetSelectionParams) (*sdkmcp.CallToolResult, SelectionResponse, error) {
		out, err := h.SetSelection(ctx, params)
		return nil, out, err
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_selection",
		Description: "Read the selected rows, including ones hidden by the current filter",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, _ EmptyParams) (*sdkmcp.CallToolResult, SelectionResponse, error) {
		out, err := h.Selection(ctx)
		return nil, out, err
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "retrieve_selected",
		Description: "Retrieve the selected components into the project. The selection shrinks as the backend confirms processed items",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, params RetrieveSelectedParams) (*sdkmcp.CallToolResult, StatusResponse, error) {
		out, err := h.RetrieveSelected(ctx, params)
		return nil, out, err
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "retrieve_item",
		Description: "Retrieve a single component by its type::name key",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, params ItemParams) (*sdkmcp.CallToolResult, StatusResponse, error) {
		out, err := h.RetrieveItem(ctx, params)
		return nil, out, err
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "open_item",
		Description: "Open a retrieved component's local file in the editor",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, params ItemParams) (*sdkmcp.CallToolResult, StatusResponse, error) {
		out, err := h.OpenItem(ctx, params)
		return nil, out, err
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "open_retrieve_folder",
		Description: "Reveal the retrieve target folder in the file explorer",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, _ EmptyParams) (*sdkmcp.CallToolResult, StatusResponse, error) {
		out, err := h.OpenRetrieveFolder(ctx)
		return nil, out, err
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "recent_queries",
		Description: "List remembered query executions for the current org, newest first",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, params RecentQueriesParams) (*sdkmcp.CallToolResult, RecentQueriesResponse, error) {
		out, err := h.RecentQueries(ctx, params)
		return nil, out, err
	})
}
