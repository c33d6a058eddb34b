package mcp

import (
	"context"
	"fmt"

	"github.com/mwhitby/metabrowse/internal/domain/criteria"
	"github.com/mwhitby/metabrowse/internal/domain/filter"
	"github.com/mwhitby/metabrowse/internal/panel"
)

// Panel defines the panel operations needed by MCP.
type Panel interface {
	View() panel.View
	RefreshOrgs(ctx context.Context) error
	SelectOrg(ctx context.Context, username string) error
	SetMode(mode criteria.QueryMode)
	SetMetadataType(value string)
	SetPackageFilter(value string)
	SetNameFilter(value string)
	SetAuthorFilter(value string)
	SetDateFrom(value string)
	SetDateTo(value string)
	SetSearchTerm(term string)
	SetLocalPackage(value string)
	ClearFilters()
	RunQuery(ctx context.Context) error
	SortBy(field string, dir filter.Direction)
	ToggleSelection(selectedKeys []string)
	RetrieveSelected(ctx context.Context) error
	RetrieveOne(ctx context.Context, key string) error
	OpenItem(ctx context.Context, key string) error
	OpenRetrieveFolder(ctx context.Context) error
	RecentQueries(ctx context.Context, limit int) ([]panel.QueryLogEntry, error)
}

// Handler adapts panel operations to MCP tool calls.
type Handler struct {
	panel Panel
}

// NewHandler creates a new MCP handler.
func NewHandler(p Panel) *Handler {
	return &Handler{panel: p}
}

// State returns a summary of the panel without the result rows.
func (h *Handler) State(_ context.Context) (StateResponse, error) {
	view := h.panel.View()
	return StateResponse{
		Criteria:        view.Criteria,
		Orgs:            view.Orgs,
		MetadataTypes:   view.MetadataTypes,
		Packages:        view.Packages,
		VisibleCount:    len(view.Visible),
		SelectedCount:   len(view.SelectedKeys),
		Sort:            view.Sort,
		CanSearch:       view.CanSearch,
		SearchPerformed: view.SearchPerformed,
		Querying:        view.Querying,
		Retrieving:      view.Retrieving,
		QueryError:      view.QueryError,
		LocalPackage:    view.LocalPackage,
	}, nil
}

// ListOrgs requests a fresh org list and returns the one currently known.
// The refreshed list arrives asynchronously; call get_state to see it.
func (h *Handler) ListOrgs(ctx context.Context) (StateResponse, error) {
	if err := h.panel.RefreshOrgs(ctx); err != nil {
		return StateResponse{}, mapError(err)
	}
	return h.State(ctx)
}

func (h *Handler) SelectOrg(ctx context.Context, params SelectOrgParams) (StateResponse, error) {
	if err := h.panel.SelectOrg(ctx, params.Username); err != nil {
		return StateResponse{}, mapError(err)
	}
	return h.State(ctx)
}

func (h *Handler) SetQueryMode(ctx context.Context, params SetQueryModeParams) (StateResponse, error) {
	switch criteria.QueryMode(params.Mode) {
	case criteria.ModeRecentChanges, criteria.ModeAllMetadata:
	default:
		return StateResponse{}, &APIError{
			Code:         "INVALID_MODE",
			Message:      fmt.Sprintf("unknown query mode %q", params.Mode),
			RecoveryHint: "Use RecentChanges or AllMetadata",
		}
	}
	h.panel.SetMode(criteria.QueryMode(params.Mode))
	return h.State(ctx)
}

// SetFilters applies the provided filter dimensions. Each change
// recomputes the visible rows immediately; run_query is only needed to
// fetch a new canonical set from the org.
func (h *Handler) SetFilters(ctx context.Context, params SetFiltersParams) (StateResponse, error) {
	if params.MetadataType != nil {
		h.panel.SetMetadataType(*params.MetadataType)
	}
	if params.PackageFilter != nil {
		h.panel.SetPackageFilter(*params.PackageFilter)
	}
	if params.NamePart != nil {
		h.panel.SetNameFilter(*params.NamePart)
	}
	if params.AuthorPart != nil {
		h.panel.SetAuthorFilter(*params.AuthorPart)
	}
	if params.DateFrom != nil {
		h.panel.SetDateFrom(*params.DateFrom)
	}
	if params.DateTo != nil {
		h.panel.SetDateTo(*params.DateTo)
	}
	return h.State(ctx)
}

// SetSearchTerm updates the free-text term. Recomputation is debounced,
// so the visible count in the response may lag briefly.
func (h *Handler) SetSearchTerm(ctx context.Context, params SetSearchTermParams) (StateResponse, error) {
	h.panel.SetSearchTerm(params.Term)
	return h.State(ctx)
}

func (h *Handler) ClearFilters(ctx context.Context) (StateResponse, error) {
	h.panel.ClearFilters()
	return h.State(ctx)
}

func (h *Handler) RunQuery(ctx context.Context) (QueryAcceptedResponse, error) {
	if err := h.panel.RunQuery(ctx); err != nil {
		return QueryAcceptedResponse{}, mapError(err)
	}
	return QueryAcceptedResponse{
		Status: "submitted",
		Hint:   "Poll get_state until querying is false, then call get_results.",
	}, nil
}

func (h *Handler) Results(_ context.Context, params GetResultsParams) (ResultsResponse, error) {
	view := h.panel.View()
	rows := view.Visible
	total := len(rows)

	offset := params.Offset
	if offset < 0 {
		offset = 0
	}
	if offset > total {
		offset = total
	}
	rows = rows[offset:]
	if params.Limit > 0 && params.Limit < len(rows) {
		rows = rows[:params.Limit]
	}
	return ResultsResponse{Total: total, Offset: offset, Rows: rows}, nil
}

func (h *Handler) SortResults(ctx context.Context, params SortResultsParams) (ResultsResponse, error) {
	dir := filter.Asc
	if params.Direction != "" {
		switch filter.Direction(params.Direction) {
		case filter.Asc, filter.Desc:
			dir = filter.Direction(params.Direction)
		default:
			return ResultsResponse{}, &APIError{
				Code:         "INVALID_DIRECTION",
				Message:      fmt.Sprintf("unknown sort direction %q", params.Direction),
				RecoveryHint: "Use asc or desc",
			}
		}
	}
	h.panel.SortBy(params.Field, dir)
	return h.Results(ctx, GetResultsParams{})
}

// SetSelection reconciles the selection against the visible rows: visible
// keys absent from the list are deselected, listed keys are selected, and
// filtered-out keys keep their prior state.
func (h *Handler) SetSelection(ctx context.Context, params SetSelectionParams) (SelectionResponse, error) {
	h.panel.ToggleSelection(params.Keys)
	return h.Selection(ctx)
}

func (h *Handler) Selection(_ context.Context) (SelectionResponse, error) {
	view := h.panel.View()
	return SelectionResponse{Keys: view.SelectedKeys, Rows: view.SelectedRows}, nil
}

func (h *Handler) RetrieveSelected(ctx context.Context, params RetrieveSelectedParams) (StatusResponse, error) {
	if params.LocalPackage != "" {
		h.panel.SetLocalPackage(params.LocalPackage)
	}
	if err := h.panel.RetrieveSelected(ctx); err != nil {
		return StatusResponse{}, mapError(err)
	}
	return StatusResponse{Status: "submitted"}, nil
}

func (h *Handler) RetrieveItem(ctx context.Context, params ItemParams) (StatusResponse, error) {
	if err := h.panel.RetrieveOne(ctx, params.Key); err != nil {
		return StatusResponse{}, mapError(err)
	}
	return StatusResponse{Status: "submitted"}, nil
}

func (h *Handler) OpenItem(ctx context.Context, params ItemParams) (StatusResponse, error) {
	if err := h.panel.OpenItem(ctx, params.Key); err != nil {
		return StatusResponse{}, mapError(err)
	}
	return StatusResponse{Status: "submitted"}, nil
}

func (h *Handler) OpenRetrieveFolder(ctx context.Context) (StatusResponse, error) {
	if err := h.panel.OpenRetrieveFolder(ctx); err != nil {
		return StatusResponse{}, mapError(err)
	}
	return StatusResponse{Status: "submitted"}, nil
}

func (h *Handler) RecentQueries(ctx context.Context, params RecentQueriesParams) (RecentQueriesResponse, error) {
	entries, err := h.panel.RecentQueries(ctx, params.Limit)
	if err != nil {
		return RecentQueriesResponse{}, mapError(err)
	}
	return RecentQueriesResponse{Entries: entries}, nil
}
