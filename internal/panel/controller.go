// Package panel holds the browsing panel's state engine: criteria
// transitions, the selection tracker, debounced recomputation, and the
// reconciler for backend events.
package panel

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/mwhitby/metabrowse/internal/bridge"
	"github.com/mwhitby/metabrowse/internal/domain/criteria"
	"github.com/mwhitby/metabrowse/internal/domain/filter"
	"github.com/mwhitby/metabrowse/internal/domain/metadata"
	"github.com/mwhitby/metabrowse/internal/domain/selection"
)

// Debounce window defaults. Free-text search changes on every keystroke;
// viewport notices arrive on every scroll and resize tick.
const (
	DefaultSearchDebounce   = 300 * time.Millisecond
	DefaultViewportDebounce = 120 * time.Millisecond
)

// Config wires a Controller.
type Config struct {
	Sender   bridge.Sender
	Logger   *slog.Logger
	History  QueryLog       // optional
	Listener Listener       // optional
	Layout   LayoutObserver // optional

	SearchDebounce   time.Duration
	ViewportDebounce time.Duration
}

// Controller owns the canonical result set, the criteria snapshot, and
// the selection, and mutates them only through the named transitions
// below. Every entry point runs to completion under one lock, so no
// event handler can interleave with another.
type Controller struct {
	sender   bridge.Sender
	logger   *slog.Logger
	history  QueryLog
	listener Listener
	layout   LayoutObserver

	searchDebounce   *Debouncer
	viewportDebounce *Debouncer

	mu            sync.Mutex
	crit          criteria.Snapshot
	pendingSearch string

	canonical    []metadata.Record
	visible      []metadata.Record
	sel          *selection.Set
	selectedRows []metadata.Record
	sort         SortState

	orgs          []bridge.Org
	metadataTypes []string
	packages      []string
	images        map[string]string

	searchPerformed bool
	querying        bool
	retrieving      bool
	queryErr        string

	checkLocalAvailable bool
	localPackage        string
	localPackageOptions []string

	searchOutOfView bool
}

// New creates a controller. Sender is required; everything else has a
// sensible zero behavior.
func New(cfg Config) *Controller {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	searchDelay := cfg.SearchDebounce
	if searchDelay <= 0 {
		searchDelay = DefaultSearchDebounce
	}
	viewportDelay := cfg.ViewportDebounce
	if viewportDelay <= 0 {
		viewportDelay = DefaultViewportDebounce
	}

	return &Controller{
		sender:           cfg.Sender,
		logger:           logger,
		history:          cfg.History,
		listener:         cfg.Listener,
		layout:           cfg.Layout,
		searchDebounce:   NewDebouncer(searchDelay),
		viewportDebounce: NewDebouncer(viewportDelay),
		crit:             criteria.Default(),
		sel:              selection.NewSet(),
		images:           map[string]string{},
	}
}

// Close cancels pending debounced work. No further callbacks fire after
// Close returns.
func (c *Controller) Close() {
	c.searchDebounce.Stop()
	c.viewportDebounce.Stop()
}

// View returns a snapshot of the current panel state.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewLocked()
}

// SelectOrg switches the active org. Any org change clears the canonical
// and visible sets, the selection, and the search-performed flag, then
// refreshes the org's metadata types and packages.
func (c *Controller) SelectOrg(ctx context.Context, username string) error {
	c.mu.Lock()
	if username == c.crit.OrgUsername {
		c.mu.Unlock()
		return nil
	}
	c.crit.OrgUsername = username
	c.metadataTypes = nil
	c.packages = nil
	c.resetQueryStateLocked()
	view := c.viewLocked()
	c.mu.Unlock()
	c.notify(view)

	if err := c.sender.Send(ctx, bridge.ListMetadataTypes{Username: username}); err != nil {
		return fmt.Errorf("requesting metadata types: %w", err)
	}
	if err := c.sender.Send(ctx, bridge.ListPackages{Username: username}); err != nil {
		return fmt.Errorf("requesting packages: %w", err)
	}
	return nil
}

// SetMode switches the query mode, applying the criteria transition rules
// and clearing all query state.
func (c *Controller) SetMode(mode criteria.QueryMode) {
	c.mu.Lock()
	c.crit = c.crit.WithMode(mode)
	c.resetQueryStateLocked()
	view := c.viewLocked()
	c.mu.Unlock()
	c.notify(view)
}

// SetMetadataType updates the metadata-type filter and recomputes.
func (c *Controller) SetMetadataType(value string) {
	c.setCriteria(func(s *criteria.Snapshot) { s.MetadataType = value })
}

// SetPackageFilter updates the package/namespace filter and recomputes.
func (c *Controller) SetPackageFilter(value string) {
	c.setCriteria(func(s *criteria.Snapshot) { s.PackageFilter = value })
}

// SetNameFilter updates the name substring filter and recomputes.
func (c *Controller) SetNameFilter(value string) {
	c.setCriteria(func(s *criteria.Snapshot) { s.NamePart = value })
}

// SetAuthorFilter updates the author substring filter and recomputes.
func (c *Controller) SetAuthorFilter(value string) {
	c.setCriteria(func(s *criteria.Snapshot) { s.AuthorPart = value })
}

// SetDateFrom updates the inclusive lower date bound and recomputes.
func (c *Controller) SetDateFrom(value string) {
	c.setCriteria(func(s *criteria.Snapshot) { s.DateFrom = value })
}

// SetDateTo updates the inclusive upper date bound and recomputes.
func (c *Controller) SetDateTo(value string) {
	c.setCriteria(func(s *criteria.Snapshot) { s.DateTo = value })
}

// SetLocalPackage chooses the retrieval target package.
func (c *Controller) SetLocalPackage(value string) {
	c.mu.Lock()
	c.localPackage = value
	view := c.viewLocked()
	c.mu.Unlock()
	c.notify(view)
}

// SetSearchTerm updates the free-text search term. Recomputation is
// debounced: only the most recent term within the window takes effect.
func (c *Controller) SetSearchTerm(term string) {
	c.mu.Lock()
	c.pendingSearch = term
	c.mu.Unlock()

	c.searchDebounce.Trigger(func() {
		c.mu.Lock()
		c.crit.SearchTerm = c.pendingSearch
		c.recomputeLocked()
		view := c.viewLocked()
		c.mu.Unlock()
		c.notify(view)
	})
}

// ClearFilters resets every filter dimension and empties the selection.
// This is a deliberate full selection reset, unlike the visibility-scoped
// toggle reconciliation.
func (c *Controller) ClearFilters() {
	c.searchDebounce.Cancel()
	c.mu.Lock()
	c.crit = c.crit.Cleared()
	c.pendingSearch = ""
	c.sel.Clear()
	c.recomputeLocked()
	view := c.viewLocked()
	c.mu.Unlock()
	c.notify(view)
}

// RunQuery validates the criteria and submits the query. State for the
// previous query (canonical set, visible set, selection, search term) is
// cleared before the request is sent so stale rows are never shown
// against the new query's criteria. Fire-and-forget: results arrive later
// as a QueryResult or QueryError event.
func (c *Controller) RunQuery(ctx context.Context) error {
	c.searchDebounce.Cancel()
	c.mu.Lock()
	if err := criteria.ValidateSearch(c.crit); err != nil {
		c.mu.Unlock()
		return err
	}

	c.canonical = nil
	c.visible = nil
	c.selectedRows = nil
	c.sel.Clear()
	c.crit.SearchTerm = ""
	c.pendingSearch = ""
	c.queryErr = ""
	c.querying = true
	c.searchPerformed = true

	req := bridge.QueryMetadata{
		Username:        c.crit.OrgUsername,
		QueryMode:       string(c.crit.Mode),
		MetadataType:    c.crit.MetadataType,
		MetadataName:    c.crit.NamePart,
		PackageFilter:   c.crit.PackageFilter,
		LastUpdatedBy:   c.crit.AuthorPart,
		DateFrom:        c.crit.DateFrom,
		DateTo:          c.crit.DateTo,
		CheckLocalFiles: c.checkLocalAvailable,
	}
	view := c.viewLocked()
	c.mu.Unlock()
	c.notify(view)

	if err := c.sender.Send(ctx, req); err != nil {
		c.mu.Lock()
		c.querying = false
		c.mu.Unlock()
		return fmt.Errorf("submitting query: %w", err)
	}
	return nil
}

// SortBy sets the active sort and reorders the visible set. The sort is
// remembered and reapplied whenever filtering replaces the visible set.
func (c *Controller) SortBy(field string, dir filter.Direction) {
	c.mu.Lock()
	c.sort = SortState{Field: field, Direction: dir}
	c.visible = filter.Sort(c.visible, field, dir)
	view := c.viewLocked()
	c.mu.Unlock()
	c.notify(view)
}

// ToggleSelection reconciles a selection event over the currently visible
// rows: visible keys not in selectedKeys are deselected, selectedKeys are
// selected, and keys outside the visible window are untouched.
func (c *Controller) ToggleSelection(selectedKeys []string) {
	c.mu.Lock()
	visibleKeys := make([]string, len(c.visible))
	for i, rec := range c.visible {
		visibleKeys[i] = rec.Key()
	}
	c.sel.ApplyVisibleToggle(visibleKeys, selectedKeys)
	c.selectedRows = c.sel.Rows(c.canonical)
	view := c.viewLocked()
	c.mu.Unlock()
	c.notify(view)
}

// RetrieveSelected submits a batch retrieval for the selected rows. The
// selection itself shrinks later, when the backend reports the processed
// items via PostRetrieveLocalCheck.
func (c *Controller) RetrieveSelected(ctx context.Context) error {
	c.mu.Lock()
	if c.sel.Len() == 0 {
		c.mu.Unlock()
		return ErrNothingSelected
	}
	rows := c.sel.Rows(c.canonical)
	items := make([]bridge.RetrieveItem, len(rows))
	for i, rec := range rows {
		items[i] = bridge.RetrieveItem{
			MemberType: rec.Type,
			MemberName: rec.Name,
			Deleted:    rec.Operation == metadata.OpDeleted,
		}
	}
	req := bridge.RetrieveSelectedMetadata{
		Username:     c.crit.OrgUsername,
		LocalPackage: c.localPackage,
		Metadata:     items,
	}
	c.mu.Unlock()

	if err := c.sender.Send(ctx, req); err != nil {
		return fmt.Errorf("submitting retrieval: %w", err)
	}
	return nil
}

// RetrieveOne submits a retrieval for a single canonical item.
func (c *Controller) RetrieveOne(ctx context.Context, key string) error {
	c.mu.Lock()
	rec, ok := c.findLocked(key)
	if !ok {
		c.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrUnknownItem, key)
	}
	req := bridge.RetrieveMetadata{
		Username:     c.crit.OrgUsername,
		LocalPackage: c.localPackage,
		MemberType:   rec.Type,
		MemberName:   rec.Name,
		Deleted:      rec.Operation == metadata.OpDeleted,
	}
	c.mu.Unlock()

	if err := c.sender.Send(ctx, req); err != nil {
		return fmt.Errorf("submitting retrieval: %w", err)
	}
	return nil
}

// OpenItem asks the host to open the item's local file.
func (c *Controller) OpenItem(ctx context.Context, key string) error {
	c.mu.Lock()
	rec, ok := c.findLocked(key)
	c.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownItem, key)
	}
	return c.sender.Send(ctx, bridge.OpenMetadataFile{
		MetadataType: rec.Type,
		MetadataName: rec.Name,
	})
}

// OpenRetrieveFolder asks the host to reveal the retrieve target folder.
func (c *Controller) OpenRetrieveFolder(ctx context.Context) error {
	return c.sender.Send(ctx, bridge.OpenRetrieveFolder{})
}

// RefreshOrgs asks the backend for a fresh org list.
func (c *Controller) RefreshOrgs(ctx context.Context) error {
	return c.sender.Send(ctx, bridge.ListOrgs{})
}

// ViewportChanged records a scroll or resize notice. The layout check is
// debounced and asks the observer for the boolean signal only.
func (c *Controller) ViewportChanged() {
	c.viewportDebounce.Trigger(func() {
		c.mu.Lock()
		if c.layout != nil {
			c.searchOutOfView = c.layout.PrimaryActionOutOfView()
		}
		view := c.viewLocked()
		c.mu.Unlock()
		c.notify(view)
	})
}

// RecentQueries returns the remembered query executions for the current org.
func (c *Controller) RecentQueries(ctx context.Context, limit int) ([]QueryLogEntry, error) {
	if c.history == nil {
		return []QueryLogEntry{}, nil
	}
	c.mu.Lock()
	org := c.crit.OrgUsername
	c.mu.Unlock()
	return c.history.Recent(ctx, org, limit)
}

func (c *Controller) setCriteria(mutate func(*criteria.Snapshot)) {
	c.mu.Lock()
	mutate(&c.crit)
	c.recomputeLocked()
	view := c.viewLocked()
	c.mu.Unlock()
	c.notify(view)
}

// recomputeLocked rebuilds the visible set from the canonical set and the
// criteria, reapplies the active sort, and rematerializes the selected
// rows. The visible set is always replaced wholesale, never patched.
func (c *Controller) recomputeLocked() {
	c.visible = filter.Visible(c.canonical, c.crit)
	if c.sort.Field != "" {
		c.visible = filter.Sort(c.visible, c.sort.Field, c.sort.Direction)
	}
	c.selectedRows = c.sel.Rows(c.canonical)
}

// resetQueryStateLocked clears everything tied to the previous query.
func (c *Controller) resetQueryStateLocked() {
	c.canonical = nil
	c.visible = nil
	c.selectedRows = nil
	c.sel.Clear()
	c.searchPerformed = false
	c.querying = false
	c.queryErr = ""
	c.crit.SearchTerm = ""
	c.pendingSearch = ""
}

func (c *Controller) findLocked(key string) (metadata.Record, bool) {
	for _, rec := range c.canonical {
		if rec.Key() == key {
			return rec, true
		}
	}
	return metadata.Record{}, false
}

func (c *Controller) viewLocked() View {
	return View{
		Criteria:              c.crit,
		Orgs:                  append([]bridge.Org(nil), c.orgs...),
		MetadataTypes:         append([]string(nil), c.metadataTypes...),
		Packages:              append([]string(nil), c.packages...),
		Visible:               append([]metadata.Record(nil), c.visible...),
		SelectedRows:          append([]metadata.Record(nil), c.selectedRows...),
		SelectedKeys:          c.sel.Keys(),
		Sort:                  c.sort,
		CanSearch:             criteria.CanSearch(c.crit),
		SearchPerformed:       c.searchPerformed,
		Querying:              c.querying,
		Retrieving:            c.retrieving,
		QueryError:            c.queryErr,
		CheckLocalAvailable:   c.checkLocalAvailable,
		LocalPackage:          c.localPackage,
		LocalPackageOptions:   append([]string(nil), c.localPackageOptions...),
		Images:                c.imagesCopyLocked(),
		SearchActionOutOfView: c.searchOutOfView,
	}
}

func (c *Controller) imagesCopyLocked() map[string]string {
	images := make(map[string]string, len(c.images))
	for name, uri := range c.images {
		images[name] = uri
	}
	return images
}

func (c *Controller) notify(view View) {
	if c.listener != nil {
		c.listener(view)
	}
}
