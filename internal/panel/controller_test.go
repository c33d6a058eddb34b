package panel_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/mwhitby/metabrowse/internal/bridge"
	"github.com/mwhitby/metabrowse/internal/domain/criteria"
	"github.com/mwhitby/metabrowse/internal/domain/filter"
	"github.com/mwhitby/metabrowse/internal/domain/metadata"
	"github.com/mwhitby/metabrowse/internal/panel"
	"github.com/stretchr/testify/require"
)

type captureSender struct {
	mu       sync.Mutex
	requests []bridge.Request
}

func (s *captureSender) Send(_ context.Context, req bridge.Request) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, req)
	return nil
}

func (s *captureSender) sent() []bridge.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]bridge.Request(nil), s.requests...)
}

func newController(t *testing.T, cfg panel.Config) (*panel.Controller, *captureSender) {
	t.Helper()
	sender := &captureSender{}
	cfg.Sender = sender
	ctrl := panel.New(cfg)
	t.Cleanup(ctrl.Close)
	return ctrl, sender
}

func queryResult(records ...metadata.RawRecord) bridge.QueryResult {
	return bridge.QueryResult{Records: records}
}

func raw(memberType, name, author, date string) metadata.RawRecord {
	return metadata.RawRecord{
		MemberType:         memberType,
		MemberName:         name,
		LastModifiedByName: author,
		LastModifiedDate:   date,
	}
}

func TestSelectOrg_ResetsAndRefreshes(t *testing.T) {
	ctrl, sender := newController(t, panel.Config{})
	ctx := context.Background()

	require.NoError(t, ctrl.SelectOrg(ctx, "dev@example.com"))
	ctrl.Apply(queryResult(raw("ApexClass", "Svc", "Dana", "2025-01-10T00:00:00Z")))
	ctrl.ToggleSelection([]string{"ApexClass::Svc"})
	require.Len(t, ctrl.View().SelectedKeys, 1)

	require.NoError(t, ctrl.SelectOrg(ctx, "other@example.com"))
	view := ctrl.View()
	require.Empty(t, view.Visible)
	require.Empty(t, view.SelectedKeys)
	require.False(t, view.SearchPerformed)

	requests := sender.sent()
	require.Len(t, requests, 4)
	require.Equal(t, bridge.ListMetadataTypes{Username: "other@example.com"}, requests[2])
	require.Equal(t, bridge.ListPackages{Username: "other@example.com"}, requests[3])
}

func TestSelectOrg_SameOrgIsNoop(t *testing.T) {
	ctrl, sender := newController(t, panel.Config{})
	ctx := context.Background()

	require.NoError(t, ctrl.SelectOrg(ctx, "dev@example.com"))
	require.NoError(t, ctrl.SelectOrg(ctx, "dev@example.com"))
	require.Len(t, sender.sent(), 2)
}

func TestSetMode_GatesSearch(t *testing.T) {
	ctrl, _ := newController(t, panel.Config{})
	require.NoError(t, ctrl.SelectOrg(context.Background(), "dev@example.com"))

	require.True(t, ctrl.View().CanSearch)

	ctrl.SetMode(criteria.ModeAllMetadata)
	view := ctrl.View()
	require.Empty(t, view.Criteria.MetadataType)
	require.False(t, view.CanSearch)

	ctrl.SetMetadataType("ApexClass")
	require.True(t, ctrl.View().CanSearch)
}

func TestRunQuery_BlockedByGate(t *testing.T) {
	ctrl, sender := newController(t, panel.Config{})

	err := ctrl.RunQuery(context.Background())
	require.ErrorIs(t, err, criteria.ErrNoOrgSelected)

	require.NoError(t, ctrl.SelectOrg(context.Background(), "dev@example.com"))
	ctrl.SetMode(criteria.ModeAllMetadata)
	err = ctrl.RunQuery(context.Background())
	require.ErrorIs(t, err, criteria.ErrTypeRequired)

	for _, req := range sender.sent() {
		_, isQuery := req.(bridge.QueryMetadata)
		require.False(t, isQuery, "no query may be submitted while the gate is closed")
	}
}

func TestRunQuery_ClearsStateBeforeSending(t *testing.T) {
	ctrl, sender := newController(t, panel.Config{})
	ctx := context.Background()
	require.NoError(t, ctrl.SelectOrg(ctx, "dev@example.com"))

	ctrl.Apply(queryResult(raw("ApexClass", "Old", "Dana", "2025-01-01T00:00:00Z")))
	ctrl.ToggleSelection([]string{"ApexClass::Old"})
	ctrl.SetAuthorFilter("dana")

	require.NoError(t, ctrl.RunQuery(ctx))

	view := ctrl.View()
	require.True(t, view.Querying)
	require.True(t, view.SearchPerformed)
	require.Empty(t, view.Visible)
	require.Empty(t, view.SelectedKeys)
	require.Empty(t, view.Criteria.SearchTerm)

	requests := sender.sent()
	last, ok := requests[len(requests)-1].(bridge.QueryMetadata)
	require.True(t, ok)
	require.Equal(t, "dev@example.com", last.Username)
	require.Equal(t, "RecentChanges", last.QueryMode)
	require.Equal(t, "dana", last.LastUpdatedBy)
}

func TestFilterChange_RecomputesImmediately(t *testing.T) {
	ctrl, _ := newController(t, panel.Config{})
	require.NoError(t, ctrl.SelectOrg(context.Background(), "dev@example.com"))

	ctrl.Apply(queryResult(
		raw("ApexClass", "One", "Dana", "2025-01-10T00:00:00Z"),
		raw("CustomObject", "Two__c", "Ken", "2025-01-11T00:00:00Z"),
		raw("ApexClass", "Three", "Ken", "2025-01-12T00:00:00Z"),
	))
	require.Len(t, ctrl.View().Visible, 3)

	ctrl.SetMetadataType("ApexClass")
	view := ctrl.View()
	require.Len(t, view.Visible, 2)
	require.Equal(t, "One", view.Visible[0].Name)
	require.Equal(t, "Three", view.Visible[1].Name)

	ctrl.SetMetadataType(criteria.AllTypes)
	require.Len(t, ctrl.View().Visible, 3)
}

func TestSortReappliedAfterFilterChange(t *testing.T) {
	ctrl, _ := newController(t, panel.Config{})
	require.NoError(t, ctrl.SelectOrg(context.Background(), "dev@example.com"))

	ctrl.Apply(queryResult(
		raw("ApexClass", "Bravo", "Dana", "2025-01-10T00:00:00Z"),
		raw("ApexClass", "Alpha", "Ken", "2025-01-11T00:00:00Z"),
		raw("CustomObject", "Charlie", "Ken", "2025-01-12T00:00:00Z"),
	))

	ctrl.SortBy(filter.FieldName, filter.Desc)
	require.Equal(t, "Charlie", ctrl.View().Visible[0].Name)

	// recomputation replaces the visible set wholesale; sort must survive
	ctrl.SetMetadataType("ApexClass")
	view := ctrl.View()
	require.Len(t, view.Visible, 2)
	require.Equal(t, "Bravo", view.Visible[0].Name)
	require.Equal(t, "Alpha", view.Visible[1].Name)
}

func TestToggleSelection_ScopedToVisibleWindow(t *testing.T) {
	ctrl, _ := newController(t, panel.Config{})
	require.NoError(t, ctrl.SelectOrg(context.Background(), "dev@example.com"))

	ctrl.Apply(queryResult(
		raw("ApexClass", "A", "Dana", "2025-01-10T00:00:00Z"),
		raw("CustomObject", "B", "Ken", "2025-01-11T00:00:00Z"),
	))

	ctrl.ToggleSelection([]string{"ApexClass::A", "CustomObject::B"})
	require.Len(t, ctrl.View().SelectedKeys, 2)

	// Filter B out of view, then toggle with nothing reported: A is
	// deselected, B survives because it is outside the window.
	ctrl.SetMetadataType("ApexClass")
	ctrl.ToggleSelection(nil)

	view := ctrl.View()
	require.Equal(t, []string{"CustomObject::B"}, view.SelectedKeys)
	// selected rows materialize from the canonical set, not the visible one
	require.Len(t, view.SelectedRows, 1)
	require.Equal(t, "B", view.SelectedRows[0].Name)
}

func TestRetrieveSelected(t *testing.T) {
	ctrl, sender := newController(t, panel.Config{})
	ctx := context.Background()

	require.ErrorIs(t, ctrl.RetrieveSelected(ctx), panel.ErrNothingSelected)

	require.NoError(t, ctrl.SelectOrg(ctx, "dev@example.com"))
	ctrl.Apply(queryResult(
		raw("ApexClass", "Svc", "Dana", "2025-01-10T00:00:00Z"),
		metadata.RawRecord{MemberType: "ApexClass", MemberName: "Gone", ChangeOperation: "deleted"},
	))
	ctrl.SetLocalPackage("main")
	ctrl.ToggleSelection([]string{"ApexClass::Svc", "ApexClass::Gone"})

	require.NoError(t, ctrl.RetrieveSelected(ctx))

	requests := sender.sent()
	batch, ok := requests[len(requests)-1].(bridge.RetrieveSelectedMetadata)
	require.True(t, ok)
	require.Equal(t, "main", batch.LocalPackage)
	require.Len(t, batch.Metadata, 2)
	require.False(t, batch.Metadata[0].Deleted)
	require.True(t, batch.Metadata[1].Deleted)
}

func TestOpenItem_UnknownKey(t *testing.T) {
	ctrl, _ := newController(t, panel.Config{})
	err := ctrl.OpenItem(context.Background(), "ApexClass::Nope")
	require.ErrorIs(t, err, panel.ErrUnknownItem)
}

func TestSearchTerm_Debounced(t *testing.T) {
	ctrl, _ := newController(t, panel.Config{SearchDebounce: 100 * time.Millisecond})
	require.NoError(t, ctrl.SelectOrg(context.Background(), "dev@example.com"))

	ctrl.Apply(queryResult(
		raw("ApexClass", "Alpha", "Dana", "2025-01-10T00:00:00Z"),
		raw("ApexClass", "Beta", "Ken", "2025-01-11T00:00:00Z"),
	))

	// rapid keystrokes: only the last term may take effect
	ctrl.SetSearchTerm("al")
	ctrl.SetSearchTerm("alp")
	ctrl.SetSearchTerm("beta")

	require.Empty(t, ctrl.View().Criteria.SearchTerm, "no recomputation before the window elapses")

	require.Eventually(t, func() bool {
		view := ctrl.View()
		return view.Criteria.SearchTerm == "beta" && len(view.Visible) == 1
	}, time.Second, 5*time.Millisecond)
	require.Equal(t, "Beta", ctrl.View().Visible[0].Name)
}

func TestClearFilters_ResetsSelection(t *testing.T) {
	ctrl, _ := newController(t, panel.Config{})
	require.NoError(t, ctrl.SelectOrg(context.Background(), "dev@example.com"))

	ctrl.Apply(queryResult(raw("ApexClass", "A", "Dana", "2025-01-10T00:00:00Z")))
	ctrl.SetNameFilter("A")
	ctrl.ToggleSelection([]string{"ApexClass::A"})

	ctrl.ClearFilters()
	view := ctrl.View()
	require.Empty(t, view.SelectedKeys)
	require.Empty(t, view.Criteria.NamePart)
	// canonical set survives a filter reset
	require.Len(t, view.Visible, 1)
}

type fixedLayout struct{ outOfView bool }

func (l *fixedLayout) PrimaryActionOutOfView() bool { return l.outOfView }

func TestViewportChanged_DebouncedLayoutSignal(t *testing.T) {
	layout := &fixedLayout{outOfView: true}
	ctrl, _ := newController(t, panel.Config{
		Layout:           layout,
		ViewportDebounce: 10 * time.Millisecond,
	})

	ctrl.ViewportChanged()
	require.False(t, ctrl.View().SearchActionOutOfView)

	require.Eventually(t, func() bool {
		return ctrl.View().SearchActionOutOfView
	}, time.Second, 5*time.Millisecond)
}
