package panel_test

import (
	"context"
	"sync"
	"testing"

	"github.com/mwhitby/metabrowse/internal/bridge"
	"github.com/mwhitby/metabrowse/internal/domain/metadata"
	"github.com/mwhitby/metabrowse/internal/panel"
	"github.com/stretchr/testify/require"
)

type memoryLog struct {
	mu      sync.Mutex
	entries []panel.QueryLogEntry
}

func (l *memoryLog) Record(_ context.Context, entry panel.QueryLogEntry) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, entry)
	return nil
}

func (l *memoryLog) Recent(_ context.Context, org string, limit int) ([]panel.QueryLogEntry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []panel.QueryLogEntry
	for i := len(l.entries) - 1; i >= 0 && len(out) < limit; i-- {
		if l.entries[i].OrgUsername == org {
			out = append(out, l.entries[i])
		}
	}
	return out, nil
}

func TestApply_Initialize(t *testing.T) {
	ctrl, _ := newController(t, panel.Config{})

	ctrl.Apply(bridge.Initialize{
		Orgs:                []bridge.Org{{Username: "dev@example.com", Alias: "dev"}},
		SelectedOrgUsername: "dev@example.com",
		MetadataTypes:       []string{"ApexClass", "CustomObject"},
		CheckLocalAvailable: true,
		LocalPackageOptions: []string{"main", "shared"},
		DefaultLocalPackage: "main",
	})

	view := ctrl.View()
	require.Equal(t, "dev@example.com", view.Criteria.OrgUsername)
	require.Len(t, view.Orgs, 1)
	require.Equal(t, []string{"ApexClass", "CustomObject"}, view.MetadataTypes)
	require.True(t, view.CheckLocalAvailable)
	require.Equal(t, "main", view.LocalPackage)
	require.True(t, view.CanSearch)
}

func TestApply_QueryResultNormalizesAndRecords(t *testing.T) {
	history := &memoryLog{}
	ctrl, _ := newController(t, panel.Config{History: history})
	ctx := context.Background()
	require.NoError(t, ctrl.SelectOrg(ctx, "dev@example.com"))
	require.NoError(t, ctrl.RunQuery(ctx))
	require.True(t, ctrl.View().Querying)

	ctrl.Apply(bridge.QueryResult{Records: []metadata.RawRecord{
		{MemberType: "ApexClass", MemberName: "Dup", LastModifiedByName: "first"},
		{MemberType: "ApexClass", MemberName: "Dup", LastModifiedByName: "second"},
		{MemberType: "CustomObject", MemberName: "Obj"},
	}})

	view := ctrl.View()
	require.False(t, view.Querying)
	require.Empty(t, view.QueryError)
	require.Len(t, view.Visible, 2)
	require.Equal(t, "second", view.Visible[0].LastModifiedBy)

	entries, err := ctrl.RecentQueries(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, 2, entries[0].ResultCount)
}

func TestApply_QueryErrorClearsResults(t *testing.T) {
	ctrl, _ := newController(t, panel.Config{})
	ctx := context.Background()
	require.NoError(t, ctrl.SelectOrg(ctx, "dev@example.com"))

	ctrl.Apply(queryResult(raw("ApexClass", "Svc", "Dana", "2025-01-10T00:00:00Z")))
	require.Len(t, ctrl.View().Visible, 1)

	require.NoError(t, ctrl.RunQuery(ctx))
	ctrl.Apply(bridge.QueryError{Message: "INVALID_TYPE: unexpected token"})

	view := ctrl.View()
	require.False(t, view.Querying)
	require.Equal(t, "INVALID_TYPE: unexpected token", view.QueryError)
	require.Empty(t, view.Visible)

	// the error is terminal until the next submission; a later result clears it
	require.NoError(t, ctrl.RunQuery(ctx))
	ctrl.Apply(queryResult(raw("ApexClass", "Svc", "Dana", "2025-01-10T00:00:00Z")))
	view = ctrl.View()
	require.Empty(t, view.QueryError)
	require.Len(t, view.Visible, 1)
}

func TestApply_LastWriteWins(t *testing.T) {
	ctrl, _ := newController(t, panel.Config{})
	require.NoError(t, ctrl.SelectOrg(context.Background(), "dev@example.com"))

	ctrl.Apply(queryResult(raw("ApexClass", "FromFirst", "Dana", "2025-01-10T00:00:00Z")))
	ctrl.Apply(queryResult(raw("ApexClass", "FromSecond", "Ken", "2025-01-11T00:00:00Z")))

	view := ctrl.View()
	require.Len(t, view.Visible, 1)
	require.Equal(t, "FromSecond", view.Visible[0].Name)
}

func TestApply_PostRetrieveLocalCheck(t *testing.T) {
	ctrl, _ := newController(t, panel.Config{})
	require.NoError(t, ctrl.SelectOrg(context.Background(), "dev@example.com"))

	ctrl.Apply(queryResult(
		raw("ApexClass", "A", "Dana", "2025-01-10T00:00:00Z"),
		raw("ApexClass", "B", "Dana", "2025-01-10T00:00:00Z"),
		raw("ApexClass", "C", "Dana", "2025-01-10T00:00:00Z"),
		raw("ApexClass", "D", "Dana", "2025-01-10T00:00:00Z"),
		raw("ApexClass", "E", "Dana", "2025-01-10T00:00:00Z"),
	))
	ctrl.ToggleSelection([]string{
		"ApexClass::A", "ApexClass::B", "ApexClass::C", "ApexClass::D", "ApexClass::E",
	})
	require.Len(t, ctrl.View().SelectedKeys, 5)

	ctrl.Apply(bridge.PostRetrieveLocalCheck{
		Files:        []bridge.ProcessedFile{{Type: "ApexClass", Name: "B"}},
		DeletedFiles: []bridge.ProcessedFile{{Type: "ApexClass", Name: "D"}},
	})

	view := ctrl.View()
	require.Len(t, view.SelectedKeys, 3)
	require.Len(t, view.SelectedRows, 3)
	require.Equal(t, []string{"ApexClass::A", "ApexClass::C", "ApexClass::E"}, view.SelectedKeys)

	for _, rec := range view.Visible {
		switch rec.Name {
		case "B":
			require.NotNil(t, rec.LocalFile)
			require.True(t, *rec.LocalFile)
		case "D":
			require.NotNil(t, rec.LocalFile)
			require.False(t, *rec.LocalFile)
		default:
			require.Nil(t, rec.LocalFile)
		}
	}
}

func TestApply_RetrieveState(t *testing.T) {
	ctrl, _ := newController(t, panel.Config{})

	ctrl.Apply(bridge.RetrieveState{IsRetrieving: true})
	require.True(t, ctrl.View().Retrieving)

	ctrl.Apply(bridge.RetrieveState{IsRetrieving: false})
	require.False(t, ctrl.View().Retrieving)
}

func TestApply_ListResultsUpdateOneSlice(t *testing.T) {
	ctrl, _ := newController(t, panel.Config{})

	ctrl.Apply(bridge.ListMetadataTypesResult{MetadataTypes: []string{"ApexClass"}})
	ctrl.Apply(bridge.ListPackagesResult{Packages: []string{"acme"}})
	ctrl.Apply(bridge.ImageResources{Images: map[string]string{"icon": "file:///icon.svg"}})

	view := ctrl.View()
	require.Equal(t, []string{"ApexClass"}, view.MetadataTypes)
	require.Equal(t, []string{"acme"}, view.Packages)
	require.Equal(t, "file:///icon.svg", view.Images["icon"])
}

func TestApply_ListOrgsSwitchResets(t *testing.T) {
	ctrl, _ := newController(t, panel.Config{})
	require.NoError(t, ctrl.SelectOrg(context.Background(), "dev@example.com"))
	ctrl.Apply(queryResult(raw("ApexClass", "Svc", "Dana", "2025-01-10T00:00:00Z")))

	ctrl.Apply(bridge.ListOrgsResult{
		Orgs:                []bridge.Org{{Username: "new@example.com"}},
		SelectedOrgUsername: "new@example.com",
	})

	view := ctrl.View()
	require.Equal(t, "new@example.com", view.Criteria.OrgUsername)
	require.Empty(t, view.Visible)
}
