package sqlite_test

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/mwhitby/metabrowse/internal/panel"
	"github.com/mwhitby/metabrowse/internal/sqlite"
	"github.com/stretchr/testify/require"
)

func newDB(t *testing.T) *sqlite.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := sqlite.New(dsn)
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())
	t.Cleanup(func() { db.Close() })
	return db
}

func TestQueryHistory_RecordAndRecent(t *testing.T) {
	db := newDB(t)
	repo := sqlite.NewQueryHistoryRepository(db)
	ctx := context.Background()

	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Record(ctx, panel.QueryLogEntry{
			OrgUsername:  "dev@example.com",
			Mode:         "RecentChanges",
			MetadataType: fmt.Sprintf("Type%d", i),
			ResultCount:  i * 10,
			RanAt:        base.Add(time.Duration(i) * time.Minute),
		}))
	}
	require.NoError(t, repo.Record(ctx, panel.QueryLogEntry{
		OrgUsername: "other@example.com",
		Mode:        "AllMetadata",
		RanAt:       base,
	}))

	entries, err := repo.Recent(ctx, "dev@example.com", 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, "Type2", entries[0].MetadataType, "newest first")
	require.Equal(t, "Type1", entries[1].MetadataType)
	require.Equal(t, 20, entries[0].ResultCount)
}

func TestQueryHistory_RecentEmptyOrg(t *testing.T) {
	db := newDB(t)
	repo := sqlite.NewQueryHistoryRepository(db)

	entries, err := repo.Recent(context.Background(), "nobody@example.com", 5)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestQueryHistory_ZeroTimeDefaults(t *testing.T) {
	db := newDB(t)
	repo := sqlite.NewQueryHistoryRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Record(ctx, panel.QueryLogEntry{OrgUsername: "dev@example.com"}))
	entries, err := repo.Recent(ctx, "dev@example.com", 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.False(t, entries[0].RanAt.IsZero())
}
