package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mwhitby/metabrowse/internal/panel"
)

// QueryHistoryRepository persists query executions.
type QueryHistoryRepository struct {
	db *DB
}

// NewQueryHistoryRepository creates a query history repository.
func NewQueryHistoryRepository(db *DB) *QueryHistoryRepository {
	return &QueryHistoryRepository{db: db}
}

// Record stores one query execution.
func (r *QueryHistoryRepository) Record(ctx context.Context, entry panel.QueryLogEntry) error {
	ranAt := entry.RanAt
	if ranAt.IsZero() {
		ranAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO query_history (id, org_username, query_mode, metadata_type, package_filter, result_count, ran_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), entry.OrgUsername, entry.Mode, entry.MetadataType,
		entry.PackageFilter, entry.ResultCount, ranAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("recording query history: %w", err)
	}
	return nil
}

// Recent returns the latest executions for an org, newest first.
func (r *QueryHistoryRepository) Recent(ctx context.Context, orgUsername string, limit int) ([]panel.QueryLogEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT org_username, query_mode, metadata_type, package_filter, result_count, ran_at
		FROM query_history
		WHERE org_username = ?
		ORDER BY ran_at DESC
		LIMIT ?`,
		orgUsername, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("loading query history: %w", err)
	}
	defer rows.Close()

	entries := make([]panel.QueryLogEntry, 0, limit)
	for rows.Next() {
		var entry panel.QueryLogEntry
		var ranAt string
		if err := rows.Scan(&entry.OrgUsername, &entry.Mode, &entry.MetadataType,
			&entry.PackageFilter, &entry.ResultCount, &ranAt); err != nil {
			return nil, fmt.Errorf("scanning query history: %w", err)
		}
		if ts, err := time.Parse(time.RFC3339Nano, ranAt); err == nil {
			entry.RanAt = ts
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating query history: %w", err)
	}
	return entries, nil
}
