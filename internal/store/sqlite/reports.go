package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/vidwatch/vidwatch/internal/tracker"
)

// Trending returns videos ranked by view growth between their two most
// recent snapshots, truncated to limit.
func (s *Store) Trending(ctx context.Context, limit int) ([]tracker.TrendEntry, error) {
	rows, err := s.db.QueryContext(ctx, trendingQuery, limit)
	if err != nil {
		return nil, fmt.Errorf("query trending: %w", err)
	}
	defer rows.Close()

	var entries []tracker.TrendEntry
	for rows.Next() {
		var (
			e   tracker.TrendEntry
			pct sql.NullFloat64
		)
		if err := rows.Scan(
			&e.Title, &e.Channel, &e.Query, &e.URL,
			&e.PreviousViews, &e.LatestViews, &e.Growth, &pct,
		); err != nil {
			return nil, fmt.Errorf("scan trending row: %w", err)
		}
		// NULL here means the previous snapshot was zero; the growth
		// percentage is undefined rather than infinite.
		if pct.Valid {
			v := pct.Float64
			e.GrowthPct = &v
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query trending: %w", err)
	}
	return entries, nil
}

// Duplicates returns videos observed under more than one distinct
// query, ordered by query count then view count, both descending.
func (s *Store) Duplicates(ctx context.Context) ([]tracker.DuplicateEntry, error) {
	rows, err := s.db.QueryContext(ctx, duplicatesQuery)
	if err != nil {
		return nil, fmt.Errorf("query duplicates: %w", err)
	}
	defer rows.Close()

	var entries []tracker.DuplicateEntry
	for rows.Next() {
		var (
			e     tracker.DuplicateEntry
			views sql.NullInt64
		)
		if err := rows.Scan(
			&e.VideoID, &e.Title, &e.Channel, &views, &e.ViewsRaw,
			&e.QueryCount, &e.Queries, &e.URL,
		); err != nil {
			return nil, fmt.Errorf("scan duplicate row: %w", err)
		}
		if views.Valid {
			v := views.Int64
			e.Views = &v
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query duplicates: %w", err)
	}
	return entries, nil
}
