package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/vidwatch/vidwatch/internal/tracker"
)

// defaultListLimit caps browse listings when the caller does not.
const defaultListLimit = 500

// ListVideos returns observation rows, newest scrape first, optionally
// narrowed by a title keyword and/or the originating query.
func (s *Store) ListVideos(ctx context.Context, filter tracker.ListFilter) ([]tracker.Observation, error) {
	q := `SELECT video_id, title, channel, duration, views, views_int, url, query, scraped_at
		FROM videos WHERE 1=1`
	var args []any
	if filter.Keyword != "" {
		q += ` AND title LIKE ?`
		args = append(args, "%"+filter.Keyword+"%")
	}
	if filter.Query != "" {
		q += ` AND query = ?`
		args = append(args, filter.Query)
	}
	q += ` ORDER BY scraped_at DESC, id DESC LIMIT ?`
	// A negative limit disables the cap (SQLite treats LIMIT -1 as "all").
	limit := filter.Limit
	if limit == 0 {
		limit = defaultListLimit
	}
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list videos: %w", err)
	}
	defer rows.Close()

	var videos []tracker.Observation
	for rows.Next() {
		var (
			obs       tracker.Observation
			views     sql.NullInt64
			scrapedAt string
		)
		if err := rows.Scan(
			&obs.VideoID, &obs.Title, &obs.Channel, &obs.Duration,
			&obs.ViewsRaw, &views, &obs.URL, &obs.Query, &scrapedAt,
		); err != nil {
			return nil, fmt.Errorf("scan video row: %w", err)
		}
		if views.Valid {
			v := views.Int64
			obs.Views = &v
		}
		if t, err := time.Parse(timeLayout, scrapedAt); err == nil {
			obs.ScrapedAt = t
		}
		videos = append(videos, obs)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list videos: %w", err)
	}
	return videos, nil
}

// DistinctQueries returns every query that has produced at least one
// observation, sorted.
func (s *Store) DistinctQueries(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT query FROM videos ORDER BY query`)
	if err != nil {
		return nil, fmt.Errorf("distinct queries: %w", err)
	}
	defer rows.Close()

	var queries []string
	for rows.Next() {
		var q string
		if err := rows.Scan(&q); err != nil {
			return nil, fmt.Errorf("scan query: %w", err)
		}
		queries = append(queries, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("distinct queries: %w", err)
	}
	return queries, nil
}

// Stats summarizes the database for the dashboard.
func (s *Store) Stats(ctx context.Context) (tracker.Stats, error) {
	var st tracker.Stats
	counts := []struct {
		query string
		dst   *int
	}{
		{`SELECT COUNT(*) FROM videos`, &st.TotalVideos},
		{`SELECT COUNT(DISTINCT query) FROM videos`, &st.TotalQueries},
		{`SELECT COUNT(*) FROM tracked_queries`, &st.TrackedQueries},
		{`SELECT COUNT(*) FROM view_snapshots`, &st.Snapshots},
	}
	for _, c := range counts {
		if err := s.db.QueryRowContext(ctx, c.query).Scan(c.dst); err != nil {
			return tracker.Stats{}, fmt.Errorf("stats: %w", err)
		}
	}
	return st, nil
}
