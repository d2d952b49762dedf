// Package sqlite implements the tracker persistence contracts on an
// embedded SQLite database via database/sql and the pure-Go
// modernc.org/sqlite driver.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite" // pure-Go SQLite driver (no CGO required)

	"github.com/vidwatch/vidwatch/internal/tracker"
)

// timeLayout keeps stored timestamps lexicographically ordered, so the
// (video_id, recorded_at) index serves the two-most-recent query.
const timeLayout = "2006-01-02 15:04:05"

// Options customize Open behavior.
type Options struct {
	// BusyTimeoutMS sets PRAGMA busy_timeout. Zero keeps the 10s default.
	BusyTimeoutMS int
}

// Store satisfies tracker.Store plus the browse/read contracts used by
// the presentation layers.
type Store struct {
	db     *sql.DB
	logger *zap.Logger
}

var _ tracker.Store = (*Store)(nil)

// Open opens (creating if needed) the database at path, applies the
// production pragmas, and runs the idempotent schema initialization.
func Open(ctx context.Context, path string, opts Options, logger *zap.Logger) (*Store, error) {
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create db dir: %w", err)
			}
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if path == ":memory:" {
		// Each pooled connection would otherwise get its own empty
		// in-memory database.
		db.SetMaxOpenConns(1)
	}

	busyTimeout := opts.BusyTimeoutMS
	if busyTimeout <= 0 {
		busyTimeout = 10_000
	}
	pragmas := []string{
		fmt.Sprintf("PRAGMA busy_timeout = %d", busyTimeout),
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA foreign_keys = ON",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", p, err)
		}
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	s := &Store{db: db, logger: logger}
	if err := s.init(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// init creates the schema and applies additive migrations. Safe to run
// any number of times, including against databases created before the
// views_int column existed.
func (s *Store) init(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	for _, m := range migrations {
		if _, err := s.db.ExecContext(ctx, m); err != nil {
			if isDuplicateColumn(err) {
				continue
			}
			return fmt.Errorf("apply migration %q: %w", m, err)
		}
		s.logger.Info("Applied schema migration", zap.String("statement", m))
	}
	return nil
}

func isDuplicateColumn(err error) bool {
	return err != nil && strings.Contains(err.Error(), "duplicate column name")
}

// Close shuts down the underlying connection pool.
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close sqlite: %w", err)
	}
	return nil
}

// UpsertObservation writes or overwrites the (video, query) row. It
// captures the previously stored views count before the overwrite so
// the caller can apply the snapshot recording policy.
func (s *Store) UpsertObservation(ctx context.Context, obs tracker.Observation) (bool, *int64, error) {
	var stored sql.NullInt64
	err := s.db.QueryRowContext(ctx,
		`SELECT views_int FROM videos WHERE video_id = ? AND query = ?`,
		obs.VideoID, obs.Query,
	).Scan(&stored)

	isNew := errors.Is(err, sql.ErrNoRows)
	if err != nil && !isNew {
		return false, nil, fmt.Errorf("lookup observation: %w", err)
	}

	var views any
	if obs.Views != nil {
		views = *obs.Views
	}
	_, err = s.db.ExecContext(ctx, upsertObservationQuery,
		obs.VideoID, obs.Title, obs.Channel, obs.Duration,
		obs.ViewsRaw, views, obs.URL, obs.Query,
		obs.ScrapedAt.Format(timeLayout),
	)
	if err != nil {
		return false, nil, fmt.Errorf("upsert observation: %w", err)
	}

	var prev *int64
	if !isNew && stored.Valid {
		v := stored.Int64
		prev = &v
	}
	return isNew, prev, nil
}

// AppendSnapshot inserts a snapshot row. Snapshots are append-only;
// nothing ever updates or deletes them.
func (s *Store) AppendSnapshot(ctx context.Context, videoID string, views int64, recordedAt time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO view_snapshots (video_id, views_int, recorded_at) VALUES (?, ?, ?)`,
		videoID, views, recordedAt.Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("append snapshot: %w", err)
	}
	return nil
}

// AddTrackedQuery registers a query for recurring scraping. It returns
// false when the query was already tracked; a uniqueness conflict is a
// normal outcome here, not an error.
func (s *Store) AddTrackedQuery(ctx context.Context, query string) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO tracked_queries (query) VALUES (?)`, query)
	if err != nil {
		return false, fmt.Errorf("add tracked query: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("add tracked query: %w", err)
	}
	return n > 0, nil
}

// RemoveTrackedQuery unregisters a query. It returns true only when a
// row was actually deleted.
func (s *Store) RemoveTrackedQuery(ctx context.Context, query string) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM tracked_queries WHERE query = ?`, query)
	if err != nil {
		return false, fmt.Errorf("remove tracked query: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("remove tracked query: %w", err)
	}
	return n > 0, nil
}

// ListTrackedQueries returns tracked queries in storage order.
func (s *Store) ListTrackedQueries(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT query FROM tracked_queries ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list tracked queries: %w", err)
	}
	defer rows.Close()

	var queries []string
	for rows.Next() {
		var q string
		if err := rows.Scan(&q); err != nil {
			return nil, fmt.Errorf("scan tracked query: %w", err)
		}
		queries = append(queries, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list tracked queries: %w", err)
	}
	return queries, nil
}
