package tracker

import (
	"context"
	"time"
)

// Store persists observations, snapshots, and tracked queries.
type Store interface {
	// UpsertObservation writes or overwrites the (video, query) row and
	// reports whether the pair was previously absent, along with the
	// views count stored before the overwrite.
	UpsertObservation(ctx context.Context, obs Observation) (isNew bool, prevViews *int64, err error)

	// AppendSnapshot inserts a snapshot row unconditionally; the caller
	// applies the recording policy.
	AppendSnapshot(ctx context.Context, videoID string, views int64, recordedAt time.Time) error

	AddTrackedQuery(ctx context.Context, query string) (bool, error)
	RemoveTrackedQuery(ctx context.Context, query string) (bool, error)
	ListTrackedQueries(ctx context.Context) ([]string, error)

	Trending(ctx context.Context, limit int) ([]TrendEntry, error)
	Duplicates(ctx context.Context) ([]DuplicateEntry, error)
}

// Scraper fetches the result listing for a search query.
type Scraper interface {
	Search(ctx context.Context, query string) ([]Video, error)
}

// Clock returns the current time (useful for testing).
type Clock interface {
	Now() time.Time
}
