// Package sqlite_test contains unit tests for the sqlite store.
package sqlite_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/vidwatch/vidwatch/internal/store/sqlite"
	"github.com/vidwatch/vidwatch/internal/tracker"
)

func openTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	s, err := sqlite.Open(context.Background(), ":memory:", sqlite.Options{}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func int64p(v int64) *int64 { return &v }

func obs(videoID, query string, views *int64, at time.Time) tracker.Observation {
	raw := "N/A"
	if views != nil {
		raw = "some views"
	}
	return tracker.Observation{
		VideoID:   videoID,
		Title:     "title-" + videoID,
		Channel:   "channel-" + videoID,
		Duration:  "3:21",
		ViewsRaw:  raw,
		Views:     views,
		URL:       "https://youtube.com/watch?v=" + videoID,
		Query:     query,
		ScrapedAt: at,
	}
}

func TestUpsertObservation_NewThenExisting(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)
	ctx := context.Background()
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	isNew, prev, err := s.UpsertObservation(ctx, obs("abc", "lofi", int64p(100), now))
	require.NoError(t, err)
	assert.True(t, isNew)
	assert.Nil(t, prev)

	isNew, prev, err = s.UpsertObservation(ctx, obs("abc", "lofi", int64p(150), now.Add(time.Hour)))
	require.NoError(t, err)
	assert.False(t, isNew)
	require.NotNil(t, prev)
	assert.Equal(t, int64(100), *prev)

	// Same video under a different query is a distinct pair.
	isNew, prev, err = s.UpsertObservation(ctx, obs("abc", "beats", int64p(150), now))
	require.NoError(t, err)
	assert.True(t, isNew)
	assert.Nil(t, prev)

	stats, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalVideos)
	assert.Equal(t, 2, stats.TotalQueries)
}

func TestUpsertObservation_OverwritesDisplayFields(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)
	ctx := context.Background()
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	_, _, err := s.UpsertObservation(ctx, obs("abc", "lofi", int64p(100), now))
	require.NoError(t, err)

	updated := obs("abc", "lofi", int64p(200), now.Add(time.Hour))
	updated.Title = "renamed"
	_, _, err = s.UpsertObservation(ctx, updated)
	require.NoError(t, err)

	videos, err := s.ListVideos(ctx, tracker.ListFilter{})
	require.NoError(t, err)
	require.Len(t, videos, 1)
	assert.Equal(t, "renamed", videos[0].Title)
	require.NotNil(t, videos[0].Views)
	assert.Equal(t, int64(200), *videos[0].Views)
}

func TestUpsertObservation_PreviouslyUnparsableViews(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)
	ctx := context.Background()
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	isNew, prev, err := s.UpsertObservation(ctx, obs("abc", "lofi", nil, now))
	require.NoError(t, err)
	assert.True(t, isNew)
	assert.Nil(t, prev)

	// The stored NULL count comes back as nil, not zero.
	isNew, prev, err = s.UpsertObservation(ctx, obs("abc", "lofi", int64p(50), now))
	require.NoError(t, err)
	assert.False(t, isNew)
	assert.Nil(t, prev)
}

func TestTrackedQueries(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)
	ctx := context.Background()

	added, err := s.AddTrackedQuery(ctx, "lofi")
	require.NoError(t, err)
	assert.True(t, added)

	// Second add is a normal "already present" outcome, not an error.
	added, err = s.AddTrackedQuery(ctx, "lofi")
	require.NoError(t, err)
	assert.False(t, added)

	added, err = s.AddTrackedQuery(ctx, "jazz")
	require.NoError(t, err)
	assert.True(t, added)

	queries, err := s.ListTrackedQueries(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"lofi", "jazz"}, queries)

	removed, err := s.RemoveTrackedQuery(ctx, "lofi")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = s.RemoveTrackedQuery(ctx, "never-tracked")
	require.NoError(t, err)
	assert.False(t, removed)

	queries, err = s.ListTrackedQueries(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"jazz"}, queries)
}

func TestInitIdempotent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "test.db")

	s1, err := sqlite.Open(ctx, path, sqlite.Options{}, zap.NewNop())
	require.NoError(t, err)
	_, _, err = s1.UpsertObservation(ctx, obs("abc", "lofi", int64p(1), time.Now().UTC()))
	require.NoError(t, err)
	require.NoError(t, s1.Close())

	// Re-opening runs schema init again; it must be a no-op.
	s2, err := sqlite.Open(ctx, path, sqlite.Options{}, zap.NewNop())
	require.NoError(t, err)
	defer s2.Close()

	videos, err := s2.ListVideos(ctx, tracker.ListFilter{})
	require.NoError(t, err)
	assert.Len(t, videos, 1)
}

func TestMigrationFromLegacySchema(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "legacy.db")

	// A database created before the integer views column existed.
	legacy, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = legacy.ExecContext(ctx, `
		CREATE TABLE videos (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			video_id   TEXT NOT NULL,
			title      TEXT,
			channel    TEXT,
			duration   TEXT,
			views      TEXT,
			url        TEXT,
			query      TEXT NOT NULL,
			scraped_at TEXT,
			UNIQUE(video_id, query)
		)`)
	require.NoError(t, err)
	_, err = legacy.ExecContext(ctx, `
		INSERT INTO videos (video_id, title, channel, duration, views, url, query, scraped_at)
		VALUES ('old', 'old title', 'old channel', '1:00', '1,000 views', 'u', 'lofi', '2026-01-01 00:00:00')`)
	require.NoError(t, err)
	require.NoError(t, legacy.Close())

	s, err := sqlite.Open(ctx, path, sqlite.Options{}, zap.NewNop())
	require.NoError(t, err)
	defer s.Close()

	// Pre-existing rows survive the additive migration with a NULL count.
	videos, err := s.ListVideos(ctx, tracker.ListFilter{})
	require.NoError(t, err)
	require.Len(t, videos, 1)
	assert.Equal(t, "old title", videos[0].Title)
	assert.Nil(t, videos[0].Views)
}

func TestTrending(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	seed := func(videoID, query string, views int64) {
		_, _, err := s.UpsertObservation(ctx, obs(videoID, query, int64p(views), base))
		require.NoError(t, err)
	}

	// grower: [1000, 1500] -> growth 500, pct 50.00
	seed("grower", "lofi", 1500)
	require.NoError(t, s.AppendSnapshot(ctx, "grower", 1000, base))
	require.NoError(t, s.AppendSnapshot(ctx, "grower", 1500, base.Add(time.Hour)))

	// shrinker: [1000, 1500, 1400] -> latest pair shrinks, excluded
	seed("shrinker", "lofi", 1400)
	require.NoError(t, s.AppendSnapshot(ctx, "shrinker", 1000, base))
	require.NoError(t, s.AppendSnapshot(ctx, "shrinker", 1500, base.Add(time.Hour)))
	require.NoError(t, s.AppendSnapshot(ctx, "shrinker", 1400, base.Add(2*time.Hour)))

	// fromzero: [0, 500] -> growth 500, pct undefined
	seed("fromzero", "lofi", 500)
	require.NoError(t, s.AppendSnapshot(ctx, "fromzero", 0, base))
	require.NoError(t, s.AppendSnapshot(ctx, "fromzero", 500, base.Add(time.Hour)))

	// lonely: a single snapshot contributes no row
	seed("lonely", "lofi", 42)
	require.NoError(t, s.AppendSnapshot(ctx, "lonely", 42, base))

	// slow: [100, 110] -> growth 10, ranks last
	seed("slow", "lofi", 110)
	require.NoError(t, s.AppendSnapshot(ctx, "slow", 100, base))
	require.NoError(t, s.AppendSnapshot(ctx, "slow", 110, base.Add(time.Hour)))

	entries, err := s.Trending(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	// Equal growth for grower and fromzero; both rank above slow.
	assert.Equal(t, int64(500), entries[0].Growth)
	assert.Equal(t, int64(500), entries[1].Growth)
	assert.Equal(t, int64(10), entries[2].Growth)
	assert.Equal(t, "title-slow", entries[2].Title)

	for _, e := range entries {
		switch e.Title {
		case "title-grower":
			assert.Equal(t, int64(1000), e.PreviousViews)
			assert.Equal(t, int64(1500), e.LatestViews)
			require.NotNil(t, e.GrowthPct)
			assert.InDelta(t, 50.0, *e.GrowthPct, 0.001)
		case "title-fromzero":
			assert.Equal(t, int64(0), e.PreviousViews)
			assert.Nil(t, e.GrowthPct, "growth over a zero base is undefined, not infinite")
		}
	}
}

func TestTrendingLimit(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, id := range []string{"a", "b", "c"} {
		_, _, err := s.UpsertObservation(ctx, obs(id, "lofi", int64p(100), base))
		require.NoError(t, err)
		require.NoError(t, s.AppendSnapshot(ctx, id, 100, base))
		require.NoError(t, s.AppendSnapshot(ctx, id, 100+int64(i+1)*10, base.Add(time.Hour)))
	}

	entries, err := s.Trending(ctx, 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, int64(30), entries[0].Growth)
	assert.Equal(t, int64(20), entries[1].Growth)
}

func TestTrendingSameSecondSnapshots(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)
	ctx := context.Background()
	at := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	// Identical timestamps: insertion order decides latest vs previous.
	_, _, err := s.UpsertObservation(ctx, obs("tie", "lofi", int64p(300), at))
	require.NoError(t, err)
	require.NoError(t, s.AppendSnapshot(ctx, "tie", 200, at))
	require.NoError(t, s.AppendSnapshot(ctx, "tie", 300, at))

	entries, err := s.Trending(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, int64(200), entries[0].PreviousViews)
	assert.Equal(t, int64(300), entries[0].LatestViews)
	assert.Equal(t, int64(100), entries[0].Growth)
}

func TestDuplicates(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	save := func(videoID, query string, views int64) {
		_, _, err := s.UpsertObservation(ctx, obs(videoID, query, int64p(views), now))
		require.NoError(t, err)
	}

	save("dup2", "cats", 500)
	save("dup2", "pets", 500)
	save("dup3", "cats", 100)
	save("dup3", "pets", 100)
	save("dup3", "funny animals", 100)
	save("solo", "cats", 9999)

	entries, err := s.Duplicates(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// Ordered by distinct query count descending.
	assert.Equal(t, "dup3", entries[0].VideoID)
	assert.Equal(t, 3, entries[0].QueryCount)
	assert.Equal(t, "cats,funny animals,pets", entries[0].Queries)

	assert.Equal(t, "dup2", entries[1].VideoID)
	assert.Equal(t, 2, entries[1].QueryCount)
	assert.Equal(t, "cats,pets", entries[1].Queries)
	require.NotNil(t, entries[1].Views)
	assert.Equal(t, int64(500), *entries[1].Views)
}

func TestDuplicatesOrderByViewsOnTie(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	save := func(videoID, query string, views int64) {
		_, _, err := s.UpsertObservation(ctx, obs(videoID, query, int64p(views), now))
		require.NoError(t, err)
	}

	save("small", "a", 10)
	save("small", "b", 10)
	save("big", "a", 1000)
	save("big", "b", 1000)

	entries, err := s.Duplicates(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "big", entries[0].VideoID)
	assert.Equal(t, "small", entries[1].VideoID)
}

func TestListVideosFilters(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	records := []struct {
		id    string
		title string
		query string
		at    time.Time
	}{
		{"v1", "lofi hip hop radio", "lofi", base},
		{"v2", "jazz for study", "jazz", base.Add(time.Hour)},
		{"v3", "lofi beats to relax", "lofi", base.Add(2 * time.Hour)},
	}
	for _, r := range records {
		o := obs(r.id, r.query, int64p(1), r.at)
		o.Title = r.title
		_, _, err := s.UpsertObservation(ctx, o)
		require.NoError(t, err)
	}

	all, err := s.ListVideos(ctx, tracker.ListFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	// Newest scrape first.
	assert.Equal(t, "v3", all[0].VideoID)

	byKeyword, err := s.ListVideos(ctx, tracker.ListFilter{Keyword: "lofi"})
	require.NoError(t, err)
	assert.Len(t, byKeyword, 2)

	byQuery, err := s.ListVideos(ctx, tracker.ListFilter{Query: "jazz"})
	require.NoError(t, err)
	require.Len(t, byQuery, 1)
	assert.Equal(t, "v2", byQuery[0].VideoID)

	limited, err := s.ListVideos(ctx, tracker.ListFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	queries, err := s.DistinctQueries(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"jazz", "lofi"}, queries)
}

func TestStats(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	_, _, err := s.UpsertObservation(ctx, obs("a", "lofi", int64p(1), now))
	require.NoError(t, err)
	_, _, err = s.UpsertObservation(ctx, obs("b", "jazz", int64p(2), now))
	require.NoError(t, err)
	require.NoError(t, s.AppendSnapshot(ctx, "a", 1, now))
	_, err = s.AddTrackedQuery(ctx, "lofi")
	require.NoError(t, err)

	stats, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, tracker.Stats{
		TotalVideos:    2,
		TotalQueries:   2,
		TrackedQueries: 1,
		Snapshots:      1,
	}, stats)
}
