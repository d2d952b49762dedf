package api_test

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vidwatch/vidwatch/internal/api"
	"github.com/vidwatch/vidwatch/internal/metrics"
	"github.com/vidwatch/vidwatch/internal/store/sqlite"
	"github.com/vidwatch/vidwatch/internal/tracker"
)

func newTestServer(t *testing.T) (*httptest.Server, *sqlite.Store) {
	t.Helper()
	metrics.Init()
	store, err := sqlite.Open(context.Background(), ":memory:", sqlite.Options{}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	ts := httptest.NewServer(api.NewServer(store, zap.NewNop()).Handler())
	t.Cleanup(ts.Close)
	return ts, store
}

func seedObservation(t *testing.T, store *sqlite.Store, videoID, query string, views int64) {
	t.Helper()
	v := views
	_, _, err := store.UpsertObservation(context.Background(), tracker.Observation{
		VideoID:   videoID,
		Title:     "title-" + videoID,
		Channel:   "channel-" + videoID,
		Duration:  "3:21",
		ViewsRaw:  "some views",
		Views:     &v,
		URL:       "https://youtube.com/watch?v=" + videoID,
		Query:     query,
		ScrapedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
}

func getJSON(t *testing.T, url string, dst any) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	if dst != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(dst))
	}
	return resp
}

func TestHealthz(t *testing.T) {
	ts, _ := newTestServer(t)

	var body map[string]string
	resp := getJSON(t, ts.URL+"/healthz", &body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])
	assert.NotEmpty(t, resp.Header.Get("X-Request-Id"))
}

func TestGetStats(t *testing.T) {
	ts, store := newTestServer(t)
	seedObservation(t, store, "a", "lofi", 100)
	seedObservation(t, store, "b", "jazz", 200)

	var stats tracker.Stats
	resp := getJSON(t, ts.URL+"/v1/stats", &stats)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 2, stats.TotalVideos)
	assert.Equal(t, 2, stats.TotalQueries)
}

func TestListVideos(t *testing.T) {
	ts, store := newTestServer(t)
	seedObservation(t, store, "a", "lofi", 100)
	seedObservation(t, store, "b", "jazz", 200)

	var body struct {
		Count  int                   `json:"count"`
		Videos []tracker.Observation `json:"videos"`
	}
	resp := getJSON(t, ts.URL+"/v1/videos?query=jazz", &body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, 1, body.Count)
	assert.Equal(t, "b", body.Videos[0].VideoID)
}

func TestGetTrending(t *testing.T) {
	ts, store := newTestServer(t)
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	seedObservation(t, store, "a", "lofi", 150)
	require.NoError(t, store.AppendSnapshot(ctx, "a", 100, base))
	require.NoError(t, store.AppendSnapshot(ctx, "a", 150, base.Add(time.Hour)))

	var body struct {
		Count    int                  `json:"count"`
		Trending []tracker.TrendEntry `json:"trending"`
	}
	resp := getJSON(t, ts.URL+"/v1/trending", &body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, 1, body.Count)
	assert.Equal(t, int64(50), body.Trending[0].Growth)
	require.NotNil(t, body.Trending[0].GrowthPct)
	assert.InDelta(t, 50.0, *body.Trending[0].GrowthPct, 0.001)
}

func TestGetTrendingRejectsBadLimit(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := getJSON(t, ts.URL+"/v1/trending?limit=-5", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetDuplicates(t *testing.T) {
	ts, store := newTestServer(t)
	seedObservation(t, store, "dup", "cats", 500)
	seedObservation(t, store, "dup", "pets", 500)
	seedObservation(t, store, "solo", "cats", 100)

	var body struct {
		Count      int                      `json:"count"`
		Duplicates []tracker.DuplicateEntry `json:"duplicates"`
	}
	resp := getJSON(t, ts.URL+"/v1/duplicates", &body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, 1, body.Count)
	assert.Equal(t, "dup", body.Duplicates[0].VideoID)
	assert.Equal(t, 2, body.Duplicates[0].QueryCount)
}

func TestGetQueries(t *testing.T) {
	ts, store := newTestServer(t)
	seedObservation(t, store, "a", "lofi", 1)
	_, err := store.AddTrackedQuery(context.Background(), "jazz")
	require.NoError(t, err)

	var body struct {
		Queries []string `json:"queries"`
		Tracked []string `json:"tracked"`
	}
	resp := getJSON(t, ts.URL+"/v1/queries", &body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []string{"lofi"}, body.Queries)
	assert.Equal(t, []string{"jazz"}, body.Tracked)
}

func TestExportCSV(t *testing.T) {
	ts, store := newTestServer(t)
	seedObservation(t, store, "a", "lofi", 100)
	seedObservation(t, store, "b", "jazz", 200)

	resp, err := http.Get(ts.URL + "/export.csv?query=lofi")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/csv", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "youtube_lofi_")

	records, err := csv.NewReader(resp.Body).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "title-a", records[1][0])
}

func TestExportCSVUncapped(t *testing.T) {
	ts, store := newTestServer(t)
	for i := 0; i < 510; i++ {
		seedObservation(t, store, fmt.Sprintf("v%03d", i), "lofi", int64(i))
	}

	resp, err := http.Get(ts.URL + "/export.csv")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	records, err := csv.NewReader(resp.Body).ReadAll()
	require.NoError(t, err)
	// Header plus every row, past the browse listing's default cap.
	assert.Len(t, records, 511)
}

func TestNotFound(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := getJSON(t, ts.URL+"/nope", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
