// Package tracker defines core types and the ingestion pipeline shared
// across subsystems.
package tracker

import "time"

// Video is a raw record returned by the scraper for one search result.
type Video struct {
	ID       string `json:"video_id"`
	Title    string `json:"title"`
	Channel  string `json:"channel"`
	Duration string `json:"duration"`
	Views    string `json:"views"`
	URL      string `json:"url"`
}

// Observation is the persisted fact that a query saw a video at a point
// in time. At most one row exists per (video, query) pair; re-scrapes
// overwrite it in place.
type Observation struct {
	VideoID   string    `json:"video_id"`
	Title     string    `json:"title"`
	Channel   string    `json:"channel"`
	Duration  string    `json:"duration"`
	ViewsRaw  string    `json:"views"`
	Views     *int64    `json:"views_int"`
	URL       string    `json:"url"`
	Query     string    `json:"query"`
	ScrapedAt time.Time `json:"scraped_at"`
}

// Snapshot is an immutable point-in-time view count for a video.
// Snapshots are append-only and never carry an unparsed count.
type Snapshot struct {
	VideoID    string    `json:"video_id"`
	Views      int64     `json:"views_int"`
	RecordedAt time.Time `json:"recorded_at"`
}

// TrendEntry reports the growth of one video between its two most
// recent snapshots. GrowthPct is nil when the previous count was zero.
type TrendEntry struct {
	Title         string   `json:"title"`
	Channel       string   `json:"channel"`
	Query         string   `json:"query"`
	URL           string   `json:"url"`
	PreviousViews int64    `json:"previous_views"`
	LatestViews   int64    `json:"latest_views"`
	Growth        int64    `json:"growth"`
	GrowthPct     *float64 `json:"growth_pct"`
}

// DuplicateEntry reports a video observed under more than one query.
// Display fields come from an arbitrary observation row in the group.
type DuplicateEntry struct {
	VideoID    string `json:"video_id"`
	Title      string `json:"title"`
	Channel    string `json:"channel"`
	Views      *int64 `json:"views_int"`
	ViewsRaw   string `json:"views"`
	QueryCount int    `json:"query_count"`
	Queries    string `json:"queries"`
	URL        string `json:"url"`
}

// ListFilter narrows a browse listing. Zero values match everything.
type ListFilter struct {
	Keyword string
	Query   string
	Limit   int
}

// Stats summarizes the database for the dashboard.
type Stats struct {
	TotalVideos    int `json:"total_videos"`
	TotalQueries   int `json:"total_queries"`
	TrackedQueries int `json:"tracked"`
	Snapshots      int `json:"snapshots"`
}

// RunReport counts the work done by one tracker pass.
type RunReport struct {
	Queries int `json:"queries"`
	Results int `json:"results"`
	New     int `json:"new"`
}
