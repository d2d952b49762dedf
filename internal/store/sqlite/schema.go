package sqlite

const schema = `
CREATE TABLE IF NOT EXISTS videos (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	video_id    TEXT NOT NULL,
	title       TEXT,
	channel     TEXT,
	duration    TEXT,
	views       TEXT,
	views_int   INTEGER,
	url         TEXT,
	query       TEXT NOT NULL,
	scraped_at  TEXT,
	UNIQUE(video_id, query)
);

CREATE TABLE IF NOT EXISTS tracked_queries (
	id      INTEGER PRIMARY KEY AUTOINCREMENT,
	query   TEXT UNIQUE
);

CREATE TABLE IF NOT EXISTS view_snapshots (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	video_id    TEXT NOT NULL,
	views_int   INTEGER NOT NULL,
	recorded_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_snapshots_video_recorded
	ON view_snapshots (video_id, recorded_at);
`

// migrations are additive statements applied to databases created by
// older schema versions. Each one is skipped when it has already been
// applied (duplicate column), so initialization stays idempotent.
var migrations = []string{
	`ALTER TABLE videos ADD COLUMN views_int INTEGER`,
}

const upsertObservationQuery = `
INSERT INTO videos (video_id, title, channel, duration, views, views_int, url, query, scraped_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(video_id, query) DO UPDATE SET
	title      = excluded.title,
	channel    = excluded.channel,
	duration   = excluded.duration,
	views      = excluded.views,
	views_int  = excluded.views_int,
	scraped_at = excluded.scraped_at
`

// trendingQuery ranks each video's snapshots newest-first (insertion
// order breaks recorded_at ties) and compares the top two. Videos with
// fewer than two snapshots, or without growth, contribute nothing. The
// join back to videos picks one observation row per video for display.
const trendingQuery = `
WITH ranked AS (
	SELECT
		video_id,
		views_int,
		ROW_NUMBER() OVER (
			PARTITION BY video_id
			ORDER BY recorded_at DESC, id DESC
		) AS rn
	FROM view_snapshots
),
latest   AS (SELECT video_id, views_int AS latest_views FROM ranked WHERE rn = 1),
previous AS (SELECT video_id, views_int AS prev_views   FROM ranked WHERE rn = 2)
SELECT
	v.title,
	v.channel,
	v.query,
	v.url,
	p.prev_views,
	l.latest_views,
	(l.latest_views - p.prev_views) AS growth,
	ROUND(
		CAST(l.latest_views - p.prev_views AS REAL)
		/ NULLIF(p.prev_views, 0) * 100,
		2
	) AS growth_pct
FROM latest l
JOIN previous p USING (video_id)
JOIN videos v ON v.video_id = l.video_id
WHERE l.latest_views > p.prev_views
GROUP BY l.video_id
ORDER BY growth DESC
LIMIT ?
`

// duplicatesQuery groups observations by video and keeps groups seen
// under more than one distinct query. The query list is sorted so the
// rendered string is reproducible for the same input set.
const duplicatesQuery = `
SELECT
	video_id,
	MAX(title)                                  AS title,
	MAX(channel)                                AS channel,
	MAX(views_int)                              AS views_int,
	MAX(views)                                  AS views,
	COUNT(DISTINCT query)                       AS query_count,
	GROUP_CONCAT(DISTINCT query ORDER BY query) AS queries,
	MAX(url)                                    AS url
FROM videos
GROUP BY video_id
HAVING COUNT(DISTINCT query) > 1
ORDER BY query_count DESC, views_int DESC
`
