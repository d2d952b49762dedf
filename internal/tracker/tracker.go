package tracker

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/vidwatch/vidwatch/internal/metrics"
)

// Tracker runs the ingestion pipeline: scrape a query, normalize each
// record, upsert observations, and append snapshots per the recording
// policy.
type Tracker struct {
	store   Store
	scraper Scraper
	clock   Clock
	logger  *zap.Logger
}

// New constructs a Tracker.
func New(store Store, scraper Scraper, clock Clock, logger *zap.Logger) *Tracker {
	return &Tracker{
		store:   store,
		scraper: scraper,
		clock:   clock,
		logger:  logger,
	}
}

// Save persists a batch of scraped records under query and returns the
// number of newly created (video, query) pairs. A malformed record is
// logged and skipped; the batch never aborts because one record failed.
func (t *Tracker) Save(ctx context.Context, results []Video, query string) (int, error) {
	now := t.clock.Now()
	newCount := 0
	skipped := 0

	for _, r := range results {
		if r.ID == "" || r.Title == "" || r.Channel == "" {
			t.logger.Warn("Skipping malformed record",
				zap.String("query", query),
				zap.String("title", r.Title),
			)
			skipped++
			continue
		}

		obs := Observation{
			VideoID:   r.ID,
			Title:     r.Title,
			Channel:   r.Channel,
			Duration:  r.Duration,
			ViewsRaw:  r.Views,
			URL:       r.URL,
			Query:     query,
			ScrapedAt: now,
		}
		if v, ok := ParseViews(r.Views); ok {
			obs.Views = &v
		}

		isNew, prev, err := t.store.UpsertObservation(ctx, obs)
		if err != nil {
			t.logger.Warn("Could not save record",
				zap.String("video_id", r.ID),
				zap.String("title", r.Title),
				zap.Error(err),
			)
			skipped++
			continue
		}
		if isNew {
			newCount++
			metrics.ObserveNewVideo()
		}

		if ShouldSnapshot(obs.Views, isNew, prev) {
			if err := t.store.AppendSnapshot(ctx, r.ID, *obs.Views, now); err != nil {
				t.logger.Warn("Could not record snapshot",
					zap.String("video_id", r.ID),
					zap.Error(err),
				)
				continue
			}
			metrics.ObserveSnapshot()
			t.logger.Debug("Snapshot recorded",
				zap.String("video_id", r.ID),
				zap.Int64p("previous", prev),
				zap.Int64p("latest", obs.Views),
			)
		}
	}

	metrics.ObserveScrapeResults("saved", len(results)-skipped)
	metrics.ObserveScrapeResults("skipped", skipped)
	t.logger.Info("Saved scrape batch",
		zap.String("query", query),
		zap.Int("results", len(results)),
		zap.Int("new", newCount),
	)
	return newCount, nil
}

// Search scrapes a single query and saves the results. It returns the
// scraped records and the count of newly created pairs. A fetch failure
// surfaces as zero results, not an error.
func (t *Tracker) Search(ctx context.Context, query string) ([]Video, int, error) {
	results, err := t.scraper.Search(ctx, query)
	if err != nil {
		metrics.ObserveScrapeFailure()
		t.logger.Warn("Scrape failed", zap.String("query", query), zap.Error(err))
		return nil, 0, nil
	}
	if len(results) == 0 {
		return nil, 0, nil
	}
	newCount, err := t.Save(ctx, results, query)
	if err != nil {
		return results, 0, fmt.Errorf("save results: %w", err)
	}
	return results, newCount, nil
}

// RunOnce performs one tracker pass over every tracked query,
// sequentially. Cancellation takes effect between queries only: the
// in-flight scrape-then-save runs on a detached context so its
// observations and snapshots always land.
func (t *Tracker) RunOnce(ctx context.Context) (RunReport, error) {
	queries, err := t.store.ListTrackedQueries(ctx)
	if err != nil {
		return RunReport{}, fmt.Errorf("list tracked queries: %w", err)
	}

	report := RunReport{Queries: len(queries)}
	if len(queries) == 0 {
		return report, nil
	}

	queryCtx := context.WithoutCancel(ctx)

	t.logger.Info("Tracker pass started", zap.Int("queries", len(queries)))
	for _, q := range queries {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		results, saved, err := t.Search(queryCtx, q)
		if err != nil {
			t.logger.Warn("Tracker query failed", zap.String("query", q), zap.Error(err))
			continue
		}
		report.Results += len(results)
		report.New += saved
	}

	metrics.ObserveTrackerRun()
	t.logger.Info("Tracker pass complete",
		zap.Int("results", report.Results),
		zap.Int("new", report.New),
	)
	return report, nil
}
