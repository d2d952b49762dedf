// Package metrics exposes Prometheus collectors for the tracking service.
package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	scrapeResultsTotal         *prometheus.CounterVec
	scrapeFailuresTotal        prometheus.Counter
	videosNewTotal             prometheus.Counter
	snapshotsRecordedTotal     prometheus.Counter
	trackerRunsTotal           prometheus.Counter
	httpRequestsTotal          *prometheus.CounterVec
	httpRequestDurationSeconds *prometheus.HistogramVec

	once sync.Once
)

// Init initializes the Prometheus metrics collectors.
// It is safe to call this function multiple times.
func Init() {
	once.Do(func() {
		scrapeResultsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vidwatch_scrape_results_total",
				Help: "Total number of video records returned by scrapes, labeled by outcome.",
			},
			[]string{"outcome"},
		)

		scrapeFailuresTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "vidwatch_scrape_failures_total",
				Help: "Total fetch or extraction failures reported by the scraper.",
			},
		)

		videosNewTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "vidwatch_videos_new_total",
				Help: "Total number of new (video, query) pairs created.",
			},
		)

		snapshotsRecordedTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "vidwatch_snapshots_recorded_total",
				Help: "Total number of view snapshots appended.",
			},
		)

		trackerRunsTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "vidwatch_tracker_runs_total",
				Help: "Total number of completed tracker passes over tracked queries.",
			},
		)

		httpRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests, labeled by method and code.",
			},
			[]string{"method", "code"},
		)

		httpRequestDurationSeconds = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Histogram of HTTP request latencies, labeled by method and route.",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
			},
			[]string{"method", "route"},
		)
	})
}

// Handler returns an http.Handler for exposing Prometheus metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveScrapeResults counts records saved or skipped during a batch save.
func ObserveScrapeResults(outcome string, n int) {
	if n > 0 {
		scrapeResultsTotal.WithLabelValues(outcome).Add(float64(n))
	}
}

// ObserveScrapeFailure counts a failed fetch/extraction.
func ObserveScrapeFailure() {
	scrapeFailuresTotal.Inc()
}

// ObserveNewVideo counts a newly created (video, query) pair.
func ObserveNewVideo() {
	videosNewTotal.Inc()
}

// ObserveSnapshot counts an appended view snapshot.
func ObserveSnapshot() {
	snapshotsRecordedTotal.Inc()
}

// ObserveTrackerRun counts a completed tracker pass.
func ObserveTrackerRun() {
	trackerRunsTotal.Inc()
}

// ObserveHTTPRequest increments the HTTP request metrics.
func ObserveHTTPRequest(method, route string, code int, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, strconv.Itoa(code)).Inc()
	httpRequestDurationSeconds.WithLabelValues(method, route).Observe(duration.Seconds())
}
