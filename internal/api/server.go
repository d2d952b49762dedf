// Package api exposes the browser-facing HTTP interface for the
// tracking database. It consumes only the store's read contracts.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/vidwatch/vidwatch/internal/export"
	"github.com/vidwatch/vidwatch/internal/metrics"
	"github.com/vidwatch/vidwatch/internal/tracker"
)

// Reader is the slice of the store the web UI needs. Presentation
// layers must not depend on storage internals.
type Reader interface {
	Trending(ctx context.Context, limit int) ([]tracker.TrendEntry, error)
	Duplicates(ctx context.Context) ([]tracker.DuplicateEntry, error)
	ListVideos(ctx context.Context, filter tracker.ListFilter) ([]tracker.Observation, error)
	DistinctQueries(ctx context.Context) ([]string, error)
	ListTrackedQueries(ctx context.Context) ([]string, error)
	Stats(ctx context.Context) (tracker.Stats, error)
}

const defaultTrendingLimit = 20

// Server wires HTTP handlers to the store's read side.
type Server struct {
	router chi.Router
	reader Reader
	logger *zap.Logger
}

// NewServer constructs a Server with middleware and routes.
func NewServer(reader Reader, logger *zap.Logger) *Server {
	s := &Server{
		reader: reader,
		logger: logger,
	}

	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoverMiddleware)
	r.Use(timeoutMiddleware(30 * time.Second))

	r.Get("/healthz", s.healthz)
	r.Handle("/metrics", metrics.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Get("/stats", s.getStats)
		r.Get("/videos", s.listVideos)
		r.Get("/trending", s.getTrending)
		r.Get("/duplicates", s.getDuplicates)
		r.Get("/queries", s.getQueries)
	})

	r.Get("/export.csv", s.exportCSV)

	s.router = r
	return s
}

// Handler returns the router for use with http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) getStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.reader.Stats(r.Context())
	if err != nil {
		s.serverError(w, "load stats", err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) listVideos(w http.ResponseWriter, r *http.Request) {
	filter := tracker.ListFilter{
		Keyword: r.URL.Query().Get("q"),
		Query:   r.URL.Query().Get("query"),
		Limit:   queryInt(r, "limit", 0),
	}
	videos, err := s.reader.ListVideos(r.Context(), filter)
	if err != nil {
		s.serverError(w, "list videos", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"count":  len(videos),
		"videos": videos,
	})
}

func (s *Server) getTrending(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", defaultTrendingLimit)
	if limit <= 0 {
		writeError(w, http.StatusBadRequest, "limit must be > 0")
		return
	}
	entries, err := s.reader.Trending(r.Context(), limit)
	if err != nil {
		s.serverError(w, "compute trending", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"count":    len(entries),
		"trending": entries,
	})
}

func (s *Server) getDuplicates(w http.ResponseWriter, r *http.Request) {
	entries, err := s.reader.Duplicates(r.Context())
	if err != nil {
		s.serverError(w, "compute duplicates", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"count":      len(entries),
		"duplicates": entries,
	})
}

func (s *Server) getQueries(w http.ResponseWriter, r *http.Request) {
	distinct, err := s.reader.DistinctQueries(r.Context())
	if err != nil {
		s.serverError(w, "list queries", err)
		return
	}
	tracked, err := s.reader.ListTrackedQueries(r.Context())
	if err != nil {
		s.serverError(w, "list tracked queries", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"queries": distinct,
		"tracked": tracked,
	})
}

// exportCSV streams a CSV download of the browse view, optionally
// narrowed to one query.
func (s *Server) exportCSV(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	// A download covers every row, not the browse page's default cap.
	rows, err := s.reader.ListVideos(r.Context(), tracker.ListFilter{Query: query, Limit: -1})
	if err != nil {
		s.serverError(w, "list videos for export", err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition",
		"attachment; filename="+export.Filename(query, time.Now().UTC()))
	if err := export.Write(w, rows); err != nil {
		s.logger.Error("CSV export failed", zap.Error(err))
	}
}

func (s *Server) serverError(w http.ResponseWriter, action string, err error) {
	s.logger.Error("Request failed", zap.String("action", action), zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal server error")
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
