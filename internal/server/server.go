// Package server exposes the ingest and search pipelines over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matsen/paperscope/internal/metrics"
	"github.com/matsen/paperscope/internal/paper"
	"github.com/matsen/paperscope/internal/pipeline"
)

// DefaultK is the result count used when the search request omits k.
const DefaultK = 3

// Ingestor runs the ingest pipeline for a topic.
type Ingestor interface {
	Ingest(ctx context.Context, topic string) ([]string, error)
}

// Searcher runs the search pipeline for a query.
type Searcher interface {
	Search(ctx context.Context, query string, k int) ([]paper.SearchResult, error)
}

// Server routes HTTP requests to the pipelines.
type Server struct {
	ingestor Ingestor
	searcher Searcher
	logger   *slog.Logger
	timeout  time.Duration
	mux      *http.ServeMux
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// WithTimeout bounds the time spent serving a single request.
func WithTimeout(d time.Duration) Option {
	return func(s *Server) { s.timeout = d }
}

// New creates a Server around the given pipelines.
func New(ingestor Ingestor, searcher Searcher, opts ...Option) *Server {
	s := &Server{
		ingestor: ingestor,
		searcher: searcher,
		logger:   slog.Default(),
		timeout:  60 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.HandleFunc("GET /upsert_papers", s.handleUpsert)
	mux.HandleFunc("GET /search", s.handleSearch)
	mux.Handle("GET /metrics", promhttp.Handler())
	s.mux = mux
	return s
}

// Handler returns the server's HTTP handler with request logging applied.
func (s *Server) Handler() http.Handler {
	return s.logRequests(s.mux)
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleUpsert(w http.ResponseWriter, r *http.Request) {
	topic := r.URL.Query().Get("query")
	if topic == "" {
		writeError(w, http.StatusBadRequest, "query parameter is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()

	ids, err := s.ingestor.Ingest(ctx, topic)
	if err != nil {
		s.writePipelineError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"upserted_ids": ids})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := q.Get("query")
	if query == "" {
		writeError(w, http.StatusBadRequest, "query parameter is required")
		return
	}

	k := DefaultK
	if raw := q.Get("k"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "k must be an integer")
			return
		}
		k = parsed
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()

	results, err := s.searcher.Search(ctx, query, k)
	if err != nil {
		s.writePipelineError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]paper.SearchResult{"results": results})
}

// writePipelineError maps pipeline errors onto HTTP statuses: user errors
// become 400, an empty feed becomes 404, and collaborator failures become
// 502 naming the failed stage.
func (s *Server) writePipelineError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, pipeline.ErrNoResults):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, pipeline.ErrInvalidK):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		stage := pipeline.FailedStage(err)
		s.logger.Error("pipeline failure",
			"path", r.URL.Path,
			"stage", stage,
			"error", err)
		writeError(w, http.StatusBadGateway, err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encoding response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		elapsed := time.Since(start)

		if r.URL.Path != "/metrics" {
			metrics.RequestDurationSeconds.WithLabelValues(r.URL.Path).Observe(elapsed.Seconds())
		}
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", elapsed)
	})
}
