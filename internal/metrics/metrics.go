// Package metrics defines the Prometheus metrics exposed by the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// IngestsTotal counts ingestion requests by outcome
	IngestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "paperscope_ingests_total",
			Help: "Total number of ingestion requests",
		},
		[]string{"status"},
	)

	// IngestedPapersTotal counts papers upserted by successful ingestions
	IngestedPapersTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "paperscope_ingested_papers_total",
			Help: "Total number of papers upserted",
		},
	)

	// SearchesTotal counts search requests by outcome
	SearchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "paperscope_searches_total",
			Help: "Total number of search requests",
		},
		[]string{"status"},
	)

	// StageFailuresTotal counts collaborator failures by pipeline stage
	StageFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "paperscope_stage_failures_total",
			Help: "Total number of collaborator failures by stage",
		},
		[]string{"stage"},
	)

	// CacheHitsTotal counts metadata cache hits during hydration
	CacheHitsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "paperscope_cache_hits_total",
			Help: "Total number of metadata cache hits",
		},
	)

	// CacheMissesTotal counts metadata cache misses during hydration
	CacheMissesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "paperscope_cache_misses_total",
			Help: "Total number of metadata cache misses",
		},
	)

	// EmbedDurationSeconds measures the latency of embedding calls
	EmbedDurationSeconds = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "paperscope_embed_duration_seconds",
			Help:    "Duration of embedding provider calls",
			Buckets: prometheus.DefBuckets,
		},
	)

	// RequestDurationSeconds measures HTTP request latency by endpoint
	RequestDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "paperscope_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)
)
