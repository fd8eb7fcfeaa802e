// Package observability provides Prometheus metrics and OpenTelemetry
// tracing for the transcript integration pipeline.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for transcript processing.
type Metrics struct {
	// Extraction metrics
	ExtractionsTotal *prometheus.CounterVec
	ExtractionTokens *prometheus.CounterVec

	// Resolution metrics
	ResolutionsTotal *prometheus.CounterVec
	TopicsCreated    prometheus.Counter

	// Run metrics
	RunsTotal         *prometheus.CounterVec
	RunDurationSecond *prometheus.HistogramVec
}

// DefaultMetrics creates metrics on the default registerer.
func DefaultMetrics() *Metrics {
	return NewMetrics(prometheus.DefaultRegisterer)
}

// NewMetrics creates a new set of transcript processing metrics.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		ExtractionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scribe_extractions_total",
				Help: "Extraction calls by category and outcome",
			},
			[]string{"category", "status"},
		),
		ExtractionTokens: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scribe_extraction_tokens_total",
				Help: "Completion tokens spent per extraction category",
			},
			[]string{"category"},
		),
		ResolutionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scribe_resolutions_total",
				Help: "Name resolutions by entity type and outcome",
			},
			[]string{"entity_type", "outcome"},
		),
		TopicsCreated: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "scribe_topics_created_total",
				Help: "New topics created during processing runs",
			},
		),
		RunsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scribe_runs_total",
				Help: "Processing runs by terminal status",
			},
			[]string{"status"},
		),
		RunDurationSecond: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "scribe_run_duration_seconds",
				Help:    "End-to-end processing run duration",
				Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600},
			},
			[]string{"status"},
		),
	}
}

// Label values used with Metrics counters.
const (
	StatusOK       = "ok"
	StatusDegraded = "degraded"
	StatusFailed   = "failed"

	OutcomeResolved = "resolved"
	OutcomeCreated  = "created"
	OutcomeDropped  = "dropped"
)
