// Package metrics exposes Prometheus instrumentation for fetches and fusion runs.
package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Fetch outcomes.
const (
	FetchFetched  = "fetched"
	FetchReused   = "reused"
	FetchFallback = "fallback"
	FetchFailed   = "failed"
)

// Fusion outcomes.
const (
	FusionFused   = "fused"
	FusionSkipped = "skipped"
	FusionFailed  = "failed"
)

var (
	registerOnce sync.Once

	fetches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "whichllm",
			Subsystem: "source",
			Name:      "fetches_total",
			Help:      "Source snapshot resolutions by outcome.",
		},
		[]string{"source", "outcome"},
	)
	fetchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "whichllm",
			Subsystem: "source",
			Name:      "fetch_duration_seconds",
			Help:      "Upstream fetch duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"source"},
	)
	droppedRecords = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "whichllm",
			Subsystem: "source",
			Name:      "dropped_records_total",
			Help:      "Records dropped for missing identity fields.",
		},
		[]string{"source"},
	)
	fusionRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "whichllm",
			Subsystem: "fusion",
			Name:      "runs_total",
			Help:      "Fusion runs by outcome.",
		},
		[]string{"outcome"},
	)
	fusionDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "whichllm",
			Subsystem: "fusion",
			Name:      "duration_seconds",
			Help:      "Fusion run duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
	)
	matches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "whichllm",
			Subsystem: "fusion",
			Name:      "matches_total",
			Help:      "Match results by confidence.",
		},
		[]string{"confidence"},
	)
	ambiguities = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "whichllm",
			Subsystem: "fusion",
			Name:      "ambiguities_total",
			Help:      "Duplicate keys and multi-candidate fuzzy lookups.",
		},
	)
	mergedModels = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "whichllm",
			Subsystem: "fusion",
			Name:      "merged_models",
			Help:      "Entities in the committed merged view.",
		},
	)
)

// Register registers all collectors with the default registry once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			fetches, fetchDuration, droppedRecords,
			fusionRuns, fusionDuration, matches, ambiguities, mergedModels,
		)
	})
}

// Handler returns the HTTP handler serving the default registry.
func Handler() http.Handler {
	Register()
	return promhttp.Handler()
}

// RecordFetch records how a source snapshot was resolved.
func RecordFetch(source, outcome string, duration time.Duration, dropped int) {
	Register()
	fetches.WithLabelValues(source, outcome).Inc()
	if outcome == FetchFetched || outcome == FetchFallback || outcome == FetchFailed {
		fetchDuration.WithLabelValues(source).Observe(duration.Seconds())
	}
	if dropped > 0 {
		droppedRecords.WithLabelValues(source).Add(float64(dropped))
	}
}

// RecordFusion records a fusion run.
func RecordFusion(outcome string, duration time.Duration) {
	Register()
	fusionRuns.WithLabelValues(outcome).Inc()
	fusionDuration.Observe(duration.Seconds())
}

// RecordMatches records match counts from one fusion.
func RecordMatches(exact, fuzzy, unmatched, ambiguous int) {
	Register()
	matches.WithLabelValues("exact").Add(float64(exact))
	matches.WithLabelValues("fuzzy").Add(float64(fuzzy))
	matches.WithLabelValues("unmatched").Add(float64(unmatched))
	ambiguities.Add(float64(ambiguous))
}

// SetMergedModels records the size of the committed merged view.
func SetMergedModels(n int) {
	Register()
	mergedModels.Set(float64(n))
}
