package obs

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	optimizationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "route_optimizer_optimizations_total",
		Help: "Optimization runs by outcome (ok, partial, invalid, failed, canceled).",
	}, []string{"outcome"})

	subsetEvaluationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "route_optimizer_subset_evaluations_total",
		Help: "Optional-stop subset evaluations by result.",
	}, []string{"result"})

	memoEntriesComputed = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "route_optimizer_memo_entries",
		Help:    "Held-Karp memo entries computed per optimization run.",
		Buckets: prometheus.ExponentialBuckets(1, 4, 12),
	})

	optimizeDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "route_optimizer_duration_seconds",
		Help:    "Wall-clock time of one optimization run.",
		Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
	})

	costCacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "route_optimizer_cost_cache_lookups_total",
		Help: "Cost pair lookups by cache layer and result.",
	}, []string{"layer", "result"})
)

// RecordOptimization records the outcome of one optimization run.
func RecordOptimization(outcome string, dur time.Duration, memoEntries int) {
	optimizationsTotal.WithLabelValues(outcome).Inc()
	optimizeDuration.Observe(dur.Seconds())
	if memoEntries > 0 {
		memoEntriesComputed.Observe(float64(memoEntries))
	}
}

// RecordSubset counts one subset evaluation.
func RecordSubset(result string) {
	subsetEvaluationsTotal.WithLabelValues(result).Inc()
}

// RecordCacheLookup counts hits and misses for a cost cache layer.
func RecordCacheLookup(layer string, hits, misses int) {
	if hits > 0 {
		costCacheLookups.WithLabelValues(layer, "hit").Add(float64(hits))
	}
	if misses > 0 {
		costCacheLookups.WithLabelValues(layer, "miss").Add(float64(misses))
	}
}
