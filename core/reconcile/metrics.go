package reconcile

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
)

// Prometheus metrics
var (
	runsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "search_indexer",
			Subsystem: "reconcile",
			Name:      "runs_total",
			Help:      "Total number of reconciliation runs by outcome",
		},
		[]string{"outcome"},
	)
	mutationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "search_indexer",
			Subsystem: "reconcile",
			Name:      "mutations_total",
			Help:      "Index mutations applied by base type and kind",
		},
		[]string{"base_type", "kind"},
	)
	runDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "search_indexer",
			Subsystem: "reconcile",
			Name:      "run_duration_seconds",
			Help:      "Duration of completed reconciliation runs in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 16),
		},
	)
	diffDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "search_indexer",
			Subsystem: "reconcile",
			Name:      "diff_duration_seconds",
			Help:      "Duration of a single base type diff in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 14),
		},
		[]string{"base_type"},
	)
)

const (
	outcomeApplied = "applied"
	outcomeDryRun  = "dry_run"
	outcomeSkipped = "skipped"
	outcomeFailed  = "failed"

	outcomeLockError = "lock_error"
)

var tracer = otel.Tracer("search-indexer/reconcile")

func init() {
	prometheus.MustRegister(runsTotal, mutationsTotal, runDuration, diffDuration)
}

// recordMutations adds the per base type counts of an applied diff.
func recordMutations(summary RunSummary) {
	for base, counts := range summary.PerBaseType {
		mutationsTotal.WithLabelValues(base, "add").Add(float64(counts.Added))
		mutationsTotal.WithLabelValues(base, "update").Add(float64(counts.Updated))
		mutationsTotal.WithLabelValues(base, "delete").Add(float64(counts.Deleted))
	}
}
