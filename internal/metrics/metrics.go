// Package metrics defines and registers all custom Prometheus metrics for the
// club administration service. It is the single source of truth for metric
// names, labels, and help strings.
//
// Metrics are registered with the default registry on package init through
// promauto; HTTP metrics are added by the echoprometheus middleware.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "club"

// ── Store metrics ─────────────────────────────────────────────────────────────

// StoreMutationsTotal counts mutating store operations.
// Labels:
//   - operation: store method name (e.g. "add_task", "toggle_event_attendance")
//   - result: "ok", "noop", "invalid" or "persistence_error"
var StoreMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "store_mutations_total",
		Help:      "Total number of mutating store operations, by operation and result.",
	},
	[]string{"operation", "result"},
)

// StoreFlushDuration measures how long a full state flush to the key-value
// backend takes.
var StoreFlushDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "store_flush_duration_seconds",
		Help:      "Duration of writing the full state to the key-value backend.",
		Buckets:   prometheus.DefBuckets,
	},
)

// EntitiesTotal tracks the live size of each collection.
// Label:
//   - collection: "users", "tasks", "events", "meetings" or "news"
var EntitiesTotal = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "entities",
		Help:      "Current number of entities per collection.",
	},
	[]string{"collection"},
)

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Label:
//   - result: "success", "failure", "throttled" or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// ── Report metrics ────────────────────────────────────────────────────────────

// ReportDuration measures report generation end to end.
// Label:
//   - result: "ok", "timeout" or "error"
var ReportDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "report_duration_seconds",
		Help:      "Duration of club report generation, by result.",
		Buckets:   []float64{.1, .25, .5, 1, 2.5, 5, 10, 20, 30, 60},
	},
	[]string{"result"},
)
