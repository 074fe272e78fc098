package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Reconciliation decisions
	LinkDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "medialink_link_decisions_total",
			Help: "Total number of link decisions by entry and outcome",
		},
		[]string{"entry", "decision"}, // "create", "override", "noop"
	)

	AdmissionRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "medialink_admission_rejections_total",
			Help: "Total number of files rejected by the admission filter",
		},
		[]string{"entry", "reason"},
	)

	ClassificationSkips = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "medialink_classification_skips_total",
			Help: "Total number of admitted files skipped during classification",
		},
		[]string{"entry"},
	)

	// Pass metrics
	PassDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "medialink_pass_duration_seconds",
			Help:    "Duration of reconciliation passes in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 15, 60, 300},
		},
		[]string{"entry", "status"},
	)

	PassErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "medialink_pass_errors_total",
			Help: "Total number of reconciliation passes aborted by an error",
		},
		[]string{"entry"},
	)

	// Filesystem metrics
	ApplyErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "medialink_apply_errors_total",
			Help: "Total number of swallowed filesystem errors while applying links",
		},
		[]string{"operation"}, // "mkdir", "symlink", "unlink"
	)

	LinksApplied = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "medialink_links_applied_total",
			Help: "Total number of symbolic links created on disk",
		},
	)

	RegistryRecords = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "medialink_registry_records",
			Help: "Current number of records in the link registry",
		},
	)

	// Watcher metrics
	WatchEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "medialink_watch_events_total",
			Help: "Total number of filesystem events handled by the watcher",
		},
		[]string{"entry", "event"}, // "create", "delete"
	)
)

// RecordDecision counts a link decision for an entry.
func RecordDecision(entry int, decision string) {
	LinkDecisions.WithLabelValues(strconv.Itoa(entry), decision).Inc()
}

// RecordRejection counts an admission rejection.
func RecordRejection(entry int, reason string) {
	AdmissionRejections.WithLabelValues(strconv.Itoa(entry), reason).Inc()
}

// RecordSkip counts a classification skip.
func RecordSkip(entry int) {
	ClassificationSkips.WithLabelValues(strconv.Itoa(entry)).Inc()
}

// RecordPass observes a finished pass; failed passes are also counted as errors.
func RecordPass(entry int, status string, duration time.Duration, err error) {
	label := strconv.Itoa(entry)
	if err != nil {
		PassErrors.WithLabelValues(label).Inc()
		status = "failed"
	}
	PassDuration.WithLabelValues(label, status).Observe(duration.Seconds())
}

// RecordApplyError counts a swallowed filesystem failure.
func RecordApplyError(operation string) {
	ApplyErrors.WithLabelValues(operation).Inc()
}

// RecordLinkApplied counts a symbolic link written to disk.
func RecordLinkApplied() {
	LinksApplied.Inc()
}

// SetRegistryRecords updates the registry size gauge.
func SetRegistryRecords(n int) {
	RegistryRecords.Set(float64(n))
}

// RecordWatchEvent counts a watcher event dispatched to an entry.
func RecordWatchEvent(entry int, event string) {
	WatchEvents.WithLabelValues(strconv.Itoa(entry), event).Inc()
}
