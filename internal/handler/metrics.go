package handler

import (
	"fmt"
	"net/http"

	"github.com/keywatch/keywatch/internal/metrics"
)

// MetricsHandler exposes in-memory metrics.
type MetricsHandler struct {
	snapshotter metrics.Snapshotter
}

// NewMetricsHandler creates a new MetricsHandler.
func NewMetricsHandler(snapshotter metrics.Snapshotter) *MetricsHandler {
	return &MetricsHandler{snapshotter: snapshotter}
}

// Metrics returns metrics in Prometheus exposition format.
func (h *MetricsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	if h.snapshotter == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	snap := h.snapshotter.Snapshot()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	writeMetric(w, "keywatch_monitors_created_total %d\n", snap.MonitorsCreated)
	writeMetric(w, "keywatch_monitor_delete_requests_total %d\n", snap.MonitorDeleteRequests)

	writeMetric(w, "keywatch_monitor_cache_hits_total %d\n", snap.MonitorCacheHits)
	writeMetric(w, "keywatch_monitor_cache_misses_total %d\n", snap.MonitorCacheMisses)

	writeMetric(w, "keywatch_session_errors_total %d\n", snap.SessionErrors)
	writeMetric(w, "keywatch_session_duration_seconds_count %d\n", snap.SessionDurationCount)
	writeMetric(w, "keywatch_session_duration_seconds_sum %.6f\n", float64(snap.SessionDurationTotalNs)/1e9)
}

func writeMetric(w http.ResponseWriter, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
