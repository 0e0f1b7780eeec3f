// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Monitor lifecycle metrics
	IncMonitorCreated()
	// IncMonitorDeleteRequest counts successful delete calls, including
	// calls for IDs that did not exist.
	IncMonitorDeleteRequest()

	// Cache metrics
	IncMonitorCacheHit()
	IncMonitorCacheMiss()

	// Session metrics
	IncSessionError()
	ObserveSessionDuration(duration time.Duration)
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
