package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncMonitorCreated is a no-op.
func (n *NoopRecorder) IncMonitorCreated() {}

// IncMonitorDeleteRequest is a no-op.
func (n *NoopRecorder) IncMonitorDeleteRequest() {}

// IncMonitorCacheHit is a no-op.
func (n *NoopRecorder) IncMonitorCacheHit() {}

// IncMonitorCacheMiss is a no-op.
func (n *NoopRecorder) IncMonitorCacheMiss() {}

// IncSessionError is a no-op.
func (n *NoopRecorder) IncSessionError() {}

// ObserveSessionDuration is a no-op.
func (n *NoopRecorder) ObserveSessionDuration(duration time.Duration) {}
