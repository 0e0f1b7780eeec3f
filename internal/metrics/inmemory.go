package metrics

import (
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	MonitorsCreated        uint64
	MonitorDeleteRequests  uint64
	MonitorCacheHits       uint64
	MonitorCacheMisses     uint64
	SessionErrors          uint64
	SessionDurationCount   uint64
	SessionDurationTotalNs int64
}

// InMemoryRecorder stores metrics in memory for tests and the /metrics endpoint.
type InMemoryRecorder struct {
	monitorsCreated        uint64
	monitorDeleteRequests  uint64
	monitorCacheHits       uint64
	monitorCacheMisses     uint64
	sessionErrors          uint64
	sessionDurationCount   uint64
	sessionDurationTotalNs int64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		MonitorsCreated:        atomic.LoadUint64(&m.monitorsCreated),
		MonitorDeleteRequests:  atomic.LoadUint64(&m.monitorDeleteRequests),
		MonitorCacheHits:       atomic.LoadUint64(&m.monitorCacheHits),
		MonitorCacheMisses:     atomic.LoadUint64(&m.monitorCacheMisses),
		SessionErrors:          atomic.LoadUint64(&m.sessionErrors),
		SessionDurationCount:   atomic.LoadUint64(&m.sessionDurationCount),
		SessionDurationTotalNs: atomic.LoadInt64(&m.sessionDurationTotalNs),
	}
}

// IncMonitorCreated increments the monitor created counter.
func (m *InMemoryRecorder) IncMonitorCreated() {
	atomic.AddUint64(&m.monitorsCreated, 1)
}

// IncMonitorDeleteRequest increments the successful delete request counter.
func (m *InMemoryRecorder) IncMonitorDeleteRequest() {
	atomic.AddUint64(&m.monitorDeleteRequests, 1)
}

// IncMonitorCacheHit increments the cache hit counter.
func (m *InMemoryRecorder) IncMonitorCacheHit() {
	atomic.AddUint64(&m.monitorCacheHits, 1)
}

// IncMonitorCacheMiss increments the cache miss counter.
func (m *InMemoryRecorder) IncMonitorCacheMiss() {
	atomic.AddUint64(&m.monitorCacheMisses, 1)
}

// IncSessionError increments the failed session counter.
func (m *InMemoryRecorder) IncSessionError() {
	atomic.AddUint64(&m.sessionErrors, 1)
}

// ObserveSessionDuration records how long a unit of work held its connection.
func (m *InMemoryRecorder) ObserveSessionDuration(duration time.Duration) {
	atomic.AddUint64(&m.sessionDurationCount, 1)
	atomic.AddInt64(&m.sessionDurationTotalNs, duration.Nanoseconds())
}
