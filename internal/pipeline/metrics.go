package pipeline

import (
	"sync"
	"time"
)

// RunMetrics accumulates counters across pipeline runs.
type RunMetrics struct {
	RunsCompleted     int64
	UplinksEnriched   int64
	UplinksOrphaned   int64
	UplinksUnparked   int64
	UplinksMarked     int64
	UplinksUnpacked   int64
	UplinksFailed     int64
	UplinksRetried    int64
	ReadingsForwarded int64
	ForwardsFailed    int64
	LastRunAt         time.Time
	LastRunDuration   time.Duration
}

// MetricsTracker is a goroutine-safe wrapper around RunMetrics.
type MetricsTracker struct {
	mu      sync.RWMutex
	metrics RunMetrics
}

func NewMetricsTracker() *MetricsTracker {
	return &MetricsTracker{}
}

// Update applies a mutation under the lock.
func (t *MetricsTracker) Update(fn func(*RunMetrics)) {
	if fn == nil {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	fn(&t.metrics)
}

// Snapshot returns a copy of the current metrics.
func (t *MetricsTracker) Snapshot() RunMetrics {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.metrics
}
