// control/metrics.go
// Author: momentics <momentics@gmail.com>
//
// Runtime metrics collector for buffer monitoring.
// Exposes counters in a thread-safe map with dynamic registration.

package control

import (
	"sync"
	"time"

	"github.com/momentics/hioload-ring/ring"
)

// MetricsRegistry holds mutable and read-only metrics.
type MetricsRegistry struct {
	mu      sync.RWMutex
	metrics map[string]any
	updated time.Time
}

// NewMetricsRegistry creates an empty registry.
func NewMetricsRegistry() *MetricsRegistry {
	return &MetricsRegistry{
		metrics: make(map[string]any),
	}
}

// Set sets or updates a metric key.
func (mr *MetricsRegistry) Set(key string, value any) {
	mr.mu.Lock()
	mr.metrics[key] = value
	mr.updated = time.Now()
	mr.mu.Unlock()
}

// PublishStats stores a snapshot of s under name-prefixed keys.
func (mr *MetricsRegistry) PublishStats(name string, s *ring.Stats) {
	snap := s.Snapshot()
	mr.mu.Lock()
	defer mr.mu.Unlock()
	for k, v := range map[string]any{
		"pushed":              snap.Pushed,
		"popped":              snap.Popped,
		"pushed_back":         snap.PushedBack,
		"rejected_full":       snap.RejectedFull,
		"rejected_push_gated": snap.RejectedPushGated,
		"rejected_empty":      snap.RejectedEmpty,
		"rejected_pop_gated":  snap.RejectedPopGated,
		"rejected_push_back":  snap.RejectedPushBack,
		"restores":            snap.Restores,
		"flushes":             snap.Flushes,
		"high_water":          snap.HighWater,
	} {
		mr.metrics[name+"."+k] = v
	}
	mr.updated = time.Now()
}

// Updated returns the time of the last write.
func (mr *MetricsRegistry) Updated() time.Time {
	mr.mu.RLock()
	defer mr.mu.RUnlock()
	return mr.updated
}

// GetSnapshot returns the latest metrics.
func (mr *MetricsRegistry) GetSnapshot() map[string]any {
	mr.mu.RLock()
	defer mr.mu.RUnlock()
	out := make(map[string]any, len(mr.metrics))
	for k, v := range mr.metrics {
		out[k] = v
	}
	return out
}
