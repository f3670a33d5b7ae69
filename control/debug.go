// control/debug.go
// Author: momentics <momentics@gmail.com>
//
// Runtime debug handler and probe reflector for internal inspection.

package control

import (
	"runtime"
	"sync"

	"github.com/momentics/hioload-ring/api"
)

// DebugProbes holds registered probe functions.
type DebugProbes struct {
	mu     sync.RWMutex
	probes map[string]func() any
}

var _ api.Debug = (*DebugProbes)(nil)

// NewDebugProbes creates a probe registry.
func NewDebugProbes() *DebugProbes {
	return &DebugProbes{
		probes: make(map[string]func() any),
	}
}

// RegisterProbe inserts a named debug hook.
func (dp *DebugProbes) RegisterProbe(name string, fn func() any) {
	dp.mu.Lock()
	defer dp.mu.Unlock()
	dp.probes[name] = fn
}

// BufferState is what RegisterBuffer probes report.
type BufferState struct {
	Count        int  `json:"count"`
	Available    int  `json:"available"`
	Capacity     int  `json:"capacity"`
	PushGateOpen bool `json:"push_gate_open"`
	PopGateOpen  bool `json:"pop_gate_open"`
}

// RegisterBuffer adds a probe reporting the live state of b.
func (dp *DebugProbes) RegisterBuffer(name string, b api.Inspector) {
	dp.RegisterProbe("buffer."+name, func() any {
		return BufferState{
			Count:        b.Len(),
			Available:    b.Available(),
			Capacity:     b.Cap(),
			PushGateOpen: b.PushGateOpen(),
			PopGateOpen:  b.PopGateOpen(),
		}
	})
}

// RegisterPlatformProbes sets runtime debug metrics.
func RegisterPlatformProbes(dp *DebugProbes) {
	dp.RegisterProbe("platform.cpus", func() any {
		return runtime.NumCPU()
	})
	dp.RegisterProbe("platform.goroutines", func() any {
		return runtime.NumGoroutine()
	})
}

// DumpState returns output of all probes.
func (dp *DebugProbes) DumpState() map[string]any {
	dp.mu.RLock()
	defer dp.mu.RUnlock()
	out := make(map[string]any)
	for k, fn := range dp.probes {
		out[k] = fn()
	}
	return out
}
