// Package api
// Author: momentics
//
// Live introspection contract for buffers in production.

package api

// Debug collects named probes and reports them on demand.
type Debug interface {
	// DumpState evaluates every probe and returns the results by name.
	DumpState() map[string]any

	// RegisterProbe adds or replaces a probe.
	RegisterProbe(name string, fn func() any)

	// RegisterBuffer adds a probe reporting b's occupancy and gates.
	RegisterBuffer(name string, b Inspector)
}
