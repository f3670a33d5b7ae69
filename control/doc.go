// Package control
// Author: momentics <momentics@gmail.com>
//
// Runtime metrics, debug introspection and configuration for ring buffers.
//
// Provides concurrent-safe state handling primitives including:
//   - Metrics snapshots of buffer statistics and a Prometheus collector
//   - Debug probes dumping live buffer state
//   - YAML configuration with file-watch hot reload and listeners
//
// Nothing here sits on a buffer's hot path: collectors and probes only read
// counters the buffer already maintains.
package control
