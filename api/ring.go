// Package api
// Author: momentics <momentics@gmail.com>
//
// Element ring contracts shared by the buffer, its backlog and observers.

package api

// Ring is a fixed-capacity element ring contract.
type Ring[T any] interface {
	// Push adds an item, returns false if full or gated.
	Push(item T) bool
	// Pop removes oldest item, returns false if empty or gated.
	Pop() (T, bool)
	// Len returns current number of items.
	Len() int
	// Cap returns buffer capacity.
	Cap() int
}

// Stream moves runs of contiguous elements in one call.
type Stream[T any] interface {
	// PushStream pushes all of data or nothing.
	PushStream(data []T) bool
	// PopStream pops up to len(dst) elements and reports how many.
	PopStream(dst []T) int
}

// Gated exposes the per-direction enable flags.
type Gated interface {
	EnablePush()
	DisablePush()
	EnablePop()
	DisablePop()
	PushGateOpen() bool
	PopGateOpen() bool
}

// Snapshotter saves and restores the buffer counters for speculative reads.
type Snapshotter interface {
	SaveState()
	RestoreState()
	// PushBack returns n previously popped elements to the front.
	PushBack(n int) bool
}

// Inspector is the read-only view used by probes and collectors.
type Inspector interface {
	Len() int
	Cap() int
	Available() int
	PushGateOpen() bool
	PopGateOpen() bool
}
