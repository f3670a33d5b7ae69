// File: ring/ring.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Typed element ring over a caller-owned slice.

package ring

import (
	"unsafe"

	"github.com/momentics/hioload-ring/api"
)

// Ensure compile-time interface compliance.
var (
	_ api.Ring[any]   = (*Ring[any])(nil)
	_ api.Stream[any] = (*Ring[any])(nil)
	_ api.Gated       = (*Ring[any])(nil)
	_ api.Snapshotter = (*Ring[any])(nil)
	_ api.Inspector   = (*Ring[any])(nil)
)

// Ring is a fixed-capacity FIFO of T stored in a slice it does not own.
type Ring[T any] struct {
	buffer[T]
}

// New binds a ring to storage; capacity is len(storage).
// The ring starts empty with both gates open.
func New[T any](storage []T, opts ...Option) *Ring[T] {
	r := &Ring[T]{}
	r.init(storage, len(storage), 1, opts)
	return r
}

// Push appends one element; false when full or the push gate is closed.
func (r *Ring[T]) Push(item T) bool {
	return r.TryPush(item) == nil
}

// TryPush is Push reporting why it was refused.
func (r *Ring[T]) TryPush(item T) error {
	one := [1]T{item}
	return r.push(one[:], 1)
}

// Pop removes the oldest element; false when empty or the pop gate is closed.
func (r *Ring[T]) Pop() (T, bool) {
	item, err := r.TryPop()
	return item, err == nil
}

// TryPop is Pop reporting why nothing was popped.
func (r *Ring[T]) TryPop() (T, error) {
	var one [1]T
	_, err := r.pop(one[:], 1)
	return one[0], err
}

// ElementSize returns the in-memory size of one element in bytes.
func (r *Ring[T]) ElementSize() int {
	var zero T
	return int(unsafe.Sizeof(zero))
}
