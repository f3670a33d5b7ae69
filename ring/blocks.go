// File: ring/blocks.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Ring of opaque fixed-size records over a caller-owned byte region.

package ring

import "github.com/momentics/hioload-ring/api"

var (
	_ api.Stream[byte] = (*Blocks)(nil)
	_ api.Gated        = (*Blocks)(nil)
	_ api.Snapshotter  = (*Blocks)(nil)
	_ api.Inspector    = (*Blocks)(nil)
)

// Blocks stores capacity records of elementSize bytes each. Stream
// operations take byte slices but count in records.
type Blocks struct {
	buffer[byte]
}

// NewBlocks binds a record ring to storage, which must hold at least
// capacity*elementSize bytes.
func NewBlocks(storage []byte, capacity, elementSize int, opts ...Option) *Blocks {
	b := &Blocks{}
	b.init(storage, capacity, elementSize, opts)
	return b
}

// Push copies the first ElementSize bytes of elem in as one record.
func (b *Blocks) Push(elem []byte) bool {
	return b.TryPush(elem) == nil
}

// TryPush is Push reporting why it was refused.
func (b *Blocks) TryPush(elem []byte) error {
	if len(elem) < b.width {
		return api.Wrap(api.ErrInvalidArgument, "push record").
			WithContext("len", len(elem)).
			WithContext("elementSize", b.width)
	}
	return b.push(elem, 1)
}

// Pop copies the oldest record into dst and returns 1, or 0 when nothing
// was popped.
func (b *Blocks) Pop(dst []byte) int {
	n, _ := b.TryPop(dst)
	return n
}

// TryPop is Pop reporting why nothing was popped.
func (b *Blocks) TryPop(dst []byte) (int, error) {
	if len(dst) < b.width {
		return 0, api.Wrap(api.ErrInvalidArgument, "pop record").
			WithContext("len", len(dst)).
			WithContext("elementSize", b.width)
	}
	return b.pop(dst, 1)
}

// ElementSize returns the record size in bytes.
func (b *Blocks) ElementSize() int {
	return b.width
}
