// File: pool/region.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Contiguous byte regions backing Blocks rings.

package pool

import (
	"errors"
	"fmt"
	"sync"

	"github.com/momentics/hioload-ring/api"
)

// Region is a contiguous byte area owned by the caller until Close.
type Region struct {
	data   []byte
	mapped bool
	locked bool
	once   sync.Once
	err    error
}

// Release steps used by Close.
var (
	unlockRegion = platformUnlock
	unmapRegion  = platformUnmap
)

type regionOptions struct {
	mapped bool
	locked bool
}

// RegionOption configures Allocate.
type RegionOption func(*regionOptions)

// WithHeap skips memory mapping and uses the Go heap.
func WithHeap() RegionOption {
	return func(o *regionOptions) { o.mapped = false }
}

// WithLocked pins the region in RAM (best effort; see Region.Locked).
func WithLocked() RegionOption {
	return func(o *regionOptions) { o.locked = true }
}

// Allocate returns a zeroed region of size bytes. Mapping is tried first
// where the platform supports it, falling back to the heap.
func Allocate(size int, opts ...RegionOption) (*Region, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: region size %d", api.ErrInvalidArgument, size)
	}
	o := regionOptions{mapped: true}
	for _, opt := range opts {
		opt(&o)
	}
	r := &Region{}
	if o.mapped {
		if data, err := platformMap(size); err == nil {
			r.data = data
			r.mapped = true
		}
	}
	if r.data == nil {
		r.data = make([]byte, size)
	}
	if o.locked {
		r.locked = platformLock(r.data) == nil
	}
	return r, nil
}

// AllocateBlocks allocates room for capacity records of elementSize.
func AllocateBlocks(capacity, elementSize int, opts ...RegionOption) (*Region, error) {
	size, err := SizeFor(capacity, elementSize)
	if err != nil {
		return nil, err
	}
	return Allocate(size, opts...)
}

// Bytes returns the region memory. It must not be used after Close.
func (r *Region) Bytes() []byte { return r.data }

// Len returns the region size in bytes.
func (r *Region) Len() int { return len(r.data) }

// Mapped reports whether the region lives outside the Go heap.
func (r *Region) Mapped() bool { return r.mapped }

// Locked reports whether the region was pinned in RAM.
func (r *Region) Locked() bool { return r.locked }

// Close releases the region. Further calls return the first result.
func (r *Region) Close() error {
	r.once.Do(func() {
		var unlockErr, unmapErr error
		if r.locked {
			unlockErr = unlockRegion(r.data)
		}
		if r.mapped {
			unmapErr = unmapRegion(r.data)
		}
		r.err = errors.Join(unlockErr, unmapErr)
		r.data = nil
	})
	return r.err
}
