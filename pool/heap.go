// File: pool/heap.go
// Author: momentics <momentics@gmail.com>

package pool

import (
	"fmt"
	"unsafe"

	"github.com/momentics/hioload-ring/api"
)

// NewHeap allocates n slots of T on the Go heap.
func NewHeap[T any](n int) []T {
	if n <= 0 {
		panic("pool: storage length must be positive")
	}
	return make([]T, n)
}

// SizeFor returns the bytes needed for capacity elements of elementSize.
func SizeFor(capacity, elementSize int) (int, error) {
	if capacity <= 0 || elementSize <= 0 {
		return 0, fmt.Errorf("%w: capacity %d, element size %d", api.ErrInvalidArgument, capacity, elementSize)
	}
	if capacity > int(^uint(0)>>1)/elementSize {
		return 0, fmt.Errorf("%w: %d x %d overflows", api.ErrInvalidArgument, capacity, elementSize)
	}
	return capacity * elementSize, nil
}

// BlocksFor returns how many records of elementSize fit in r.
func BlocksFor(r *Region, elementSize int) int {
	if r == nil || elementSize <= 0 {
		return 0
	}
	return r.Len() / elementSize
}

// SizeOf returns the in-memory size of one T.
func SizeOf[T any]() int {
	var zero T
	return int(unsafe.Sizeof(zero))
}
