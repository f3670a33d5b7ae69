// File: internal/concurrency/spinlock.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Busy-wait lock for short critical sections around ring counters.

package concurrency

import (
	"runtime"
	"sync"
	"sync/atomic"
)

var _ sync.Locker = (*SpinLock)(nil)

// SpinLock is a test-and-test-and-set lock. The zero value is unlocked.
// It is not reentrant.
type SpinLock struct {
	state atomic.Uint32
	_     [60]byte // Padding for hot/cold separation
}

// spinLimit is how many failed probes happen before yielding the processor.
const spinLimit = 64

// Lock spins until the lock is acquired.
func (l *SpinLock) Lock() {
	for spins := 0; ; spins++ {
		if l.state.Load() == 0 && l.state.CompareAndSwap(0, 1) {
			return
		}
		if spins >= spinLimit {
			runtime.Gosched()
			spins = 0
		}
	}
}

// TryLock acquires the lock if it is free.
func (l *SpinLock) TryLock() bool {
	return l.state.CompareAndSwap(0, 1)
}

// Unlock releases the lock. Unlocking an unlocked SpinLock panics.
func (l *SpinLock) Unlock() {
	if l.state.Swap(0) == 0 {
		panic("concurrency: unlock of unlocked SpinLock")
	}
}
