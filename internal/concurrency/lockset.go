// File: internal/concurrency/lockset.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Context-selected locks behind a single acquire/release hook pair.

package concurrency

import (
	"fmt"
	"sync"
)

// LockSet holds a fixed number of locks addressed by an integer context,
// e.g. an interrupt priority level.
type LockSet struct {
	locks []sync.Locker
}

// NewLockSet builds n locks using newLock, or SpinLocks when newLock is nil.
func NewLockSet(n int, newLock func() sync.Locker) *LockSet {
	if n <= 0 {
		n = 1
	}
	if newLock == nil {
		newLock = func() sync.Locker { return new(SpinLock) }
	}
	ls := &LockSet{locks: make([]sync.Locker, n)}
	for i := range ls.locks {
		ls.locks[i] = newLock()
	}
	return ls
}

// Len returns the number of locks.
func (ls *LockSet) Len() int { return len(ls.locks) }

// Lookup resolves a hook context to its lock.
func (ls *LockSet) Lookup(ctx any) (sync.Locker, error) {
	i, ok := ctx.(int)
	if !ok || i < 0 || i >= len(ls.locks) {
		return nil, fmt.Errorf("%w: %v", ErrUnknownContext, ctx)
	}
	return ls.locks[i], nil
}

// Acquire is an acquire hook: it locks the lock selected by ctx.
// An unknown context is a wiring bug and panics.
func (ls *LockSet) Acquire(ctx any) {
	l, err := ls.Lookup(ctx)
	if err != nil {
		panic(err)
	}
	l.Lock()
}

// Release is the matching release hook.
func (ls *LockSet) Release(ctx any) {
	l, err := ls.Lookup(ctx)
	if err != nil {
		panic(err)
	}
	l.Unlock()
}
