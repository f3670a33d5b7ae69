// File: ring/lock.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Acquire/release seam between the buffer and the embedding system.

package ring

import "sync"

var (
	_ sync.Locker = Hooks{}
	_ sync.Locker = noLock{}
)

// Hooks adapts a callback pair to sync.Locker. Context is handed to both
// callbacks, e.g. to select a lock or an interrupt priority.
type Hooks struct {
	Acquire func(ctx any)
	Release func(ctx any)
	Context any
}

// Lock calls Acquire if set.
func (h Hooks) Lock() {
	if h.Acquire != nil {
		h.Acquire(h.Context)
	}
}

// Unlock calls Release if set.
func (h Hooks) Unlock() {
	if h.Release != nil {
		h.Release(h.Context)
	}
}

type noLock struct{}

func (noLock) Lock()   {}
func (noLock) Unlock() {}
