// Package ring
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Fixed-capacity circular buffers over caller-supplied storage.
//
// Two front-ends share one state machine:
//   - Ring[T] stores typed elements, one storage slot per element
//   - Blocks stores opaque records of a size chosen at construction
//
// The buffer never allocates its storage, never blocks and never logs.
// Full, empty and gated conditions are synchronous rejections; the bool
// and int forms keep them indistinguishable while the Try* forms report
// the api sentinel that caused them.
//
// Every counter mutation is bracketed by an injected sync.Locker. Hooks
// adapts an acquire/release callback pair with an opaque context value.
// Without a locker the buffer is still safe for one producer calling the
// push side and one consumer calling the pop side; PushBack, RestoreState
// and Flush touch both sides and need a real locker under concurrency.
package ring
