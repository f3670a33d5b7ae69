// File: internal/concurrency/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Concrete acquire/release strategies for ring buffers and thread
// placement helpers for the producer and consumer contexts.
//
// SpinLock stands in for an interrupt-disable critical section: it never
// parks the goroutine. LockSet maps the opaque hook context to one of
// several locks so that buffers sharing a hook pair can still be guarded
// independently.
package concurrency
