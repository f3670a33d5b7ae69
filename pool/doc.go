// Package pool
// Author: momentics <momentics@gmail.com>
//
// Backing storage providers for ring buffers.
// The buffers never allocate; callers take storage from here (or anywhere
// else) and keep it alive for the buffer's lifetime.
// On Linux, Allocate maps anonymous memory and can pin it with mlock so a
// producer running in a latency-sensitive context never takes a page fault.
package pool
