// File: pool/backlog/backlog.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Producer-side spill queue: one retry policy for rejected pushes.
// The ring itself never waits; Spill keeps what it refused, in order,
// and hands it over once room appears.

package backlog

import (
	"github.com/eapache/queue"

	"github.com/momentics/hioload-ring/api"
)

// Spill feeds an api.Ring through an unbounded (or limited) FIFO.
// It is meant for the single producer of the ring; it is not safe for
// concurrent use.
type Spill[T any] struct {
	dst     api.Ring[T]
	q       *queue.Queue
	limit   int
	dropped uint64
}

// New wraps dst. limit caps pending items; zero or less means no cap.
func New[T any](dst api.Ring[T], limit int) *Spill[T] {
	return &Spill[T]{
		dst:   dst,
		q:     queue.New(),
		limit: limit,
	}
}

// Offer hands item to the ring, or parks it behind earlier spilled items.
// It returns false only when the backlog limit drops the item.
func (s *Spill[T]) Offer(item T) bool {
	return s.TryOffer(item) == nil
}

// TryOffer is Offer reporting api.ErrBacklogFull on a drop.
func (s *Spill[T]) TryOffer(item T) error {
	if s.q.Length() == 0 && s.dst.Push(item) {
		return nil
	}
	if s.limit > 0 && s.q.Length() >= s.limit {
		s.dropped++
		return api.ErrBacklogFull
	}
	s.q.Add(item)
	return nil
}

// Drain moves parked items into the ring until it refuses one and
// returns how many moved.
func (s *Spill[T]) Drain() int {
	moved := 0
	for s.q.Length() > 0 {
		if !s.dst.Push(s.q.Peek().(T)) {
			break
		}
		s.q.Remove()
		moved++
	}
	return moved
}

// Pending returns the number of parked items.
func (s *Spill[T]) Pending() int { return s.q.Length() }

// Dropped returns how many items the limit rejected.
func (s *Spill[T]) Dropped() uint64 { return s.dropped }

// Reset discards parked items.
func (s *Spill[T]) Reset() {
	s.q = queue.New()
}
