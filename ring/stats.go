// File: ring/stats.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Lock-free operation counters for a buffer.

package ring

import (
	"errors"
	"sync/atomic"

	"github.com/momentics/hioload-ring/api"
)

// Stats tracks buffer operations. The zero value is ready to use.
type Stats struct {
	pushed     atomic.Uint64
	popped     atomic.Uint64
	pushedBack atomic.Uint64

	rejectFull      atomic.Uint64
	rejectPushGated atomic.Uint64
	rejectEmpty     atomic.Uint64
	rejectPopGated  atomic.Uint64
	rejectPushBack  atomic.Uint64

	restores atomic.Uint64
	flushes  atomic.Uint64

	highWater atomic.Int64
}

// StatsSnapshot is a point-in-time copy of Stats.
type StatsSnapshot struct {
	Pushed     uint64 // elements
	Popped     uint64 // elements
	PushedBack uint64 // elements

	RejectedFull      uint64
	RejectedPushGated uint64
	RejectedEmpty     uint64
	RejectedPopGated  uint64
	RejectedPushBack  uint64

	Restores uint64
	Flushes  uint64

	HighWater int
}

// Snapshot returns the current counter values.
func (s *Stats) Snapshot() StatsSnapshot {
	return StatsSnapshot{
		Pushed:            s.pushed.Load(),
		Popped:            s.popped.Load(),
		PushedBack:        s.pushedBack.Load(),
		RejectedFull:      s.rejectFull.Load(),
		RejectedPushGated: s.rejectPushGated.Load(),
		RejectedEmpty:     s.rejectEmpty.Load(),
		RejectedPopGated:  s.rejectPopGated.Load(),
		RejectedPushBack:  s.rejectPushBack.Load(),
		Restores:          s.restores.Load(),
		Flushes:           s.flushes.Load(),
		HighWater:         int(s.highWater.Load()),
	}
}

// Rejected sums every rejection kind.
func (s StatsSnapshot) Rejected() uint64 {
	return s.RejectedFull + s.RejectedPushGated + s.RejectedEmpty +
		s.RejectedPopGated + s.RejectedPushBack
}

func (s *Stats) recordPush(n, count int) {
	s.pushed.Add(uint64(n))
	raiseTo(&s.highWater, int64(count))
}

func (s *Stats) recordPop(n int) {
	s.popped.Add(uint64(n))
}

func (s *Stats) recordPushBack(n, count int) {
	s.pushedBack.Add(uint64(n))
	raiseTo(&s.highWater, int64(count))
}

func (s *Stats) recordReject(err error) {
	switch {
	case errors.Is(err, api.ErrFull):
		s.rejectFull.Add(1)
	case errors.Is(err, api.ErrPushDisabled):
		s.rejectPushGated.Add(1)
	case errors.Is(err, api.ErrEmpty):
		s.rejectEmpty.Add(1)
	case errors.Is(err, api.ErrPopDisabled):
		s.rejectPopGated.Add(1)
	case errors.Is(err, api.ErrPushBackOverflow), errors.Is(err, api.ErrPushBackStale):
		s.rejectPushBack.Add(1)
	}
}

// raiseTo atomically lifts v to at least floor.
func raiseTo(v *atomic.Int64, floor int64) {
	for {
		cur := v.Load()
		if cur >= floor || v.CompareAndSwap(cur, floor) {
			return
		}
	}
}

// lowerTo atomically caps v at limit, never below zero.
func lowerTo(v *atomic.Int64, limit int64) {
	if limit < 0 {
		limit = 0
	}
	for {
		cur := v.Load()
		if cur <= limit || v.CompareAndSwap(cur, limit) {
			return
		}
	}
}
