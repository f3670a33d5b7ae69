// File: ring/options.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package ring

import "sync"

type options struct {
	lock     sync.Locker
	strict   bool
	keepGate bool
	stats    *Stats
}

// Option configures a buffer at construction.
type Option func(*options)

// WithLocker brackets every mutation with l.Lock/l.Unlock.
func WithLocker(l sync.Locker) Option {
	return func(o *options) {
		if l != nil {
			o.lock = l
		}
	}
}

// WithHooks installs an acquire/release callback pair; ctx is passed to both.
// Either hook may be nil.
func WithHooks(acquire, release func(ctx any), ctx any) Option {
	return WithLocker(Hooks{Acquire: acquire, Release: release, Context: ctx})
}

// WithStrictPushBack makes PushBack refuse to resurrect slots that a push
// has overwritten since they were popped.
func WithStrictPushBack() Option {
	return func(o *options) { o.strict = true }
}

// WithGatePreservingPushBack makes PushBack leave the push gate as it
// found it instead of opening it.
func WithGatePreservingPushBack() Option {
	return func(o *options) { o.keepGate = true }
}

// WithStats records counters into s, which may be shared between buffers.
func WithStats(s *Stats) Option {
	return func(o *options) {
		if s != nil {
			o.stats = s
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{lock: noLock{}}
	for _, opt := range opts {
		opt(&o)
	}
	if o.stats == nil {
		o.stats = new(Stats)
	}
	return o
}
