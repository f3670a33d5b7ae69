// File: ring/buffer.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Index and state management shared by Ring and Blocks.
// Storage is measured in units of T; one element spans width units.

package ring

import (
	"fmt"
	"sync"
	"sync/atomic"

	"golang.org/x/sys/cpu"

	"github.com/momentics/hioload-ring/api"
)

type snapshot struct {
	count     int
	popIndex  int
	pushIndex int
	reclaim   int64
	written   int64
	flushes   int64
}

type buffer[T any] struct {
	storage  []T
	capacity int // elements
	width    int // units of T per element
	lock     sync.Locker
	strict   bool
	keepGate bool
	stats    *Stats

	count atomic.Int64
	_     cpu.CacheLinePad

	// producer side
	pushIndex   int
	pushEnabled atomic.Bool
	// elements ever pushed; snapshots use it to age reclaim
	written int64
	_       cpu.CacheLinePad

	// consumer side
	popIndex   int
	popEnabled atomic.Bool
	// popped slots directly behind popIndex whose data no push has overwritten
	reclaim atomic.Int64
	_       cpu.CacheLinePad

	flushes int64
	saved   snapshot
}

func (b *buffer[T]) init(storage []T, capacity, width int, opts []Option) {
	if capacity <= 0 {
		panic("ring: capacity must be positive")
	}
	if width <= 0 {
		panic("ring: element size must be positive")
	}
	if len(storage) < capacity*width {
		panic(fmt.Sprintf("ring: storage holds %d units, need %d", len(storage), capacity*width))
	}
	o := buildOptions(opts)
	b.storage = storage[:capacity*width]
	b.capacity = capacity
	b.width = width
	b.lock = o.lock
	b.strict = o.strict
	b.keepGate = o.keepGate
	b.stats = o.stats
	b.pushEnabled.Store(true)
	b.popEnabled.Store(true)
}

// wrap folds an index that advanced by at most capacity.
func (b *buffer[T]) wrap(i int) int {
	if i >= b.capacity {
		i -= b.capacity
	}
	return i
}

// copyIn writes n elements of src starting at slot idx, split in two when
// the run crosses the end of storage.
func (b *buffer[T]) copyIn(idx int, src []T, n int) {
	w := b.width
	if idx+n > b.capacity {
		head := b.capacity - idx
		copy(b.storage[idx*w:], src[:head*w])
		copy(b.storage[:(n-head)*w], src[head*w:n*w])
		return
	}
	copy(b.storage[idx*w:(idx+n)*w], src[:n*w])
}

// copyOut reads n elements starting at slot idx into dst.
func (b *buffer[T]) copyOut(idx int, dst []T, n int) {
	w := b.width
	if idx+n > b.capacity {
		head := b.capacity - idx
		copy(dst[:head*w], b.storage[idx*w:])
		copy(dst[head*w:n*w], b.storage[:(n-head)*w])
		return
	}
	copy(dst[:n*w], b.storage[idx*w:(idx+n)*w])
}

func (b *buffer[T]) checkPush(n int) error {
	if !b.pushEnabled.Load() {
		return api.ErrPushDisabled
	}
	if int(b.count.Load())+n > b.capacity {
		return api.ErrFull
	}
	return nil
}

func (b *buffer[T]) checkPop() error {
	if !b.popEnabled.Load() {
		return api.ErrPopDisabled
	}
	if b.count.Load() == 0 {
		return api.ErrEmpty
	}
	return nil
}

// push stores n whole elements from src, all or nothing.
func (b *buffer[T]) push(src []T, n int) error {
	if err := b.checkPush(n); err != nil {
		b.stats.recordReject(err)
		return err
	}
	b.lock.Lock()
	// PushBack may have claimed the room between the check and the lock.
	if err := b.checkPush(n); err != nil {
		b.lock.Unlock()
		b.stats.recordReject(err)
		return err
	}
	b.copyIn(b.pushIndex, src, n)
	b.pushIndex = b.wrap(b.pushIndex + n)
	b.written += int64(n)
	count := int(b.count.Add(int64(n)))
	lowerTo(&b.reclaim, int64(b.capacity-count))
	b.lock.Unlock()

	b.stats.recordPush(n, count)
	return nil
}

// pop moves up to limit elements into dst and reports how many.
func (b *buffer[T]) pop(dst []T, limit int) (int, error) {
	if err := b.checkPop(); err != nil {
		b.stats.recordReject(err)
		return 0, err
	}
	b.lock.Lock()
	if err := b.checkPop(); err != nil {
		b.lock.Unlock()
		b.stats.recordReject(err)
		return 0, err
	}
	n := limit
	if count := int(b.count.Load()); count < n {
		n = count
	}
	b.copyOut(b.popIndex, dst, n)
	b.popIndex = b.wrap(b.popIndex + n)
	b.count.Add(-int64(n))
	b.reclaim.Add(int64(n))
	b.lock.Unlock()

	b.stats.recordPop(n)
	return n, nil
}

// PushStream pushes every element of data or none of them.
// len(data) must be a whole number of elements.
func (b *buffer[T]) PushStream(data []T) bool {
	return b.TryPushStream(data) == nil
}

// TryPushStream is PushStream reporting why it was refused.
func (b *buffer[T]) TryPushStream(data []T) error {
	if len(data)%b.width != 0 {
		return api.Wrap(api.ErrInvalidArgument, "push stream").
			WithContext("units", len(data)).
			WithContext("elementUnits", b.width)
	}
	return b.push(data, len(data)/b.width)
}

// PopStream pops up to len(dst) worth of elements, fewer when the buffer
// holds less, and returns the element count popped.
func (b *buffer[T]) PopStream(dst []T) int {
	n, _ := b.TryPopStream(dst)
	return n
}

// TryPopStream is PopStream reporting why nothing was popped.
// A short pop is not an error.
func (b *buffer[T]) TryPopStream(dst []T) (int, error) {
	return b.pop(dst, len(dst)/b.width)
}

// PushBack puts n already popped elements back in front of the queue by
// moving the pop index backwards. The element data is not rewritten: the
// caller guarantees those slots still hold what was popped, unless the
// buffer was built WithStrictPushBack.
//
// The push gate is closed while the counters move and is open afterwards,
// or back at its previous value when built WithGatePreservingPushBack.
// EnablePush and DisablePush do not take the locker, so a gate change made
// by another goroutine during PushBack can be overwritten. Callers that
// toggle the push gate concurrently with PushBack must serialise the two.
func (b *buffer[T]) PushBack(n int) bool {
	return b.TryPushBack(n) == nil
}

// TryPushBack is PushBack reporting why it was refused.
func (b *buffer[T]) TryPushBack(n int) error {
	if n < 0 {
		return api.Wrap(api.ErrInvalidArgument, "push back").WithContext("n", n)
	}
	if n > b.capacity-int(b.count.Load()) {
		b.stats.recordReject(api.ErrPushBackOverflow)
		return api.ErrPushBackOverflow
	}
	b.lock.Lock()
	count := int(b.count.Load())
	if n > b.capacity-count {
		b.lock.Unlock()
		b.stats.recordReject(api.ErrPushBackOverflow)
		return api.ErrPushBackOverflow
	}
	if b.strict && int64(n) > b.reclaim.Load() {
		b.lock.Unlock()
		b.stats.recordReject(api.ErrPushBackStale)
		return api.ErrPushBackStale
	}

	// Producers see a closed gate while count and popIndex disagree.
	reopen := b.pushEnabled.Swap(false)
	if !b.keepGate {
		reopen = true
	}
	count = int(b.count.Add(int64(n)))
	if b.popIndex >= n {
		b.popIndex -= n
	} else {
		b.popIndex = b.popIndex + b.capacity - n
	}
	lowerTo(&b.reclaim, b.reclaim.Load()-int64(n))
	b.pushEnabled.Store(reopen)
	b.lock.Unlock()

	b.stats.recordPushBack(n, count)
	return nil
}

// IsPushEnabled reports whether there is room for one element.
// It ignores the push gate; see PushGateOpen.
func (b *buffer[T]) IsPushEnabled() bool {
	return int(b.count.Load()) < b.capacity
}

// IsPopEnabled reports whether at least one element is held.
// It ignores the pop gate; see PopGateOpen.
func (b *buffer[T]) IsPopEnabled() bool {
	return b.count.Load() > 0
}

func (b *buffer[T]) EnablePush()        { b.pushEnabled.Store(true) }
func (b *buffer[T]) DisablePush()       { b.pushEnabled.Store(false) }
func (b *buffer[T]) EnablePop()         { b.popEnabled.Store(true) }
func (b *buffer[T]) DisablePop()        { b.popEnabled.Store(false) }
func (b *buffer[T]) PushGateOpen() bool { return b.pushEnabled.Load() }
func (b *buffer[T]) PopGateOpen() bool  { return b.popEnabled.Load() }

// Count returns the number of held elements without locking.
func (b *buffer[T]) Count() int {
	return int(b.count.Load())
}

// Len is Count.
func (b *buffer[T]) Len() int {
	return b.Count()
}

// Cap returns the capacity in elements.
func (b *buffer[T]) Cap() int {
	return b.capacity
}

// Available returns the free room in elements, read under the lock.
func (b *buffer[T]) Available() int {
	b.lock.Lock()
	n := b.capacity - int(b.count.Load())
	b.lock.Unlock()
	return n
}

// SaveState stores count and both indices in the single snapshot slot,
// overwriting any earlier snapshot.
func (b *buffer[T]) SaveState() {
	b.lock.Lock()
	b.saved = snapshot{
		count:     int(b.count.Load()),
		popIndex:  b.popIndex,
		pushIndex: b.pushIndex,
		reclaim:   b.reclaim.Load(),
		written:   b.written,
		flushes:   b.flushes,
	}
	b.lock.Unlock()
}

// RestoreState rolls count and both indices back to the last SaveState.
// Without a prior SaveState the buffer becomes empty.
func (b *buffer[T]) RestoreState() {
	b.lock.Lock()
	b.count.Store(int64(b.saved.count))
	b.popIndex = b.saved.popIndex
	b.pushIndex = b.saved.pushIndex
	b.reclaim.Store(b.restoredReclaim())
	b.lock.Unlock()

	b.stats.restores.Add(1)
}

// restoredReclaim ages the saved reclaim count by the pushes made since
// SaveState. Pushes from the saved pushIndex fill the free slots that were
// never reclaimable first and reach the reclaimable ones last.
func (b *buffer[T]) restoredReclaim() int64 {
	s := b.saved
	if b.flushes != s.flushes {
		return 0
	}
	spare := int64(b.capacity-s.count) - s.reclaim
	overwritten := b.written - s.written - spare
	if overwritten <= 0 {
		return s.reclaim
	}
	if overwritten >= s.reclaim {
		return 0
	}
	return s.reclaim - overwritten
}

// Flush discards all elements and opens both gates. The snapshot is kept.
func (b *buffer[T]) Flush() {
	b.lock.Lock()
	b.count.Store(0)
	b.popIndex = 0
	b.pushIndex = 0
	b.reclaim.Store(0)
	b.flushes++
	b.popEnabled.Store(true)
	b.pushEnabled.Store(true)
	b.lock.Unlock()

	b.stats.flushes.Add(1)
}

// Stats returns the buffer's counters.
func (b *buffer[T]) Stats() *Stats {
	return b.stats
}

