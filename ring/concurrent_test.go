// Copyright 2025 momentics@gmail.com
// License: Apache 2.0

package ring

import (
	"runtime"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/momentics/hioload-ring/api"
)

// TestRing_SPSCWithoutLocker exercises one producer and one consumer
// with no lock installed.
func TestRing_SPSCWithoutLocker(t *testing.T) {
	r := New(make([]int, 64))
	const items = 50000
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		batch := make([]int, 0, 8)
		for i := 0; i < items; {
			batch = batch[:0]
			for j := 0; j < 8 && i+j < items; j++ {
				batch = append(batch, i+j)
			}
			if r.PushStream(batch) {
				i += len(batch)
			} else {
				runtime.Gosched()
			}
		}
	}()

	want := 0
	dst := make([]int, 16)
	for want < items {
		n := r.PopStream(dst)
		if n == 0 {
			runtime.Gosched()
			continue
		}
		for _, v := range dst[:n] {
			if v != want {
				t.Fatalf("Expected %d, got %d", want, v)
			}
			want++
		}
	}
	wg.Wait()
	assert.True(t, r.Stats().Snapshot().HighWater <= 64)
}

// TestRing_ConcurrentWithMutex runs gate toggles and flush-free
// snapshot reads against a live producer.
func TestRing_ConcurrentWithMutex(t *testing.T) {
	r := New(make([]int, 16), WithLocker(&sync.Mutex{}))
	var ring api.Ring[int] = r
	const items = 20000
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < items; {
			if ring.Push(i) {
				i++
			} else {
				runtime.Gosched()
			}
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			r.DisablePush()
			runtime.Gosched()
			r.EnablePush()
			_ = r.Available()
		}
	}()

	sum := 0
	for got := 0; got < items; {
		v, ok := ring.Pop()
		if !ok {
			runtime.Gosched()
			continue
		}
		sum += v
		got++
	}
	wg.Wait()
	assert.Equal(t, items*(items-1)/2, sum)
	assert.Equal(t, 0, ring.Len())
}
