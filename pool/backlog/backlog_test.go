package backlog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momentics/hioload-ring/api"
	"github.com/momentics/hioload-ring/ring"
)

func TestSpill_PreservesOrderAcrossRingAndBacklog(t *testing.T) {
	r := ring.New(make([]int, 3))
	s := New[int](r, 0)

	for i := 0; i < 7; i++ {
		require.True(t, s.Offer(i))
	}
	assert.Equal(t, 3, r.Count())
	assert.Equal(t, 4, s.Pending())

	var got []int
	for len(got) < 7 {
		v, ok := r.Pop()
		if !ok {
			s.Drain()
			continue
		}
		got = append(got, v)
		// a fresh offer must queue behind the backlog, not jump it
		if v == 0 {
			require.True(t, s.Offer(7))
		}
	}
	s.Drain()
	v, ok := r.Pop()
	require.True(t, ok)
	got = append(got, v)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7}, got)
	assert.Equal(t, 0, s.Pending())
}

func TestSpill_Limit(t *testing.T) {
	r := ring.New(make([]string, 1))
	s := New[string](r, 1)
	require.True(t, s.Offer("a"))
	require.True(t, s.Offer("b"))
	assert.False(t, s.Offer("c"))
	assert.ErrorIs(t, s.TryOffer("d"), api.ErrBacklogFull)
	assert.Equal(t, uint64(2), s.Dropped())
}

func TestSpill_DrainStopsOnGatedRing(t *testing.T) {
	r := ring.New(make([]int, 4))
	s := New[int](r, 0)
	r.DisablePush()
	require.True(t, s.Offer(1))
	require.True(t, s.Offer(2))
	assert.Equal(t, 0, s.Drain())

	r.EnablePush()
	assert.Equal(t, 2, s.Drain())
	assert.Equal(t, 2, r.Count())
}

func TestSpill_Reset(t *testing.T) {
	r := ring.New(make([]int, 1))
	s := New[int](r, 0)
	s.Offer(1)
	s.Offer(2)
	s.Reset()
	assert.Equal(t, 0, s.Pending())
}
