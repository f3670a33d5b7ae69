// Copyright 2025 momentics@gmail.com
// Licensed under the Apache License, Version 2.0.

package ring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momentics/hioload-ring/api"
)

func TestSnapshot_RestoreUndoesSpeculativeReads(t *testing.T) {
	r := New(make([]byte, 8))
	require.True(t, r.PushStream([]byte("hdr:body")))

	r.SaveState()
	c0, p0, q0 := indices(&r.buffer)

	hdr := make([]byte, 4)
	require.Equal(t, 4, r.PopStream(hdr))
	require.Equal(t, "hdr:", string(hdr))
	_, _ = r.Pop()

	r.RestoreState()
	c1, p1, q1 := indices(&r.buffer)
	assert.Equal(t, []int{c0, p0, q0}, []int{c1, p1, q1})

	all := make([]byte, 8)
	require.Equal(t, 8, r.PopStream(all))
	assert.Equal(t, "hdr:body", string(all))
}

func TestSnapshot_RestoreAfterMixedOps(t *testing.T) {
	r := New(make([]int, 6))
	require.True(t, r.PushStream([]int{1, 2, 3, 4}))
	_, _ = r.Pop()
	r.SaveState()
	c0, p0, q0 := indices(&r.buffer)

	require.True(t, r.PushStream([]int{5, 6, 7}))
	r.PopStream(make([]int, 5))
	require.True(t, r.PushBack(2))

	r.RestoreState()
	c1, p1, q1 := indices(&r.buffer)
	assert.Equal(t, []int{c0, p0, q0}, []int{c1, p1, q1})
	requireConsistent(t, &r.buffer)
}

func TestSnapshot_SecondSaveOverwrites(t *testing.T) {
	r := New(make([]int, 4))
	r.SaveState()
	require.True(t, r.PushStream([]int{1, 2}))
	r.SaveState()
	require.True(t, r.Push(3))

	r.RestoreState()
	assert.Equal(t, 2, r.Count())
}

func TestSnapshot_RestoreWithoutSaveEmpties(t *testing.T) {
	r := New(make([]int, 4))
	require.True(t, r.PushStream([]int{1, 2, 3}))
	r.RestoreState()
	count, pop, push := indices(&r.buffer)
	assert.Equal(t, []int{0, 0, 0}, []int{count, pop, push})
	assert.Equal(t, uint64(1), r.Stats().Snapshot().Restores)
}

func TestSnapshot_FlushKeepsSlot(t *testing.T) {
	r := New(make([]int, 4))
	require.True(t, r.PushStream([]int{1, 2}))
	r.SaveState()
	r.Flush()
	r.RestoreState()
	assert.Equal(t, 2, r.Count())
}

func TestSnapshot_StrictReclaimFollowsRestore(t *testing.T) {
	r := New(make([]int, 4), WithStrictPushBack())
	require.True(t, r.PushStream([]int{1, 2, 3}))
	r.SaveState()
	r.PopStream(make([]int, 2))
	r.RestoreState()
	assert.Error(t, r.TryPushBack(1), "nothing was popped at the save point")
}

func TestSnapshot_StrictRestoreForgetsOverwrittenSlots(t *testing.T) {
	r := New(make([]int, 4), WithStrictPushBack())
	require.True(t, r.PushStream([]int{1, 2}))
	require.Equal(t, 2, r.PopStream(make([]int, 2)))
	r.SaveState()
	require.True(t, r.PushStream([]int{3, 4, 5, 6})) // 5 and 6 land on 1 and 2
	r.RestoreState()

	assert.ErrorIs(t, r.TryPushBack(1), api.ErrPushBackStale)
	assert.Zero(t, r.Count())
}

func TestSnapshot_StrictRestoreKeepsUntouchedSlots(t *testing.T) {
	r := New(make([]int, 4), WithStrictPushBack())
	require.True(t, r.PushStream([]int{1, 2}))
	require.Equal(t, 2, r.PopStream(make([]int, 2)))
	r.SaveState()
	require.True(t, r.PushStream([]int{3, 4, 5})) // 5 lands on 1
	r.RestoreState()

	assert.ErrorIs(t, r.TryPushBack(2), api.ErrPushBackStale)
	require.NoError(t, r.TryPushBack(1))
	v, ok := r.Pop()
	require.True(t, ok)
	assert.Equal(t, 2, v)
}

func TestSnapshot_StrictRestoreAfterFlushForgetsSlots(t *testing.T) {
	r := New(make([]int, 4), WithStrictPushBack())
	require.True(t, r.PushStream([]int{1, 2}))
	require.Equal(t, 2, r.PopStream(make([]int, 2)))
	r.SaveState()
	r.Flush()
	require.True(t, r.Push(9))
	r.RestoreState()

	assert.ErrorIs(t, r.TryPushBack(1), api.ErrPushBackStale)
}
