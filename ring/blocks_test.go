// Copyright 2025 momentics@gmail.com
// Licensed under the Apache License, Version 2.0.

package ring

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momentics/hioload-ring/api"
)

func record(seq uint32) []byte {
	b := make([]byte, 6)
	binary.LittleEndian.PutUint32(b, seq)
	b[4], b[5] = 0xAA, 0x55
	return b
}

func TestBlocks_RecordRoundTrip(t *testing.T) {
	storage := make([]byte, 4*6)
	b := NewBlocks(storage, 4, 6)
	assert.Equal(t, 6, b.ElementSize())
	assert.Equal(t, 4, b.Cap())

	require.True(t, b.Push(record(7)))
	dst := make([]byte, 6)
	require.Equal(t, 1, b.Pop(dst))
	assert.Equal(t, record(7), dst)
	assert.Equal(t, 0, b.Pop(dst))
}

func TestBlocks_StreamWrapsOnRecordBoundaries(t *testing.T) {
	b := NewBlocks(make([]byte, 5*2), 5, 2)
	require.True(t, b.PushStream([]byte("AaBbCcDd")))
	two := make([]byte, 4)
	require.Equal(t, 2, b.PopStream(two))
	assert.Equal(t, "AaBb", string(two))

	require.True(t, b.PushStream([]byte("EeFfGg")))
	out := make([]byte, 10)
	require.Equal(t, 5, b.PopStream(out))
	assert.Equal(t, "CcDdEeFfGg", string(out))
	requireConsistent(t, &b.buffer)
}

func TestBlocks_PopStreamCountsWholeRecords(t *testing.T) {
	b := NewBlocks(make([]byte, 12), 3, 4)
	require.True(t, b.PushStream([]byte("aaaabbbbcccc")))
	dst := make([]byte, 7) // room for one whole record
	n := b.PopStream(dst)
	assert.Equal(t, 1, n)
	assert.Equal(t, "aaaa", string(dst[:4]))
	assert.Equal(t, 2, b.Count())
}

func TestBlocks_RejectsPartialRecords(t *testing.T) {
	b := NewBlocks(make([]byte, 16), 4, 4)
	assert.False(t, b.Push([]byte{1, 2}))
	assert.ErrorIs(t, b.TryPush([]byte{1, 2}), api.ErrInvalidArgument)
	assert.False(t, b.PushStream([]byte{1, 2, 3, 4, 5}))
	err := b.TryPushStream([]byte{1, 2, 3, 4, 5})
	require.ErrorIs(t, err, api.ErrInvalidArgument)
	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, api.ErrCodeInvalidArgument, apiErr.Code)
	assert.Equal(t, 5, apiErr.Context["units"])
	assert.Equal(t, 0, b.Count())

	require.True(t, b.Push([]byte{1, 2, 3, 4, 5, 6}), "extra bytes beyond one record are ignored")
	_, err = b.TryPop(make([]byte, 3))
	assert.ErrorIs(t, err, api.ErrInvalidArgument)
	assert.Equal(t, 1, b.Count())
}

func TestBlocks_UsesPrefixOfLargerStorage(t *testing.T) {
	storage := make([]byte, 64)
	b := NewBlocks(storage, 2, 3)
	require.True(t, b.PushStream([]byte("abcdef")))
	assert.False(t, b.Push([]byte("ghi")))
	assert.Equal(t, make([]byte, 58), storage[6:], "bytes past capacity*elementSize stay untouched")
}

func TestNewBlocks_PanicsOnShortStorage(t *testing.T) {
	assert.Panics(t, func() { NewBlocks(make([]byte, 7), 2, 4) })
	assert.Panics(t, func() { NewBlocks(make([]byte, 8), 2, 0) })
	assert.Panics(t, func() { NewBlocks(make([]byte, 8), 0, 4) })
}

func TestBlocks_PushBackAndSnapshot(t *testing.T) {
	b := NewBlocks(make([]byte, 9), 3, 3)
	require.True(t, b.PushStream([]byte("onetwosix")))
	b.SaveState()
	dst := make([]byte, 3)
	require.Equal(t, 1, b.Pop(dst))
	require.True(t, b.PushBack(1))
	require.Equal(t, 1, b.Pop(dst))
	assert.Equal(t, "one", string(dst))
	b.RestoreState()
	assert.Equal(t, 3, b.Count())
}
