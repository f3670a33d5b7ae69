package pool

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momentics/hioload-ring/api"
	"github.com/momentics/hioload-ring/ring"
)

func TestAllocate_ZeroedAndWritable(t *testing.T) {
	r, err := Allocate(4096)
	require.NoError(t, err)
	defer r.Close()

	assert.Equal(t, 4096, r.Len())
	assert.Equal(t, make([]byte, 4096), r.Bytes())
	r.Bytes()[4095] = 0x7F
	assert.Equal(t, byte(0x7F), r.Bytes()[4095])
}

func TestAllocate_Heap(t *testing.T) {
	r, err := Allocate(16, WithHeap())
	require.NoError(t, err)
	assert.False(t, r.Mapped())
	require.NoError(t, r.Close())
	require.NoError(t, r.Close(), "close is idempotent")
	assert.Nil(t, r.Bytes())
}

func TestAllocate_LockedIsBestEffort(t *testing.T) {
	r, err := Allocate(8192, WithLocked())
	require.NoError(t, err)
	defer r.Close()
	// RLIMIT_MEMLOCK may forbid pinning; the region is usable either way.
	t.Logf("mapped=%v locked=%v", r.Mapped(), r.Locked())
	assert.Equal(t, 8192, r.Len())
}

func TestAllocate_InvalidSize(t *testing.T) {
	_, err := Allocate(0)
	assert.ErrorIs(t, err, api.ErrInvalidArgument)
	_, err = AllocateBlocks(-1, 4)
	assert.ErrorIs(t, err, api.ErrInvalidArgument)
	_, err = SizeFor(int(^uint(0)>>1), 2)
	assert.ErrorIs(t, err, api.ErrInvalidArgument)
}

func TestAllocateBlocks_BackBlocksRing(t *testing.T) {
	region, err := AllocateBlocks(8, 12)
	require.NoError(t, err)
	defer region.Close()
	require.Equal(t, 8, BlocksFor(region, 12))

	b := ring.NewBlocks(region.Bytes(), BlocksFor(region, 12), 12)
	rec := []byte("sensor-00042")
	require.True(t, b.Push(rec))
	out := make([]byte, 12)
	require.Equal(t, 1, b.Pop(out))
	assert.Equal(t, rec, out)
}

func TestHeapHelpers(t *testing.T) {
	s := NewHeap[uint16](5)
	assert.Len(t, s, 5)
	assert.Equal(t, 2, SizeOf[uint16]())
	assert.Panics(t, func() { NewHeap[int](0) })
	assert.Equal(t, 0, BlocksFor(nil, 4))
}

func TestRegion_CloseReportsUnlockFailure(t *testing.T) {
	errUnlock := errors.New("munlock refused")
	saved := unlockRegion
	unlockRegion = func([]byte) error { return errUnlock }
	t.Cleanup(func() { unlockRegion = saved })

	r := &Region{data: make([]byte, 64), locked: true}
	err := r.Close()
	require.ErrorIs(t, err, errUnlock)
	assert.ErrorIs(t, r.Close(), errUnlock, "later calls return the first result")
	assert.Nil(t, r.Bytes())
}
