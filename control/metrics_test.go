package control

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momentics/hioload-ring/ring"
)

func TestMetricsRegistry_PublishStats(t *testing.T) {
	r := ring.New(make([]int, 2))
	r.Push(1)
	r.Push(2)
	r.Push(3)
	r.Pop()
	r.PushBack(1)

	mr := NewMetricsRegistry()
	mr.Set("custom", 7)
	mr.PublishStats("rx", r.Stats())

	snap := mr.GetSnapshot()
	assert.Equal(t, 7, snap["custom"])
	assert.Equal(t, uint64(2), snap["rx.pushed"])
	assert.Equal(t, uint64(1), snap["rx.popped"])
	assert.Equal(t, uint64(1), snap["rx.pushed_back"])
	assert.Equal(t, uint64(1), snap["rx.rejected_full"])
	assert.Equal(t, 2, snap["rx.high_water"])
	require.False(t, mr.Updated().IsZero())

	snap["custom"] = 8
	assert.Equal(t, 7, mr.GetSnapshot()["custom"], "snapshot is a copy")
}

func TestDebugProbes_RegisterBuffer(t *testing.T) {
	b := ring.NewBlocks(make([]byte, 8), 4, 2)
	b.PushStream([]byte("aabb"))
	b.DisablePop()

	dp := NewDebugProbes()
	dp.RegisterBuffer("tx", b)
	RegisterPlatformProbes(dp)

	state := dp.DumpState()
	assert.Equal(t, BufferState{
		Count:        2,
		Available:    2,
		Capacity:     4,
		PushGateOpen: true,
		PopGateOpen:  false,
	}, state["buffer.tx"])
	assert.Contains(t, state, "platform.cpus")
	assert.Contains(t, state, "platform.goroutines")
}
