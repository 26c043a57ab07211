package kernel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jopadan/libnaomi-go/boardconfig"
)

func TestCreateThreadStartsStopped(t *testing.T) {
	k := newTestKernel(t)
	id, err := k.CreateThread("worker", func(any) any { select {} }, nil)
	require.NoError(t, err)

	info, ok := k.ThreadInfo(id)
	require.True(t, ok)
	assert.True(t, info.Alive)
	assert.False(t, info.Running)
}

func TestThreadTableFull(t *testing.T) {
	cfg := boardconfig.Default()
	cfg.MaxThreads = 2 // one slot is the idle thread
	k := New(cfg)

	_, err := k.CreateThread("only-slot", func(any) any { select {} }, nil)
	require.NoError(t, err)

	_, err = k.CreateThread("overflow", func(any) any { select {} }, nil)
	assert.ErrorIs(t, err, ErrTableFull)
}

func TestDestroyThreadRemovesFromTable(t *testing.T) {
	k := newTestKernel(t)
	id, err := k.CreateThread("short-lived", func(any) any { select {} }, nil)
	require.NoError(t, err)

	k.DestroyThread(id)

	_, ok := k.ThreadInfo(id)
	assert.False(t, ok)
}

func TestThreadNameTruncatedAt63Bytes(t *testing.T) {
	k := newTestKernel(t)
	long := ""
	for i := 0; i < 100; i++ {
		long += "x"
	}

	id, err := k.CreateThread(long, func(any) any { select {} }, nil)
	require.NoError(t, err)

	info, ok := k.ThreadInfo(id)
	require.True(t, ok)
	assert.Len(t, info.Name, maxNameLen)
}

func TestStartStopTransitions(t *testing.T) {
	k := newTestKernel(t)
	id, err := k.CreateThread("toggle", func(any) any { select {} }, nil)
	require.NoError(t, err)

	k.StartThread(id)
	info, _ := k.ThreadInfo(id)
	assert.True(t, info.Running)

	k.StopThread(id)
	info, _ = k.ThreadInfo(id)
	assert.False(t, info.Running)
	assert.True(t, info.Alive)
}

func TestTrampolineRecordsRetvalAndFinishes(t *testing.T) {
	k := newTestKernel(t)
	id, err := k.CreateThread("quick", func(any) any { select {} }, nil)
	require.NoError(t, err)

	// Exercise the trampoline directly rather than through a real
	// goroutine hand-off (which needs a driver loop this unit test
	// doesn't have): wrapEntry is exactly what CreateThread wires into
	// every thread's IRQState, so invoking it here is equivalent to
	// the thread's body running to completion.
	ret := k.wrapEntry(id, func(arg any) any { return arg })("result")
	assert.Equal(t, "result", ret)

	info, ok := k.ThreadInfo(id)
	require.True(t, ok)
	assert.False(t, info.Alive)
	assert.False(t, info.Running)
}
