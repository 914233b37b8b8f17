package parstream

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewParallelMap_NilExecutorOptionFails(t *testing.T) {
	t.Parallel()

	m, err := NewParallelMap(Range(0, 4), half, WithExecutor(nil))
	require.ErrorIs(t, err, ErrInvalidConfig)
	require.Nil(t, m)
}

func TestNewParallelMap_NilOptionsAreSkipped(t *testing.T) {
	t.Parallel()

	m, err := NewParallelMap(Range(0, 4), half, nil, WithThreads(2), nil)
	require.NoError(t, err)
	require.Equal(t, []int{0, 0, 1, 1}, Collect[int](m))
}

func TestEffectiveThreads(t *testing.T) {
	t.Parallel()

	require.GreaterOrEqual(t, effectiveThreads(0), 1, "autodetect never goes below one worker")
	require.Equal(t, 1, effectiveThreads(1))
	require.Equal(t, 7, effectiveThreads(7))
}

func TestEffectiveWindow(t *testing.T) {
	t.Parallel()

	require.Equal(t, uint64(8), effectiveWindow(0, 4), "unset derives twice the worker count")
	require.Equal(t, uint64(1), effectiveWindow(1, 4))
	require.Equal(t, uint64(100), effectiveWindow(100, 4))
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := defaultConfig()
	require.Zero(t, cfg.Threads)
	require.Zero(t, cfg.MaxInFlight)
	require.Zero(t, cfg.BufferSize)
	require.NotNil(t, cfg.Executor)
}
