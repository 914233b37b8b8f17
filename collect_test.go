package parstream

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMapSlice(t *testing.T) {
	t.Parallel()

	got, err := MapSlice([]int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, half, WithThreads(4))
	require.NoError(t, err)
	require.Equal(t, []int{0, 0, 1, 1, 2, 2, 3, 3, 4, 4}, got)
}

func TestMapSlice_Empty(t *testing.T) {
	t.Parallel()

	got, err := MapSlice(nil, half)
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestMapSlice_InvalidOption(t *testing.T) {
	t.Parallel()

	_, err := MapSlice([]int{1}, half, WithExecutor(nil))
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestFilterSlice(t *testing.T) {
	t.Parallel()

	got, err := FilterSlice([]int{5, 2, 9, 4, 7, 6}, even, WithThreads(3))
	require.NoError(t, err)
	require.Equal(t, []int{2, 4, 6}, got)
}

func TestForEach_VisitsEveryItem(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	seen := make(map[int]int)

	err := ForEach([]int{1, 2, 3, 4, 5}, func(v int) {
		mu.Lock()
		seen[v]++
		mu.Unlock()
	}, WithThreads(3))
	require.NoError(t, err)
	require.Equal(t, map[int]int{1: 1, 2: 1, 3: 1, 4: 1, 5: 1}, seen)
}
