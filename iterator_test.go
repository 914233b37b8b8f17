package parstream

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFromSlice(t *testing.T) {
	t.Parallel()

	it := FromSlice([]string{"a", "b"})
	v, ok := it.Next()
	require.True(t, ok)
	require.Equal(t, "a", v)
	v, ok = it.Next()
	require.True(t, ok)
	require.Equal(t, "b", v)
	_, ok = it.Next()
	require.False(t, ok)
	_, ok = it.Next()
	require.False(t, ok)
}

func TestRangeAndCollect(t *testing.T) {
	t.Parallel()

	require.Equal(t, []int{3, 4, 5}, Collect(Range(3, 6)))
	require.Nil(t, Collect(Range(5, 5)))
}

func TestFromChan(t *testing.T) {
	t.Parallel()

	ch := make(chan int, 3)
	ch <- 1
	ch <- 2
	close(ch)
	require.Equal(t, []int{1, 2}, Collect[int](FromChan(ch)))
}

func TestFromSeqAndValues(t *testing.T) {
	t.Parallel()

	src := FromSeq(slices.Values([]int{4, 5, 6}))
	defer src.Close()

	var got []int
	for v := range Values[int](src) {
		got = append(got, v)
	}
	require.Equal(t, []int{4, 5, 6}, got)
}

func TestFromSeq_CloseBeforeExhaustion(t *testing.T) {
	t.Parallel()

	src := FromSeq(slices.Values([]int{1, 2, 3}))
	v, ok := src.Next()
	require.True(t, ok)
	require.Equal(t, 1, v)
	src.Close()
	_, ok = src.Next()
	require.False(t, ok)
}

func TestFromFunc(t *testing.T) {
	t.Parallel()

	n := 0
	it := FromFunc(func() (int, bool) {
		if n == 2 {
			return 0, false
		}
		n++
		return n, true
	})
	require.Equal(t, []int{1, 2}, Collect[int](it))
}
