package executor

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSpawn_RunsEverySubmission(t *testing.T) {
	t.Parallel()

	e := NewSpawn()
	var n atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		e.Submit(func() {
			defer wg.Done()
			n.Add(1)
		})
	}
	wg.Wait()
	require.Equal(t, int32(20), n.Load())
}

func TestScope_WaitJoinsAllSubmissions(t *testing.T) {
	t.Parallel()

	s := NewScope()
	var n atomic.Int32
	for i := 0; i < 10; i++ {
		s.Submit(func() {
			time.Sleep(time.Millisecond)
			n.Add(1)
		})
	}
	s.Wait()
	require.Equal(t, int32(10), n.Load(), "Wait must not return before every submission finished")
}

func TestWithScope_JoinsBeforeReturn(t *testing.T) {
	t.Parallel()

	var n atomic.Int32
	WithScope(func(s *Scope) {
		for i := 0; i < 5; i++ {
			s.Submit(func() {
				time.Sleep(time.Millisecond)
				n.Add(1)
			})
		}
	})
	require.Equal(t, int32(5), n.Load())
}

func TestFixed_CapsConcurrency(t *testing.T) {
	t.Parallel()

	p := NewFixed(2)
	defer p.Close()

	var running, peak atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		p.Submit(func() {
			defer wg.Done()
			cur := running.Add(1)
			for {
				old := peak.Load()
				if cur <= old || peak.CompareAndSwap(old, cur) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			running.Add(-1)
		})
	}
	wg.Wait()
	require.LessOrEqual(t, peak.Load(), int32(2))
}

func TestFixed_ReusesGoroutines(t *testing.T) {
	t.Parallel()

	p := NewFixed(1)
	defer p.Close()

	var order []int
	var mu sync.Mutex
	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		p.Submit(func() {
			defer wg.Done()
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
		})
	}
	wg.Wait()
	// a single goroutine executes submissions in submission order
	require.Equal(t, []int{0, 1, 2, 3, 4}, order)
}
