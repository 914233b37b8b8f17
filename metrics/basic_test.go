package metrics

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBasicProvider_ReusesInstrumentsByName(t *testing.T) {
	t.Parallel()

	p := NewBasicProvider()
	c1 := p.Counter("pulls")
	c2 := p.Counter("pulls")
	require.Same(t, c1, c2)

	h1 := p.Histogram("wait")
	h2 := p.Histogram("wait")
	require.Same(t, h1, h2)
}

func TestBasicProvider_StoresMetadata(t *testing.T) {
	t.Parallel()

	p := NewBasicProvider()
	p.Histogram("wait", WithDescription("stage wait time"), WithUnit("seconds"))

	cfg, ok := p.Meta("wait")
	require.True(t, ok)
	require.Equal(t, "stage wait time", cfg.Description)
	require.Equal(t, "seconds", cfg.Unit)
}

func TestBasicCounter_ConcurrentAdds(t *testing.T) {
	t.Parallel()

	c := &BasicCounter{}
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				c.Add(1)
			}
		}()
	}
	wg.Wait()
	require.Equal(t, int64(8000), c.Value())
}

func TestBasicCounter_IgnoresNegative(t *testing.T) {
	t.Parallel()

	c := &BasicCounter{}
	c.Add(3)
	c.Add(-2)
	require.Equal(t, int64(3), c.Value())
}

func TestBasicHistogram_Aggregates(t *testing.T) {
	t.Parallel()

	p := NewBasicProvider()
	h := p.Histogram("wait").(*BasicHistogram)
	h.Record(1.5)
	h.Record(0.5)
	h.Record(2.0)

	count, sum, min, max := h.Snapshot()
	require.Equal(t, int64(3), count)
	require.InDelta(t, 4.0, sum, 1e-9)
	require.InDelta(t, 0.5, min, 1e-9)
	require.InDelta(t, 2.0, max, 1e-9)
}

func TestNoopProvider(t *testing.T) {
	t.Parallel()

	p := NewNoopProvider()
	// must not panic or record anything
	p.Counter("x").Add(1)
	p.Histogram("y").Record(1.0)
}
