package parstream

import (
	"time"

	"github.com/ygrebnov/parstream/metrics"
)

// Profiler receives begin/end hooks around iterator pulls. In pipelines it
// is important to measure the production and consumption rate of each
// stage to identify the current bottleneck.
//
// ProfileEgress and ProfileIngress guarantee that Start is always followed
// by exactly one End before the next Start. The final End is not
// guaranteed (consumption may simply stop); in particular ProfileEgress
// usually issues a last Start with no corresponding End, since it cannot
// predict whether the downstream will ever pull again.
//
// Profilers are invoked from the consuming goroutine only and need no
// internal synchronization.
type Profiler interface {
	Start()
	End()
}

// ProfileEgress times the downstream side of a stage: how long the
// consumer holds on to the previous item before asking for the next one
// (consumer-side stall). Start fires the moment an item is handed back to
// the caller, End right before returning the next item.
type ProfileEgress[T any] struct {
	inner         Iterator[T]
	profiler      Profiler
	firstReturned bool
}

// NewProfileEgress wraps inner with consumer-stall timing.
func NewProfileEgress[T any](inner Iterator[T], p Profiler) *ProfileEgress[T] {
	return &ProfileEgress[T]{inner: inner, profiler: p}
}

func (e *ProfileEgress[T]) Next() (T, bool) {
	if e.firstReturned {
		e.profiler.End()
	} else {
		// might as well switch it before actually pulling
		e.firstReturned = true
	}

	v, ok := e.inner.Next()

	e.profiler.Start()

	return v, ok
}

// ProfileIngress times the upstream side of a stage: how long each pull
// into the wrapped source takes (producer-side latency). Start fires right
// before calling into the source, End right after it returns.
type ProfileIngress[T any] struct {
	inner    Iterator[T]
	profiler Profiler
}

// NewProfileIngress wraps inner with producer-latency timing.
func NewProfileIngress[T any](inner Iterator[T], p Profiler) *ProfileIngress[T] {
	return &ProfileIngress[T]{inner: inner, profiler: p}
}

func (i *ProfileIngress[T]) Next() (T, bool) {
	i.profiler.Start()

	v, ok := i.inner.Next()

	i.profiler.End()
	return v, ok
}

// TotalTimeStats is the accumulated state a TotalTimeProfiler hands to its
// Reporter after every measured interval.
type TotalTimeStats struct {
	// Current is the length of the interval that just ended.
	Current time.Duration
	// Total is the accumulated time across all intervals so far. Reporters
	// are free to adjust it (the periodic reporter subtracts its threshold
	// each time it fires).
	Total time.Duration
}

// Reporter reacts to the stats tracked by a TotalTimeProfiler.
type Reporter interface {
	HandleStats(stats *TotalTimeStats)
}

// ReporterFunc adapts a function to the Reporter interface.
type ReporterFunc func(stats *TotalTimeStats)

func (f ReporterFunc) HandleStats(stats *TotalTimeStats) { f(stats) }

// TotalTimeProfiler accumulates the time between Start and End calls and
// hands the running stats to a Reporter after each interval.
type TotalTimeProfiler struct {
	reporter Reporter
	start    time.Time
	stats    TotalTimeStats
}

// NewTotalTimeProfiler creates a profiler reporting to r after every
// measured interval.
func NewTotalTimeProfiler(r Reporter) *TotalTimeProfiler {
	return &TotalTimeProfiler{reporter: r, start: time.Now()}
}

// Periodically creates a profiler that calls f every time the accumulated
// time crosses period.
func Periodically(period time.Duration, f func()) *TotalTimeProfiler {
	return NewTotalTimeProfiler(&periodicReporter{threshold: period, f: f})
}

func (p *TotalTimeProfiler) Start() { p.start = time.Now() }

func (p *TotalTimeProfiler) End() {
	// Even with no delay at all, a channel send/recv takes some time.
	// Subtract a tiny value to account for it and avoid rare, spurious
	// reports.
	cur := time.Since(p.start) - time.Microsecond
	if cur < 0 {
		cur = 0
	}
	p.stats.Current = cur
	p.stats.Total += cur
	p.reporter.HandleStats(&p.stats)
}

// Total returns the accumulated time so far.
func (p *TotalTimeProfiler) Total() time.Duration { return p.stats.Total }

// periodicReporter fires f every time the accumulated total crosses the
// threshold, consuming one threshold's worth per firing.
type periodicReporter struct {
	threshold time.Duration
	f         func()
}

func (r *periodicReporter) HandleStats(stats *TotalTimeStats) {
	if stats.Total >= r.threshold {
		stats.Total -= r.threshold
		r.f()
	}
}

// HistogramProfiler records every measured interval into a
// metrics.Histogram (in seconds) and counts intervals on a
// metrics.Counter. Either instrument may be nil to skip it.
type HistogramProfiler struct {
	hist  metrics.Histogram
	count metrics.Counter
	start time.Time
}

// NewHistogramProfiler bridges profiling hooks to metrics instruments.
func NewHistogramProfiler(h metrics.Histogram, c metrics.Counter) *HistogramProfiler {
	return &HistogramProfiler{hist: h, count: c, start: time.Now()}
}

func (p *HistogramProfiler) Start() { p.start = time.Now() }

func (p *HistogramProfiler) End() {
	d := time.Since(p.start)
	if p.hist != nil {
		p.hist.Record(d.Seconds())
	}
	if p.count != nil {
		p.count.Add(1)
	}
}
