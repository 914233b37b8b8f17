package parstream

import (
	"iter"
	"sync"
	"time"

	"github.com/ygrebnov/parstream/executor"
)

// panicPollInterval bounds how long a pull may block before re-checking the
// shared panic flag. It is a detection latency, not a consumer-visible
// timeout: short enough to notice a dead worker promptly, long enough to
// avoid busy-spinning.
const panicPollInterval = 100 * time.Microsecond

// seqItem tags a payload with its submission index. Indices are assigned as
// a strictly increasing counter starting at 0 and are the sole mechanism
// for restoring order after unordered concurrent execution.
type seqItem[T any] struct {
	idx uint64
	val T
}

// ParallelMap applies fn concurrently on multiple workers and yields
// results element-for-element equal to mapping the upstream sequence
// sequentially. It is lazy: nothing runs until the first Next (or an
// explicit Start).
//
// fn is called concurrently from multiple goroutines and must be safe to
// share; it must not retain its argument past the call.
//
// ParallelMap is single-consumer and must not be copied after first use.
type ParallelMap[I, O any] struct {
	// noCopy prevents accidental copying of the engine.
	nc noCopy

	src Iterator[I]
	fn  func(I) O
	cfg config

	// resolved at start
	threads     int
	maxInFlight uint64

	started  bool
	srcDone  bool
	panicked bool
	closed   bool

	// nextTx is the index of the next item to submit; nextRx the index the
	// consumer is waiting for. nextTx - nextRx <= maxInFlight always holds.
	nextTx uint64
	nextRx uint64

	// pending holds results that arrived before their turn, keyed by index.
	// Entries are removed exactly once, when their index becomes nextRx.
	pending map[uint64]O

	in  chan seqItem[I]
	out chan seqItem[O]

	flag *panicFlag

	// closed once every worker body has returned; distinguishes normal
	// drain-out from the all-workers-dead invariant violation.
	workersDone chan struct{}

	// closed by Close; unblocks worker sends when the consumer is gone.
	abandoned chan struct{}
	closeOnce sync.Once
}

// noCopy is a vet-recognized marker to discourage copying types with this
// field embedded. It works with the "-copylocks" analyzer via the presence
// of Lock/Unlock methods.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// NewParallelMap creates an ordered parallel map stage over src.
// It does not start any goroutine; see Start and Next.
func NewParallelMap[I, O any](src Iterator[I], fn func(I) O, opts ...Option) (*ParallelMap[I, O], error) {
	cfg, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}
	return &ParallelMap[I, O]{
		src:     src,
		fn:      fn,
		cfg:     cfg,
		pending: make(map[uint64]O),
	}, nil
}

// Threads sets the worker count. Only valid before the engine has started;
// calling it afterward panics with ErrAlreadyStarted.
func (m *ParallelMap[I, O]) Threads(n uint) *ParallelMap[I, O] {
	m.ensureNotStarted()
	m.cfg.Threads = n
	return m
}

// MaxInFlight bounds the number of outstanding items. Only valid before the
// engine has started; calling it afterward panics with ErrAlreadyStarted.
func (m *ParallelMap[I, O]) MaxInFlight(n uint) *ParallelMap[I, O] {
	m.ensureNotStarted()
	m.cfg.MaxInFlight = n
	return m
}

// Via swaps in a different executor. Only valid before the engine has
// started; calling it afterward panics with ErrAlreadyStarted.
func (m *ParallelMap[I, O]) Via(e executor.Executor) *ParallelMap[I, O] {
	m.ensureNotStarted()
	if e == nil {
		panic(ErrInvalidConfig)
	}
	m.cfg.Executor = e
	return m
}

func (m *ParallelMap[I, O]) ensureNotStarted() {
	if m.started {
		panic(ErrAlreadyStarted)
	}
}

// Start spawns the workers and fills the in-flight window eagerly, without
// waiting for the first Next. Idempotent; Next calls it implicitly.
func (m *ParallelMap[I, O]) Start() {
	if m.started || m.closed {
		return
	}
	m.started = true

	m.threads = effectiveThreads(m.cfg.Threads)
	m.maxInFlight = effectiveWindow(m.cfg.MaxInFlight, m.threads)

	// Both ends have enough capacity to hold every item that can legally be
	// in flight; the actual amount is controlled by pump.
	m.in = make(chan seqItem[I], m.maxInFlight)
	m.out = make(chan seqItem[O], m.maxInFlight)
	m.flag = &panicFlag{}
	m.abandoned = make(chan struct{})
	m.workersDone = make(chan struct{})

	var wg sync.WaitGroup
	for i := 0; i < m.threads; i++ {
		wg.Add(1)
		m.cfg.Executor.Submit(func() {
			defer wg.Done()
			m.work()
		})
	}
	go func() {
		wg.Wait()
		close(m.workersDone)
	}()

	m.pump()
}

// work is one worker body: receive a sequenced item, transform, send the
// sequenced result. A panic in fn unwinds into the guard's release, which
// records it on the shared flag.
func (m *ParallelMap[I, O]) work() {
	g := newPanicGuard(m.flag)
	defer g.release()
	for it := range m.in {
		o := m.fn(it.val)
		select {
		case m.out <- seqItem[O]{idx: it.idx, val: o}:
		case <-m.abandoned:
			// consumer gone; throw the work away and keep draining
		}
	}
	g.disarm()
}

// pump fills the worker incoming queue up to the in-flight window. When the
// upstream is exhausted it closes the input channel so workers can exit.
func (m *ParallelMap[I, O]) pump() {
	if m.srcDone {
		return
	}
	for m.nextTx < m.nextRx+m.maxInFlight {
		v, ok := m.src.Next()
		if !ok {
			m.srcDone = true
			close(m.in)
			return
		}
		m.in <- seqItem[I]{idx: m.nextTx, val: v}
		m.nextTx++
	}
}

// Next returns the next in-order result. It blocks while the result the
// consumer is waiting for is still being computed. Once the upstream is
// exhausted and every outstanding result has been delivered it returns
// false, and keeps returning false.
//
// If a worker panicked, Next re-raises the panic as a *WorkerPanicError
// once detected; results completed and ordered before detection are still
// delivered first.
func (m *ParallelMap[I, O]) Next() (O, bool) {
	var zero O
	if m.panicked {
		m.raise()
	}
	if m.closed {
		return zero, false
	}
	if !m.started {
		m.Start()
	}

	for {
		// upstream exhausted and all submitted work already delivered
		if m.nextRx == m.nextTx && m.srcDone {
			return zero, false
		}

		// result may have already arrived out of order
		if v, ok := m.pending[m.nextRx]; ok {
			delete(m.pending, m.nextRx)
			m.nextRx++
			m.pump()
			return v, true
		}

		if v, ok, delivered := m.recvOne(); delivered {
			return v, ok
		}
	}
}

// recvOne performs one bounded wait on the output channel. It returns
// delivered=true when an in-order result was produced; otherwise the caller
// retries (an out-of-order arrival was parked, or the wait timed out with
// the panic flag clear).
func (m *ParallelMap[I, O]) recvOne() (v O, ok, delivered bool) {
	timer := time.NewTimer(panicPollInterval)
	defer timer.Stop()

	select {
	case it := <-m.out:
		return m.accept(it)

	case <-timer.C:
		// a timed-out wait is the only place the flag is polled, keeping
		// the fast path free of extra overhead
		if m.flag.isTripped() {
			m.panicked = true
			m.raise()
		}
		return v, false, false

	case <-m.workersDone:
		// workers can exit normally with results still buffered; drain
		// those before deciding anything
		select {
		case it := <-m.out:
			return m.accept(it)
		default:
		}
		if m.flag.isTripped() {
			m.panicked = true
			m.raise()
		}
		// every worker exited, results are still owed, no panic recorded:
		// the bookkeeping invariant is broken
		m.panicked = true
		panic(ErrPipelineBroken)
	}
}

// accept routes one received result: deliver if it is the one the consumer
// is waiting for, park it otherwise. Out of order strictly means "arrived
// before an earlier index" -- indices are unique by construction.
func (m *ParallelMap[I, O]) accept(it seqItem[O]) (v O, ok, delivered bool) {
	if it.idx == m.nextRx {
		m.nextRx++
		m.pump()
		return it.val, true, true
	}
	m.pending[it.idx] = it.val
	return v, false, false
}

func (m *ParallelMap[I, O]) raise() {
	if v := m.flag.recorded(); v != nil {
		panic(&WorkerPanicError{Value: v})
	}
	panic(ErrPipelineBroken)
}

// Close abandons the pipeline before exhaustion: intake stops, workers
// discard in-flight sends and exit once they drain the input channel. No
// running transform is interrupted. Idempotent; Next returns false after
// Close. Exhausted pipelines do not need closing, but it is harmless.
func (m *ParallelMap[I, O]) Close() {
	m.closeOnce.Do(func() {
		m.closed = true
		if !m.started {
			m.started = true // a closed engine can no longer start
			return
		}
		close(m.abandoned)
		if !m.srcDone {
			m.srcDone = true
			close(m.in)
		}
	})
}

// All exposes the stage as an iter.Seq for use with for-range. The engine
// is closed when the loop finishes, including on early break.
func (m *ParallelMap[I, O]) All() iter.Seq[O] {
	return func(yield func(O) bool) {
		defer m.Close()
		for {
			v, ok := m.Next()
			if !ok {
				return
			}
			if !yield(v) {
				return
			}
		}
	}
}
