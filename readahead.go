package parstream

import (
	"iter"
	"sync"

	"github.com/ygrebnov/parstream/executor"
)

// Readahead yields the upstream sequence unchanged, but pulls it on a
// dedicated background goroutine so upstream production can race ahead of
// consumption up to a bounded buffer. With a single producer forwarding in
// production order, no reassembly is needed.
//
// The upstream iterator is handed over to the background goroutine at
// start; the caller must not touch it afterward.
//
// Readahead is single-consumer and must not be copied after first use.
type Readahead[T any] struct {
	nc noCopy

	src Iterator[T]
	cfg config

	started  bool
	panicked bool
	closed   bool

	ch   chan T
	flag *panicFlag

	abandoned chan struct{}
	closeOnce sync.Once
}

// NewReadahead creates a readahead stage over src. It does not start any
// goroutine; see Start and Next. The buffer defaults to rendezvous
// (WithBufferSize(0)); large buffers only smooth out upstream variance at
// the cost of memory.
func NewReadahead[T any](src Iterator[T], opts ...Option) (*Readahead[T], error) {
	cfg, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}
	return &Readahead[T]{src: src, cfg: cfg}, nil
}

// BufferSize sets the channel capacity. Only valid before the engine has
// started; calling it afterward panics with ErrAlreadyStarted.
func (r *Readahead[T]) BufferSize(n uint) *Readahead[T] {
	if r.started {
		panic(ErrAlreadyStarted)
	}
	r.cfg.BufferSize = n
	return r
}

// Via swaps in a different executor. Only valid before the engine has
// started; calling it afterward panics with ErrAlreadyStarted.
func (r *Readahead[T]) Via(e executor.Executor) *Readahead[T] {
	if r.started {
		panic(ErrAlreadyStarted)
	}
	if e == nil {
		panic(ErrInvalidConfig)
	}
	r.cfg.Executor = e
	return r
}

// Start launches the background producer eagerly, without waiting for the
// first Next. Idempotent; Next calls it implicitly.
func (r *Readahead[T]) Start() {
	if r.started || r.closed {
		return
	}
	r.started = true

	// A requested size of 0 maps to an unbuffered channel, which is already
	// the strict rendezvous the minimal configuration asks for.
	r.ch = make(chan T, r.cfg.BufferSize)
	r.flag = &panicFlag{}
	r.abandoned = make(chan struct{})

	src := r.src
	r.src = nil // ownership moves to the producer
	ch := r.ch
	abandoned := r.abandoned
	flag := r.flag

	r.cfg.Executor.Submit(func() {
		defer close(ch) // runs after the guard, so a set flag is visible first
		g := newPanicGuard(flag)
		defer g.release()
		for {
			v, ok := src.Next() // may panic; the guard records it
			if !ok {
				break
			}
			select {
			case ch <- v:
			case <-abandoned:
				// consumer gone; stop early
				g.disarm()
				return
			}
		}
		g.disarm()
	})
}

// Next returns the next upstream item in production order. Once the channel
// is closed it distinguishes normal exhaustion from producer death: a set
// panic flag re-raises the producer's panic as a *WorkerPanicError,
// otherwise Next reports end of sequence, and keeps doing so.
func (r *Readahead[T]) Next() (T, bool) {
	var zero T
	if r.panicked {
		panic(&WorkerPanicError{Value: r.flag.recorded()})
	}
	if r.closed {
		return zero, false
	}
	if !r.started {
		r.Start()
	}

	v, ok := <-r.ch
	if ok {
		return v, true
	}
	if r.flag.isTripped() {
		r.panicked = true
		panic(&WorkerPanicError{Value: r.flag.recorded()})
	}
	return zero, false
}

// Close abandons the stage before exhaustion: the producer stops at its
// next send attempt. No in-flight upstream pull is interrupted. Idempotent;
// Next returns false after Close.
func (r *Readahead[T]) Close() {
	r.closeOnce.Do(func() {
		r.closed = true
		if !r.started {
			r.started = true // a closed engine can no longer start
			return
		}
		close(r.abandoned)
	})
}

// All exposes the stage as an iter.Seq; the engine is closed when the loop
// finishes, including on early break.
func (r *Readahead[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		defer r.Close()
		for {
			v, ok := r.Next()
			if !ok {
				return
			}
			if !yield(v) {
				return
			}
		}
	}
}
