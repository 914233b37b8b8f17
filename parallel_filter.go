package parstream

import (
	"iter"

	"github.com/ygrebnov/parstream/executor"
)

// verdict carries an item together with its predicate outcome through the
// underlying map stage. Items voted out still occupy their sequence slot,
// which is what preserves relative order for the survivors.
type verdict[T any] struct {
	val  T
	keep bool
}

// ParallelFilter evaluates pred concurrently on multiple workers and yields
// the items for which it returns true, preserving relative order. It is
// built entirely atop ParallelMap and inherits its ordering, backpressure
// and failure semantics; all configuration passes through unchanged.
//
// pred is called concurrently from multiple goroutines and must be safe to
// share.
type ParallelFilter[T any] struct {
	inner *ParallelMap[T, verdict[T]]
}

// NewParallelFilter creates an ordered parallel filter stage over src.
// It does not start any goroutine; see Start and Next.
func NewParallelFilter[T any](src Iterator[T], pred func(T) bool, opts ...Option) (*ParallelFilter[T], error) {
	inner, err := NewParallelMap(src, func(v T) verdict[T] {
		return verdict[T]{val: v, keep: pred(v)}
	}, opts...)
	if err != nil {
		return nil, err
	}
	return &ParallelFilter[T]{inner: inner}, nil
}

// Threads sets the worker count. Panics with ErrAlreadyStarted after start.
func (f *ParallelFilter[T]) Threads(n uint) *ParallelFilter[T] {
	f.inner.Threads(n)
	return f
}

// MaxInFlight bounds the number of outstanding items. Panics with
// ErrAlreadyStarted after start.
func (f *ParallelFilter[T]) MaxInFlight(n uint) *ParallelFilter[T] {
	f.inner.MaxInFlight(n)
	return f
}

// Via swaps in a different executor. Panics with ErrAlreadyStarted after
// start.
func (f *ParallelFilter[T]) Via(e executor.Executor) *ParallelFilter[T] {
	f.inner.Via(e)
	return f
}

// Start spawns the workers eagerly. Idempotent.
func (f *ParallelFilter[T]) Start() { f.inner.Start() }

// Next returns the next surviving item in input order, skipping items the
// predicate rejected.
func (f *ParallelFilter[T]) Next() (T, bool) {
	for {
		v, ok := f.inner.Next()
		if !ok {
			var zero T
			return zero, false
		}
		if v.keep {
			return v.val, true
		}
	}
}

// Close abandons the pipeline before exhaustion. Idempotent.
func (f *ParallelFilter[T]) Close() { f.inner.Close() }

// All exposes the stage as an iter.Seq; the engine is closed when the loop
// finishes, including on early break.
func (f *ParallelFilter[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		defer f.Close()
		for {
			v, ok := f.Next()
			if !ok {
				return
			}
			if !yield(v) {
				return
			}
		}
	}
}
