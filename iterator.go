package parstream

import "iter"

// Iterator is the pull contract every pipeline stage consumes and
// implements: Next returns the next item and true, or the zero value and
// false once the sequence is exhausted. After returning false, further
// calls keep returning false.
//
// Iterators are single-consumer and not safe for concurrent use.
type Iterator[T any] interface {
	Next() (T, bool)
}

// FromSlice returns an Iterator yielding the elements of s in order.
func FromSlice[T any](s []T) Iterator[T] {
	return &sliceIterator[T]{s: s}
}

type sliceIterator[T any] struct {
	s []T
	i int
}

func (it *sliceIterator[T]) Next() (T, bool) {
	if it.i >= len(it.s) {
		var zero T
		return zero, false
	}
	v := it.s[it.i]
	it.i++
	return v, true
}

// FromFunc adapts a pull function to an Iterator.
// The function must keep returning false once exhausted.
func FromFunc[T any](fn func() (T, bool)) Iterator[T] { return funcIterator[T](fn) }

type funcIterator[T any] func() (T, bool)

func (fn funcIterator[T]) Next() (T, bool) { return fn() }

// FromChan returns an Iterator that receives from ch until it is closed.
func FromChan[T any](ch <-chan T) Iterator[T] {
	return funcIterator[T](func() (T, bool) {
		v, ok := <-ch
		return v, ok
	})
}

// FromSeq adapts an iter.Seq to an Iterator. The returned iterator owns the
// underlying pull handle; call Close to release it before exhaustion.
func FromSeq[T any](seq iter.Seq[T]) *SeqIterator[T] {
	next, stop := iter.Pull(seq)
	return &SeqIterator[T]{next: next, stop: stop}
}

// SeqIterator is the Iterator form of an iter.Seq.
type SeqIterator[T any] struct {
	next func() (T, bool)
	stop func()
}

func (it *SeqIterator[T]) Next() (T, bool) { return it.next() }

// Close releases the underlying sequence. Safe to call multiple times.
func (it *SeqIterator[T]) Close() { it.stop() }

// Range returns an Iterator yielding the integers [start, end).
func Range(start, end int) Iterator[int] {
	i := start
	return funcIterator[int](func() (int, bool) {
		if i >= end {
			return 0, false
		}
		v := i
		i++
		return v, true
	})
}

// Collect drains it into a slice.
func Collect[T any](it Iterator[T]) []T {
	var out []T
	for {
		v, ok := it.Next()
		if !ok {
			return out
		}
		out = append(out, v)
	}
}

// Values exposes it as an iter.Seq usable with for-range.
func Values[T any](it Iterator[T]) iter.Seq[T] {
	return func(yield func(T) bool) {
		for {
			v, ok := it.Next()
			if !ok {
				return
			}
			if !yield(v) {
				return
			}
		}
	}
}
