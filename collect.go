package parstream

// MapSlice applies fn to every element of items concurrently and returns
// the results in input order. It constructs a ParallelMap, drives it to
// exhaustion and closes it. A non-nil error is only returned for invalid
// options; a panicking fn propagates as usual.
func MapSlice[I, O any](items []I, fn func(I) O, opts ...Option) ([]O, error) {
	if len(items) == 0 {
		return nil, nil
	}
	m, err := NewParallelMap(FromSlice(items), fn, opts...)
	if err != nil {
		return nil, err
	}
	defer m.Close()
	out := make([]O, 0, len(items))
	for {
		v, ok := m.Next()
		if !ok {
			return out, nil
		}
		out = append(out, v)
	}
}

// FilterSlice evaluates pred on every element of items concurrently and
// returns the survivors in input order.
func FilterSlice[T any](items []T, pred func(T) bool, opts ...Option) ([]T, error) {
	if len(items) == 0 {
		return nil, nil
	}
	f, err := NewParallelFilter(FromSlice(items), pred, opts...)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var out []T
	for {
		v, ok := f.Next()
		if !ok {
			return out, nil
		}
		out = append(out, v)
	}
}

// ForEach applies fn to every element of items concurrently, discarding
// results. Completion order is unspecified internally, but fn has been
// called exactly once per item when ForEach returns.
func ForEach[T any](items []T, fn func(T), opts ...Option) error {
	_, err := MapSlice(items, func(v T) struct{} {
		fn(v)
		return struct{}{}
	}, opts...)
	return err
}
