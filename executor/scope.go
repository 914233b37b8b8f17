package executor

import "sync"

// Scope is an Executor whose submissions are joined before the owning
// lexical scope exits: the caller runs Wait (typically deferred) after all
// engines using the scope have been closed or exhausted. Because every
// submitted goroutine is guaranteed to finish before Wait returns,
// closures may safely capture data owned by the calling context.
//
// Engines must be exhausted or explicitly closed before Wait, otherwise
// their workers never exit and Wait blocks forever.
type Scope struct {
	wg sync.WaitGroup
}

// NewScope returns an empty scope.
func NewScope() *Scope { return &Scope{} }

// Submit schedules f on a goroutine tracked by the scope.
func (s *Scope) Submit(f func()) Handle {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		f()
	}()
	return nil
}

// Wait blocks until every submitted goroutine has returned.
func (s *Scope) Wait() { s.wg.Wait() }

// WithScope runs fn with a fresh scope and joins it before returning.
// The join happens even if fn panics.
func WithScope(fn func(*Scope)) {
	s := NewScope()
	defer s.Wait()
	fn(s)
}
