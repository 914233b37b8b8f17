package executor

import "sync"

// NewFixed returns an Executor backed by at most capacity long-lived
// goroutines. Goroutines are created on demand, up to the cap; once all of
// them are busy, Submit blocks until one frees up.
//
// A pipeline engine submits one long-running worker body per configured
// thread, so capacity must be at least the sum of the worker counts of all
// engines sharing the pool or Submit (and therefore engine startup) will
// stall. Close the pool once every engine using it has finished.
func NewFixed(capacity uint) *Fixed {
	return &Fixed{
		queue: make(chan func()),
		slots: make(chan struct{}, capacity),
	}
}

// Fixed is a fixed-capacity pool executor.
type Fixed struct {
	queue chan func()
	slots chan struct{} // one token per started goroutine

	closeOnce sync.Once
}

// Submit hands f to an idle pool goroutine, starting a new one while the
// pool is below capacity. Blocks while all goroutines are busy.
func (p *Fixed) Submit(f func()) Handle {
	select {
	case p.slots <- struct{}{}:
		go p.run()
	default:
		// at capacity; an existing goroutine will pick it up
	}
	p.queue <- f
	return nil
}

func (p *Fixed) run() {
	for f := range p.queue {
		f()
	}
}

// Close shuts the pool down. Pending submissions already picked up keep
// running; Submit must not be called after Close.
func (p *Fixed) Close() {
	p.closeOnce.Do(func() { close(p.queue) })
}
