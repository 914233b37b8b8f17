package parstream

import (
	"sync"
	"sync/atomic"
)

// panicFlag is shared by reference between an engine and all of its workers.
// It starts clear and is set at most once, by abnormal worker termination;
// it is never reset. The first recorded panic value wins and is published
// before the flag becomes observable, so a reader that sees the flag set is
// guaranteed to see the value.
type panicFlag struct {
	tripped atomic.Bool

	mu    sync.Mutex
	value any
}

func (f *panicFlag) trip(v any) {
	f.mu.Lock()
	if !f.tripped.Load() {
		f.value = v
	}
	f.mu.Unlock()
	f.tripped.Store(true)
}

func (f *panicFlag) isTripped() bool { return f.tripped.Load() }

func (f *panicFlag) recorded() any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.value
}

// panicGuard detects abnormal worker termination. A worker defers release
// and calls disarm as the last statement of a normal run; if release fires
// while still armed, or while the goroutine is unwinding, the shared flag
// is set.
//
// release must be deferred directly by the worker body: it calls recover,
// which only intercepts a panic when invoked from the deferred function
// itself. Recovering here keeps the process alive (an unhandled goroutine
// panic would otherwise kill it) and preserves the panic value so the
// consuming pull can re-raise it.
type panicGuard struct {
	flag  *panicFlag
	armed bool
}

func newPanicGuard(flag *panicFlag) *panicGuard {
	return &panicGuard{flag: flag, armed: true}
}

// disarm marks the worker as having completed normally.
func (g *panicGuard) disarm() { g.armed = false }

// release fires the guard. Must be deferred by the worker body.
func (g *panicGuard) release() {
	if r := recover(); r != nil {
		g.flag.trip(r)
		return
	}
	if g.armed {
		// no panic in flight, but the loop never reached disarm
		g.flag.trip(ErrPipelineBroken)
	}
}
