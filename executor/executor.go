// Package executor abstracts how pipeline engines run their workers.
//
// An Executor accepts a no-argument closure and returns an opaque handle
// the caller is free to ignore; engines hold no reference to it. Three
// providers are included:
//   - NewSpawn: a detached goroutine per submission (the default).
//   - Scope: submissions bound to a lexical scope joined via Wait,
//     permitting closures that capture caller-owned data.
//   - NewFixed: a fixed-size pool of long-lived goroutines.
package executor

// Executor submits a unit of work for asynchronous execution.
// Implementations must be safe for concurrent use.
type Executor interface {
	// Submit schedules f to run and returns an ignorable handle.
	// f runs exactly once; Submit never runs f synchronously.
	Submit(f func()) Handle
}

// Handle is an opaque token for a submitted unit of work.
// Engines ignore it; it exists so richer executors can expose completion
// or identity without widening the Executor interface.
type Handle interface{}
