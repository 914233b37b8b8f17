// Package parstream provides iterator-pipeline stages that run sequential
// computation across multiple goroutines while preserving input order,
// applying backpressure, and surfacing worker failures to the consumer.
//
// Stages
//   - ParallelMap: applies a transform concurrently on N workers and yields
//     results in the original input order.
//   - ParallelFilter: evaluates a predicate concurrently; survivors keep
//     their relative order. A thin wrapper around ParallelMap.
//   - Readahead: pulls the upstream iterator on a background goroutine so
//     production can race ahead of consumption up to a bounded buffer.
//
// Laziness
// No goroutine is spawned and no upstream item is pulled until the first
// Next call, or until an explicit Start. Once running, an engine eagerly
// keeps a bounded window of work in flight to hide latency.
//
// Ordering and backpressure
// Output order always equals input order. The number of items submitted to
// workers but not yet returned to the consumer never exceeds the in-flight
// window (default: twice the worker count). Bounded channels are the only
// synchronization between the engine and its workers; a producer that
// outpaces the consumer stalls instead of growing memory.
//
// Failure semantics
// A panic inside a user-supplied transform or predicate is fatal to the
// whole pipeline. The worker records the panic value on a shared flag and
// the consuming Next call re-raises it as a *WorkerPanicError once
// detected. Already-ordered results completed before the failure remain
// observable; there is no retry and no partial recovery.
//
// Executors
// Workers are submitted through the executor.Executor interface. The
// default spawns a detached goroutine per worker. executor.Scope binds
// workers to a lexical scope that is joined before the scope exits,
// allowing transforms to safely capture caller-owned data.
//
// Engines are single-consumer: Next, Start and Close must not be called
// concurrently. Abandoning a pipeline before exhaustion requires an
// explicit Close so workers can discard in-flight work and exit.
package parstream
