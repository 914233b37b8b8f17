package parstream

import (
	"errors"
	"fmt"
)

const Namespace = "parstream"

var (
	// ErrAlreadyStarted is the panic value used when an engine is
	// reconfigured after its first pull (or explicit Start). Reconfiguring
	// a running engine is a programming error, not a recoverable condition.
	ErrAlreadyStarted = errors.New(
		Namespace + ": engine already started; configuration is only valid before the first pull",
	)

	// ErrWorkerPanicked marks fatal pipeline failures caused by a panic in a
	// user-supplied transform or predicate. Match with errors.Is against the
	// *WorkerPanicError raised by the consuming pull.
	ErrWorkerPanicked = errors.New(Namespace + ": worker panicked")

	// ErrPipelineBroken is the panic value used when every worker has exited
	// while results are still owed and no panic was recorded. This should be
	// unreachable if the submission/result bookkeeping is intact.
	ErrPipelineBroken = errors.New(
		Namespace + ": workers exited with results still owed and no panic recorded",
	)

	ErrInvalidConfig = errors.New(Namespace + ": invalid configuration")
)

// WorkerPanicError is raised (via panic) by the consuming pull once a worker
// failure has been detected. Value carries the worker's original panic value.
type WorkerPanicError struct {
	Value any
}

func (e *WorkerPanicError) Error() string {
	return fmt.Sprintf("%s: worker panicked: %v", Namespace, e.Value)
}

func (e *WorkerPanicError) Unwrap() error { return ErrWorkerPanicked }

func (e *WorkerPanicError) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v':
		if s.Flag('+') {
			_, _ = fmt.Fprintf(s, "%s: worker panicked: %+v", Namespace, e.Value)
			return
		}
		fallthrough
	case 's':
		_, _ = fmt.Fprint(s, e.Error())
	case 'q':
		_, _ = fmt.Fprintf(s, "%q", e.Error())
	}
}
