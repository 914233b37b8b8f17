package executor

// NewSpawn returns an Executor that runs every submission on its own
// detached goroutine. Submitted closures must not capture data whose owner
// may go away before the closure returns; use Scope for that.
func NewSpawn() Executor { return spawn{} }

type spawn struct{}

func (spawn) Submit(f func()) Handle {
	go f()
	return nil
}
