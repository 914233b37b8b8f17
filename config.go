package parstream

import (
	"runtime"

	"github.com/ygrebnov/errorc"
	"github.com/ygrebnov/parstream/executor"
)

// config holds engine configuration shared by ParallelMap, ParallelFilter
// and Readahead.
type config struct {
	// Threads defines the number of workers a ParallelMap/ParallelFilter
	// engine spawns. Zero (default) means autodetect from the number of
	// available CPUs, with a minimum of one.
	Threads uint

	// MaxInFlight bounds how many items may be submitted to workers but not
	// yet returned to the consumer. Zero (default) derives the window from
	// the worker count (2*Threads). The effective value is never below one.
	MaxInFlight uint

	// BufferSize defines the Readahead channel capacity. Zero (default)
	// requests rendezvous buffering: the producer hands items to the
	// consumer one at a time. Large values only smooth out upstream
	// variance at the cost of memory.
	BufferSize uint

	// Executor submits worker bodies. Defaults to a detached
	// goroutine-per-worker spawn. Use executor.Scope to bind workers to a
	// lexical scope when the transform captures caller-owned data.
	Executor executor.Executor
}

// defaultConfig centralizes default values for config.
// These defaults are applied by every engine constructor before options run.
func defaultConfig() config {
	return config{
		Threads:     0, // autodetect
		MaxInFlight: 0, // 2 * effective thread count
		BufferSize:  0, // rendezvous
		Executor:    executor.NewSpawn(),
	}
}

// validateConfig performs lightweight invariants checks.
// Zero values are meaningful everywhere (autodetect/derived/rendezvous), so
// the only hard requirement is a usable executor.
func validateConfig(cfg *config) error {
	if cfg.Executor == nil {
		return errorc.With(ErrInvalidConfig, errorc.String("", "executor must not be nil"))
	}
	return nil
}

// effectiveThreads resolves the configured worker count: zero autodetects
// from the CPU count; the result is never below one.
func effectiveThreads(configured uint) int {
	n := int(configured)
	if n == 0 {
		n = runtime.NumCPU()
	}
	if n < 1 {
		n = 1
	}
	return n
}

// effectiveWindow resolves the in-flight window: zero derives 2*threads;
// the result is never below one.
func effectiveWindow(configured uint, threads int) uint64 {
	n := uint64(configured)
	if n == 0 {
		n = uint64(threads) * 2
	}
	if n < 1 {
		n = 1
	}
	return n
}

// Option configures an engine at construction time.
// Options run before the engine starts; invalid input is reported as an
// error from the constructor instead of a panic.
type Option func(*config) error

// WithThreads sets the worker count for ParallelMap/ParallelFilter.
// Zero means autodetect from the number of available CPUs.
func WithThreads(n uint) Option {
	return func(cfg *config) error { cfg.Threads = n; return nil }
}

// WithMaxInFlight bounds the number of outstanding items for
// ParallelMap/ParallelFilter. Zero derives the bound from the worker count.
// Requested values are coerced up to a minimum of one at start.
func WithMaxInFlight(n uint) Option {
	return func(cfg *config) error { cfg.MaxInFlight = n; return nil }
}

// WithBufferSize sets the Readahead channel capacity.
// Zero requests rendezvous buffering, which is the recommended value in
// normal circumstances.
func WithBufferSize(n uint) Option {
	return func(cfg *config) error { cfg.BufferSize = n; return nil }
}

// WithExecutor selects the executor that runs engine workers.
func WithExecutor(e executor.Executor) Option {
	return func(cfg *config) error {
		if e == nil {
			return errorc.With(ErrInvalidConfig, errorc.String("", "WithExecutor requires a non-nil executor"))
		}
		cfg.Executor = e
		return nil
	}
}

// applyOptions assembles a config from defaults plus the given options.
// Nil options are skipped.
func applyOptions(opts []Option) (config, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return cfg, err
		}
	}
	if err := validateConfig(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
