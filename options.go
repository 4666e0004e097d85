package gmmgo

import (
	"runtime"

	"github.com/hupe1980/gmmgo/footprint"
	"github.com/hupe1980/gmmgo/resource"
)

type options struct {
	parallel   bool
	workers    int
	budget     int64
	estimator  footprint.Estimator
	logger     *Logger
	controller *resource.Controller
}

func applyOptions(optFns []Option) options {
	o := options{
		workers:   runtime.GOMAXPROCS(0),
		budget:    footprint.DefaultBudgetBytes,
		estimator: footprint.Estimate,
		logger:    NoopLogger(),
	}
	for _, fn := range optFns {
		fn(&o)
	}
	if o.workers < 1 {
		o.workers = 1
	}
	return o
}

// Option configures a reduction.
type Option func(*options)

// WithParallel dispatches blocks (or dataset elements) to independent
// workers instead of folding them on the calling goroutine.
func WithParallel(parallel bool) Option {
	return func(o *options) { o.parallel = parallel }
}

// WithWorkers caps the number of concurrent workers used when parallel
// execution is enabled. Defaults to GOMAXPROCS.
func WithWorkers(workers int) Option {
	return func(o *options) { o.workers = workers }
}

// WithMemoryBudget sets the per-reduction byte budget the block planner
// splits against. The budget travels with the call; there is no
// process-global setting for concurrent callers to race on.
func WithMemoryBudget(bytes int64) Option {
	return func(o *options) { o.budget = bytes }
}

// WithEstimator replaces the footprint model used for block planning and
// controller reservations.
func WithEstimator(est footprint.Estimator) Option {
	return func(o *options) {
		if est != nil {
			o.estimator = est
		}
	}
}

// WithLogger attaches a logger to the reduction. Defaults to a no-op.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithController makes workers reserve their estimated footprint from a
// shared resource controller before accumulating, so concurrent
// reductions respect one process-wide budget.
func WithController(c *resource.Controller) Option {
	return func(o *options) { o.controller = c }
}
