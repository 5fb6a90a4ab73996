package jobs

import (
	"runtime"

	"github.com/hupe1980/intertext"
)

type options struct {
	workers       int
	capacity      int
	submitsPerSec float64
	submitBurst   int
	tokenBudget   int64
	sink          StatusSink
	onResult      ResultHandler
	logger        *intertext.Logger
}

// Option configures a Queue.
type Option func(*options)

// WithWorkers sets the number of concurrently running searches.
// Default: runtime.GOMAXPROCS(0).
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = n }
}

// WithCapacity sets the number of queued requests Submit accepts without blocking.
func WithCapacity(n int) Option {
	return func(o *options) { o.capacity = n }
}

// WithRateLimit limits submissions to perSec with the given burst.
func WithRateLimit(perSec float64, burst int) Option {
	return func(o *options) {
		o.submitsPerSec = perSec
		o.submitBurst = burst
	}
}

// WithTokenBudget bounds the summed tokens of concurrently admitted searches.
func WithTokenBudget(n int64) Option {
	return func(o *options) { o.tokenBudget = n }
}

// WithStatusSink forwards every status change to sink.
func WithStatusSink(sink StatusSink) Option {
	return func(o *options) { o.sink = sink }
}

// WithResultHandler receives successful searches.
func WithResultHandler(h ResultHandler) Option {
	return func(o *options) { o.onResult = h }
}

// WithLogger sets the logger.
func WithLogger(l *intertext.Logger) Option {
	return func(o *options) { o.logger = l }
}

func applyOptions(optFns []Option) options {
	o := options{
		workers:  runtime.GOMAXPROCS(0),
		capacity: 64,
		logger:   intertext.NoopLogger(),
	}
	for _, fn := range optFns {
		fn(&o)
	}
	if o.workers <= 0 {
		o.workers = 1
	}
	if o.capacity < 0 {
		o.capacity = 0
	}
	if o.logger == nil {
		o.logger = intertext.NoopLogger()
	}
	return o
}
