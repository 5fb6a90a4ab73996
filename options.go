package intertext

import (
	"log/slog"
	"runtime"

	"github.com/hupe1980/intertext/distance"
	"github.com/hupe1980/intertext/model"
)

type options struct {
	numShards        int
	metricsCollector MetricsCollector
	logger           *Logger
	corpus           []*model.Text
	metrics          map[string]distance.Metric
}

// Option configures a Searcher.
type Option func(*options)

// WithNumShards configures the number of feature shards and workers used
// for matrix construction, candidate generation and scoring.
//
// Results do not depend on the shard count.
// If numShards <= 1, every phase runs on the calling goroutine.
func WithNumShards(numShards int) Option {
	return func(o *options) {
		o.numShards = numShards
	}
}

// WithCorpus adds texts to the corpus frequency basis. They take part in
// stoplist and scoring frequencies when the respective basis is "corpus",
// but are never matched.
func WithCorpus(texts ...*model.Text) Option {
	return func(o *options) {
		o.corpus = append(o.corpus, texts...)
	}
}

// WithMetric makes m available to this Searcher under m.Name(), in
// addition to the globally registered metrics. It shadows a global metric
// of the same name.
func WithMetric(m distance.Metric) Option {
	return func(o *options) {
		if m == nil {
			return
		}
		if o.metrics == nil {
			o.metrics = make(map[string]distance.Metric)
		}
		o.metrics[m.Name()] = m
	}
}

// WithMetricsCollector configures a metrics collector for monitoring searches.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &intertext.BasicMetricsCollector{}
//	s := intertext.New(intertext.WithMetricsCollector(metrics))
//	// ... run searches ...
//	stats := metrics.GetStats()
//	fmt.Printf("Searches: %d, Avg latency: %dns\n", stats.SearchCount, stats.SearchAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := intertext.NewJSONLogger(slog.LevelInfo)
//	s := intertext.New(intertext.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		numShards:        runtime.GOMAXPROCS(0),
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.metricsCollector == nil {
		o.metricsCollector = NoopMetricsCollector{}
	}
	if o.logger == nil {
		o.logger = NoopLogger()
	}
	return o
}
