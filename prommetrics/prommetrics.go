// Package prommetrics exports search metrics to Prometheus.
//
//	reg := prometheus.NewRegistry()
//	c, err := prommetrics.New(reg)
//	s := intertext.New(intertext.WithMetricsCollector(c))
//	http.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
package prommetrics

import (
	"time"

	"github.com/hupe1980/intertext"
	"github.com/prometheus/client_golang/prometheus"
)

// DefaultNamespace prefixes every metric name.
const DefaultNamespace = "intertext"

var _ intertext.MetricsCollector = (*Collector)(nil)

// Collector implements intertext.MetricsCollector.
type Collector struct {
	searchLatency *prometheus.HistogramVec
	stageLatency  *prometheus.HistogramVec
	candidates    prometheus.Histogram
	matches       prometheus.Histogram
	searches      *prometheus.CounterVec
}

// Option configures a Collector.
type Option func(*options)

type options struct {
	namespace string
	buckets   []float64
}

// WithNamespace overrides DefaultNamespace.
func WithNamespace(ns string) Option {
	return func(o *options) { o.namespace = ns }
}

// WithBuckets sets the latency histogram buckets, in seconds.
func WithBuckets(b []float64) Option {
	return func(o *options) { o.buckets = b }
}

// New creates a Collector and registers it with reg.
func New(reg prometheus.Registerer, optFns ...Option) (*Collector, error) {
	opts := options{
		namespace: DefaultNamespace,
		buckets:   prometheus.DefBuckets,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	c := &Collector{
		searchLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: opts.namespace,
			Name:      "search_duration_seconds",
			Help:      "Latency of searches",
			Buckets:   opts.buckets,
		}, []string{"status"}),
		stageLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: opts.namespace,
			Name:      "stage_duration_seconds",
			Help:      "Latency of search stages",
			Buckets:   opts.buckets,
		}, []string{"stage"}),
		candidates: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: opts.namespace,
			Name:      "search_candidates",
			Help:      "Candidate pairs scored per search",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
		}),
		matches: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: opts.namespace,
			Name:      "search_matches",
			Help:      "Matches returned per search",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
		}),
		searches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: opts.namespace,
			Name:      "searches_total",
			Help:      "Total searches",
		}, []string{"status"}),
	}

	if reg != nil {
		for _, col := range []prometheus.Collector{c.searchLatency, c.stageLatency, c.candidates, c.matches, c.searches} {
			if err := reg.Register(col); err != nil {
				return nil, err
			}
		}
	}
	return c, nil
}

// MustNew is like New but panics on registration errors.
func MustNew(reg prometheus.Registerer, optFns ...Option) *Collector {
	c, err := New(reg, optFns...)
	if err != nil {
		panic(err)
	}
	return c
}

// RecordSearch implements intertext.MetricsCollector.
func (c *Collector) RecordSearch(d time.Duration, candidates, matches int, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	c.searchLatency.WithLabelValues(status).Observe(d.Seconds())
	c.searches.WithLabelValues(status).Inc()
	if err != nil {
		return
	}
	c.candidates.Observe(float64(candidates))
	c.matches.Observe(float64(matches))
}

// RecordStage implements intertext.MetricsCollector.
func (c *Collector) RecordStage(stage string, d time.Duration) {
	c.stageLatency.WithLabelValues(stage).Observe(d.Seconds())
}
