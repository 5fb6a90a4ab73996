package intertext

import (
	"sync"
	"sync/atomic"
	"time"
)

// Search stages reported through MetricsCollector.RecordStage.
const (
	StageFrequency = "frequency"
	StageStoplist  = "stoplist"
	StageMatrix    = "matrix"
	StageCandidate = "candidate"
	StageScore     = "score"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems; the
// prommetrics package provides a Prometheus implementation.
type MetricsCollector interface {
	// RecordSearch is called after each search. candidates is the number of
	// pairs that reached scoring, matches the number returned, err is nil if
	// successful.
	RecordSearch(duration time.Duration, candidates, matches int, err error)

	// RecordStage is called after each completed stage of a search.
	RecordStage(stage string, duration time.Duration)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordSearch(time.Duration, int, int, error) {}
func (NoopMetricsCollector) RecordStage(string, time.Duration)           {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	SearchCount      atomic.Int64
	SearchErrors     atomic.Int64
	SearchTotalNanos atomic.Int64
	CandidateCount   atomic.Int64
	MatchCount       atomic.Int64

	stages sync.Map // stage -> *atomic.Int64 (total nanos)
}

// RecordSearch implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSearch(duration time.Duration, candidates, matches int, err error) {
	b.SearchCount.Add(1)
	b.SearchTotalNanos.Add(duration.Nanoseconds())
	b.CandidateCount.Add(int64(candidates))
	b.MatchCount.Add(int64(matches))
	if err != nil {
		b.SearchErrors.Add(1)
	}
}

// RecordStage implements MetricsCollector.
func (b *BasicMetricsCollector) RecordStage(stage string, duration time.Duration) {
	v, _ := b.stages.LoadOrStore(stage, new(atomic.Int64))
	v.(*atomic.Int64).Add(duration.Nanoseconds())
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	stats := BasicMetricsStats{
		SearchCount:    b.SearchCount.Load(),
		SearchErrors:   b.SearchErrors.Load(),
		SearchAvgNanos: b.getAvgSearchNanos(),
		CandidateCount: b.CandidateCount.Load(),
		MatchCount:     b.MatchCount.Load(),
		StageNanos:     make(map[string]int64),
	}
	b.stages.Range(func(k, v any) bool {
		stats.StageNanos[k.(string)] = v.(*atomic.Int64).Load()
		return true
	})
	return stats
}

func (b *BasicMetricsCollector) getAvgSearchNanos() int64 {
	count := b.SearchCount.Load()
	if count == 0 {
		return 0
	}
	return b.SearchTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	SearchCount    int64
	SearchErrors   int64
	SearchAvgNanos int64
	CandidateCount int64
	MatchCount     int64
	// StageNanos is the accumulated time per stage.
	StageNanos map[string]int64
}
