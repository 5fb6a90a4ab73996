package intertext

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with intertext-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithTexts adds the source and target text ids to the logger.
func (l *Logger) WithTexts(source, target string) *Logger {
	return &Logger{
		Logger: l.Logger.With("source", source, "target", target),
	}
}

// WithParams adds the main search parameters to the logger.
func (l *Logger) WithParams(p Params) *Logger {
	return &Logger{
		Logger: l.Logger.With(
			"unit", p.UnitType,
			"feature", p.FeatureType,
			"metric", p.DistanceMetric,
		),
	}
}

// WithID adds a match set or job id to the logger.
func (l *Logger) WithID(id string) *Logger {
	return &Logger{
		Logger: l.Logger.With("id", id),
	}
}

// LogStoplist logs the computed stoplist.
func (l *Logger) LogStoplist(ctx context.Context, requested, size int, basis string) {
	l.DebugContext(ctx, "stoplist built",
		"requested", requested,
		"size", size,
		"basis", basis,
	)
}

// LogCandidates logs the candidate generation phase.
func (l *Logger) LogCandidates(ctx context.Context, shared, touched, candidates int) {
	l.DebugContext(ctx, "candidates generated",
		"shared_features", shared,
		"touched_pairs", touched,
		"candidates", candidates,
	)
}

// LogSearch logs a search operation.
func (l *Logger) LogSearch(ctx context.Context, candidates, matches int, elapsed time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "search failed",
			"candidates", candidates,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "search completed",
			"candidates", candidates,
			"matches", matches,
			"elapsed", elapsed,
		)
	}
}
