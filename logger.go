package orbmatch

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with orbmatch-specific context.
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
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	return NewLogger(slog.DiscardHandler)
}

// WithCategory adds a category field to the logger.
func (l *Logger) WithCategory(category string) *Logger {
	return &Logger{
		Logger: l.Logger.With("category", category),
	}
}

// WithTemplate adds a template field to the logger.
func (l *Logger) WithTemplate(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("template", name),
	}
}

// LogMatch logs a single match operation.
func (l *Logger) LogMatch(ctx context.Context, category string, queryLen, results int, d time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "match failed",
			"category", category,
			"descriptors", queryLen,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "match completed",
		"category", category,
		"descriptors", queryLen,
		"results", results,
		"duration", d,
	)
}

// LogBatch logs a batch of matches.
func (l *Logger) LogBatch(ctx context.Context, category string, count, failed int, d time.Duration) {
	if failed > 0 {
		l.WarnContext(ctx, "batch completed with failures",
			"category", category,
			"total", count,
			"failed", failed,
			"duration", d,
		)
		return
	}
	l.DebugContext(ctx, "batch completed",
		"category", category,
		"count", count,
		"duration", d,
	)
}

// LogWarmup logs the outcome of a warmup.
func (l *Logger) LogWarmup(ctx context.Context, categories int, d time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "warmup failed",
			"categories", categories,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "warmup completed",
		"categories", categories,
		"duration", d,
	)
}
