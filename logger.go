package hmmgo

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with hmmgo-specific context.
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

// LogRunStart logs the start of a search run.
func (l *Logger) LogRunStart(ctx context.Context, mode string, workers int) {
	l.DebugContext(ctx, "run started",
		"mode", mode,
		"workers", workers,
	)
}

// LogQuery logs one completed query.
func (l *Logger) LogQuery(ctx context.Context, query string, hits int, duration time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "query failed",
			"query", query,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "query completed",
			"query", query,
			"hits", hits,
			"duration", duration,
		)
	}
}

// LogRunEnd logs the end of a search run.
func (l *Logger) LogRunEnd(ctx context.Context, mode string, queries int, duration time.Duration) {
	l.DebugContext(ctx, "run completed",
		"mode", mode,
		"queries", queries,
		"duration", duration,
	)
}
