package rangescan

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with rangescan-specific context.
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
func NoopLogger() *Logger {
	return NewLogger(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	}))
}

// WithBackend adds a backend field to the logger.
func (l *Logger) WithBackend(b Backend) *Logger {
	return &Logger{
		Logger: l.Logger.With("backend", b.String()),
	}
}

// WithRows adds a rows (row-set size) field to the logger.
func (l *Logger) WithRows(n int) *Logger {
	return &Logger{
		Logger: l.Logger.With("rows", n),
	}
}

// LogScan logs a scan operation. The backend field comes from WithBackend.
func (l *Logger) LogScan(ctx context.Context, rows, matched int, took time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "scan failed",
			"rows", rows,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "scan completed",
			"rows", rows,
			"matched", matched,
			"took", took,
		)
	}
}

// LogVerify logs a cross-backend verification. Callers attach the row-set
// size with WithRows.
func (l *Logger) LogVerify(ctx context.Context, r Report, err error) {
	if err != nil {
		l.WarnContext(ctx, "backend verification failed",
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "backends agree",
			"matched", r.Count,
		)
	}
}
