package gmmgo

import (
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with consistent field names for accumulation
// and reduction events.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a Logger with the given handler.
// If handler is nil, a text handler to stderr at Info level is used.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{Logger: slog.New(handler)}
}

// NewTextLogger creates a Logger that writes human-readable text to stderr.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// NewJSONLogger creates a Logger that writes JSON lines to stderr.
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// NoopLogger creates a Logger that discards all output.
func NoopLogger() *Logger {
	return &Logger{Logger: slog.New(slog.DiscardHandler)}
}

// WithModel tags the logger with the model's shape.
func (l *Logger) WithModel(kind string, components, dim int) *Logger {
	return &Logger{Logger: l.Logger.With(
		"kind", kind,
		"components", components,
		"dim", dim,
	)}
}

// WithBlocks tags the logger with a block count.
func (l *Logger) WithBlocks(blocks int) *Logger {
	return &Logger{Logger: l.Logger.With("blocks", blocks)}
}
