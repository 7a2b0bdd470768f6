package ifcgo

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with ifcgo-specific helpers so that every
// component logs with the same field names.
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

// NewJSONLogger creates a Logger that outputs JSON-formatted logs to stderr.
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NewTextLogger creates a Logger that outputs human-readable text logs to stderr.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return NewLogger(slog.NewTextHandler(io.Discard, nil))
}

// WithFile adds a file field to the logger.
func (l *Logger) WithFile(path string) *Logger {
	return &Logger{
		Logger: l.Logger.With("file", path),
	}
}

// WithKey adds a cache key field to the logger.
func (l *Logger) WithKey(key string) *Logger {
	return &Logger{
		Logger: l.Logger.With("key", key),
	}
}

// WithPhase adds a phase field to the logger.
func (l *Logger) WithPhase(phase string) *Logger {
	return &Logger{
		Logger: l.Logger.With("phase", phase),
	}
}

// LogParse logs a finished or failed parse.
func (l *Logger) LogParse(ctx context.Context, size, entities int, elapsed time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "parse failed",
			"bytes", size,
			"elapsed", elapsed,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "parse completed",
		"bytes", size,
		"entities", entities,
		"elapsed", elapsed,
	)
}

// LogPhase logs the duration of one pipeline phase.
func (l *Logger) LogPhase(ctx context.Context, phase string, elapsed time.Duration) {
	l.DebugContext(ctx, "phase completed",
		"phase", phase,
		"elapsed", elapsed,
	)
}

// LogCacheWrite logs a cache write.
func (l *Logger) LogCacheWrite(ctx context.Context, key string, size int64, err error) {
	if err != nil {
		l.ErrorContext(ctx, "cache write failed",
			"key", key,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "cache written",
		"key", key,
		"bytes", size,
	)
}

// LogCacheRead logs a cache read. A miss is not an error.
func (l *Logger) LogCacheRead(ctx context.Context, key string, hit bool, err error) {
	switch {
	case err != nil:
		l.WarnContext(ctx, "cache read failed",
			"key", key,
			"error", err,
		)
	case hit:
		l.InfoContext(ctx, "cache hit",
			"key", key,
		)
	default:
		l.DebugContext(ctx, "cache miss",
			"key", key,
		)
	}
}

// LogDiagnostics emits one summary record for the skipped records of a parse.
func (l *Logger) LogDiagnostics(ctx context.Context, d Diagnostics) {
	if d.Total() == 0 {
		return
	}
	l.WarnContext(ctx, "parse skipped records",
		"malformed_entity", d.MalformedEntity,
		"relationship_shape", d.RelationshipShape,
		"property_set_missing_name", d.PropertySetMissingName,
		"quantity_set_missing_name", d.QuantitySetMissingName,
		"invalid_property_name", d.InvalidPropertyName,
		"malformed_member", d.MalformedMember,
		"unsupported_property", d.UnsupportedProperty,
	)
}
