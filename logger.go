package walkgen

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with walkgen-specific helpers.
// Field names are consistent across all log lines.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses a text handler to stderr at Info level.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	return &Logger{Logger: slog.New(handler)}
}

// NewJSONLogger creates a Logger that writes JSON to stderr.
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// NewTextLogger creates a Logger that writes human-readable text to stderr.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// NoopLogger creates a Logger that discards all output.
func NoopLogger() *Logger {
	return NewLogger(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(1000)}))
}

// WithPolicy adds the walk policy name.
func (l *Logger) WithPolicy(name string) *Logger {
	return &Logger{Logger: l.Logger.With("policy", name)}
}

// WithGraph adds a graph identifier, typically the input blob name.
func (l *Logger) WithGraph(name string) *Logger {
	return &Logger{Logger: l.Logger.With("graph", name)}
}

// LogGraphLoaded logs the shape of the graph a generator was built on.
func (l *Logger) LogGraphLoaded(ctx context.Context, nodes, edges, valid int, weighted, directed bool) {
	l.InfoContext(ctx, "graph loaded",
		"nodes", nodes,
		"edges", edges,
		"valid_nodes", valid,
		"weighted", weighted,
		"directed", directed,
	)
}

// LogRefill logs one ring buffer refill.
func (l *Logger) LogRefill(ctx context.Context, span, shards int, d time.Duration) {
	l.DebugContext(ctx, "buffer refilled",
		"rows", span,
		"shards", shards,
		"duration", d,
	)
}

// LogBatch logs a NextBatch call.
func (l *Logger) LogBatch(ctx context.Context, size int, epoch, total int64, err error) {
	if err != nil {
		l.ErrorContext(ctx, "batch failed",
			"size", size,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "batch served",
		"size", size,
		"epoch", epoch,
		"total", total,
	)
}

// LogEpoch logs that the epoch counter advanced.
func (l *Logger) LogEpoch(ctx context.Context, epoch, total int64) {
	l.InfoContext(ctx, "epoch completed",
		"epoch", epoch,
		"total", total,
	)
}
