package diag

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with dci-specific log helpers so table lifecycle
// events share field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses a text handler to stderr at info level.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{Logger: slog.New(handler)}
}

// NewJSONLogger creates a Logger that writes JSON records to stderr.
func NewJSONLogger(level slog.Level) *Logger {
	return &Logger{Logger: slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))}
}

// NewTextLogger creates a Logger that writes human-readable records to stderr.
func NewTextLogger(level slog.Level) *Logger {
	return &Logger{Logger: slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))}
}

// NoopLogger creates a Logger that discards all output.
func NoopLogger() *Logger {
	return &Logger{Logger: slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.Level(1000),
	}))}
}

// WithTable adds a table name field to the logger.
func (l *Logger) WithTable(name string) *Logger {
	return &Logger{Logger: l.Logger.With("table", name)}
}

// LogSave logs a table persistence write.
func (l *Logger) LogSave(ctx context.Context, name string, records, columns int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "table save failed",
			"name", name,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "table saved",
		"name", name,
		"records", records,
		"columns", columns,
	)
}

// LogLoad logs a table persistence read.
func (l *Logger) LogLoad(ctx context.Context, name string, records, columns int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "table load failed",
			"name", name,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "table loaded",
		"name", name,
		"records", records,
		"columns", columns,
	)
}

// LogReDim logs a table resize.
func (l *Logger) LogReDim(ctx context.Context, records, columns int, err error) {
	if err != nil {
		l.WarnContext(ctx, "table redim failed",
			"records", records,
			"columns", columns,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "table redim completed",
		"records", records,
		"columns", columns,
	)
}

// LogAssign logs a deep copy between tables.
func (l *Logger) LogAssign(ctx context.Context, schemaOnly bool, err error) {
	if err != nil {
		l.WarnContext(ctx, "table assign failed",
			"schema_only", schemaOnly,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "table assign completed",
		"schema_only", schemaOnly,
	)
}

// LogDelete logs the removal of a stored table.
func (l *Logger) LogDelete(ctx context.Context, name string, err error) {
	if err != nil {
		l.WarnContext(ctx, "table delete failed",
			"name", name,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "table deleted", "name", name)
}

// LogBatch logs a multi-table save or load.
func (l *Logger) LogBatch(ctx context.Context, op string, tables int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "batch "+op+" failed",
			"tables", tables,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "batch "+op+" completed", "tables", tables)
}
