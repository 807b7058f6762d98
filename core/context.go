package core

import (
	"context"
	"log/slog"
)

// Context keys for run options
type contextKey string

const loggerKey contextKey = "logger"

// WithLogger returns a context whose check runs log to logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// loggerFrom returns the logger stored in ctx, or slog.Default()
func loggerFrom(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey).(*slog.Logger); ok && logger != nil {
		return logger
	}
	return slog.Default()
}
