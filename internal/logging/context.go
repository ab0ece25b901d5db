package logging

import (
	"context"

	"github.com/charmbracelet/log"
)

type loggerKey struct{}

// FromContext returns the logger stored in ctx, or Default.
func FromContext(ctx context.Context) *log.Logger {
	if ctx != nil {
		if logger, ok := ctx.Value(loggerKey{}).(*log.Logger); ok && logger != nil {
			return logger
		}
	}
	return Default()
}

// WithLogger stores logger in ctx.
func WithLogger(ctx context.Context, logger *log.Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, loggerKey{}, logger)
}
