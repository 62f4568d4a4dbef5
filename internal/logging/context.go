package logging

import (
	"context"
	"log/slog"

	"docforge/internal/services"
)

// WithComponent returns a logger tagged with a component name for the console
// handler prefix.
func WithComponent(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	if component == "" {
		return logger
	}
	return logger.With("component", component)
}

// FromContext augments a logger with the request identifier and stage name
// carried by the context, when present.
func FromContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	if id, ok := services.RequestIDFromContext(ctx); ok {
		logger = logger.With(slog.String("request_id", id))
	}
	if stage, ok := services.StageFromContext(ctx); ok {
		logger = logger.With(slog.String("stage", stage))
	}
	return logger
}
