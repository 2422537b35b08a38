package http

import (
	"context"
	"log/slog"
)

// defaultLogger guards handler constructors against a nil logger.
func defaultLogger(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}

// handlerLogger resolves the request-scoped logger, preferring the one the
// logging middleware put on the context, and tags it with the handler and
// operation being served.
func handlerLogger(ctx context.Context, fallback *slog.Logger, handlerName, operation string, attrs ...any) *slog.Logger {
	logger := LoggerFromContext(ctx)
	if logger == nil {
		logger = defaultLogger(fallback)
	}

	args := make([]any, 0, 4+len(attrs))
	args = append(args, "handler", handlerName)
	if operation != "" {
		args = append(args, "operation", operation)
	}
	args = append(args, attrs...)
	return logger.With(args...)
}
