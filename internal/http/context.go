package http

import (
	"context"
	"log/slog"

	"github.com/example/pawdesk/internal/application"
	"github.com/example/pawdesk/internal/logging"
)

type contextKey string

const (
	principalContextKey  contextKey = "principal"
	resourceIDContextKey contextKey = "resource_id"
)

// ContextWithPrincipal returns a derived context containing the authenticated principal.
func ContextWithPrincipal(ctx context.Context, principal application.Principal) context.Context {
	return context.WithValue(ctx, principalContextKey, principal)
}

// PrincipalFromContext extracts the authenticated principal from context if available.
func PrincipalFromContext(ctx context.Context) (application.Principal, bool) {
	principal, ok := ctx.Value(principalContextKey).(application.Principal)
	return principal, ok
}

// ContextWithResourceID injects the resource identifier resolved from the request path.
func ContextWithResourceID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, resourceIDContextKey, id)
}

// ResourceIDFromContext extracts a resource identifier previously associated with the context.
func ResourceIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(resourceIDContextKey).(string)
	return id, ok
}

// ContextWithLogger attaches a request-scoped logger to the context.
func ContextWithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return logging.ContextWithLogger(ctx, logger)
}

// LoggerFromContext extracts the request-scoped logger, or nil.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	return logging.FromContext(ctx)
}
