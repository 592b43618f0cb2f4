// Package requestcontext provides HTTP-independent context accessors for
// request-scoped values. Values are set by router middleware but consumed by
// handlers and services that should not care where they came from.
package requestcontext

import (
	"context"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// RequestID retrieves the request ID assigned by the router middleware.
// Returns the empty string for contexts outside an HTTP request.
func RequestID(ctx context.Context) string {
	return chimiddleware.GetReqID(ctx)
}

// WithRequestID injects a request ID into the context. Useful for tests and
// background work that wants correlated log lines without the middleware chain.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, chimiddleware.RequestIDKey, requestID)
}
