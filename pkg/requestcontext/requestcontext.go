// Package requestcontext carries per-request values through context so
// services and stores can log and timestamp consistently without new
// parameters on every call.
package requestcontext

import (
	"context"
	"time"
)

type requestIDKey struct{}

type clockKey struct{}

// WithRequestID returns a context carrying the request correlation id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the correlation id for ctx, or "" when none was set.
func RequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok {
		return id
	}
	return ""
}

// WithClock overrides the time source for ctx. Tests use this to pin Now.
func WithClock(ctx context.Context, now func() time.Time) context.Context {
	return context.WithValue(ctx, clockKey{}, now)
}

// Now returns the context's pinned time source, falling back to time.Now.
func Now(ctx context.Context) time.Time {
	if f, ok := ctx.Value(clockKey{}).(func() time.Time); ok {
		return f()
	}
	return time.Now()
}
