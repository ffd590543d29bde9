package middleware

import (
	"context"

	"zync/backend/internal/security"
)

type contextKey struct{ name string }

var (
	identityKey  = contextKey{"identity"}
	requestIDKey = contextKey{"request_id"}
)

// WithIdentity returns a context carrying the authenticated caller.
func WithIdentity(ctx context.Context, id *security.Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFrom returns the caller set by Authenticate, or nil, false.
func IdentityFrom(ctx context.Context) (*security.Identity, bool) {
	v, ok := ctx.Value(identityKey).(*security.Identity)
	return v, ok && v != nil
}

// WithRequestID returns a context carrying id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFrom returns the request id from context and true if set; otherwise "", false.
func RequestIDFrom(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(requestIDKey).(string)
	return v, ok
}
