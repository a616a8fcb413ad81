package ctxutil

import (
	"context"
)

type ctxKey string

const (
	actorKey     ctxKey = "actor"
	requestIDKey ctxKey = "request_id"
)

// SystemActor is recorded in audit columns when no caller is authenticated:
// background jobs, seeding, anonymous requests.
const SystemActor = "System"

// WithActor stores the acting principal in the context.
func WithActor(ctx context.Context, actor string) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

// Actor returns the acting principal for audit columns. Falls back to
// SystemActor when the value is missing, empty, or of the wrong type.
func Actor(ctx context.Context) string {
	actor, ok := ctx.Value(actorKey).(string)
	if !ok || actor == "" {
		return SystemActor
	}
	return actor
}

// WithRequestID stores the request ID in the context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromCtx extracts the request ID from the context.
// Returns an empty string if absent.
func RequestIDFromCtx(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
