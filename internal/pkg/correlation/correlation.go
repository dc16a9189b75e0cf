// Package correlation carries the per-request correlation identifier through
// a context.Context so it reaches outbound calls, log records, and the
// response envelope without threading an extra parameter everywhere.
package correlation

import (
	"context"

	"github.com/google/uuid"
)

// Header is the wire name of the correlation identifier, inbound and outbound.
const Header = "X-Correlation-Id"

// contextKey is an unexported type for context keys in this package.
// Using a custom type prevents collisions with keys from other packages
// that might use the same underlying string value.
type contextKey string

const ctxKey contextKey = "correlation_id"

// NewID returns a fresh correlation identifier for requests that did not
// supply one.
func NewID() string {
	return uuid.NewString()
}

// WithID returns a child context carrying the given correlation identifier.
func WithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey, id)
}

// FromContext returns the correlation identifier stored in ctx, or the empty
// string when none is set.
func FromContext(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey).(string)
	return id
}
