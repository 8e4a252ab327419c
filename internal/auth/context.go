package auth

import (
	"context"

	"github.com/sipico/submission-metrics/internal/storage"
)

// ctxKey is a private type for context keys to prevent collisions.
type ctxKey int

const (
	scopeKey      ctxKey = iota // stores storage.Scope
	adminTokenKey               // stores *storage.AdminToken
)

// WithScope records the authorized metrics scope in the context.
func WithScope(ctx context.Context, scope storage.Scope) context.Context {
	return context.WithValue(ctx, scopeKey, scope)
}

// ScopeFromContext returns the authorized scope and whether one was set.
func ScopeFromContext(ctx context.Context) (storage.Scope, bool) {
	scope, ok := ctx.Value(scopeKey).(storage.Scope)
	return scope, ok
}

// WithAdminToken adds the authenticated admin token to the context.
func WithAdminToken(ctx context.Context, token *storage.AdminToken) context.Context {
	return context.WithValue(ctx, adminTokenKey, token)
}

// AdminTokenFromContext retrieves the authenticated admin token from context.
// Returns nil if the request was not authenticated as admin.
func AdminTokenFromContext(ctx context.Context) *storage.AdminToken {
	if v := ctx.Value(adminTokenKey); v != nil {
		if token, ok := v.(*storage.AdminToken); ok {
			return token
		}
	}
	return nil
}
