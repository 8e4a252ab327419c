// Package auth resolves presented metrics secrets to authorized scopes and
// bootstraps admin credentials.
package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/sipico/submission-metrics/internal/storage"
)

// ErrUnauthorized is returned for any secret that does not open the requested scope.
// It carries no detail about whether the scope exists.
var ErrUnauthorized = errors.New("auth: unauthorized")

// TokenFinder looks up a metrics token by scope and secret.
type TokenFinder interface {
	FindMetricsTokenBySecret(ctx context.Context, scope storage.Scope, secret string) (*storage.MetricsToken, error)
}

// Resolver maps a requested scope and presented secret to an authorized scope.
type Resolver struct {
	tokens TokenFinder
}

// NewResolver creates a new Resolver.
func NewResolver(tokens TokenFinder) *Resolver {
	return &Resolver{tokens: tokens}
}

// Authorize returns the requested scope if secret is the current secret of that
// scope's token. Any mismatch yields ErrUnauthorized; storage failures are wrapped
// and must be surfaced to clients the same way.
func (r *Resolver) Authorize(ctx context.Context, requested storage.Scope, secret string) (storage.Scope, error) {
	if !requested.IsGlobal() && !storage.ValidSlug(requested.EventSlug) {
		return storage.Scope{}, ErrUnauthorized
	}

	_, err := r.tokens.FindMetricsTokenBySecret(ctx, requested, secret)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return storage.Scope{}, ErrUnauthorized
		}
		return storage.Scope{}, fmt.Errorf("failed to look up metrics token: %w", err)
	}

	if requested.IsGlobal() {
		return storage.GlobalScope(), nil
	}
	return storage.EventScope(requested.EventSlug), nil
}
