package auth

import (
	"context"
	"fmt"
)

// BootstrapState represents the system configuration state
type BootstrapState int

const (
	// StateUnconfigured means no admin tokens exist yet
	StateUnconfigured BootstrapState = iota

	// StateConfigured means at least one admin token exists
	StateConfigured
)

// String returns the string representation of the bootstrap state
func (s BootstrapState) String() string {
	switch s {
	case StateUnconfigured:
		return "UNCONFIGURED"
	case StateConfigured:
		return "CONFIGURED"
	default:
		return "UNKNOWN"
	}
}

// AdminTokenStore is the storage needed to bootstrap admin access.
type AdminTokenStore interface {
	CountAdminTokens(ctx context.Context) (int, error)
	CreateAdminToken(ctx context.Context, name, token string) (int64, error)
}

// BootstrapService seeds the first admin token from configuration.
type BootstrapService struct {
	tokens AdminTokenStore
}

// NewBootstrapService creates a new bootstrap service
func NewBootstrapService(tokens AdminTokenStore) *BootstrapService {
	return &BootstrapService{tokens: tokens}
}

// GetState returns StateConfigured once at least one admin token exists.
func (b *BootstrapService) GetState(ctx context.Context) (BootstrapState, error) {
	count, err := b.tokens.CountAdminTokens(ctx)
	if err != nil {
		return StateUnconfigured, err
	}
	if count > 0 {
		return StateConfigured, nil
	}
	return StateUnconfigured, nil
}

// EnsureAdminToken stores token as the first admin credential while the system
// is unconfigured. It is a no-op once any admin token exists or token is empty.
// Reports whether a token was created.
func (b *BootstrapService) EnsureAdminToken(ctx context.Context, name, token string) (bool, error) {
	if token == "" {
		return false, nil
	}

	state, err := b.GetState(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to read bootstrap state: %w", err)
	}
	if state == StateConfigured {
		return false, nil
	}

	if _, err := b.tokens.CreateAdminToken(ctx, name, token); err != nil {
		return false, fmt.Errorf("failed to create bootstrap admin token: %w", err)
	}
	return true, nil
}
