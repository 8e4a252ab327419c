// Package storage provides types and interfaces for SQLite persistence operations.
package storage

import (
	"context"
)

// Storage defines the interface for SQLite persistence operations.
type Storage interface {
	// Metrics token operations
	CreateMetricsToken(ctx context.Context, scope Scope) (*MetricsToken, error)
	ResetMetricsToken(ctx context.Context, scope Scope) (*MetricsToken, error)
	DeleteMetricsToken(ctx context.Context, scope Scope) error
	GetMetricsToken(ctx context.Context, scope Scope) (*MetricsToken, error)
	FindMetricsTokenBySecret(ctx context.Context, scope Scope, secret string) (*MetricsToken, error)

	// Event and submission records
	CreateEvent(ctx context.Context, slug, name string) (*Event, error)
	GetEvent(ctx context.Context, slug string) (*Event, error)
	ListEvents(ctx context.Context) ([]*Event, error)
	DeleteEvent(ctx context.Context, slug string) error
	AddSubmission(ctx context.Context, eventSlug string, state SubmissionState) (*Submission, error)
	SetSubmissionState(ctx context.Context, id int64, state SubmissionState) error

	// Aggregation
	SubmissionCounts(ctx context.Context, scope Scope) ([]SubmissionCount, error)

	// Admin credentials
	CreateAdminToken(ctx context.Context, name, token string) (int64, error)
	ValidateAdminToken(ctx context.Context, token string) (*AdminToken, error)
	CountAdminTokens(ctx context.Context) (int, error)

	// Lifecycle
	Ping(ctx context.Context) error
	Close() error
}

var _ Storage = (*SQLiteStorage)(nil)
