// Package mockstore provides a configurable mock implementation of storage interfaces for testing.
//
// The MockStorage type uses function fields for each method, allowing tests to customize behavior
// as needed while providing sensible defaults for methods that aren't customized.
package mockstore

import (
	"context"

	"github.com/sipico/submission-metrics/internal/storage"
)

// MockStorage is a configurable mock implementation of storage.Storage.
// Each method can be customized by setting the corresponding function field.
// If a function field is nil, the method returns a sensible default value.
type MockStorage struct {
	// Metrics token operations
	CreateMetricsTokenFunc       func(ctx context.Context, scope storage.Scope) (*storage.MetricsToken, error)
	ResetMetricsTokenFunc        func(ctx context.Context, scope storage.Scope) (*storage.MetricsToken, error)
	DeleteMetricsTokenFunc       func(ctx context.Context, scope storage.Scope) error
	GetMetricsTokenFunc          func(ctx context.Context, scope storage.Scope) (*storage.MetricsToken, error)
	FindMetricsTokenBySecretFunc func(ctx context.Context, scope storage.Scope, secret string) (*storage.MetricsToken, error)

	// Event and submission records
	CreateEventFunc        func(ctx context.Context, slug, name string) (*storage.Event, error)
	GetEventFunc           func(ctx context.Context, slug string) (*storage.Event, error)
	ListEventsFunc         func(ctx context.Context) ([]*storage.Event, error)
	DeleteEventFunc        func(ctx context.Context, slug string) error
	AddSubmissionFunc      func(ctx context.Context, eventSlug string, state storage.SubmissionState) (*storage.Submission, error)
	SetSubmissionStateFunc func(ctx context.Context, id int64, state storage.SubmissionState) error

	// Aggregation
	SubmissionCountsFunc func(ctx context.Context, scope storage.Scope) ([]storage.SubmissionCount, error)

	// Admin credentials
	CreateAdminTokenFunc   func(ctx context.Context, name, token string) (int64, error)
	ValidateAdminTokenFunc func(ctx context.Context, token string) (*storage.AdminToken, error)
	CountAdminTokensFunc   func(ctx context.Context) (int, error)

	// Lifecycle
	PingFunc  func(ctx context.Context) error
	CloseFunc func() error
}

var _ storage.Storage = (*MockStorage)(nil)

// CreateMetricsToken issues a token for scope.
func (m *MockStorage) CreateMetricsToken(ctx context.Context, scope storage.Scope) (*storage.MetricsToken, error) {
	if m.CreateMetricsTokenFunc != nil {
		return m.CreateMetricsTokenFunc(ctx, scope)
	}
	return &storage.MetricsToken{ID: 1, Scope: scope, Secret: "mocksecret"}, nil
}

// ResetMetricsToken replaces the secret of scope's token.
func (m *MockStorage) ResetMetricsToken(ctx context.Context, scope storage.Scope) (*storage.MetricsToken, error) {
	if m.ResetMetricsTokenFunc != nil {
		return m.ResetMetricsTokenFunc(ctx, scope)
	}
	return nil, storage.ErrNotFound
}

// DeleteMetricsToken removes scope's token.
func (m *MockStorage) DeleteMetricsToken(ctx context.Context, scope storage.Scope) error {
	if m.DeleteMetricsTokenFunc != nil {
		return m.DeleteMetricsTokenFunc(ctx, scope)
	}
	return storage.ErrNotFound
}

// GetMetricsToken returns scope's token.
func (m *MockStorage) GetMetricsToken(ctx context.Context, scope storage.Scope) (*storage.MetricsToken, error) {
	if m.GetMetricsTokenFunc != nil {
		return m.GetMetricsTokenFunc(ctx, scope)
	}
	return nil, storage.ErrNotFound
}

// FindMetricsTokenBySecret returns scope's token if secret matches it.
func (m *MockStorage) FindMetricsTokenBySecret(ctx context.Context, scope storage.Scope, secret string) (*storage.MetricsToken, error) {
	if m.FindMetricsTokenBySecretFunc != nil {
		return m.FindMetricsTokenBySecretFunc(ctx, scope, secret)
	}
	return nil, storage.ErrNotFound
}

// CreateEvent creates an event.
func (m *MockStorage) CreateEvent(ctx context.Context, slug, name string) (*storage.Event, error) {
	if m.CreateEventFunc != nil {
		return m.CreateEventFunc(ctx, slug, name)
	}
	return &storage.Event{ID: 1, Slug: slug, Name: name}, nil
}

// GetEvent retrieves an event by slug.
func (m *MockStorage) GetEvent(ctx context.Context, slug string) (*storage.Event, error) {
	if m.GetEventFunc != nil {
		return m.GetEventFunc(ctx, slug)
	}
	return nil, storage.ErrNotFound
}

// ListEvents retrieves all events.
func (m *MockStorage) ListEvents(ctx context.Context) ([]*storage.Event, error) {
	if m.ListEventsFunc != nil {
		return m.ListEventsFunc(ctx)
	}
	return make([]*storage.Event, 0), nil
}

// DeleteEvent deletes an event.
func (m *MockStorage) DeleteEvent(ctx context.Context, slug string) error {
	if m.DeleteEventFunc != nil {
		return m.DeleteEventFunc(ctx, slug)
	}
	return nil
}

// AddSubmission records a submission for an event.
func (m *MockStorage) AddSubmission(ctx context.Context, eventSlug string, state storage.SubmissionState) (*storage.Submission, error) {
	if m.AddSubmissionFunc != nil {
		return m.AddSubmissionFunc(ctx, eventSlug, state)
	}
	return &storage.Submission{ID: 1, EventID: 1, State: state}, nil
}

// SetSubmissionState changes a submission's state.
func (m *MockStorage) SetSubmissionState(ctx context.Context, id int64, state storage.SubmissionState) error {
	if m.SetSubmissionStateFunc != nil {
		return m.SetSubmissionStateFunc(ctx, id, state)
	}
	return nil
}

// SubmissionCounts returns counted submissions per event.
func (m *MockStorage) SubmissionCounts(ctx context.Context, scope storage.Scope) ([]storage.SubmissionCount, error) {
	if m.SubmissionCountsFunc != nil {
		return m.SubmissionCountsFunc(ctx, scope)
	}
	return make([]storage.SubmissionCount, 0), nil
}

// CreateAdminToken creates a new admin token.
func (m *MockStorage) CreateAdminToken(ctx context.Context, name, token string) (int64, error) {
	if m.CreateAdminTokenFunc != nil {
		return m.CreateAdminTokenFunc(ctx, name, token)
	}
	return 1, nil
}

// ValidateAdminToken validates an admin token.
func (m *MockStorage) ValidateAdminToken(ctx context.Context, token string) (*storage.AdminToken, error) {
	if m.ValidateAdminTokenFunc != nil {
		return m.ValidateAdminTokenFunc(ctx, token)
	}
	return nil, storage.ErrNotFound
}

// CountAdminTokens returns the number of admin tokens.
func (m *MockStorage) CountAdminTokens(ctx context.Context) (int, error) {
	if m.CountAdminTokensFunc != nil {
		return m.CountAdminTokensFunc(ctx)
	}
	return 0, nil
}

// Ping checks storage connectivity.
func (m *MockStorage) Ping(ctx context.Context) error {
	if m.PingFunc != nil {
		return m.PingFunc(ctx)
	}
	return nil
}

// Close closes the storage connection.
func (m *MockStorage) Close() error {
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}
