// Package admin provides the administration API for metrics tokens and the
// event records they expose.
package admin

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/sipico/submission-metrics/internal/storage"
)

// ErrUnknownAction is returned for a token action other than create, reset or delete.
var ErrUnknownAction = errors.New("unknown token action")

// Handler provides admin endpoints
type Handler struct {
	storage   Storage
	logger    *slog.Logger
	logLevel  *slog.LevelVar
	publicURL string
}

// Storage interface for admin operations
type Storage interface {
	// Health check
	Ping(ctx context.Context) error

	// Admin credentials
	ValidateAdminToken(ctx context.Context, token string) (*storage.AdminToken, error)

	// Metrics tokens
	CreateMetricsToken(ctx context.Context, scope storage.Scope) (*storage.MetricsToken, error)
	ResetMetricsToken(ctx context.Context, scope storage.Scope) (*storage.MetricsToken, error)
	DeleteMetricsToken(ctx context.Context, scope storage.Scope) error
	GetMetricsToken(ctx context.Context, scope storage.Scope) (*storage.MetricsToken, error)

	// Event and submission records
	CreateEvent(ctx context.Context, slug, name string) (*storage.Event, error)
	GetEvent(ctx context.Context, slug string) (*storage.Event, error)
	ListEvents(ctx context.Context) ([]*storage.Event, error)
	DeleteEvent(ctx context.Context, slug string) error
	AddSubmission(ctx context.Context, eventSlug string, state storage.SubmissionState) (*storage.Submission, error)
	SetSubmissionState(ctx context.Context, id int64, state storage.SubmissionState) error
}

// NewHandler creates an admin handler
func NewHandler(storage Storage, logLevel *slog.LevelVar, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	if logLevel == nil {
		logLevel = new(slog.LevelVar)
	}

	return &Handler{
		storage:  storage,
		logLevel: logLevel,
		logger:   logger,
	}
}

// SetPublicURL sets the base URL used when displaying metrics URLs.
// When empty, URLs are derived from the incoming request.
func (h *Handler) SetPublicURL(u string) {
	h.publicURL = strings.TrimRight(u, "/")
}
