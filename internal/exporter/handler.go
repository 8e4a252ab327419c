package exporter

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sipico/submission-metrics/internal/auth"
	"github.com/sipico/submission-metrics/internal/storage"
)

// Store is the storage the metrics endpoints read from.
type Store interface {
	auth.TokenFinder
	CountStore
}

// Handler serves token-gated submission metrics.
type Handler struct {
	aggregator *Aggregator
	resolver   *auth.Resolver
	logger     *slog.Logger
}

// NewHandler creates a metrics handler
func NewHandler(store Store, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		aggregator: NewAggregator(store),
		resolver:   auth.NewResolver(store),
		logger:     logger,
	}
}

// Routes registers the metrics endpoints on r:
//
//	GET /metrics/global/{token}
//	GET /metrics/{event}/{token}
//
// The token is checked by auth.Middleware before any aggregation runs.
func (h *Handler) Routes(r chi.Router) {
	r.With(auth.Middleware(h.resolver, globalCredentials, h.logger)).
		Get("/metrics/global/{token}", h.HandleMetrics)
	r.With(auth.Middleware(h.resolver, eventCredentials, h.logger)).
		Get("/metrics/{event}/{token}", h.HandleMetrics)
}

func globalCredentials(r *http.Request) (storage.Scope, string) {
	return storage.GlobalScope(), chi.URLParam(r, "token")
}

func eventCredentials(r *http.Request) (storage.Scope, string) {
	return storage.EventScope(chi.URLParam(r, "event")), chi.URLParam(r, "token")
}

// HandleMetrics writes the exposition text for the scope authorized upstream.
func (h *Handler) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	scope, ok := auth.ScopeFromContext(r.Context())
	if !ok {
		auth.WriteBadRequest(w)
		return
	}

	body, err := h.aggregator.RenderMetrics(r.Context(), scope)
	if err != nil {
		h.logger.Error("failed to render metrics", "scope_kind", scope.Kind(), "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	//nolint:errcheck // Response write errors are unrecoverable
	w.Write([]byte(body))
}
