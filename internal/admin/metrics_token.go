package admin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sipico/submission-metrics/internal/metrics"
	"github.com/sipico/submission-metrics/internal/storage"
)

// Token actions accepted by the POST endpoints.
const (
	ActionCreate = "create"
	ActionReset  = "reset"
	ActionDelete = "delete"
)

// MetricsTokenResponse describes the metrics URL of one scope.
// TokenURL is null when the scope has no token.
type MetricsTokenResponse struct {
	Scope    string  `json:"scope"`
	TokenURL *string `json:"token_url"`
}

// TokenActionRequest is the JSON form of a token action.
type TokenActionRequest struct {
	Action string `json:"action"`
}

// HandleGetGlobalToken shows the global metrics URL
// GET /api/metrics-token
func (h *Handler) HandleGetGlobalToken(w http.ResponseWriter, r *http.Request) {
	h.showToken(w, r, storage.GlobalScope())
}

// HandleGlobalTokenAction creates, resets or deletes the global token
// POST /api/metrics-token
// Body: action=create|reset|delete (form) or {"action": "..."}
func (h *Handler) HandleGlobalTokenAction(w http.ResponseWriter, r *http.Request) {
	h.tokenAction(w, r, storage.GlobalScope())
}

// HandleGetEventToken shows an event's metrics URL
// GET /api/events/{slug}/metrics-token
func (h *Handler) HandleGetEventToken(w http.ResponseWriter, r *http.Request) {
	scope, ok := h.eventScope(w, r)
	if !ok {
		return
	}
	h.showToken(w, r, scope)
}

// HandleEventTokenAction creates, resets or deletes an event's token
// POST /api/events/{slug}/metrics-token
func (h *Handler) HandleEventTokenAction(w http.ResponseWriter, r *http.Request) {
	scope, ok := h.eventScope(w, r)
	if !ok {
		return
	}
	h.tokenAction(w, r, scope)
}

// eventScope resolves the {slug} parameter to an existing event's scope.
func (h *Handler) eventScope(w http.ResponseWriter, r *http.Request) (storage.Scope, bool) {
	slug := chi.URLParam(r, "slug")
	if !storage.ValidSlug(slug) {
		WriteError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "Invalid event slug")
		return storage.Scope{}, false
	}

	if _, err := h.storage.GetEvent(r.Context(), slug); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			WriteError(w, http.StatusNotFound, ErrCodeNotFound, "Event not found")
			return storage.Scope{}, false
		}
		h.logger.Error("failed to get event", "slug", slug, "error", err)
		WriteError(w, http.StatusInternalServerError, ErrCodeInternalError, "Internal error")
		return storage.Scope{}, false
	}

	return storage.EventScope(slug), true
}

func (h *Handler) showToken(w http.ResponseWriter, r *http.Request, scope storage.Scope) {
	resp := MetricsTokenResponse{Scope: scope.String()}

	token, err := h.storage.GetMetricsToken(r.Context(), scope)
	switch {
	case err == nil:
		u := h.tokenURL(r, token)
		resp.TokenURL = &u
	case errors.Is(err, storage.ErrNotFound):
	default:
		h.logger.Error("failed to get metrics token", "scope_kind", scope.Kind(), "error", err)
		WriteError(w, http.StatusInternalServerError, ErrCodeInternalError, "Internal error")
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) tokenAction(w http.ResponseWriter, r *http.Request, scope storage.Scope) {
	action, err := parseAction(r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "Invalid request body")
		return
	}

	if err := h.applyAction(r.Context(), scope, action); err != nil {
		switch {
		case errors.Is(err, ErrUnknownAction):
			WriteErrorWithHint(w, http.StatusBadRequest, ErrCodeUnknownAction,
				fmt.Sprintf("Unknown action %q", action),
				"Use one of: create, reset, delete")
		case errors.Is(err, storage.ErrConflict):
			WriteError(w, http.StatusConflict, ErrCodeConflict, "A metrics token already exists for this scope")
		case errors.Is(err, storage.ErrNotFound):
			WriteError(w, http.StatusNotFound, ErrCodeNotFound, "No metrics token for this scope")
		default:
			h.logger.Error("metrics token action failed", "action", action, "scope_kind", scope.Kind(), "error", err)
			WriteError(w, http.StatusInternalServerError, ErrCodeInternalError, "Internal error")
		}
		return
	}

	metrics.RecordTokenOperation(action, scope.Kind())
	h.logger.Info("metrics token changed", "action", action, "scope", scope.String())
	http.Redirect(w, r, r.URL.Path, http.StatusSeeOther)
}

// applyAction performs action on scope's token.
// Returns ErrUnknownAction for anything but create, reset or delete.
func (h *Handler) applyAction(ctx context.Context, scope storage.Scope, action string) error {
	var err error
	switch action {
	case ActionCreate:
		_, err = h.storage.CreateMetricsToken(ctx, scope)
	case ActionReset:
		_, err = h.storage.ResetMetricsToken(ctx, scope)
	case ActionDelete:
		err = h.storage.DeleteMetricsToken(ctx, scope)
	default:
		return ErrUnknownAction
	}
	if err != nil {
		return fmt.Errorf("%s %s token: %w", action, scope.Kind(), err)
	}
	return nil
}

// parseAction reads the action from a JSON or form-encoded body.
func parseAction(r *http.Request) (string, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		var req TokenActionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return "", err
		}
		return req.Action, nil
	}

	if err := r.ParseForm(); err != nil {
		return "", err
	}
	return r.PostFormValue("action"), nil
}

// tokenURL returns the absolute public metrics URL for token.
func (h *Handler) tokenURL(r *http.Request, token *storage.MetricsToken) string {
	base := h.publicURL
	if base == "" {
		scheme := "http"
		if r.TLS != nil {
			scheme = "https"
		}
		base = scheme + "://" + r.Host
	}
	return base + "/metrics/" + token.Scope.String() + "/" + token.Secret
}
