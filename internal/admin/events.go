package admin

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sipico/submission-metrics/internal/storage"
)

// EventResponse represents an event in API responses
type EventResponse struct {
	ID        int64  `json:"id"`
	Slug      string `json:"slug"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
}

func toEventResponse(e *storage.Event) EventResponse {
	return EventResponse{
		ID:        e.ID,
		Slug:      e.Slug,
		Name:      e.Name,
		CreatedAt: e.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// CreateEventRequest is the request body for POST /api/events
type CreateEventRequest struct {
	Slug string `json:"slug"`
	Name string `json:"name"`
}

// HandleListEvents returns all events in creation order
// GET /api/events
func (h *Handler) HandleListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.storage.ListEvents(r.Context())
	if err != nil {
		h.logger.Error("failed to list events", "error", err)
		WriteError(w, http.StatusInternalServerError, ErrCodeInternalError, "Internal error")
		return
	}

	response := make([]EventResponse, len(events))
	for i, e := range events {
		response[i] = toEventResponse(e)
	}
	writeJSON(w, http.StatusOK, response)
}

// HandleCreateEvent creates an event
// POST /api/events
// Body: {"slug": "...", "name": "..."}
func (h *Handler) HandleCreateEvent(w http.ResponseWriter, r *http.Request) {
	var req CreateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "Invalid JSON")
		return
	}
	if req.Slug == "" || req.Name == "" {
		WriteError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "Slug and name required")
		return
	}

	event, err := h.storage.CreateEvent(r.Context(), req.Slug, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrInvalidSlug):
			WriteErrorWithHint(w, http.StatusBadRequest, ErrCodeInvalidRequest, "Invalid event slug",
				"Slugs use letters, digits, '-' and '_', at most 50 characters, and cannot be \"global\"")
		case errors.Is(err, storage.ErrConflict):
			WriteError(w, http.StatusConflict, ErrCodeConflict, "Event slug already exists")
		default:
			h.logger.Error("failed to create event", "error", err)
			WriteError(w, http.StatusInternalServerError, ErrCodeInternalError, "Internal error")
		}
		return
	}

	h.logger.Info("event created", "id", event.ID, "slug", event.Slug)
	writeJSON(w, http.StatusCreated, toEventResponse(event))
}

// HandleGetEvent returns a single event
// GET /api/events/{slug}
func (h *Handler) HandleGetEvent(w http.ResponseWriter, r *http.Request) {
	event, err := h.storage.GetEvent(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		h.writeStorageError(w, err, "Event not found")
		return
	}
	writeJSON(w, http.StatusOK, toEventResponse(event))
}

// HandleDeleteEvent deletes an event together with its submissions and metrics token
// DELETE /api/events/{slug}
func (h *Handler) HandleDeleteEvent(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if err := h.storage.DeleteEvent(r.Context(), slug); err != nil {
		h.writeStorageError(w, err, "Event not found")
		return
	}

	h.logger.Info("event deleted", "slug", slug)
	w.WriteHeader(http.StatusNoContent)
}

// SubmissionRequest is the request body for submission endpoints
type SubmissionRequest struct {
	State string `json:"state"`
}

// SubmissionResponse represents a submission in API responses
type SubmissionResponse struct {
	ID    int64  `json:"id"`
	State string `json:"state"`
}

// HandleAddSubmission records a submission for an event
// POST /api/events/{slug}/submissions
// Body: {"state": "submitted"}
func (h *Handler) HandleAddSubmission(w http.ResponseWriter, r *http.Request) {
	var req SubmissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "Invalid JSON")
		return
	}

	sub, err := h.storage.AddSubmission(r.Context(), chi.URLParam(r, "slug"), storage.SubmissionState(req.State))
	if err != nil {
		h.writeStorageError(w, err, "Event not found")
		return
	}

	writeJSON(w, http.StatusCreated, SubmissionResponse{ID: sub.ID, State: string(sub.State)})
}

// HandleSetSubmissionState changes a submission's state
// PUT /api/submissions/{id}
// Body: {"state": "accepted"}
func (h *Handler) HandleSetSubmissionState(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		WriteError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "Invalid submission ID")
		return
	}

	var req SubmissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "Invalid JSON")
		return
	}

	state := storage.SubmissionState(req.State)
	if err := h.storage.SetSubmissionState(r.Context(), id, state); err != nil {
		h.writeStorageError(w, err, "Submission not found")
		return
	}

	writeJSON(w, http.StatusOK, SubmissionResponse{ID: id, State: string(state)})
}

// writeStorageError maps storage sentinel errors onto API errors.
func (h *Handler) writeStorageError(w http.ResponseWriter, err error, notFound string) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		WriteError(w, http.StatusNotFound, ErrCodeNotFound, notFound)
	case errors.Is(err, storage.ErrInvalidState):
		WriteErrorWithHint(w, http.StatusBadRequest, ErrCodeInvalidRequest, "Invalid submission state",
			"Use one of: submitted, accepted, rejected, confirmed, canceled, withdrawn, draft, deleted")
	case errors.Is(err, storage.ErrInvalidSlug):
		WriteError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "Invalid event slug")
	default:
		h.logger.Error("storage operation failed", "error", err)
		WriteError(w, http.StatusInternalServerError, ErrCodeInternalError, "Internal error")
	}
}
