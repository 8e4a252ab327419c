package admin

import (
	"github.com/go-chi/chi/v5"
)

// NewRouter creates the admin router. Mount it under /admin.
func (h *Handler) NewRouter() chi.Router {
	r := chi.NewRouter()

	// Public endpoints (no auth)
	r.Get("/health", h.HandleHealth)
	r.Get("/ready", h.HandleReady)

	// Admin API (token auth)
	r.Route("/api", func(r chi.Router) {
		r.Use(h.TokenAuthMiddleware)

		r.Get("/whoami", h.HandleWhoami)
		r.Post("/loglevel", h.HandleSetLogLevel)

		// Metrics token management
		r.Get("/metrics-token", h.HandleGetGlobalToken)
		r.Post("/metrics-token", h.HandleGlobalTokenAction)
		r.Get("/events/{slug}/metrics-token", h.HandleGetEventToken)
		r.Post("/events/{slug}/metrics-token", h.HandleEventTokenAction)

		// Event and submission records
		r.Get("/events", h.HandleListEvents)
		r.Post("/events", h.HandleCreateEvent)
		r.Get("/events/{slug}", h.HandleGetEvent)
		r.Delete("/events/{slug}", h.HandleDeleteEvent)
		r.Post("/events/{slug}/submissions", h.HandleAddSubmission)
		r.Put("/submissions/{id}", h.HandleSetSubmissionState)
	})

	return r
}
