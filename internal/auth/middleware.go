package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/sipico/submission-metrics/internal/metrics"
	"github.com/sipico/submission-metrics/internal/storage"
)

// Credentials extracts the requested scope and the presented secret from a request.
type Credentials func(r *http.Request) (storage.Scope, string)

// Middleware authorizes the request before the wrapped handler runs and stores the
// authorized scope in the context (see ScopeFromContext).
// Every authorization failure is answered with the same 400 response.
func Middleware(res *Resolver, creds Credentials, logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requested, secret := creds(r)

			scope, err := res.Authorize(r.Context(), requested, secret)
			if err != nil {
				if errors.Is(err, ErrUnauthorized) {
					metrics.RecordAuthFailure("invalid_token")
					logger.Warn("metrics token rejected",
						"scope_kind", requested.Kind(),
						"remote_addr", r.RemoteAddr)
					WriteBadRequest(w)
					return
				}
				// Lookup failures look like any other rejection to the client.
				metrics.RecordAuthFailure("lookup_error")
				logger.Error("metrics authorization failed", "error", err)
				WriteBadRequest(w)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithScope(r.Context(), scope)))
		})
	}
}

// WriteBadRequest writes the generic response used for every rejected request.
func WriteBadRequest(w http.ResponseWriter) {
	http.Error(w, "bad request", http.StatusBadRequest)
}
