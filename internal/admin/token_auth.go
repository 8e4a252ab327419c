package admin

import (
	"errors"
	"net/http"
	"strings"

	"github.com/sipico/submission-metrics/internal/auth"
	"github.com/sipico/submission-metrics/internal/metrics"
	"github.com/sipico/submission-metrics/internal/storage"
)

// TokenAuthMiddleware validates the AccessKey header against stored admin tokens.
func (h *Handler) TokenAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimSpace(r.Header.Get("AccessKey"))
		if token == "" {
			metrics.RecordAuthFailure("missing_admin_token")
			WriteError(w, http.StatusUnauthorized, ErrCodeInvalidCredentials, "Missing AccessKey header")
			return
		}

		ctx := r.Context()
		adminToken, err := h.storage.ValidateAdminToken(ctx, token)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				metrics.RecordAuthFailure("invalid_admin_token")
				h.logger.Warn("invalid admin token attempt", "remote_addr", r.RemoteAddr)
				WriteError(w, http.StatusUnauthorized, ErrCodeInvalidCredentials, "Invalid token")
				return
			}
			h.logger.Error("failed to validate admin token", "error", err)
			WriteError(w, http.StatusInternalServerError, ErrCodeInternalError, "Internal error")
			return
		}

		h.logger.Debug("admin API request", "token_name", adminToken.Name)
		next.ServeHTTP(w, r.WithContext(auth.WithAdminToken(ctx, adminToken)))
	})
}
