// Package middleware provides HTTP middleware shared by the public and admin routers.
package middleware

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/sipico/submission-metrics/internal/logging"
)

// BodyAllowlist lists the JSON fields logged verbatim by HTTPLogging.
// token_url is absent: it embeds a metrics secret.
var BodyAllowlist = []string{
	"action", "created_at", "database", "error", "hint", "id", "level",
	"message", "name", "scope", "slug", "state", "status",
}

// HTTPLogging creates a middleware that logs HTTP requests and responses.
// Only active when logger level is DEBUG.
//
// Metrics secrets never reach the log: request paths go through
// logging.MaskPath, credential headers through logging.MaskHeader and JSON
// bodies through logging.MaskJSONBody with allowlist (nil = log everything).
func HTTPLogging(logger *slog.Logger, allowlist []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !logger.Enabled(r.Context(), slog.LevelDebug) {
				next.ServeHTTP(w, r)
				return
			}

			requestID := GetRequestID(r.Context())
			path := logging.MaskPath(r.URL.Path)

			reqBody, err := readBody(r)
			if err != nil {
				logger.Error("failed to read request body", "request_id", requestID, "error", err)
				next.ServeHTTP(w, r)
				return
			}

			logger.Debug("HTTP Request",
				"request_id", requestID,
				"method", r.Method,
				"url", path,
				"query_params", r.URL.RawQuery,
				"headers", maskHeaders(r.Header),
				"body", maskBody(reqBody, allowlist),
			)

			rec := &responseRecorder{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
				body:           new(bytes.Buffer),
			}

			start := time.Now()
			next.ServeHTTP(rec, r)

			logger.Debug("HTTP Response",
				"request_id", requestID,
				"method", r.Method,
				"url", path,
				"status_code", rec.statusCode,
				"headers", maskHeaders(rec.Header()),
				"body", maskBody(rec.body.Bytes(), allowlist),
				"duration_ms", time.Since(start).Milliseconds(),
			)
		})
	}
}

// readBody drains r.Body and replaces it with an equivalent reader.
func readBody(r *http.Request) ([]byte, error) {
	if r.Body == nil || r.Body == http.NoBody {
		return nil, nil
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}
	r.Body = io.NopCloser(bytes.NewReader(body))
	return body, nil
}

// maskHeaders masks sensitive header values
func maskHeaders(headers http.Header) map[string]string {
	result := make(map[string]string, len(headers))
	for k, v := range headers {
		if len(v) > 0 {
			result[k] = logging.MaskHeader(k, v[0])
		}
	}
	return result
}

// maskBody masks sensitive data in request/response body
func maskBody(body []byte, allowlist []string) string {
	if len(body) == 0 {
		return ""
	}
	if !utf8.Valid(body) {
		return logging.FormatBinaryData(body)
	}
	return string(logging.MaskJSONBody(body, allowlist))
}

// responseRecorder captures response details for logging.
type responseRecorder struct {
	http.ResponseWriter
	statusCode int
	body       *bytes.Buffer
}

// WriteHeader captures the status code and writes it to the response.
func (r *responseRecorder) WriteHeader(code int) {
	r.statusCode = code
	r.ResponseWriter.WriteHeader(code)
}

// Write captures the response body and writes it to the response.
func (r *responseRecorder) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}
