// Package logging provides utilities for secure logging with data masking.
package logging

import (
	"encoding/json"
	"fmt"
	"strings"
)

// MaskHeader redacts sensitive header values based on header name.
// Returns the redacted value suitable for logging.
//
// Rules:
// - Password/secret headers: "[REDACTED]" (no partial reveal)
// - Token/API key headers: "****" + last4chars (e.g., "****ab3f")
// - Other headers: returned unchanged
func MaskHeader(name, value string) string {
	lowerName := strings.ToLower(name)

	// Password/secret headers - full redaction
	if strings.Contains(lowerName, "password") ||
		strings.Contains(lowerName, "secret") ||
		strings.Contains(lowerName, "private-key") {
		return redacted
	}

	// Token/API key headers - show last 4 chars
	if lowerName == "authorization" ||
		lowerName == "accesskey" ||
		lowerName == "x-api-key" ||
		lowerName == "x-access-key" {
		return MaskSecret(value)
	}

	// All other headers - return unchanged
	return value
}

// MaskSecret returns "****" followed by the last 4 characters of value,
// or just "****" for values shorter than 4 characters.
func MaskSecret(value string) string {
	if len(value) < 4 {
		return "****"
	}
	return "****" + value[len(value)-4:]
}

// MaskPath masks the token segment of a public metrics path
// (/metrics/{event}/{token} or /metrics/global/{token}, trailing slash optional).
// Other paths are returned unchanged.
func MaskPath(path string) string {
	trimmed := strings.TrimSuffix(path, "/")
	parts := strings.Split(trimmed, "/")
	if len(parts) != 4 || parts[0] != "" || parts[1] != "metrics" || parts[3] == "" {
		return path
	}
	parts[3] = MaskSecret(parts[3])

	masked := strings.Join(parts, "/")
	if len(trimmed) != len(path) {
		masked += "/"
	}
	return masked
}

// redacted replaces every scalar JSON value whose key is not allowlisted.
const redacted = "[REDACTED]"

// MaskJSONBody replaces the scalar values of JSON fields missing from allowlist
// with "[REDACTED]", at any depth. Objects and arrays under any key are walked.
// A nil allowlist disables masking. Bodies that are not JSON come back as is.
func MaskJSONBody(body []byte, allowlist []string) []byte {
	if allowlist == nil || len(body) == 0 {
		return body
	}

	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return body
	}

	keep := make(map[string]struct{}, len(allowlist))
	for _, field := range allowlist {
		keep[field] = struct{}{}
	}

	out, err := json.Marshal(maskJSONValue(doc, keep))
	if err != nil {
		return body
	}
	return out
}

func maskJSONValue(value any, keep map[string]struct{}) any {
	switch v := value.(type) {
	case map[string]any:
		masked := make(map[string]any, len(v))
		for key, field := range v {
			_, allowed := keep[key]
			switch field.(type) {
			case map[string]any, []any:
				masked[key] = maskJSONValue(field, keep)
			default:
				if allowed {
					masked[key] = field
				} else {
					masked[key] = redacted
				}
			}
		}
		return masked
	case []any:
		masked := make([]any, len(v))
		for i, item := range v {
			masked[i] = maskJSONValue(item, keep)
		}
		return masked
	default:
		return value
	}
}

// FormatBinaryData formats binary data for logging.
// Returns a human-readable size indicator.
func FormatBinaryData(data []byte) string {
	size := len(data)
	return fmt.Sprintf("[BINARY: %d bytes]", size)
}
