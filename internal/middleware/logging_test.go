package middleware

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const testSecret = "Kq7mZr2pXw9hT4nB8cVdYf3gJ6sLe5aU"

func newDebugLogger(buf *bytes.Buffer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: level}))
}

func TestHTTPLogging_DebugMode(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"slug":"democon"}`))
	})

	req := httptest.NewRequest("GET", "/admin/api/events?page=2", nil)
	rec := httptest.NewRecorder()
	HTTPLogging(newDebugLogger(&buf, slog.LevelDebug), nil)(handler).ServeHTTP(rec, req)

	out := buf.String()
	for _, want := range []string{"HTTP Request", "HTTP Response", "/admin/api/events", "page=2", `"status_code":201`, "duration_ms"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q: %s", want, out)
		}
	}
}

func TestHTTPLogging_InfoMode_NoLogs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	called := false
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	req := httptest.NewRequest("GET", "/metrics/global/"+testSecret, nil)
	HTTPLogging(newDebugLogger(&buf, slog.LevelInfo), nil)(handler).ServeHTTP(httptest.NewRecorder(), req)

	if !called {
		t.Error("handler was not called")
	}
	if buf.Len() != 0 {
		t.Errorf("expected no logs in INFO mode, got: %s", buf.String())
	}
}

func TestHTTPLogging_MasksMetricsSecretInPath(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`submissions_total{event="DemoCon"} 3`))
	})

	req := httptest.NewRequest("GET", "/metrics/democon/"+testSecret, nil)
	HTTPLogging(newDebugLogger(&buf, slog.LevelDebug), BodyAllowlist)(handler).ServeHTTP(httptest.NewRecorder(), req)

	out := buf.String()
	if strings.Contains(out, testSecret) {
		t.Errorf("secret leaked into log: %s", out)
	}
	if !strings.Contains(out, "/metrics/democon/****e5aU") {
		t.Errorf("masked path missing from log: %s", out)
	}
}

func TestHTTPLogging_MasksAccessKeyAndTokenURL(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"scope":"democon","token_url":"https://cfp.example.org/metrics/democon/` + testSecret + `"}`))
	})

	req := httptest.NewRequest("GET", "/admin/api/events/democon/metrics-token", nil)
	req.Header.Set("AccessKey", "admin-key-abcdefgh")
	HTTPLogging(newDebugLogger(&buf, slog.LevelDebug), BodyAllowlist)(handler).ServeHTTP(httptest.NewRecorder(), req)

	out := buf.String()
	if strings.Contains(out, testSecret) {
		t.Errorf("token_url leaked into log: %s", out)
	}
	if strings.Contains(out, "admin-key-abcdefgh") {
		t.Errorf("AccessKey leaked into log: %s", out)
	}
	if !strings.Contains(out, "****efgh") {
		t.Errorf("masked AccessKey missing: %s", out)
	}
	if !strings.Contains(out, `\"scope\":\"democon\"`) {
		t.Errorf("allowlisted field missing: %s", out)
	}
}

func TestHTTPLogging_IncludesRequestID(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	handler := RequestID(HTTPLogging(newDebugLogger(&buf, slog.LevelDebug), nil)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})))

	req := httptest.NewRequest("GET", "/health", nil)
	req.Header.Set("X-Request-ID", "scrape-42")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if !strings.Contains(buf.String(), `"request_id":"scrape-42"`) {
		t.Errorf("request ID missing from log: %s", buf.String())
	}
}

func TestHTTPLogging_BinaryBody(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	req := httptest.NewRequest("POST", "/admin/api/events", bytes.NewReader([]byte{0xff, 0xfe, 0xfd}))
	HTTPLogging(newDebugLogger(&buf, slog.LevelDebug), nil)(handler).ServeHTTP(httptest.NewRecorder(), req)

	if !strings.Contains(buf.String(), "[BINARY: 3 bytes]") {
		t.Errorf("binary body not summarized: %s", buf.String())
	}
}

func TestHTTPLogging_RequestBodyRestored(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	var got string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		got = string(b)
	})

	body := `{"slug":"democon","name":"DemoCon"}`
	req := httptest.NewRequest("POST", "/admin/api/events", strings.NewReader(body))
	HTTPLogging(newDebugLogger(&buf, slog.LevelDebug), BodyAllowlist)(handler).ServeHTTP(httptest.NewRecorder(), req)

	if got != body {
		t.Errorf("handler read %q, want %q", got, body)
	}
}

func TestHTTPLogging_ResponseReachesClient(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusSeeOther)
		w.Write([]byte("see other"))
	})

	rec := httptest.NewRecorder()
	HTTPLogging(newDebugLogger(&buf, slog.LevelDebug), nil)(handler).ServeHTTP(rec, httptest.NewRequest("POST", "/", nil))

	if rec.Code != http.StatusSeeOther {
		t.Errorf("status = %d, want 303", rec.Code)
	}
	if rec.Body.String() != "see other" {
		t.Errorf("body = %q, want single copy", rec.Body.String())
	}
}
