package admin

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sipico/submission-metrics/internal/testutil/mockstore"
)

func TestHandleHealth(t *testing.T) {
	h := NewHandler(&mockstore.MockStorage{}, nil, slog.Default())

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()

	h.HandleHealth(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}

	var resp map[string]string
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp["status"] != "ok" {
		t.Errorf("expected status=ok, got %s", resp["status"])
	}

	ct := w.Header().Get("Content-Type")
	if ct != "application/json" {
		t.Errorf("expected Content-Type application/json, got %s", ct)
	}
}

func TestHandleReady(t *testing.T) {
	tests := []struct {
		name       string
		storage    Storage
		wantStatus int
		wantDB     string
	}{
		{
			name:       "storage connected",
			storage:    &mockstore.MockStorage{},
			wantStatus: http.StatusOK,
			wantDB:     "connected",
		},
		{
			name: "storage unavailable",
			storage: &mockstore.MockStorage{
				PingFunc: func(ctx context.Context) error { return errors.New("disk I/O error") },
			},
			wantStatus: http.StatusServiceUnavailable,
			wantDB:     "unavailable",
		},
		{
			name:       "storage nil",
			storage:    nil,
			wantStatus: http.StatusServiceUnavailable,
			wantDB:     "not configured",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := slog.New(slog.NewTextHandler(io.Discard, nil))
			h := NewHandler(tt.storage, nil, logger)

			req := httptest.NewRequest("GET", "/ready", nil)
			w := httptest.NewRecorder()

			h.HandleReady(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, w.Code)
			}

			var resp map[string]any
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}

			if resp["database"] != tt.wantDB {
				t.Errorf("expected database=%s, got %v", tt.wantDB, resp["database"])
			}
		})
	}
}

func TestNewRouter(t *testing.T) {
	h := NewHandler(&mockstore.MockStorage{}, nil, slog.Default())
	router := h.NewRouter()

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{"GET", "/health", http.StatusOK},
		{"GET", "/ready", http.StatusOK},
		{"GET", "/nonexistent", http.StatusNotFound},
		{"POST", "/health", http.StatusMethodNotAllowed},
		{"GET", "/api/metrics-token", http.StatusUnauthorized},
		{"GET", "/api/events", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			if w.Code != tt.want {
				t.Errorf("expected status %d, got %d", tt.want, w.Code)
			}
		})
	}
}

func TestNewHandler(t *testing.T) {
	h := NewHandler(&mockstore.MockStorage{}, nil, nil)
	if h.logger == nil {
		t.Error("expected logger to be set to default")
	}
	if h.logLevel == nil {
		t.Error("expected log level to be allocated")
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h = NewHandler(&mockstore.MockStorage{}, nil, logger)
	if h.logger != logger {
		t.Error("expected custom logger to be used")
	}
}

func TestSetPublicURLTrimsTrailingSlash(t *testing.T) {
	h := NewHandler(&mockstore.MockStorage{}, nil, nil)
	h.SetPublicURL("https://metrics.example.org/")
	if h.publicURL != "https://metrics.example.org" {
		t.Errorf("publicURL = %q", h.publicURL)
	}
}
