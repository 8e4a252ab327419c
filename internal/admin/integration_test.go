package admin

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/sipico/submission-metrics/internal/exporter"
	"github.com/sipico/submission-metrics/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newIntegrationServer wires the admin API under /admin and the public metrics
// routes onto one router backed by in-memory SQLite.
func newIntegrationServer(t *testing.T) (http.Handler, *storage.SQLiteStorage) {
	t.Helper()

	store, err := storage.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	_, err = store.CreateAdminToken(context.Background(), "ops", testAdminSecret)
	require.NoError(t, err)

	h, adminRouter := newTestRouter(store)
	h.SetPublicURL("https://cfp.example.org")

	r := chi.NewRouter()
	exporter.NewHandler(store, nil).Routes(r)
	r.Mount("/admin", adminRouter)
	return r, store
}

func getTokenURL(t *testing.T, router http.Handler, path string) *string {
	t.Helper()
	w := doRequest(router, "GET", path, "", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp MetricsTokenResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	return resp.TokenURL
}

func scrape(t *testing.T, router http.Handler, tokenURL string) (int, string) {
	t.Helper()
	u, err := url.Parse(tokenURL)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", u.Path, nil))
	return w.Code, w.Body.String()
}

func TestMetricsTokenLifecycle(t *testing.T) {
	router, _ := newIntegrationServer(t)

	// Seed an event with submissions through the API.
	w := doRequest(router, "POST", "/admin/api/events", "application/json", `{"slug":"democon","name":"DemoCon 2026"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	for _, state := range []string{"submitted", "accepted", "draft", "deleted", "rejected"} {
		w = doRequest(router, "POST", "/admin/api/events/democon/submissions", "application/json", `{"state":"`+state+`"}`)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	const path = "/admin/api/events/democon/metrics-token"
	form := "application/x-www-form-urlencoded"

	assert.Nil(t, getTokenURL(t, router, path))

	w = doRequest(router, "POST", path, form, "action=create")
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, path, w.Header().Get("Location"))

	first := getTokenURL(t, router, path)
	require.NotNil(t, first)
	assert.True(t, strings.HasPrefix(*first, "https://cfp.example.org/metrics/democon/"), *first)

	code, body := scrape(t, router, *first)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, `submissions_total{event="DemoCon 2026"} 3`, body)

	// A second create conflicts.
	w = doRequest(router, "POST", path, form, "action=create")
	assert.Equal(t, http.StatusConflict, w.Code)

	// Reset revokes the old URL.
	w = doRequest(router, "POST", path, form, "action=reset")
	require.Equal(t, http.StatusSeeOther, w.Code)
	second := getTokenURL(t, router, path)
	require.NotNil(t, second)
	assert.NotEqual(t, *first, *second)

	code, _ = scrape(t, router, *first)
	assert.Equal(t, http.StatusBadRequest, code)
	code, _ = scrape(t, router, *second)
	assert.Equal(t, http.StatusOK, code)

	// Delete removes access entirely.
	w = doRequest(router, "POST", path, form, "action=delete")
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Nil(t, getTokenURL(t, router, path))
	code, body = scrape(t, router, *second)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.NotContains(t, body, "submissions_total")

	w = doRequest(router, "POST", path, form, "action=delete")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGlobalTokenCoversAllEvents(t *testing.T) {
	router, store := newIntegrationServer(t)
	ctx := context.Background()

	_, err := store.CreateEvent(ctx, "e1", "Event One")
	require.NoError(t, err)
	_, err = store.CreateEvent(ctx, "e2", `Event "Two"`)
	require.NoError(t, err)
	_, err = store.AddSubmission(ctx, "e1", storage.StateConfirmed)
	require.NoError(t, err)

	w := doRequest(router, "POST", "/admin/api/metrics-token", "application/json", `{"action":"create"}`)
	require.Equal(t, http.StatusSeeOther, w.Code)

	tokenURL := getTokenURL(t, router, "/admin/api/metrics-token")
	require.NotNil(t, tokenURL)
	assert.True(t, strings.HasPrefix(*tokenURL, "https://cfp.example.org/metrics/global/"), *tokenURL)

	code, body := scrape(t, router, *tokenURL)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t,
		"submissions_total{event=\"Event One\"} 1\nsubmissions_total{event=\"Event \\\"Two\\\"\"} 0",
		body)
}

func TestDeletingEventRevokesItsToken(t *testing.T) {
	router, store := newIntegrationServer(t)
	ctx := context.Background()

	_, err := store.CreateEvent(ctx, "democon", "DemoCon")
	require.NoError(t, err)
	token, err := store.CreateMetricsToken(ctx, storage.EventScope("democon"))
	require.NoError(t, err)

	w := doRequest(router, "DELETE", "/admin/api/events/democon", "", "")
	require.Equal(t, http.StatusNoContent, w.Code)

	_, err = store.GetMetricsToken(ctx, storage.EventScope("democon"))
	assert.ErrorIs(t, err, storage.ErrNotFound)

	code, _ := scrape(t, router, "https://cfp.example.org/metrics/democon/"+token.Secret)
	assert.Equal(t, http.StatusBadRequest, code)
}
