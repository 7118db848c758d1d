package metrics_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/taskhub/internal/app/system/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func newMetrics(t *testing.T) *metrics.Metrics {
	t.Helper()
	m, err := metrics.New()
	if err != nil {
		t.Fatalf("metrics.New: %v", err)
	}
	return m
}

func TestCollection(t *testing.T) {
	tests := map[string]string{
		"/srv/db/users.json": "users",
		"teams.json":         "teams",
		"db/boards":          "boards",
	}
	for in, want := range tests {
		if got := metrics.Collection(in); got != want {
			t.Errorf("Collection(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestPersisted(t *testing.T) {
	m := newMetrics(t)

	m.Persisted("/db/users.json", 120, 3*time.Millisecond, nil)
	m.Persisted("/db/users.json", 0, time.Millisecond, errors.New("disk full"))

	expected := `
# HELP taskhub_store_persist_total Number of collection writes to disk, by result.
# TYPE taskhub_store_persist_total counter
taskhub_store_persist_total{collection="users",result="error"} 1
taskhub_store_persist_total{collection="users",result="ok"} 1
`
	if err := testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), "taskhub_store_persist_total"); err != nil {
		t.Error(err)
	}

	expectedSize := `
# HELP taskhub_store_document_bytes Size of the last successfully written collection file.
# TYPE taskhub_store_document_bytes gauge
taskhub_store_document_bytes{collection="users"} 120
`
	if err := testutil.GatherAndCompare(m.Registry(), strings.NewReader(expectedSize), "taskhub_store_document_bytes"); err != nil {
		t.Error(err)
	}
}

func TestMiddleware_UsesRoutePattern(t *testing.T) {
	m := newMetrics(t)

	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/boards/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for _, id := range []string{"a", "b"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boards/"+id, nil))
	}

	expected := `
# HELP taskhub_http_requests_total Number of HTTP requests handled, by route and status code.
# TYPE taskhub_http_requests_total counter
taskhub_http_requests_total{code="404",method="GET",route="/boards/{id}"} 2
`
	if err := testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), "taskhub_http_requests_total"); err != nil {
		t.Error(err)
	}
}

func TestHandler_ServesText(t *testing.T) {
	m := newMetrics(t)
	m.ExternalChange("/db/teams.json")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `taskhub_store_external_changes_total{collection="teams"} 1`) {
		t.Error("expected drift counter in output")
	}
}
