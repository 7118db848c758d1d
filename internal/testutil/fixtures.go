package testutil

import (
	"context"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/dalemusser/taskhub/internal/app/store/docstore"
	"github.com/go-chi/chi/v5"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// TestContext returns a context with a short deadline for store calls.
func TestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 5*time.Second)
}

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that call handler methods directly.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx, ok := r.Context().Value(chi.RouteCtxKey).(*chi.Context)
	if !ok || rctx == nil {
		rctx = chi.NewRouteContext()
		r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
	}
	rctx.URLParams.Add(key, value)
	return r
}

// Stores bundles a registry over an in-memory filesystem and the collection
// paths used by the tests.
type Stores struct {
	Fs         afero.Fs
	Registry   *docstore.Registry
	UsersPath  string
	TeamsPath  string
	BoardsPath string
}

// NewStores builds a registry over a fresh in-memory filesystem.
func NewStores(t *testing.T) *Stores {
	t.Helper()
	return NewStoresOn(t, afero.NewMemMapFs())
}

// NewStoresOn builds a registry over fsys with per-test collection paths.
func NewStoresOn(t *testing.T, fsys afero.Fs) *Stores {
	t.Helper()
	dir := filepath.Join("/data", t.Name())
	return &Stores{
		Fs:         fsys,
		Registry:   docstore.NewRegistry(fsys, zap.NewNop()),
		UsersPath:  filepath.Join(dir, "users.json"),
		TeamsPath:  filepath.Join(dir, "teams.json"),
		BoardsPath: filepath.Join(dir, "boards.json"),
	}
}

// Reopen returns a new registry over the same filesystem, as after a
// process restart.
func (s *Stores) Reopen() *Stores {
	out := *s
	out.Registry = docstore.NewRegistry(s.Fs, zap.NewNop())
	return &out
}
