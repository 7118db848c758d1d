package watch_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dalemusser/taskhub/internal/app/store/docstore"
	"github.com/dalemusser/taskhub/internal/app/system/watch"
	"github.com/dalemusser/taskhub/internal/domain/models"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

type recorder struct {
	ch chan string
}

func newRecorder() *recorder { return &recorder{ch: make(chan string, 16)} }

func (r *recorder) ExternalChange(path string) {
	select {
	case r.ch <- path:
	default:
	}
}

func openUsers(t *testing.T) (*docstore.Registry, *docstore.Handle[models.User]) {
	t.Helper()
	reg := docstore.NewRegistry(afero.NewOsFs(), zap.NewNop())
	h, err := docstore.Open[models.User](reg, filepath.Join(t.TempDir(), "users.json"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return reg, h
}

func TestCheck(t *testing.T) {
	reg, h := openUsers(t)

	changed, err := watch.Check(reg, h.Path())
	if err != nil || changed {
		t.Fatalf("fresh file: changed=%v err=%v", changed, err)
	}

	if err := os.WriteFile(h.Path(), []byte(`{"x": {"id": "x", "name": "edited"}}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if changed, _ := watch.Check(reg, h.Path()); !changed {
		t.Error("outside edit not detected")
	}

	if err := os.Remove(h.Path()); err != nil {
		t.Fatal(err)
	}
	if changed, _ := watch.Check(reg, h.Path()); !changed {
		t.Error("deleted file not detected")
	}

	if _, err := watch.Check(reg, "/not/open.json"); err == nil {
		t.Error("expected error for a path with no open collection")
	}
}

func TestCheck_OwnWritesAreCurrent(t *testing.T) {
	reg, h := openUsers(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := h.Update(ctx, func(s *docstore.Snapshot[models.User]) error {
		s.Put("u1", models.User{ID: "u1", Name: "alice", CreationTime: models.Now()})
		return nil
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if changed, err := watch.Check(reg, h.Path()); err != nil || changed {
		t.Errorf("own write reported as outside change: changed=%v err=%v", changed, err)
	}
}

func TestWatcher_ReportsOutsideEdit(t *testing.T) {
	reg, h := openUsers(t)
	rec := newRecorder()
	w := watch.New(reg, zap.NewNop(), rec, watch.Config{Debounce: 20 * time.Millisecond})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	defer func() {
		cancel()
		<-done
	}()

	// Give the watcher time to register its directories.
	time.Sleep(100 * time.Millisecond)

	if err := os.WriteFile(h.Path(), []byte(`{}`+"\n\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case got := <-rec.ch:
		if got != h.Path() {
			t.Errorf("reported %q, want %q", got, h.Path())
		}
	case <-time.After(5 * time.Second):
		t.Fatal("outside edit was not reported")
	}
}

func TestWatcher_StopsOnCancel(t *testing.T) {
	reg, _ := openUsers(t)
	w := watch.New(reg, nil, nil, watch.DefaultConfig())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run returned %v, want nil", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
