// Package watch reports collection files that change on disk behind the
// store's back.
//
// The in-memory snapshot stays authoritative: an outside edit is logged and
// counted, and the next write through the store replaces it.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"time"

	"github.com/dalemusser/taskhub/internal/app/store/docstore"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Reporter is told about every detected outside change.
type Reporter interface {
	ExternalChange(path string)
}

// Config holds watcher options.
type Config struct {
	Debounce time.Duration
}

// DefaultConfig returns the defaults.
func DefaultConfig() Config {
	return Config{Debounce: 500 * time.Millisecond}
}

// Watcher watches the directories of every open collection.
type Watcher struct {
	reg      *docstore.Registry
	log      *zap.Logger
	rep      Reporter
	debounce time.Duration
}

// New creates a watcher over the handles currently open in reg. rep may be
// nil.
func New(reg *docstore.Registry, logger *zap.Logger, rep Reporter, cfg Config) *Watcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultConfig().Debounce
	}
	return &Watcher{reg: reg, log: logger, rep: rep, debounce: cfg.Debounce}
}

// Run watches until ctx is done. It returns nil on cancellation.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating fsnotify watcher: %w", err)
	}
	defer fsw.Close()

	tracked := make(map[string]bool)
	for _, h := range w.reg.Handles() {
		tracked[h.Path()] = true
	}
	for _, dir := range dirsOf(tracked) {
		if err := fsw.Add(dir); err != nil {
			return fmt.Errorf("watching directory %s: %w", dir, err)
		}
	}
	w.log.Info("watching data files", zap.Int("files", len(tracked)))

	var (
		timer   *time.Timer
		pending = make(map[string]struct{})
	)
	timerC := func() <-chan time.Time {
		if timer != nil {
			return timer.C
		}
		return nil
	}

	for {
		select {
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !relevant(event) || !tracked[filepath.Clean(event.Name)] {
				continue
			}
			pending[filepath.Clean(event.Name)] = struct{}{}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}

		case <-timerC():
			timer = nil
			for path := range pending {
				w.inspect(path)
			}
			pending = make(map[string]struct{})

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("file watcher error", zap.Error(err))

		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		}
	}
}

func (w *Watcher) inspect(path string) {
	changed, err := Check(w.reg, path)
	if err != nil {
		w.log.Warn("could not read data file", zap.String("path", path), zap.Error(err))
		return
	}
	if !changed {
		return
	}
	w.log.Warn("data file changed outside the process; in-memory state is kept and will overwrite it on the next write",
		zap.String("path", path))
	if w.rep != nil {
		w.rep.ExternalChange(path)
	}
}

// Check reports whether the file at path no longer holds what the store
// last wrote. A deleted file counts as changed.
func Check(reg *docstore.Registry, path string) (bool, error) {
	h, ok := reg.Lookup(path)
	if !ok {
		return false, fmt.Errorf("no open collection at %s", path)
	}
	data, err := afero.ReadFile(reg.Fs(), h.Path())
	if errors.Is(err, fs.ErrNotExist) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return !h.IsCurrent(data), nil
}

func relevant(event fsnotify.Event) bool {
	return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0
}

func dirsOf(paths map[string]bool) []string {
	seen := make(map[string]bool)
	var out []string
	for p := range paths {
		d := filepath.Dir(p)
		if !seen[d] {
			seen[d] = true
			out = append(out, d)
		}
	}
	sort.Strings(out)
	return out
}
