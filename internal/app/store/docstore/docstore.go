// internal/app/store/docstore/docstore.go
//
// Package docstore keeps one JSON document per collection file and mirrors
// it in memory. The in-memory snapshot is the source of truth while the
// process runs; every mutation replaces the whole document on disk.
//
// There is at most one live Handle per file path. Handles are created
// lazily by Open and live as long as their Registry.
//
// Concurrency:
//   - Read returns a private deep copy and never blocks on disk I/O.
//   - Update and Write are serialized per handle, so read-modify-write
//     cycles against one collection cannot lose each other's changes.
//   - A failed persist leaves the in-memory snapshot as it was.
package docstore

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/dalemusser/taskhub/internal/app/system/apperr"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// filePerm is the mode of collection files.
const filePerm = 0o644

var (
	// ErrTypeMismatch is returned when a path is opened with a record type
	// other than the one it was first opened with.
	ErrTypeMismatch = errors.New("document store already open with a different record type")

	// ErrCorrupt wraps decode failures of an existing data file.
	ErrCorrupt = errors.New("data file is not a JSON object of records")

	// ErrNoChange may be returned by an Update callback to end the cycle
	// successfully without persisting anything.
	ErrNoChange = errors.New("no change")
)

// Observer receives the outcome of every persist attempt.
type Observer interface {
	Persisted(path string, size int, elapsed time.Duration, err error)
}

// Tracked is the type-independent view of a handle.
type Tracked interface {
	Path() string
	Version() uint64
	IsCurrent(data []byte) bool
}

// Option configures a Registry.
type Option func(*Registry)

// WithObserver reports persist outcomes to o.
func WithObserver(o Observer) Option {
	return func(r *Registry) { r.obs = o }
}

// Registry owns the live handles, keyed by cleaned absolute path.
type Registry struct {
	fs  afero.Fs
	log *zap.Logger
	obs Observer

	mu      sync.Mutex
	handles map[string]Tracked
}

// NewRegistry builds an empty registry over fsys. Use afero.NewOsFs() in
// production.
func NewRegistry(fsys afero.Fs, logger *zap.Logger, opts ...Option) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Registry{
		fs:      fsys,
		log:     logger,
		handles: make(map[string]Tracked),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Fs returns the filesystem the registry persists to.
func (r *Registry) Fs() afero.Fs { return r.fs }

// Handles returns every open handle sorted by path.
func (r *Registry) Handles() []Tracked {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Tracked, 0, len(r.handles))
	for _, h := range r.handles {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path() < out[j].Path() })
	return out
}

// Lookup returns the open handle for path, if any.
func (r *Registry) Lookup(path string) (Tracked, bool) {
	key, err := keyFor(path)
	if err != nil {
		return nil, false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.handles[key]
	return h, ok
}

// Open returns the live handle for path, loading it on first use. A missing
// file is created holding an empty object. Later calls with the same path
// return the same handle without touching the disk.
func Open[T Record[T]](r *Registry, path string) (*Handle[T], error) {
	key, err := keyFor(path)
	if err != nil {
		return nil, &apperr.IOError{Op: "open", Path: path, Err: err}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.handles[key]; ok {
		h, ok := existing.(*Handle[T])
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrTypeMismatch, key)
		}
		return h, nil
	}

	h := &Handle[T]{
		path: key,
		fs:   r.fs,
		log:  r.log.With(zap.String("store", key)),
		obs:  r.obs,
		sem:  make(chan struct{}, 1),
	}
	if err := h.load(); err != nil {
		return nil, err
	}
	r.handles[key] = h
	h.log.Info("document store opened", zap.Int("records", h.snap.Len()))
	return h, nil
}

func keyFor(path string) (string, error) {
	if path == "" {
		return "", errors.New("empty path")
	}
	return filepath.Abs(filepath.Clean(path))
}

// Handle is the single live reference to one collection file.
type Handle[T Record[T]] struct {
	path string
	fs   afero.Fs
	log  *zap.Logger
	obs  Observer

	// sem serializes writers. It is a channel so waiting can honor a context.
	sem chan struct{}

	mu      sync.RWMutex
	snap    *Snapshot[T]
	digest  [sha256.Size]byte
	version uint64
}

// Path returns the absolute path of the backing file.
func (h *Handle[T]) Path() string { return h.path }

// Version counts successful persists since the handle was opened.
func (h *Handle[T]) Version() uint64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.version
}

// IsCurrent reports whether data is byte-for-byte the last document this
// handle loaded or persisted.
func (h *Handle[T]) IsCurrent(data []byte) bool {
	sum := sha256.Sum256(data)
	h.mu.RLock()
	defer h.mu.RUnlock()
	return sum == h.digest
}

// Read returns a deep copy of the current snapshot.
func (h *Handle[T]) Read() *Snapshot[T] {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.snap.Clone()
}

// Write replaces the whole document with snap and persists it. On error the
// previous snapshot stays in place.
func (h *Handle[T]) Write(snap *Snapshot[T]) error {
	h.sem <- struct{}{}
	defer func() { <-h.sem }()
	return h.commit(snap.Clone())
}

// Update runs one serialized read-modify-write cycle. fn receives a private
// copy of the snapshot; if it returns nil the copy is persisted and becomes
// current. If it returns ErrNoChange, Update returns nil and nothing is
// written. Any other error is returned and nothing changes.
//
// ctx bounds only the wait for the handle. Once fn starts, the cycle runs
// to completion.
func (h *Handle[T]) Update(ctx context.Context, fn func(*Snapshot[T]) error) error {
	select {
	case h.sem <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-h.sem }()

	work := h.Read()
	if err := fn(work); err != nil {
		if errors.Is(err, ErrNoChange) {
			return nil
		}
		return err
	}
	return h.commit(work)
}

// commit persists snap and swaps it in. Callers hold sem.
func (h *Handle[T]) commit(snap *Snapshot[T]) error {
	data, err := encode(snap)
	if err != nil {
		return &apperr.IOError{Op: "encode", Path: h.path, Err: err}
	}

	start := time.Now()
	err = writeFileAtomic(h.fs, h.path, data, filePerm)
	if h.obs != nil {
		h.obs.Persisted(h.path, len(data), time.Since(start), err)
	}
	if err != nil {
		h.log.Error("persist failed", zap.Error(err))
		return &apperr.IOError{Op: "write", Path: h.path, Err: err}
	}

	h.mu.Lock()
	h.snap = snap
	h.digest = sha256.Sum256(data)
	h.version++
	h.mu.Unlock()

	h.log.Debug("persisted", zap.Int("records", snap.Len()), zap.Int("bytes", len(data)))
	return nil
}

func (h *Handle[T]) load() error {
	data, err := afero.ReadFile(h.fs, h.path)
	if errors.Is(err, fs.ErrNotExist) {
		empty := NewSnapshot[T]()
		data, err := encode(empty)
		if err != nil {
			return &apperr.IOError{Op: "encode", Path: h.path, Err: err}
		}
		if err := writeFileAtomic(h.fs, h.path, data, filePerm); err != nil {
			return &apperr.IOError{Op: "create", Path: h.path, Err: err}
		}
		h.snap = empty
		h.digest = sha256.Sum256(data)
		h.log.Info("created empty data file")
		return nil
	}
	if err != nil {
		return &apperr.IOError{Op: "read", Path: h.path, Err: err}
	}

	snap := NewSnapshot[T]()
	if len(bytes.TrimSpace(data)) > 0 {
		if err := json.Unmarshal(data, snap); err != nil {
			return &apperr.IOError{Op: "decode", Path: h.path, Err: fmt.Errorf("%w: %v", ErrCorrupt, err)}
		}
	}
	h.snap = snap
	h.digest = sha256.Sum256(data)
	return nil
}

func encode[T Record[T]](snap *Snapshot[T]) ([]byte, error) {
	raw, err := snap.MarshalJSON()
	if err != nil {
		return nil, err
	}
	var out bytes.Buffer
	if err := json.Indent(&out, raw, "", "  "); err != nil {
		return nil, err
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}
