package testutil

import (
	"errors"
	"os"
	"sync/atomic"

	"github.com/spf13/afero"
)

// ErrInjected is returned by FlakyFs for operations it was told to fail.
var ErrInjected = errors.New("injected failure")

// FlakyFs wraps an afero.Fs and can be switched into modes where every
// write-side operation, or every plain Open, fails.
type FlakyFs struct {
	afero.Fs
	failing      atomic.Bool
	failingReads atomic.Bool
}

// NewFlakyFs wraps a fresh in-memory filesystem.
func NewFlakyFs() *FlakyFs {
	return &FlakyFs{Fs: afero.NewMemMapFs()}
}

// FailWrites toggles write failures.
func (f *FlakyFs) FailWrites(on bool) { f.failing.Store(on) }

// FailReads toggles failures of Open, which afero.ReadFile uses.
func (f *FlakyFs) FailReads(on bool) { f.failingReads.Store(on) }

func (f *FlakyFs) Open(name string) (afero.File, error) {
	if f.failingReads.Load() {
		return nil, &os.PathError{Op: "open", Path: name, Err: ErrInjected}
	}
	return f.Fs.Open(name)
}

func (f *FlakyFs) Create(name string) (afero.File, error) {
	if f.failing.Load() {
		return nil, &os.PathError{Op: "create", Path: name, Err: ErrInjected}
	}
	return f.Fs.Create(name)
}

func (f *FlakyFs) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	if f.failing.Load() && flag&(os.O_WRONLY|os.O_RDWR|os.O_CREATE|os.O_APPEND|os.O_TRUNC) != 0 {
		return nil, &os.PathError{Op: "open", Path: name, Err: ErrInjected}
	}
	return f.Fs.OpenFile(name, flag, perm)
}

func (f *FlakyFs) Rename(oldname, newname string) error {
	if f.failing.Load() {
		return &os.LinkError{Op: "rename", Old: oldname, New: newname, Err: ErrInjected}
	}
	return f.Fs.Rename(oldname, newname)
}
