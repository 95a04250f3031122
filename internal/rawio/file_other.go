//go:build !windows

package rawio

import (
	"errors"
	"io"
	"math"
	"os"
	"runtime"

	"github.com/teamdman/winhandle/internal/handle"
	"github.com/teamdman/winhandle/internal/winerror"
)

// File is a read-only, owned file. Off Windows it is backed by *os.File so
// consumers of this package build and test on every platform.
type File struct {
	path string
	h    *handle.Owned[*os.File]
}

// Open opens path for positioned reads.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &winerror.IOError{Op: "open", Path: path, Err: errors.Unwrap(err)}
	}
	return &File{path: path, h: handle.TakeFile(f)}, nil
}

func (f *File) Name() string { return f.path }

// Handle returns the owned file backing f.
func (f *File) Handle() *handle.Owned[*os.File] { return f.h }

// ReadAtOffset performs a single positioned read.
func (f *File) ReadAtOffset(p []byte, off uint64) (int, error) {
	if !f.h.Valid() {
		return 0, winerror.ErrInvalidHandle
	}
	if off > math.MaxInt64 {
		return 0, io.EOF
	}
	n, err := f.h.Get().ReadAt(p, int64(off))
	runtime.KeepAlive(f)
	if err != nil && !errors.Is(err, io.EOF) {
		return n, &winerror.IOError{Op: "read", Path: f.path, Offset: off, Err: err}
	}
	return n, err
}

// ReadExact fills buf starting at offset.
func (f *File) ReadExact(offset uint64, buf []byte) error {
	if !f.h.Valid() {
		return winerror.ErrInvalidHandle
	}
	return ReadExact(f, offset, buf)
}

// Size returns the file size.
func (f *File) Size() (uint64, error) {
	if !f.h.Valid() {
		return 0, winerror.ErrInvalidHandle
	}
	fi, err := f.h.Get().Stat()
	if err != nil {
		return 0, &winerror.IOError{Op: "stat", Path: f.path, Err: err}
	}
	return uint64(fi.Size()), nil
}

func (f *File) Close() error {
	return f.h.Close()
}
