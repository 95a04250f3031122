//go:build windows

package rawio

import (
	"errors"
	"math"
	"runtime"

	"golang.org/x/sys/windows"

	"github.com/teamdman/winhandle/internal/handle"
	"github.com/teamdman/winhandle/internal/winapi"
	"github.com/teamdman/winhandle/internal/winerror"
)

// TryReadExact fills buf from h starting at offset. See ReadExact for the
// result contract. An invalid or closed handle returns winerror.ErrInvalidHandle.
func TryReadExact(h *handle.Owned[windows.Handle], offset uint64, buf []byte) error {
	return readOwned(h, offset, buf, func(h windows.Handle) PositionedReader { return handleReader(h) })
}

// handleReader issues ReadFile with the offset in an OVERLAPPED structure.
// On synchronous handles Windows also moves the file pointer, but nothing
// here reads it, so concurrent readers at distinct offsets do not interfere.
type handleReader windows.Handle

func (r handleReader) ReadAtOffset(p []byte, off uint64) (int, error) {
	if len(p) > math.MaxUint32 {
		p = p[:math.MaxUint32]
	}
	ov := windows.Overlapped{
		Offset:     uint32(off),
		OffsetHigh: uint32(off >> 32),
	}
	var n uint32
	err := windows.ReadFile(windows.Handle(r), p, &n, &ov)
	if errors.Is(err, windows.ERROR_IO_PENDING) {
		err = windows.GetOverlappedResult(windows.Handle(r), &ov, &n, true)
	}
	if errors.Is(err, windows.ERROR_HANDLE_EOF) {
		return int(n), nil
	}
	return int(n), err
}

// File is a read-only, owned handle to a file or volume.
type File struct {
	path string
	h    *handle.Owned[windows.Handle]
}

// Open opens path for positioned reads. The file is shared for read, write
// and delete, and opened with backup semantics so an elevated process can
// read files its ACLs would otherwise deny.
func Open(path string) (*File, error) {
	h, err := winapi.CreateFile(path,
		windows.GENERIC_READ,
		winapi.FILE_SHARE_ALL,
		nil,
		windows.OPEN_EXISTING,
		windows.FILE_ATTRIBUTE_NORMAL|windows.FILE_FLAG_BACKUP_SEMANTICS,
		0)
	if err != nil {
		return nil, &winerror.IOError{Op: "open", Path: path, Err: err}
	}
	return &File{path: path, h: handle.Take(h)}, nil
}

func (f *File) Name() string { return f.path }

// Handle returns the owned handle backing f.
func (f *File) Handle() *handle.Owned[windows.Handle] { return f.h }

// ReadAtOffset performs a single positioned read.
func (f *File) ReadAtOffset(p []byte, off uint64) (int, error) {
	if !f.h.Valid() {
		return 0, winerror.ErrInvalidHandle
	}
	n, err := handleReader(f.h.Get()).ReadAtOffset(p, off)
	runtime.KeepAlive(f)
	if err != nil {
		return n, &winerror.IOError{Op: "read", Path: f.path, Offset: off, Err: err}
	}
	return n, nil
}

// ReadExact fills buf starting at offset.
func (f *File) ReadExact(offset uint64, buf []byte) error {
	if !f.h.Valid() {
		return winerror.ErrInvalidHandle
	}
	return ReadExact(f, offset, buf)
}

// Size returns the file size. It is not meaningful for volume handles.
func (f *File) Size() (uint64, error) {
	if !f.h.Valid() {
		return 0, winerror.ErrInvalidHandle
	}
	var fi windows.ByHandleFileInformation
	if err := windows.GetFileInformationByHandle(f.h.Get(), &fi); err != nil {
		return 0, &winerror.IOError{Op: "stat", Path: f.path, Err: err}
	}
	return uint64(fi.FileSizeHigh)<<32 | uint64(fi.FileSizeLow), nil
}

func (f *File) Close() error {
	return f.h.Close()
}
