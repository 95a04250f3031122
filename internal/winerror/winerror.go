// Package winerror defines the error taxonomy shared by the handle, privilege,
// positioned read and watch packages, and the helpers used to recover the
// underlying Win32 error code from a wrapped error.
package winerror

import (
	"errors"
	"fmt"
	"io"
	"syscall"
)

const ERROR_GEN_FAILURE = syscall.Errno(31) //nolint:revive,stylecheck

var (
	// ErrInvalidHandle is returned when an operation other than release is
	// attempted on an invalid (sentinel) handle.
	ErrInvalidHandle = errors.New("invalid handle")

	// ErrUnexpectedEOF is matched by errors.Is for every *EOFError.
	ErrUnexpectedEOF = io.ErrUnexpectedEOF
)

// IOError records a failed open, read or watch setup and the path (or handle
// description) it was issued against.
type IOError struct {
	Op     string
	Path   string
	Offset uint64
	Err    error
}

func (e *IOError) Error() string {
	s := e.Op
	if e.Path != "" {
		s += " " + e.Path
	}
	if e.Op == "read" {
		s += fmt.Sprintf(" at offset %d", e.Offset)
	}
	return s + ": " + describe(e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// EOFError is returned when a positioned read hit end of data before the
// destination buffer was filled. Got bytes at the start of the buffer are valid.
type EOFError struct {
	Offset uint64
	Want   int
	Got    int
}

func (e *EOFError) Error() string {
	return fmt.Sprintf("unexpected EOF reading %d bytes at offset %d: got %d", e.Want, e.Offset, e.Got)
}

func (e *EOFError) Unwrap() error { return io.ErrUnexpectedEOF }

// PrivilegeError is returned by the privilege elevator when the process token
// cannot be opened, a privilege name cannot be resolved, or the adjustment fails.
type PrivilegeError struct {
	Op        string
	Privilege string
	Err       error
}

func (e *PrivilegeError) Error() string {
	s := e.Op
	if e.Privilege != "" {
		s += " " + e.Privilege
	}
	return s + ": " + describe(e.Err)
}

func (e *PrivilegeError) Unwrap() error { return e.Err }

// WatchFault terminates a notification stream whose wait loop failed after the
// stream was established.
type WatchFault struct {
	Path string
	Err  error
}

func (e *WatchFault) Error() string {
	return "watch " + e.Path + " faulted: " + describe(e.Err)
}

func (e *WatchFault) Unwrap() error { return e.Err }

func describe(err error) string {
	if err == nil {
		return "<nil>"
	}
	if code := syscall.Errno(0); errors.As(err, &code) {
		return fmt.Sprintf("failed in Win32: %s (0x%x)", err, uint32(code))
	}
	return err.Error()
}

// Win32FromError returns the Win32 error code carried by err, or
// ERROR_GEN_FAILURE if there is none.
func Win32FromError(err error) uint32 {
	if code := syscall.Errno(0); errors.As(err, &code) {
		return uint32(code)
	}
	return uint32(ERROR_GEN_FAILURE)
}

// HasCode reports whether err carries a Win32 error code.
func HasCode(err error) bool {
	code := syscall.Errno(0)
	return errors.As(err, &code)
}

// IsAny reports whether errors.Is holds for err and any of errs.
func IsAny(err error, errs ...error) bool {
	for _, e := range errs {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}
