// Package rawio performs exact positioned reads against owned handles.
//
// Every read names its absolute offset, so callers never depend on (or race
// over) an implicit file cursor.
package rawio

import (
	"errors"
	"io"
	"math"
	"runtime"

	"github.com/teamdman/winhandle/internal/handle"
	"github.com/teamdman/winhandle/internal/winerror"
)

// PositionedReader is the platform read primitive. A single call may fill
// less than len(p); a zero count with a nil error signals end of data.
type PositionedReader interface {
	ReadAtOffset(p []byte, off uint64) (int, error)
}

// ReaderFunc adapts a function to PositionedReader.
type ReaderFunc func(p []byte, off uint64) (int, error)

func (f ReaderFunc) ReadAtOffset(p []byte, off uint64) (int, error) { return f(p, off) }

var errOffsetOverflow = errors.New("offset overflows 64 bits")

// ReadExact fills buf from r starting at offset, looping over short reads.
//
// It returns nil only when buf is full. If r reports end of data first, it
// returns a *winerror.EOFError (matching io.ErrUnexpectedEOF) and the bytes
// already read are left at the start of buf. Any other failure is returned as
// a *winerror.IOError carrying the offset of the failed call.
func ReadExact(r PositionedReader, offset uint64, buf []byte) error {
	if uint64(len(buf)) > math.MaxUint64-offset {
		return &winerror.IOError{Op: "read", Offset: offset, Err: errOffsetOverflow}
	}

	var got int
	for got < len(buf) {
		off := offset + uint64(got)
		n, err := r.ReadAtOffset(buf[got:], off)
		if n < 0 || n > len(buf)-got {
			return &winerror.IOError{Op: "read", Offset: off, Err: io.ErrShortBuffer}
		}
		got += n
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			var ioErr *winerror.IOError
			if errors.As(err, &ioErr) {
				return err
			}
			return &winerror.IOError{Op: "read", Offset: off, Err: err}
		}
		if n == 0 {
			break
		}
	}
	if got < len(buf) {
		return &winerror.EOFError{Offset: offset, Want: len(buf), Got: got}
	}
	return nil
}

// readOwned fills buf from the handle owned by h. h is kept reachable until
// the last read returns so its finalizer cannot release the handle mid-call.
func readOwned[H comparable](h *handle.Owned[H], offset uint64, buf []byte, reader func(H) PositionedReader) error {
	if !h.Valid() {
		return winerror.ErrInvalidHandle
	}
	err := ReadExact(reader(h.Get()), offset, buf)
	runtime.KeepAlive(h)
	return err
}
