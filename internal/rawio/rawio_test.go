package rawio

import (
	"bytes"
	"errors"
	"io"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"sync/atomic"
	"syscall"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/sync/errgroup"

	"github.com/teamdman/winhandle/internal/handle"
	"github.com/teamdman/winhandle/internal/winerror"
)

// chunkedReader serves data at most max bytes per call, imitating a device
// that returns short reads.
type chunkedReader struct {
	data  []byte
	max   int
	calls int
	fail  map[uint64]error
}

func (c *chunkedReader) ReadAtOffset(p []byte, off uint64) (int, error) {
	c.calls++
	if err, ok := c.fail[off]; ok {
		return 0, err
	}
	if off >= uint64(len(c.data)) {
		return 0, nil
	}
	n := copy(p, c.data[off:])
	if c.max > 0 && n > c.max {
		n = c.max
	}
	return n, nil
}

func tenBytes() []byte { return []byte("0123456789") }

func TestReadExactScenario(t *testing.T) {
	r := &chunkedReader{data: tenBytes()}

	buf := make([]byte, 3)
	if err := ReadExact(r, 5, buf); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]byte("567"), buf); diff != "" {
		t.Fatalf("unexpected bytes (-want +got):\n%s", diff)
	}

	buf = make([]byte, 5)
	err := ReadExact(r, 8, buf)
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("expected unexpected EOF, got %v", err)
	}
	var eof *winerror.EOFError
	if !errors.As(err, &eof) || eof.Got != 2 || eof.Want != 5 {
		t.Fatalf("expected 2 of 5 bytes, got %+v", eof)
	}
	if diff := cmp.Diff([]byte("89"), buf[:2]); diff != "" {
		t.Fatalf("unexpected partial bytes (-want +got):\n%s", diff)
	}
}

func TestReadExactLoopsOverShortReads(t *testing.T) {
	data := bytes.Repeat([]byte("abcdefgh"), 64)
	r := &chunkedReader{data: data, max: 7}

	buf := make([]byte, 300)
	if err := ReadExact(r, 100, buf); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(buf, data[100:400]) {
		t.Fatal("short reads were not stitched together correctly")
	}
	if want := (300 + 6) / 7; r.calls != want {
		t.Fatalf("expected %d read calls, got %d", want, r.calls)
	}
}

func TestReadExactEmptyBuffer(t *testing.T) {
	r := &chunkedReader{data: tenBytes()}
	if err := ReadExact(r, 100, nil); err != nil {
		t.Fatalf("an empty read is always satisfied, got %v", err)
	}
	if r.calls != 0 {
		t.Fatalf("expected no read calls, got %d", r.calls)
	}
}

func TestReadExactIOError(t *testing.T) {
	r := &chunkedReader{data: tenBytes(), max: 4, fail: map[uint64]error{4: syscall.Errno(23)}}
	buf := make([]byte, 8)
	err := ReadExact(r, 0, buf)

	var ioErr *winerror.IOError
	if !errors.As(err, &ioErr) {
		t.Fatalf("expected IOError, got %v", err)
	}
	if ioErr.Offset != 4 {
		t.Fatalf("expected failure at offset 4, got %d", ioErr.Offset)
	}
	if winerror.Win32FromError(err) != 23 {
		t.Fatalf("expected code 23, got %d", winerror.Win32FromError(err))
	}
	if errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatal("an OS failure must not look like end of data")
	}
}

func TestReadExactEOFError(t *testing.T) {
	r := ReaderFunc(func(p []byte, off uint64) (int, error) {
		return copy(p, "ab"), io.EOF
	})
	err := ReadExact(r, 0, make([]byte, 4))
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("expected unexpected EOF, got %v", err)
	}
}

func TestReadExactOffsetOverflow(t *testing.T) {
	r := &chunkedReader{data: tenBytes()}
	err := ReadExact(r, math.MaxUint64-1, make([]byte, 4))
	var ioErr *winerror.IOError
	if !errors.As(err, &ioErr) {
		t.Fatalf("expected IOError for overflowing offset, got %v", err)
	}
}

func TestFileReadExact(t *testing.T) {
	p := filepath.Join(t.TempDir(), "data")
	if err := os.WriteFile(p, tenBytes(), 0o600); err != nil {
		t.Fatal(err)
	}
	f, err := Open(p)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	size, err := f.Size()
	if err != nil || size != 10 {
		t.Fatalf("expected size 10, got %d (%v)", size, err)
	}

	buf := make([]byte, 3)
	if err := f.ReadExact(5, buf); err != nil {
		t.Fatal(err)
	}
	if string(buf) != "567" {
		t.Fatalf("expected 567, got %q", buf)
	}

	buf = make([]byte, 5)
	if err := f.ReadExact(8, buf); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("expected unexpected EOF, got %v", err)
	}
	if string(buf[:2]) != "89" {
		t.Fatalf("expected partial 89, got %q", buf[:2])
	}
}

func TestFileConcurrentReads(t *testing.T) {
	data := bytes.Repeat([]byte("0123456789abcdef"), 4096)
	p := filepath.Join(t.TempDir(), "data")
	if err := os.WriteFile(p, data, 0o600); err != nil {
		t.Fatal(err)
	}
	f, err := Open(p)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	var g errgroup.Group
	for i := 0; i < 32; i++ {
		off := uint64(i * 2048)
		g.Go(func() error {
			buf := make([]byte, 2048)
			if err := f.ReadExact(off, buf); err != nil {
				return err
			}
			if !bytes.Equal(buf, data[off:off+2048]) {
				return errors.New("concurrent read returned wrong bytes")
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}
}

func TestOpenMissing(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing"))
	var ioErr *winerror.IOError
	if !errors.As(err, &ioErr) || ioErr.Op != "open" {
		t.Fatalf("expected open IOError, got %v", err)
	}
}

func TestClosedFileIsInvalid(t *testing.T) {
	p := filepath.Join(t.TempDir(), "data")
	if err := os.WriteFile(p, tenBytes(), 0o600); err != nil {
		t.Fatal(err)
	}
	f, err := Open(p)
	if err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.ReadExact(0, make([]byte, 1)); !errors.Is(err, winerror.ErrInvalidHandle) {
		t.Fatalf("expected ErrInvalidHandle after close, got %v", err)
	}
}

type countingReleaser struct {
	released atomic.Int32
}

func (*countingReleaser) Invalid(h int) bool { return h == 0 }

func (r *countingReleaser) Release(int) error {
	r.released.Add(1)
	return nil
}

// collect gives finalizers of unreachable owners a chance to run.
func collect() {
	for range 3 {
		runtime.GC()
		time.Sleep(10 * time.Millisecond)
	}
}

func TestOwnerKeptAliveDuringRead(t *testing.T) {
	r := &countingReleaser{}
	var releasedDuringRead int32
	reader := func(int) PositionedReader {
		return ReaderFunc(func(p []byte, _ uint64) (int, error) {
			collect()
			releasedDuringRead = r.released.Load()
			return len(p), nil
		})
	}

	if err := readOwned(handle.TakeOwnership[int](7, r), 0, make([]byte, 4), reader); err != nil {
		t.Fatal(err)
	}
	if releasedDuringRead != 0 {
		t.Fatal("handle was released while a read was in progress")
	}
}

func TestReadOwnedInvalidHandle(t *testing.T) {
	r := &countingReleaser{}
	err := readOwned(handle.TakeOwnership[int](0, r), 0, make([]byte, 1), func(int) PositionedReader {
		t.Fatal("reader must not be built for an invalid handle")
		return nil
	})
	if !errors.Is(err, winerror.ErrInvalidHandle) {
		t.Fatalf("expected ErrInvalidHandle, got %v", err)
	}
}
