//go:build windows

package watch

import (
	"errors"
	"sync"

	"golang.org/x/sys/windows"

	"github.com/teamdman/winhandle/internal/handle"
	"github.com/teamdman/winhandle/internal/winapi"
)

const defaultBackend = BackendNative

// notifyBufferSize is the ReadDirectoryChangesW buffer. Changes that do not
// fit are reported as an overflow (a zero-length completion).
const notifyBufferSize = 64 * 1024

// nativeNotifier waits on an overlapped ReadDirectoryChangesW and a cancel
// event with a single WaitForMultipleObjects call.
type nativeNotifier struct {
	dir     *handle.Owned[windows.Handle]
	ioEvent *handle.Owned[windows.Handle]
	stopEv  *handle.Owned[windows.Handle]

	// buf and ov are referenced by the kernel while a read is pending.
	buf []byte
	ov  windows.Overlapped

	// mu guards stopEv against a cancel racing with close.
	mu        sync.Mutex
	cancelled bool
	closed    bool
}

func newNativeNotifier(dir string) (_ notifier, err error) {
	h, err := winapi.CreateFile(dir,
		windows.FILE_LIST_DIRECTORY,
		winapi.FILE_SHARE_ALL,
		nil,
		windows.OPEN_EXISTING,
		windows.FILE_FLAG_BACKUP_SEMANTICS|windows.FILE_FLAG_OVERLAPPED,
		0)
	if err != nil {
		return nil, err
	}
	n := &nativeNotifier{
		dir: handle.Take(h),
		buf: make([]byte, notifyBufferSize),
	}
	defer func() {
		if err != nil {
			_ = n.close()
		}
	}()

	io, err := windows.CreateEvent(nil, 1, 0, nil)
	if err != nil {
		return nil, err
	}
	n.ioEvent = handle.Take(io)

	stop, err := windows.CreateEvent(nil, 1, 0, nil)
	if err != nil {
		return nil, err
	}
	n.stopEv = handle.Take(stop)
	return n, nil
}

func (n *nativeNotifier) next() ([]change, error) {
	n.ov = windows.Overlapped{HEvent: n.ioEvent.Get()}
	if err := windows.ResetEvent(n.ioEvent.Get()); err != nil {
		return nil, err
	}
	err := windows.ReadDirectoryChanges(n.dir.Get(), &n.buf[0], uint32(len(n.buf)), false,
		winapi.FILE_NOTIFY_CHANGE_CONTENT, nil, &n.ov, 0)
	if err != nil && !errors.Is(err, windows.ERROR_IO_PENDING) {
		return nil, err
	}

	ev, err := windows.WaitForMultipleObjects([]windows.Handle{n.ioEvent.Get(), n.stopEv.Get()}, false, windows.INFINITE)
	if err != nil {
		n.abort()
		return nil, err
	}
	switch ev {
	case windows.WAIT_OBJECT_0:
		var got uint32
		if err := windows.GetOverlappedResult(n.dir.Get(), &n.ov, &got, false); err != nil {
			if errors.Is(err, windows.ERROR_NOTIFY_ENUM_DIR) {
				return []change{overflow}, nil
			}
			return nil, err
		}
		if got == 0 {
			return []change{overflow}, nil
		}
		recs, err := winapi.ParseNotifyInformation(n.buf[:got])
		if err != nil {
			return nil, err
		}
		changes := make([]change, 0, len(recs))
		for _, r := range recs {
			changes = append(changes, change{name: r.Name, action: r.Action})
		}
		return changes, nil
	case windows.WAIT_OBJECT_0 + 1:
		n.abort()
		return nil, errCancelled
	default:
		n.abort()
		return nil, windows.Errno(ev)
	}
}

// abort cancels the pending read and waits for the kernel to finish with
// buf and ov.
func (n *nativeNotifier) abort() {
	if err := windows.CancelIoEx(n.dir.Get(), &n.ov); err != nil {
		// ERROR_NOT_FOUND: the read already completed
		return
	}
	var got uint32
	_ = windows.GetOverlappedResult(n.dir.Get(), &n.ov, &got, true)
}

func (n *nativeNotifier) cancel() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.cancelled || n.closed {
		return
	}
	n.cancelled = true
	_ = windows.SetEvent(n.stopEv.Get())
}

func (n *nativeNotifier) close() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.closed = true
	var errs []error
	for _, h := range []*handle.Owned[windows.Handle]{n.dir, n.ioEvent, n.stopEv} {
		if h != nil {
			errs = append(errs, h.Close())
		}
	}
	return errors.Join(errs...)
}
