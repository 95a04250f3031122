package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/containerd/log"
	"github.com/sirupsen/logrus"
	"go.opencensus.io/trace"

	"github.com/teamdman/winhandle/internal/logfields"
	"github.com/teamdman/winhandle/internal/oc"
	"github.com/teamdman/winhandle/internal/winapi"
	"github.com/teamdman/winhandle/internal/winerror"
)

// Notification signals that the watched file's content changed since the
// previous notification. A non-nil Err marks the final notification of a
// stream that faulted.
type Notification struct {
	Path string
	Time time.Time
	Seq  uint64
	Err  error
}

// Backend selects the OS facility a Stream waits on.
type Backend string

const (
	// BackendNative uses ReadDirectoryChangesW. Windows only.
	BackendNative Backend = "native"
	// BackendFsnotify uses github.com/fsnotify/fsnotify.
	BackendFsnotify Backend = "fsnotify"
)

var errCancelled = errors.New("watch cancelled")

// change is one directory change record reported by a backend.
type change struct {
	name   string
	action uint32
}

// overflow is reported when the backend lost records; it matches every target.
var overflow = change{action: 0}

// notifier is a backend's blocking wait primitive.
type notifier interface {
	// next blocks until the OS reports a batch of changes, or returns
	// errCancelled once cancel has been called.
	next() ([]change, error)
	// cancel wakes a blocked next. It may be called from any goroutine, more than once.
	cancel()
	// close releases the backend's handles. It is called once, by the
	// stream goroutine, after next has returned for the last time.
	close() error
}

type config struct {
	backend Backend
	buffer  int
}

// Option configures WatchFileContent.
type Option func(*config)

// WithBackend selects the notification backend.
func WithBackend(b Backend) Option {
	return func(c *config) { c.backend = b }
}

// WithBuffer sets the capacity of the Events channel. Values below 1 are raised to 1.
func WithBuffer(n int) Option {
	return func(c *config) { c.buffer = max(1, n) }
}

// Stream is a live sequence of notifications for one file.
type Stream struct {
	path    string
	name    string
	backend Backend
	n       notifier

	events  chan Notification
	closing chan struct{}
	done    chan struct{}

	closeOnce sync.Once
	stop      func() bool
	seq       uint64
	err       error
}

// WatchFileContent starts watching path and returns immediately.
//
// path must name an existing file; otherwise an *winerror.IOError with Op
// "open" is returned. The stream ends when Close is called, when ctx is
// done, or when the wait fails; in the last case the final notification and
// Err carry a *winerror.WatchFault.
func WatchFileContent(ctx context.Context, path string, opts ...Option) (_ *Stream, err error) {
	ctx, span := oc.StartSpan(ctx, "watch::WatchFileContent")
	defer span.End()
	defer func() { oc.SetSpanStatus(span, err) }()

	cfg := config{backend: defaultBackend, buffer: 1}
	for _, o := range opts {
		o(&cfg)
	}
	span.AddAttributes(
		trace.StringAttribute(logfields.Path, path),
		trace.StringAttribute(logfields.Backend, string(cfg.backend)))

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, &winerror.IOError{Op: "open", Path: path, Err: err}
	}
	fi, err := os.Stat(abs)
	if err != nil {
		return nil, &winerror.IOError{Op: "open", Path: abs, Err: errors.Unwrap(err)}
	}
	if fi.IsDir() {
		return nil, &winerror.IOError{Op: "open", Path: abs, Err: errors.New("path is a directory, not a file")}
	}

	n, err := newNotifier(cfg.backend, filepath.Dir(abs))
	if err != nil {
		return nil, &winerror.IOError{Op: "open", Path: abs, Err: err}
	}

	return start(ctx, abs, cfg, n), nil
}

func start(ctx context.Context, path string, cfg config, n notifier) *Stream {
	s := newStream(path, cfg, n)
	go s.run(ctx)
	s.stop = context.AfterFunc(ctx, s.cancel)
	return s
}

func newNotifier(b Backend, dir string) (notifier, error) {
	switch b {
	case BackendNative:
		return newNativeNotifier(dir)
	case BackendFsnotify:
		return newFsnotifyNotifier(dir)
	default:
		return nil, fmt.Errorf("unknown watch backend %q", b)
	}
}

func newStream(path string, cfg config, n notifier) *Stream {
	return &Stream{
		path:    path,
		name:    filepath.Base(path),
		backend: cfg.backend,
		n:       n,
		events:  make(chan Notification, cfg.buffer),
		closing: make(chan struct{}),
		done:    make(chan struct{}),
		stop:    func() bool { return false },
	}
}

// Path returns the absolute path being watched.
func (s *Stream) Path() string { return s.path }

// Events returns the notification channel. It is closed when the stream ends.
func (s *Stream) Events() <-chan Notification { return s.events }

// Done is closed once the wait loop has exited and its handles are released.
func (s *Stream) Done() <-chan struct{} { return s.done }

// Err returns the *winerror.WatchFault that ended the stream, or nil if the
// stream is still running or was cancelled.
func (s *Stream) Err() error {
	select {
	case <-s.done:
		return s.err
	default:
		return nil
	}
}

// Close stops the stream. It returns after the wait loop has exited and the
// monitoring handle has been released. Close is safe to call more than once.
func (s *Stream) Close() error {
	s.stop()
	s.cancel()
	<-s.done
	return nil
}

func (s *Stream) cancel() {
	s.closeOnce.Do(func() {
		close(s.closing)
		s.n.cancel()
	})
}

func (s *Stream) run(ctx context.Context) {
	entry := log.G(ctx).WithFields(logrus.Fields{
		logfields.Path:    s.path,
		logfields.Backend: s.backend,
	})
	entry.Debug("watch started")

	defer close(s.done)
	defer close(s.events)
	defer func() {
		if err := s.n.close(); err != nil {
			entry.WithError(err).Warning("failed to release watch handles")
		}
	}()

	for {
		changes, err := s.n.next()
		if err != nil {
			if errors.Is(err, errCancelled) {
				entry.Debug("watch cancelled")
				return
			}
			s.fault(entry, err)
			return
		}
		if !s.relevant(changes) {
			continue
		}

		s.seq++
		n := Notification{Path: s.path, Time: time.Now(), Seq: s.seq}
		select {
		case s.events <- n:
		default:
			// the queued notification already reports a change since the last read
			entry.WithField(logfields.Seq, n.Seq).Trace("coalesced notification")
		}
	}
}

func (s *Stream) fault(entry *logrus.Entry, err error) {
	s.err = &winerror.WatchFault{Path: s.path, Err: err}
	entry.WithError(err).Error("watch faulted")

	s.seq++
	n := Notification{Path: s.path, Time: time.Now(), Seq: s.seq, Err: s.err}
	select {
	case s.events <- n:
	case <-s.closing:
	}
}

func (s *Stream) relevant(changes []change) bool {
	for _, c := range changes {
		if c == overflow {
			return true
		}
		if !strings.EqualFold(filepath.Base(c.name), s.name) {
			continue
		}
		switch c.action {
		case winapi.FILE_ACTION_MODIFIED, winapi.FILE_ACTION_ADDED, winapi.FILE_ACTION_RENAMED_NEW_NAME:
			return true
		}
	}
	return false
}
