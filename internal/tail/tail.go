// Package tail follows content appended to a file. Each change notification
// from the watch package triggers positioned reads of the new bytes; there is
// no polling.
package tail

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/containerd/log"
	"github.com/sirupsen/logrus"

	"github.com/teamdman/winhandle/internal/logfields"
	"github.com/teamdman/winhandle/internal/rawio"
	"github.com/teamdman/winhandle/internal/watch"
)

// DefaultChunkSize is the largest chunk delivered by a single read.
const DefaultChunkSize = 64 << 20

// Start selects where following begins.
type Start int

const (
	// FromStart delivers the existing content before any appended content.
	FromStart Start = iota
	// FromEnd delivers only content appended after Follow returns.
	FromEnd
)

func (s Start) String() string {
	if s == FromEnd {
		return "end"
	}
	return "start"
}

type Config struct {
	Path      string
	Start     Start
	ChunkSize int
	// Watch is passed through to watch.WatchFileContent.
	Watch []watch.Option
}

// Chunk is a run of bytes read from the followed file.
type Chunk struct {
	Offset uint64
	Data   []byte
}

// Tailer delivers appended content for one file.
type Tailer struct {
	f      *rawio.File
	s      *watch.Stream
	chunk  int
	offset uint64

	chunks chan Chunk
	cancel context.CancelFunc
	done   chan struct{}

	closeOnce sync.Once
	err       error
}

// Follow opens cfg.Path and starts following it.
func Follow(ctx context.Context, cfg Config) (_ *Tailer, err error) {
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = DefaultChunkSize
	}

	f, err := rawio.Open(cfg.Path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			f.Close()
		}
	}()

	var offset uint64
	if cfg.Start == FromEnd {
		if offset, err = f.Size(); err != nil {
			return nil, err
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	s, err := watch.WatchFileContent(ctx, cfg.Path, cfg.Watch...)
	if err != nil {
		cancel()
		return nil, err
	}

	t := &Tailer{
		f:      f,
		s:      s,
		chunk:  cfg.ChunkSize,
		offset: offset,
		chunks: make(chan Chunk),
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go t.run(ctx, cfg.Start == FromStart)
	return t, nil
}

// Chunks returns the channel of appended content. It is closed when the
// tailer stops.
func (t *Tailer) Chunks() <-chan Chunk { return t.chunks }

// Err returns the error that stopped the tailer, or nil if it was closed or
// is still running.
func (t *Tailer) Err() error {
	select {
	case <-t.done:
		return t.err
	default:
		return nil
	}
}

// Close stops following and releases the file and watch handles.
func (t *Tailer) Close() error {
	t.cancel()
	<-t.done
	var err error
	t.closeOnce.Do(func() {
		err = errors.Join(t.s.Close(), t.f.Close())
	})
	return err
}

func (t *Tailer) run(ctx context.Context, drain bool) {
	entry := log.G(ctx).WithField(logfields.Path, t.f.Name())
	defer close(t.done)
	defer close(t.chunks)

	if drain {
		if err := t.readNew(ctx, entry); err != nil {
			t.stop(ctx, err)
			return
		}
	}
	for {
		select {
		case <-ctx.Done():
			return
		case n, ok := <-t.s.Events():
			if !ok {
				return
			}
			if n.Err != nil {
				t.err = n.Err
				return
			}
			if err := t.readNew(ctx, entry); err != nil {
				t.stop(ctx, err)
				return
			}
		}
	}
}

func (t *Tailer) stop(ctx context.Context, err error) {
	if ctx.Err() == nil {
		t.err = err
	}
}

// readNew delivers everything between the current offset and the file's
// current size.
func (t *Tailer) readNew(ctx context.Context, entry *logrus.Entry) error {
	size, err := t.f.Size()
	if err != nil {
		return err
	}
	if size < t.offset {
		entry.WithFields(logrus.Fields{
			logfields.Offset: t.offset,
			"size":           size,
		}).Info("file truncated, following from new end")
		t.offset = size
		return nil
	}
	for t.offset < size {
		n := min(uint64(t.chunk), size-t.offset)
		buf := make([]byte, n)
		if err := t.f.ReadExact(t.offset, buf); err != nil {
			if errors.Is(err, io.ErrUnexpectedEOF) {
				// shrunk between Size and the read; the next change resyncs
				entry.WithError(err).Debug("file shrank during read")
				return nil
			}
			return err
		}
		select {
		case t.chunks <- Chunk{Offset: t.offset, Data: buf}:
		case <-ctx.Done():
			return ctx.Err()
		}
		entry.WithFields(logrus.Fields{
			logfields.Offset: t.offset,
			logfields.Bytes:  n,
		}).Trace("read appended content")
		t.offset += n
	}
	return nil
}
