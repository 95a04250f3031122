package watch

import (
	"errors"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/teamdman/winhandle/internal/winapi"
)

// fsnotifyNotifier adapts an fsnotify watcher on the target's directory.
// fsnotify itself blocks in the OS facility (ReadDirectoryChangesW on
// Windows, inotify or kqueue elsewhere).
type fsnotifyNotifier struct {
	w        *fsnotify.Watcher
	stop     chan struct{}
	stopOnce sync.Once
}

func newFsnotifyNotifier(dir string) (notifier, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(dir); err != nil {
		_ = w.Close()
		return nil, err
	}
	return &fsnotifyNotifier{w: w, stop: make(chan struct{})}, nil
}

func (n *fsnotifyNotifier) next() ([]change, error) {
	select {
	case ev, ok := <-n.w.Events:
		if !ok {
			return nil, errCancelled
		}
		return []change{{name: filepath.Base(ev.Name), action: fsnotifyAction(ev.Op)}}, nil
	case err, ok := <-n.w.Errors:
		if !ok {
			return nil, errCancelled
		}
		if errors.Is(err, fsnotify.ErrEventOverflow) {
			return []change{overflow}, nil
		}
		return nil, err
	case <-n.stop:
		return nil, errCancelled
	}
}

func fsnotifyAction(op fsnotify.Op) uint32 {
	switch {
	case op.Has(fsnotify.Write):
		return winapi.FILE_ACTION_MODIFIED
	case op.Has(fsnotify.Create):
		return winapi.FILE_ACTION_ADDED
	case op.Has(fsnotify.Remove):
		return winapi.FILE_ACTION_REMOVED
	case op.Has(fsnotify.Rename):
		return winapi.FILE_ACTION_RENAMED_OLD_NAME
	default:
		// chmod and friends
		return 0xff
	}
}

func (n *fsnotifyNotifier) cancel() {
	n.stopOnce.Do(func() { close(n.stop) })
}

func (n *fsnotifyNotifier) close() error {
	return n.w.Close()
}
