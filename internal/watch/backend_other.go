//go:build !windows

package watch

import "errors"

const defaultBackend = BackendFsnotify

func newNativeNotifier(string) (notifier, error) {
	return nil, errors.New("native watch backend requires windows")
}
