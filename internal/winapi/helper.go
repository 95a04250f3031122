//go:build windows

package winapi

import (
	"errors"

	"golang.org/x/sys/windows"
)

// helper functions for calling WIN32 APIS

// retry creates a []T buffer, b, with size lo and passes it to f, with *l = len(b).
// If f returns windows.ERROR_INSUFFICIENT_BUFFER or windows.ERROR_BUFFER_OVERFLOW, it creates
// a buffer sized to the value set in the second parameter, l.
func retry[T any](lo int, f func(b *T, l *uint32) error) (b []T, err error) {
	l := uint32(max(1, lo))
	for i := 0; i < 2; i++ {
		b = make([]T, l)
		err = f(&b[0], &l)
		if bufferTooSmall(l, len(b), err) {
			continue
		}
		break
	}

	if err != nil {
		return b[:0], err
	}
	return b[:l], nil
}

func retryBuffer(lo int, f func(b *byte, l *uint32) error) ([]byte, error) {
	return retry(lo, f)
}

func retryLStr(lo int, f func(s *uint16, l *uint32) error) ([]uint16, error) {
	return retry(lo, f)
}

func bufferTooSmall(n uint32, buffLen int, err error) bool {
	return int(n) > buffLen &&
		(errors.Is(err, windows.ERROR_INSUFFICIENT_BUFFER) ||
			errors.Is(err, windows.ERROR_BUFFER_OVERFLOW))
}
