//go:build windows

package handle

import (
	"golang.org/x/sys/windows"
)

// Win32 APIs signal failure with either NULL or INVALID_HANDLE_VALUE depending
// on the call, so both are treated as sentinels.
var (
	// Handles releases kernel object handles with CloseHandle.
	Handles Releaser[windows.Handle] = ReleaseFunc[windows.Handle]{
		Sentinels: []windows.Handle{0, windows.InvalidHandle},
		Free:      windows.CloseHandle,
	}

	// Tokens releases access tokens with CloseHandle.
	Tokens Releaser[windows.Token] = ReleaseFunc[windows.Token]{
		Sentinels: []windows.Token{0, windows.Token(windows.InvalidHandle)},
		Free:      func(t windows.Token) error { return t.Close() },
	}

	// ChangeNotifications releases handles returned by FindFirstChangeNotification
	// with FindCloseChangeNotification; CloseHandle must not be used on them.
	ChangeNotifications Releaser[windows.Handle] = ReleaseFunc[windows.Handle]{
		Sentinels: []windows.Handle{0, windows.InvalidHandle},
		Free:      windows.FindCloseChangeNotification,
	}
)

// Take takes ownership of a kernel object handle.
func Take(h windows.Handle) *Owned[windows.Handle] {
	return TakeOwnership(h, Handles)
}

// TakeToken takes ownership of an access token.
func TakeToken(t windows.Token) *Owned[windows.Token] {
	return TakeOwnership(t, Tokens)
}

// TakeChangeNotification takes ownership of a change notification handle.
func TakeChangeNotification(h windows.Handle) *Owned[windows.Handle] {
	return TakeOwnership(h, ChangeNotifications)
}
