//go:build windows

package winapi

import (
	"golang.org/x/sys/windows"
)

func IsElevated() bool {
	return windows.GetCurrentProcessToken().IsElevated()
}

// https://learn.microsoft.com/en-us/windows/win32/api/shellapi/ns-shellapi-shellexecuteinfow
type ShellExecuteInfo struct {
	Size          uint32
	Mask          uint32
	Hwnd          windows.Handle
	Verb          *uint16
	File          *uint16
	Parameters    *uint16
	Directory     *uint16
	Show          int32
	InstApp       windows.Handle
	IDList        uintptr
	Class         *uint16
	HkeyClass     windows.Handle
	HotKey        uint32
	IconOrMonitor windows.Handle
	Process       windows.Handle
}

const SEE_MASK_NOCLOSEPROCESS = 0x00000040

//sys ShellExecuteEx(info *ShellExecuteInfo) (err error) = shell32.ShellExecuteExW
