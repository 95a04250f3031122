// Package winapi contains the low-level Windows bindings used by winhandle that
// golang.org/x/sys/windows does not provide directly. It can be thought of as
// an extension to golang.org/x/sys/windows.
package winapi

//go:generate go tool github.com/Microsoft/go-winio/tools/mkwinsyscall -output zsyscall_windows.go ./*.go
