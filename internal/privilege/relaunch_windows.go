//go:build windows

package privilege

import (
	"context"
	"os"
	"unsafe"

	"github.com/containerd/log"
	"github.com/sirupsen/logrus"
	"golang.org/x/sys/windows"

	"github.com/teamdman/winhandle/internal/handle"
	"github.com/teamdman/winhandle/internal/logfields"
	"github.com/teamdman/winhandle/internal/oc"
	"github.com/teamdman/winhandle/internal/winapi"
	"github.com/teamdman/winhandle/internal/winerror"
)

// launcher starts an elevated copy of a program and waits for it.
type launcher interface {
	IsElevated() bool
	Executable() (string, error)
	RunAsAdmin(exe, params string) (windows.Handle, error)
	WaitExit(process windows.Handle) (uint32, error)
	CloseProcess(process windows.Handle) error
}

type shellLauncher struct{}

func (shellLauncher) IsElevated() bool { return IsElevated() }

func (shellLauncher) Executable() (string, error) { return os.Executable() }

// RunAsAdmin starts exe through the "runas" verb, which shows the UAC consent
// prompt.
func (shellLauncher) RunAsAdmin(exe, params string) (windows.Handle, error) {
	verb, err := windows.UTF16PtrFromString("runas")
	if err != nil {
		return 0, err
	}
	file, err := windows.UTF16PtrFromString(exe)
	if err != nil {
		return 0, err
	}
	args, err := windows.UTF16PtrFromString(params)
	if err != nil {
		return 0, err
	}
	info := &winapi.ShellExecuteInfo{
		Mask:       winapi.SEE_MASK_NOCLOSEPROCESS,
		Verb:       verb,
		File:       file,
		Parameters: args,
		Show:       windows.SW_SHOWNORMAL,
	}
	info.Size = uint32(unsafe.Sizeof(*info))
	if err := winapi.ShellExecuteEx(info); err != nil {
		return 0, err
	}
	return info.Process, nil
}

func (shellLauncher) WaitExit(process windows.Handle) (uint32, error) {
	if _, err := windows.WaitForSingleObject(process, windows.INFINITE); err != nil {
		return 0, err
	}
	var code uint32
	if err := windows.GetExitCodeProcess(process, &code); err != nil {
		return 0, err
	}
	return code, nil
}

func (shellLauncher) CloseProcess(process windows.Handle) error {
	return windows.CloseHandle(process)
}

var relauncher launcher = shellLauncher{}

// EnsureElevated returns immediately if the process is already elevated.
// Otherwise it starts the current executable again as administrator with args,
// waits for it to exit and returns its exit code with relaunched set. The
// caller is expected to exit with that code.
func EnsureElevated(ctx context.Context, args []string) (relaunched bool, exitCode uint32, err error) {
	ctx, span := oc.StartSpan(ctx, "privilege::EnsureElevated")
	defer span.End()
	defer func() { oc.SetSpanStatus(span, err) }()

	return ensureElevated(ctx, relauncher, args)
}

func ensureElevated(ctx context.Context, l launcher, args []string) (bool, uint32, error) {
	if l.IsElevated() {
		return false, 0, nil
	}
	exe, err := l.Executable()
	if err != nil {
		return false, 0, &winerror.PrivilegeError{Op: "relaunch as administrator", Err: err}
	}
	params := windows.ComposeCommandLine(args)
	entry := log.G(ctx).WithFields(logrus.Fields{
		logfields.Path: exe,
		"args":         params,
	})
	entry.Info("process is not elevated, relaunching as administrator")

	p, err := l.RunAsAdmin(exe, params)
	if err != nil {
		return false, 0, &winerror.PrivilegeError{Op: "relaunch as administrator", Err: err}
	}
	process := handle.TakeOwnership(p, handle.ReleaseFunc[windows.Handle]{
		Sentinels: []windows.Handle{0, windows.InvalidHandle},
		Free:      l.CloseProcess,
	})
	defer process.Close()

	code, err := l.WaitExit(process.Get())
	if err != nil {
		return false, 0, &winerror.PrivilegeError{Op: "wait for elevated process", Err: err}
	}
	entry.WithField("exitCode", code).Debug("elevated process exited")
	return true, code, nil
}
