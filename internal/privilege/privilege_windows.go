//go:build windows

package privilege

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"slices"
	"sync"
	"unsafe"

	"github.com/containerd/log"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"go.opencensus.io/trace"
	"golang.org/x/sys/windows"

	"github.com/teamdman/winhandle/internal/handle"
	"github.com/teamdman/winhandle/internal/logfields"
	"github.com/teamdman/winhandle/internal/oc"
	"github.com/teamdman/winhandle/internal/winapi"
	"github.com/teamdman/winhandle/internal/winerror"
)

var elevated = []string{
	winapi.SeBackupPrivilege,
	winapi.SeRestorePrivilege,
	winapi.SeSecurityPrivilege,
}

// Names returns the privileges EnableElevatedPrivileges enables.
func Names() []string {
	return slices.Clone(elevated)
}

// tokenAPI is the subset of the Win32 security API used to adjust the process token.
type tokenAPI interface {
	OpenProcessToken(access uint32) (windows.Token, error)
	LookupPrivilegeValue(name string) (windows.LUID, error)
	// AdjustTokenPrivileges returns windows.ERROR_NOT_ALL_ASSIGNED when the
	// call succeeded but the token lacks some of the privileges.
	AdjustTokenPrivileges(token windows.Token, privileges *windows.Tokenprivileges) error
	EnabledPrivilegeNames(token windows.Token) ([]string, error)
	CloseToken(token windows.Token) error
}

type win32Token struct{}

func (win32Token) OpenProcessToken(access uint32) (t windows.Token, err error) {
	err = windows.OpenProcessToken(windows.CurrentProcess(), access, &t)
	return t, err
}

func (win32Token) LookupPrivilegeValue(name string) (windows.LUID, error) {
	return winapi.LookupPrivilegeValue(name)
}

func (win32Token) AdjustTokenPrivileges(token windows.Token, privileges *windows.Tokenprivileges) error {
	return winapi.AdjustTokenPrivileges(token, privileges)
}

func (win32Token) EnabledPrivilegeNames(token windows.Token) ([]string, error) {
	return winapi.EnabledPrivilegeNames(token)
}

func (win32Token) CloseToken(token windows.Token) error {
	return token.Close()
}

var api tokenAPI = win32Token{}

// EnableElevatedPrivileges enables SeBackupPrivilege, SeRestorePrivilege and
// SeSecurityPrivilege on the current process token.
//
// Privileges the account does not hold cannot be enabled; Windows reports the
// adjustment as successful in that case, and so does this function, after
// logging which privileges remain disabled.
//
// Failures are returned as *winerror.PrivilegeError and are not retried.
func EnableElevatedPrivileges(ctx context.Context) (err error) {
	ctx, span := oc.StartSpan(ctx, "privilege::EnableElevatedPrivileges")
	defer span.End()
	defer func() { oc.SetSpanStatus(span, err) }()

	return enable(ctx, api, elevated)
}

func tokenReleaser(a tokenAPI) handle.Releaser[windows.Token] {
	return handle.ReleaseFunc[windows.Token]{
		Sentinels: []windows.Token{0, windows.Token(windows.InvalidHandle)},
		Free:      a.CloseToken,
	}
}

func enable(ctx context.Context, a tokenAPI, names []string) error {
	t, err := a.OpenProcessToken(windows.TOKEN_ADJUST_PRIVILEGES | windows.TOKEN_QUERY)
	if err != nil {
		return &winerror.PrivilegeError{Op: "open process token", Err: err}
	}
	token := handle.TakeOwnership(t, tokenReleaser(a))
	defer token.Close()

	luids := make([]windows.LUID, 0, len(names))
	for _, n := range names {
		l, err := a.LookupPrivilegeValue(n)
		if err != nil {
			log.G(ctx).WithField(logfields.Privilege, n).WithError(err).Error("failed to resolve privilege")
			return &winerror.PrivilegeError{Op: "lookup privilege", Privilege: n, Err: err}
		}
		luids = append(luids, l)
	}

	tp := newTokenPrivileges(luids)
	if err := a.AdjustTokenPrivileges(token.Get(), tp); err != nil && !errors.Is(err, windows.ERROR_NOT_ALL_ASSIGNED) {
		return &winerror.PrivilegeError{Op: "adjust token privileges", Err: err}
	}

	entry := log.G(ctx).WithField(logfields.Privileges, names)
	enabled, err := a.EnabledPrivilegeNames(token.Get())
	if err != nil {
		entry.WithError(err).Warning("could not verify enabled privileges")
		return nil
	}
	if missing := lo.Without(names, enabled...); len(missing) > 0 {
		entry.WithField("missing", missing).Warning("privileges not held by the process token remain disabled")
		return nil
	}
	entry.Debug("enabled elevated privileges")
	return nil
}

// newTokenPrivileges builds a TOKEN_PRIVILEGES structure enabling every luid.
func newTokenPrivileges(luids []windows.LUID) *windows.Tokenprivileges {
	var b bytes.Buffer
	_ = binary.Write(&b, binary.LittleEndian, uint32(len(luids)))
	for _, l := range luids {
		_ = binary.Write(&b, binary.LittleEndian, l)
		_ = binary.Write(&b, binary.LittleEndian, uint32(windows.SE_PRIVILEGE_ENABLED))
	}
	buf := b.Bytes()
	return (*windows.Tokenprivileges)(unsafe.Pointer(&buf[0]))
}

// Enabled returns the names of the privileges currently enabled on the
// process token.
func Enabled(ctx context.Context) (_ []string, err error) {
	_, span := oc.StartSpan(ctx, "privilege::Enabled")
	defer span.End()
	defer func() { oc.SetSpanStatus(span, err) }()

	t, err := api.OpenProcessToken(windows.TOKEN_QUERY)
	if err != nil {
		return nil, &winerror.PrivilegeError{Op: "open process token", Err: err}
	}
	token := handle.TakeOwnership(t, tokenReleaser(api))
	defer token.Close()

	names, err := api.EnabledPrivilegeNames(token.Get())
	if err != nil {
		return nil, &winerror.PrivilegeError{Op: "query token privileges", Err: err}
	}
	span.AddAttributes(trace.Int64Attribute("count", int64(len(names))))
	return names, nil
}

var isElevated = sync.OnceValue(winapi.IsElevated)

// IsElevated reports whether the process runs with an elevated token. The
// answer is computed once per process.
func IsElevated() bool {
	v := isElevated()
	log.L.WithFields(logrus.Fields{"elevated": v}).Trace("elevation status")
	return v
}
