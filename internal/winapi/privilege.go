//go:build windows

package winapi

import (
	"errors"
	"fmt"

	"github.com/Microsoft/go-winio"
	"golang.org/x/sys/windows"
)

const (
	SeBackupPrivilege   = winio.SeBackupPrivilege
	SeRestorePrivilege  = winio.SeRestorePrivilege
	SeSecurityPrivilege = winio.SeSecurityPrivilege
)

func LookupPrivilegeValue(p string) (l windows.LUID, err error) {
	err = windows.LookupPrivilegeValue(nil, windows.StringToUTF16Ptr(p), &l)
	return l, err
}

// BOOL LookupPrivilegeNameW(
//   [in, optional]  LPCWSTR lpSystemName,
//   [in]            PLUID   lpLuid,
//   [out, optional] LPWSTR  lpName,
//   [in, out]       LPDWORD cchName
// );
//
//sys lookupPrivilegeName(systemName string, luid *windows.LUID, buffer *uint16, size *uint32) (err error) = advapi32.LookupPrivilegeNameW

func LookupPrivilegeName(luid windows.LUID) (string, error) {
	s, err := retryLStr(64, func(b *uint16, l *uint32) error {
		return lookupPrivilegeName("", &luid, b, l)
	})
	if err != nil {
		return "", fmt.Errorf("could not lookup LUID %v: %w", luid, err)
	}
	return windows.UTF16ToString(s), nil
}

// BOOL AdjustTokenPrivileges(
//   [in]            HANDLE            TokenHandle,
//   [in]            BOOL              DisableAllPrivileges,
//   [in, optional]  PTOKEN_PRIVILEGES NewState,
//   [in]            DWORD             BufferLength,
//   [out, optional] PTOKEN_PRIVILEGES PreviousState,
//   [out, optional] PDWORD            ReturnLength
// );
//
// The last error is read even on success: ERROR_NOT_ALL_ASSIGNED is only reported there.
//
//sys adjustTokenPrivileges(token windows.Token, releaseAll bool, input *windows.Tokenprivileges, outputSize uint32, output *windows.Tokenprivileges, requiredSize *uint32) (success bool, err error) [true] = advapi32.AdjustTokenPrivileges

// AdjustTokenPrivileges applies privileges to token. It returns
// windows.ERROR_NOT_ALL_ASSIGNED if the call succeeded but the token does not
// hold every privilege in privileges.
func AdjustTokenPrivileges(token windows.Token, privileges *windows.Tokenprivileges) error {
	success, err := adjustTokenPrivileges(token, false, privileges, 0, nil, nil)
	if !success {
		return err
	}
	if errors.Is(err, windows.ERROR_NOT_ALL_ASSIGNED) {
		return windows.ERROR_NOT_ALL_ASSIGNED
	}
	return nil
}
