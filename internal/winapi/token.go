//go:build windows

package winapi

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

// https://docs.microsoft.com/en-us/windows/win32/api/winnt/ne-winnt-token_information_class#constants
const TokenPrivileges = 3

// GetTokenPrivileges returns every privilege present on token, enabled or not.
func GetTokenPrivileges(token windows.Token) (*windows.Tokenprivileges, error) {
	b, err := retryBuffer(256, func(b *byte, l *uint32) error {
		return windows.GetTokenInformation(token, TokenPrivileges, b, *l, l)
	})
	if err == nil {
		return (*windows.Tokenprivileges)(unsafe.Pointer(&b[0])), nil
	}
	return nil, fmt.Errorf("get token privileges: %w", err)
}

// EnabledPrivilegeNames returns the names of the privileges currently
// enabled on token.
func EnabledPrivilegeNames(token windows.Token) ([]string, error) {
	pv, err := GetTokenPrivileges(token)
	if err != nil {
		return nil, err
	}
	ps := make([]string, 0, pv.PrivilegeCount)
	for _, o := range pv.AllPrivileges() {
		if o.Attributes&windows.SE_PRIVILEGE_ENABLED == 0 {
			continue
		}
		s, err := LookupPrivilegeName(o.Luid)
		if err != nil {
			return nil, err
		}
		ps = append(ps, s)
	}
	return ps, nil
}
