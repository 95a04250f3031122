// Package privilege enables the backup, restore and security privileges on the
// current process token, which raw volume reads and backup-semantics opens
// require.
//
// Elevation is a process-wide state change that lasts for the lifetime of the
// process; enabling privileges that are already enabled is a no-op.
package privilege

//go:generate go tool go.uber.org/mock/mockgen -source=privilege_windows.go -destination=mock_tokenapi_windows_test.go -package=privilege
