//go:build windows

package privilege

import "golang.org/x/sys/windows"

// IsElevated reports whether the process token carries elevated rights.
// Writing HKLM and C:\ both require an elevated (run-as-administrator) token.
func IsElevated() (bool, error) {
	return windows.GetCurrentProcessToken().IsElevated(), nil
}
