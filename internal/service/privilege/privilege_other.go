//go:build !windows

package privilege

import "os"

// IsElevated reports whether the process runs as root. The installer targets
// Windows; this keeps development builds honest about the same precondition.
func IsElevated() (bool, error) {
	return os.Geteuid() == 0, nil
}
