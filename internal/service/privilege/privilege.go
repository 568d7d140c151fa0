package privilege

import "errors"

// ErrNotElevated indicates the process lacks administrative rights.
var ErrNotElevated = errors.New("administrative privileges required")

// Ensure returns ErrNotElevated unless the current process is elevated.
// The installer calls this before mutating anything on the host.
func Ensure() error {
	elevated, err := IsElevated()
	if err != nil {
		return err
	}

	if !elevated {
		return ErrNotElevated
	}

	return nil
}
