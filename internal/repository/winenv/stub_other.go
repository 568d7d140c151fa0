//go:build !windows

package winenv

import "fmt"

// NewManager fails on platforms without a machine-scoped environment registry.
// The installer targets Windows hosts; other builds exist for development and
// tests, which use the in-memory manager instead.
//
//nolint:ireturn,nolintlint // Callers program against the Manager interface.
func NewManager() (Manager, error) {
	return nil, fmt.Errorf("machine environment store: %w", ErrUnsupportedOS)
}
