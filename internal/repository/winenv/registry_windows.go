//go:build windows

package winenv

import (
	"errors"
	"fmt"
	"strings"
	"unsafe"

	"golang.org/x/sys/windows"
	"golang.org/x/sys/windows/registry"
)

// environmentKeyPath is the HKLM subkey holding machine environment variables.
const environmentKeyPath = `SYSTEM\CurrentControlSet\Control\Session Manager\Environment`

// Win32 constants for the environment-change broadcast.
const (
	hwndBroadcast      = 0xFFFF
	wmSettingChange    = 0x001A
	smtoAbortIfHung    = 0x0002
	broadcastTimeoutMS = 5000
)

// registryManager persists machine environment variables in the HKLM registry.
// Writing there requires administrative rights.
type registryManager struct{}

// NewManager returns the registry-backed machine environment store.
//
//nolint:ireturn,nolintlint // Callers program against the Manager interface.
func NewManager() (Manager, error) {
	return &registryManager{}, nil
}

// Get reads a machine environment variable from the registry.
// An unset variable yields an empty string, not an error.
func (m *registryManager) Get(name string) (string, error) {
	key, err := registry.OpenKey(registry.LOCAL_MACHINE, environmentKeyPath, registry.QUERY_VALUE)
	if err != nil {
		return "", fmt.Errorf("open environment key: %w", err)
	}

	defer func() {
		_ = key.Close()
	}()

	value, _, err := key.GetStringValue(name)
	if err != nil {
		if errors.Is(err, registry.ErrNotExist) {
			return "", nil
		}

		return "", fmt.Errorf("read %s: %w", name, err)
	}

	return value, nil
}

// Set writes a machine environment variable and notifies running processes.
// PATH is stored as REG_EXPAND_SZ to keep %SystemRoot%-style references usable.
func (m *registryManager) Set(name, value string) error {
	key, err := registry.OpenKey(registry.LOCAL_MACHINE, environmentKeyPath, registry.SET_VALUE)
	if err != nil {
		return fmt.Errorf("open environment key: %w", err)
	}

	defer func() {
		_ = key.Close()
	}()

	if strings.EqualFold(name, PathVariable) {
		err = key.SetExpandStringValue(name, value)
	} else {
		err = key.SetStringValue(name, value)
	}

	if err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}

	broadcastEnvironmentChange()

	return nil
}

// broadcastEnvironmentChange tells top-level windows the machine environment
// changed, so new shells pick up the values without a reboot. Best effort:
// failures are ignored since the registry write already succeeded.
func broadcastEnvironmentChange() {
	env, err := windows.UTF16PtrFromString("Environment")
	if err != nil {
		return
	}

	user32 := windows.NewLazySystemDLL("user32.dll")
	sendMessageTimeout := user32.NewProc("SendMessageTimeoutW")

	//nolint:errcheck // The broadcast is advisory.
	sendMessageTimeout.Call(
		uintptr(hwndBroadcast),
		uintptr(wmSettingChange),
		0,
		uintptr(unsafe.Pointer(env)),
		uintptr(smtoAbortIfHung),
		uintptr(broadcastTimeoutMS),
		0,
	)
}
