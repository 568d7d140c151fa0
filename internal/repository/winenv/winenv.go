package winenv

import (
	"errors"
	"strings"
)

const (
	// HadoopHomeVariable points the runtime at the install root.
	HadoopHomeVariable = "HADOOP_HOME"
	// HadoopConfDirVariable points the runtime at the configuration directory.
	HadoopConfDirVariable = "HADOOP_CONF_DIR"
	// PathVariable is the machine PATH value name as stored in the registry.
	PathVariable = "Path"

	// pathListSeparator separates machine PATH elements. The managed
	// environment is always Windows-shaped, regardless of build platform.
	pathListSeparator = ";"
)

// ErrUnsupportedOS indicates the current OS has no machine environment store.
var ErrUnsupportedOS = errors.New("unsupported operating system")

// Manager abstracts machine-scoped environment variable access so the
// installer can be tested against an in-memory stand-in instead of the
// real registry.
type Manager interface {
	// Get returns the variable value, or an empty string when it is unset.
	Get(name string) (string, error)
	// Set persists the variable machine-wide.
	Set(name, value string) error
}

// AppendToPath appends dir to the machine PATH unless an existing element
// already matches it case-insensitively. It reports whether PATH was modified,
// so repeated runs append the directory at most once.
func AppendToPath(m Manager, dir string) (bool, error) {
	current, err := m.Get(PathVariable)
	if err != nil {
		return false, err
	}

	if ContainsPathElement(current, dir) {
		return false, nil
	}

	updated := dir
	if current != "" {
		updated = strings.TrimRight(current, pathListSeparator) + pathListSeparator + dir
	}

	if err = m.Set(PathVariable, updated); err != nil {
		return false, err
	}

	return true, nil
}

// ContainsPathElement reports whether the PATH value contains the directory
// as a whole element. Comparison is case-insensitive to match Windows
// filesystem semantics.
func ContainsPathElement(pathValue, dir string) bool {
	for _, element := range strings.Split(pathValue, pathListSeparator) {
		if strings.EqualFold(strings.TrimSpace(element), dir) {
			return true
		}
	}

	return false
}
