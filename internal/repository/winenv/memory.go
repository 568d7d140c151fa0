package winenv

import "sync"

// MemoryManager is an in-memory Manager implementation. It exists so tests can
// exercise environment mutation without touching the machine registry.
type MemoryManager struct {
	// mu protects concurrent access to values.
	mu sync.Mutex
	// values maps variable names to their stored values.
	values map[string]string
}

// NewMemoryManager creates an empty in-memory environment store.
func NewMemoryManager() *MemoryManager {
	return &MemoryManager{
		values: make(map[string]string),
	}
}

// Get returns the stored value, or an empty string when the variable is unset.
func (m *MemoryManager) Get(name string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.values[name], nil
}

// Set stores the value in memory.
func (m *MemoryManager) Set(name, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.values[name] = value

	return nil
}

// Len returns the number of stored variables.
func (m *MemoryManager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.values)
}
