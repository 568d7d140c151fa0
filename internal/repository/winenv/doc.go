// Package winenv persists machine-scoped environment variables.
//
// The Manager interface isolates all OS-environment mutation behind a single
// seam: the Windows implementation writes to the HKLM registry and broadcasts
// WM_SETTINGCHANGE, while MemoryManager provides an in-memory stand-in for
// tests. AppendToPath implements the idempotent machine PATH append.
package winenv
