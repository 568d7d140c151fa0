// Package privilege checks whether the current process holds administrative
// rights: token elevation on Windows, effective UID zero elsewhere.
package privilege
