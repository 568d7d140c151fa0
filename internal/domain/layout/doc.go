// Package layout contains the core domain model of the installer: the
// installation tree rooted at the install path.
//
// It defines Layout, which derives the bin, etc/hadoop and tmp directories and
// the locations of the fetched binaries and generated configuration files.
package layout
