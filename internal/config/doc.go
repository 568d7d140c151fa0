// Package config defines installation settings used by the installer binary and
// provides helpers to load, validate and save them in YAML format.
//
// The Config type holds the requested Hadoop version, the install root and the
// artifact mirror URL. Every field has a default, so the installer runs with no
// settings file at all.
package config
