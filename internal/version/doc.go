// Package version exposes build metadata (version, commit, build time) injected
// via ldflags and a helper to attach a `version` subcommand to a cobra root.
package version
