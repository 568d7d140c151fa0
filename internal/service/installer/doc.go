// Package installer provisions the Hadoop native Windows helpers.
//
// It verifies administrative rights, builds the installation tree, downloads
// winutils.exe and hadoop.dll from a mirror (trying version candidates in
// order), applies them into bin, persists machine environment variables,
// emits core-site.xml and jvm-args.txt, and runs a non-fatal smoke test.
package installer
