package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestValidate checks required fields and format validations for Config.
func TestValidate(t *testing.T) {
	t.Parallel()

	// Nil configuration.
	err := Validate(nil)
	require.Error(t, err)

	// Empty configuration is valid: everything has a default.
	cfg := new(Config)

	err = Validate(cfg)
	require.NoError(t, err)
	require.Equal(t, DefaultHadoopVersion, cfg.HadoopVersion)
	require.Equal(t, DefaultFallbackVersion, cfg.FallbackVersion)
	require.Equal(t, DefaultInstallPath, cfg.InstallPath)
	require.Equal(t, DefaultMirrorURL, cfg.MirrorURL)
	require.Equal(t, DefaultTimeout, cfg.Timeout)

	// Bad mirror URL.
	cfg = &Config{
		MirrorURL: "not a url",
	}

	err = Validate(cfg)
	require.Error(t, err)
}

// TestLoad_MissingFile ensures defaults are returned when no settings file exists.
func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

// TestSaveLoadRoundtrip ensures settings are persisted and loaded back correctly.
func TestSaveLoadRoundtrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")

	cfg := &Config{
		HadoopVersion: "3.4.0",
		InstallPath:   `D:\tools\hadoop`,
		MirrorURL:     "https://mirror.local/winutils",
	}

	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, cfg.HadoopVersion, loaded.HadoopVersion)
	require.Equal(t, cfg.InstallPath, loaded.InstallPath)
	require.Equal(t, cfg.MirrorURL, loaded.MirrorURL)

	// Defaults filled in on load.
	require.Equal(t, DefaultFallbackVersion, loaded.FallbackVersion)
	require.Equal(t, DefaultTimeout, loaded.Timeout)

	// File exists.
	_, err = os.Stat(path)
	require.NoError(t, err)
}
