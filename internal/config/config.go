package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds installation parameters for the winutils-installer binary.
type Config struct {
	// HadoopVersion is the Hadoop release whose native helpers are fetched first.
	HadoopVersion string `yaml:"hadoop_version"`
	// FallbackVersion is tried once if the downloads at HadoopVersion fail.
	FallbackVersion string `yaml:"fallback_version"`
	// InstallPath is the root directory of the installation tree.
	InstallPath string `yaml:"install_path"`
	// MirrorURL is the base URL hosting per-version winutils artifacts.
	MirrorURL string `yaml:"mirror_url"`
	// Timeout bounds each artifact download.
	Timeout time.Duration `yaml:"timeout"`
}

const (
	// DefaultConfigFilename is the default filename for installer settings.
	DefaultConfigFilename = "winutils-installer-settings.yaml"

	// DefaultHadoopVersion is the release installed when none is requested.
	DefaultHadoopVersion = "3.3.6"

	// DefaultFallbackVersion is the pinned release tried after a failed primary attempt.
	DefaultFallbackVersion = "3.3.4"

	// DefaultInstallPath is the default installation root on the target host.
	DefaultInstallPath = `C:\hadoop`

	// DefaultMirrorURL hosts prebuilt winutils binaries per Hadoop release.
	DefaultMirrorURL = "https://github.com/cdarlint/winutils/raw/master"

	// DefaultTimeout is the default duration for a single artifact download.
	DefaultTimeout = 5 * time.Minute

	// DefaultFilePermissions is the default file permission for config files.
	DefaultFilePermissions = 0o600
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errInstallPathRequired is returned when the install path is missing.
	errInstallPathRequired = errors.New("install path must be provided")
	// errVersionRequired is returned when the Hadoop version is missing.
	errVersionRequired = errors.New("hadoop version must be provided")
)

// Default returns a configuration populated with default values only.
func Default() *Config {
	cfg := new(Config)
	applyDefaults(cfg)

	return cfg
}

// Load reads configuration from the provided path and validates essential fields.
// A missing file is not an error: defaults are returned so the installer can run
// without any settings file present.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}

		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes the configuration to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate fills in defaults for optional fields and checks the rest.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	applyDefaults(cfg)

	if cfg.HadoopVersion == "" {
		return errVersionRequired
	}

	if cfg.InstallPath == "" {
		return errInstallPathRequired
	}

	if _, err := url.ParseRequestURI(cfg.MirrorURL); err != nil {
		return fmt.Errorf("invalid mirror URL: %w", err)
	}

	return nil
}

// applyDefaults fills unset optional fields with default values.
func applyDefaults(cfg *Config) {
	if cfg.FallbackVersion == "" {
		cfg.FallbackVersion = DefaultFallbackVersion
	}

	if cfg.HadoopVersion == "" {
		cfg.HadoopVersion = DefaultHadoopVersion
	}

	if cfg.InstallPath == "" {
		cfg.InstallPath = DefaultInstallPath
	}

	if cfg.MirrorURL == "" {
		cfg.MirrorURL = DefaultMirrorURL
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
}
