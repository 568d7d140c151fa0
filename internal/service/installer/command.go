package installer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	goupdate "github.com/doitdistributed/go-update"

	"github.com/oshokin/winutils-installer/internal/config"
	"github.com/oshokin/winutils-installer/internal/domain/layout"
	"github.com/oshokin/winutils-installer/internal/logger"
	"github.com/oshokin/winutils-installer/internal/repository/winenv"
	"github.com/oshokin/winutils-installer/internal/service/privilege"
)

var (
	errAllVersionsFailed = errors.New("all download attempts failed")
	errBadHTTPStatus     = errors.New("unexpected http status")
)

// Options are inputs accepted by the installer entry point.
type Options struct {
	// ConfigPath is the optional path to a settings YAML file.
	ConfigPath string
	// HadoopVersion overrides the configured release when set.
	HadoopVersion string
	// InstallPath overrides the configured install root when set.
	InstallPath string
}

// runner holds the state and collaborators for a single installation run.
// It is intentionally unexported—call Run(ctx, Options) from callers.
type runner struct {
	cfg                *config.Config    // Installation settings (flags merged over YAML).
	layout             *layout.Layout    // Derived installation tree paths.
	env                winenv.Manager    // Machine environment store.
	commands           CommandRunner     // Executes the post-install smoke test.
	ensurePrivilege    func() error      // Fails before any mutation when not elevated.
	client             *http.Client      // Fetches artifacts from the mirror.
	temporaryDirectory string            // Where artifacts are downloaded before apply.
	downloadedFiles    map[string]string // Artifact name -> local temp path.
}

// Run executes the installer lifecycle and is the public entry point for the CLI.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "winutils-installer")

	r, err := newRunner(opts)
	if err != nil {
		return err
	}

	defer r.cleanup(ctx)

	if err = r.run(ctx); err != nil {
		logger.ErrorKV(ctx, "Installation failed", "error", err)
		return err
	}

	logger.Info(ctx, "Installation completed")

	return nil
}

// newRunner loads settings, applies flag overrides and wires the real
// collaborators (registry environment store, os/exec smoke test).
func newRunner(opts *Options) (*runner, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	if opts.HadoopVersion != "" {
		cfg.HadoopVersion = opts.HadoopVersion
	}

	if opts.InstallPath != "" {
		cfg.InstallPath = opts.InstallPath
	}

	env, err := winenv.NewManager()
	if err != nil {
		return nil, err
	}

	return &runner{
		cfg:             cfg,
		layout:          layout.New(cfg.InstallPath),
		env:             env,
		commands:        execCommandRunner{},
		ensurePrivilege: privilege.Ensure,
		client:          &http.Client{Timeout: cfg.Timeout},
		downloadedFiles: make(map[string]string, len(ArtifactFilenames())),
	}, nil
}

// run executes the provisioning sequence:
// 1) Verify administrative rights.
// 2) Ensure the installation directory tree.
// 3) Download both native helpers, trying version candidates in order.
// 4) Apply the downloads into bin.
// 5) Persist machine environment variables.
// 6) Emit core-site.xml and jvm-args.txt.
// 7) Smoke-test winutils against the tmp directory.
func (r *runner) run(ctx context.Context) error {
	logger.Info(ctx, "Checking administrative privileges")

	if err := r.ensurePrivilege(); err != nil {
		return err
	}

	logger.InfoKV(ctx, "Provisioning installation directories", "install_path", r.layout.InstallPath)

	if err := r.ensureDirectories(); err != nil {
		return fmt.Errorf("provision directories: %w", err)
	}

	logger.Info(ctx, "Downloading native helper binaries")

	installedVersion, err := r.downloadArtifacts(ctx)
	if err != nil {
		return fmt.Errorf("download artifacts: %w", err)
	}

	logger.InfoKV(ctx, "Installing binaries", "version", installedVersion)

	if err = r.applyArtifacts(ctx); err != nil {
		return fmt.Errorf("install binaries: %w", err)
	}

	logger.Info(ctx, "Configuring machine environment")

	if err = r.configureEnvironment(ctx); err != nil {
		return fmt.Errorf("configure environment: %w", err)
	}

	logger.Info(ctx, "Writing configuration files")

	if err = r.writeGeneratedFiles(ctx); err != nil {
		return fmt.Errorf("write configuration files: %w", err)
	}

	r.smokeTest(ctx)

	return nil
}

// ensureDirectories creates the installation tree, parents before children.
// Existing directories are left untouched, so re-running is safe.
func (r *runner) ensureDirectories() error {
	for _, dir := range r.layout.Directories() {
		if err := os.MkdirAll(dir, DefaultFileMode); err != nil {
			return err
		}
	}

	return nil
}

// downloadArtifacts tries each version candidate in order until both artifacts
// download successfully, and returns the version that succeeded. A candidate
// either yields both files or is discarded entirely, so the installed pair
// always comes from a single release.
func (r *runner) downloadArtifacts(ctx context.Context) (string, error) {
	temporaryDirectory, err := os.MkdirTemp("", tempDirPattern)
	if err != nil {
		return "", err
	}

	r.temporaryDirectory = temporaryDirectory
	candidates := versionCandidates(r.cfg.HadoopVersion, r.cfg.FallbackVersion)

	for _, candidate := range candidates {
		logger.InfoKV(ctx, "Attempting download", "version", candidate)

		files, downloadErr := r.downloadVersion(ctx, candidate)
		if downloadErr != nil {
			logger.WarnKV(ctx, "Download attempt failed", "version", candidate, "error", downloadErr)
			continue
		}

		r.downloadedFiles = files

		return candidate, nil
	}

	return "", fmt.Errorf("%w: tried versions %s", errAllVersionsFailed, strings.Join(candidates, ", "))
}

// downloadVersion fetches every artifact of a single release into its own
// subdirectory of the temporary download directory.
func (r *runner) downloadVersion(ctx context.Context, version string) (map[string]string, error) {
	attemptDirectory := filepath.Join(r.temporaryDirectory, "hadoop-"+version)
	if err := os.MkdirAll(attemptDirectory, DefaultFileMode); err != nil {
		return nil, err
	}

	files := make(map[string]string, len(ArtifactFilenames()))

	for _, filename := range ArtifactFilenames() {
		localPath := filepath.Clean(filepath.Join(attemptDirectory, filename))
		if err := r.downloadFile(ctx, version, filename, localPath); err != nil {
			return nil, err
		}

		files[filename] = localPath

		logger.InfoKV(ctx, "Downloaded artifact", "file", filename, "version", version)
	}

	return files, nil
}

// downloadFile performs a single artifact GET and writes the body to localPath.
func (r *runner) downloadFile(ctx context.Context, version, filename, localPath string) error {
	finalURL, err := artifactURL(r.cfg.MirrorURL, version, filename)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, finalURL, http.NoBody)
	if err != nil {
		return err
	}

	response, err := r.client.Do(req)
	if err != nil {
		return err
	}

	defer func() {
		_ = response.Body.Close()
	}()

	if response.StatusCode != http.StatusOK {
		return fmt.Errorf("%s, %s: %w", finalURL, response.Status, errBadHTTPStatus)
	}

	outputFile, err := os.Create(localPath)
	if err != nil {
		return err
	}

	if _, err = io.Copy(outputFile, response.Body); err != nil {
		_ = outputFile.Close()

		return err
	}

	return outputFile.Close()
}

// applyArtifacts moves the downloaded binaries into bin, overwriting whatever
// is there. Targets are always rewritten — there is no version-skip shortcut.
func (r *runner) applyArtifacts(ctx context.Context) error {
	if err := terminateProcessByName(layout.WinutilsFilename); err != nil {
		logger.WarnKV(ctx, "Could not terminate running winutils processes", "error", err)
	}

	targets := map[string]string{
		layout.WinutilsFilename:  r.layout.WinutilsPath(),
		layout.HadoopDLLFilename: r.layout.HadoopDLLPath(),
	}

	for fileName, downloadedFileName := range r.downloadedFiles {
		targetPath, ok := targets[fileName]
		if !ok {
			continue
		}

		data, err := os.ReadFile(downloadedFileName)
		if err != nil {
			return err
		}

		// go-update renames the target aside before applying, so a first
		// install needs a placeholder. Closed right away: an open handle
		// would block the rename on Windows.
		if _, err = os.Stat(targetPath); err != nil && os.IsNotExist(err) {
			var placeholder *os.File

			placeholder, err = os.Create(targetPath)
			if err != nil {
				return err
			}

			_ = placeholder.Close()
		}

		options := goupdate.Options{
			TargetPath: targetPath,
			TargetMode: DefaultFileMode,
		}

		if err = goupdate.Apply(bytes.NewReader(data), options); err != nil {
			return fmt.Errorf("apply %s: %w", fileName, err)
		}

		oldFileName := targetPath + ".old"
		if _, err = os.Stat(oldFileName); err == nil {
			_ = os.Remove(oldFileName)
		}

		logger.InfoKV(ctx, "Installed binary", "path", targetPath)
	}

	return nil
}

// configureEnvironment persists the machine variables and appends the bin
// directory to PATH at most once.
func (r *runner) configureEnvironment(ctx context.Context) error {
	variables := []struct {
		name  string
		value string
	}{
		{winenv.HadoopHomeVariable, r.layout.InstallPath},
		{winenv.HadoopConfDirVariable, r.layout.EtcHadoopPath()},
	}

	for _, variable := range variables {
		if err := r.env.Set(variable.name, variable.value); err != nil {
			return fmt.Errorf("set %s: %w", variable.name, err)
		}

		logger.InfoKV(ctx, "Environment variable set", "name", variable.name, "value", variable.value)
	}

	changed, err := winenv.AppendToPath(r.env, r.layout.BinPath())
	if err != nil {
		return fmt.Errorf("append to PATH: %w", err)
	}

	if changed {
		logger.InfoKV(ctx, "Added bin directory to machine PATH", "dir", r.layout.BinPath())
	} else {
		logger.Info(ctx, "Machine PATH already contains the bin directory")
	}

	return nil
}

// smokeTest runs the installed winutils against the tmp directory. Failure is
// reported as a warning only: the installation stays in place unverified.
func (r *runner) smokeTest(ctx context.Context) {
	logger.Info(ctx, "Running post-install smoke test")

	output, err := r.commands.CombinedOutput(ctx, r.layout.WinutilsPath(), "ls", r.layout.TmpPath())
	if err != nil {
		logger.WarnKV(ctx, "Smoke test failed, installation is unverified",
			"error", err, "output", strings.TrimSpace(string(output)))

		return
	}

	logger.Info(ctx, "Smoke test passed")
}

// cleanup removes the temporary download directory.
func (r *runner) cleanup(ctx context.Context) {
	if r.temporaryDirectory == "" {
		return
	}

	if _, err := os.Stat(r.temporaryDirectory); err == nil {
		_ = os.RemoveAll(r.temporaryDirectory)
	}

	logger.Debug(ctx, "Temporary files removed")
}
