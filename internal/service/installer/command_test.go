package installer

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/winutils-installer/internal/config"
	"github.com/oshokin/winutils-installer/internal/domain/layout"
	"github.com/oshokin/winutils-installer/internal/repository/winenv"
	"github.com/oshokin/winutils-installer/internal/service/privilege"
)

// fakeCommandRunner records smoke test invocations and returns a canned result.
type fakeCommandRunner struct {
	mu    sync.Mutex
	calls [][]string
	err   error
}

func (f *fakeCommandRunner) CombinedOutput(_ context.Context, name string, args ...string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, append([]string{name}, args...))

	return []byte("fake output"), f.err
}

// mirrorServer serves winutils artifacts for the provided versions and records
// every requested path.
func mirrorServer(t *testing.T, versions ...string) (*httptest.Server, *[]string) {
	t.Helper()

	var (
		mu       sync.Mutex
		requests []string
	)

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		requests = append(requests, r.URL.Path)
		mu.Unlock()

		for _, version := range versions {
			prefix := "/hadoop-" + version + "/bin/"
			if strings.HasPrefix(r.URL.Path, prefix) {
				_, _ = w.Write([]byte("binary-" + version + "-" + strings.TrimPrefix(r.URL.Path, prefix)))
				return
			}
		}

		http.NotFound(w, r)
	})

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return server, &requests
}

// newTestRunner builds a runner wired to test doubles: in-memory environment,
// fake smoke test, always-elevated privilege check.
func newTestRunner(t *testing.T, cfg *config.Config, env winenv.Manager, commands CommandRunner) *runner {
	t.Helper()

	require.NoError(t, config.Validate(cfg))

	return &runner{
		cfg:             cfg,
		layout:          layout.New(cfg.InstallPath),
		env:             env,
		commands:        commands,
		ensurePrivilege: func() error { return nil },
		client:          http.DefaultClient,
		downloadedFiles: make(map[string]string, len(ArtifactFilenames())),
	}
}

// TestRun_Success verifies the full pipeline: directories, binaries,
// environment variables, generated files and the smoke test invocation.
func TestRun_Success(t *testing.T) {
	t.Parallel()

	server, _ := mirrorServer(t, "3.3.6")
	installPath := filepath.Join(t.TempDir(), "hadoop")

	cfg := &config.Config{
		HadoopVersion: "3.3.6",
		InstallPath:   installPath,
		MirrorURL:     server.URL,
	}

	var (
		ctx      = context.Background()
		env      = winenv.NewMemoryManager()
		commands = &fakeCommandRunner{}
		r        = newTestRunner(t, cfg, env, commands)
	)

	defer r.cleanup(ctx)

	require.NoError(t, r.run(ctx))

	// Directory tree exists.
	for _, dir := range r.layout.Directories() {
		info, err := os.Stat(dir)
		require.NoError(t, err)
		require.True(t, info.IsDir())
	}

	// Both binaries are installed with mirror contents.
	data, err := os.ReadFile(r.layout.WinutilsPath())
	require.NoError(t, err)
	require.Equal(t, "binary-3.3.6-winutils.exe", string(data))

	data, err = os.ReadFile(r.layout.HadoopDLLPath())
	require.NoError(t, err)
	require.Equal(t, "binary-3.3.6-hadoop.dll", string(data))

	// Environment variables hold the derived values.
	value, err := env.Get(winenv.HadoopHomeVariable)
	require.NoError(t, err)
	require.Equal(t, installPath, value)

	value, err = env.Get(winenv.HadoopConfDirVariable)
	require.NoError(t, err)
	require.Equal(t, r.layout.EtcHadoopPath(), value)

	value, err = env.Get(winenv.PathVariable)
	require.NoError(t, err)
	require.True(t, winenv.ContainsPathElement(value, r.layout.BinPath()))

	// Smoke test ran against the tmp directory.
	require.Len(t, commands.calls, 1)
	require.Equal(t, []string{r.layout.WinutilsPath(), "ls", r.layout.TmpPath()}, commands.calls[0])
}

// TestRun_RepeatedRunsKeepPathClean ensures the bin directory lands on the
// machine PATH exactly once no matter how often the installer runs.
func TestRun_RepeatedRunsKeepPathClean(t *testing.T) {
	t.Parallel()

	server, _ := mirrorServer(t, "3.3.6")
	installPath := filepath.Join(t.TempDir(), "hadoop")
	env := winenv.NewMemoryManager()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		cfg := &config.Config{
			HadoopVersion: "3.3.6",
			InstallPath:   installPath,
			MirrorURL:     server.URL,
		}

		r := newTestRunner(t, cfg, env, &fakeCommandRunner{})
		require.NoError(t, r.run(ctx))
		r.cleanup(ctx)
	}

	value, err := env.Get(winenv.PathVariable)
	require.NoError(t, err)

	binPath := layout.New(installPath).BinPath()
	require.Equal(t, 1, strings.Count(strings.ToLower(value), strings.ToLower(binPath)))
}

// TestRun_FallbackVersion ensures the pinned fallback release is fetched when
// the requested one is missing from the mirror, and that both files come from
// the fallback.
func TestRun_FallbackVersion(t *testing.T) {
	t.Parallel()

	server, requests := mirrorServer(t, "3.3.4")
	installPath := filepath.Join(t.TempDir(), "hadoop")

	cfg := &config.Config{
		HadoopVersion: "3.3.6",
		InstallPath:   installPath,
		MirrorURL:     server.URL,
	}

	var (
		ctx = context.Background()
		r   = newTestRunner(t, cfg, winenv.NewMemoryManager(), &fakeCommandRunner{})
	)

	defer r.cleanup(ctx)

	require.NoError(t, r.run(ctx))

	// Primary version was attempted first.
	require.Equal(t, "/hadoop-3.3.6/bin/winutils.exe", (*requests)[0])

	data, err := os.ReadFile(r.layout.WinutilsPath())
	require.NoError(t, err)
	require.Equal(t, "binary-3.3.4-winutils.exe", string(data))

	data, err = os.ReadFile(r.layout.HadoopDLLPath())
	require.NoError(t, err)
	require.Equal(t, "binary-3.3.4-hadoop.dll", string(data))
}

// TestRun_AllVersionsFail ensures the run errors after the primary and the
// single fallback attempt are both exhausted.
func TestRun_AllVersionsFail(t *testing.T) {
	t.Parallel()

	server, requests := mirrorServer(t) // Serves nothing.
	installPath := filepath.Join(t.TempDir(), "hadoop")

	cfg := &config.Config{
		HadoopVersion: "3.3.6",
		InstallPath:   installPath,
		MirrorURL:     server.URL,
	}

	var (
		ctx = context.Background()
		r   = newTestRunner(t, cfg, winenv.NewMemoryManager(), &fakeCommandRunner{})
	)

	defer r.cleanup(ctx)

	err := r.run(ctx)
	require.ErrorIs(t, err, errAllVersionsFailed)

	// One request for the primary, one for the fallback: a failed first file
	// discards the attempt without fetching the second.
	require.Equal(t, []string{
		"/hadoop-3.3.6/bin/winutils.exe",
		"/hadoop-3.3.4/bin/winutils.exe",
	}, *requests)
}

// TestRun_NotElevated ensures nothing is mutated when the privilege check fails.
func TestRun_NotElevated(t *testing.T) {
	t.Parallel()

	installPath := filepath.Join(t.TempDir(), "hadoop")

	cfg := &config.Config{
		HadoopVersion: "3.3.6",
		InstallPath:   installPath,
		MirrorURL:     "https://mirror.invalid",
	}

	var (
		ctx = context.Background()
		env = winenv.NewMemoryManager()
		r   = newTestRunner(t, cfg, env, &fakeCommandRunner{})
	)

	r.ensurePrivilege = func() error { return privilege.ErrNotElevated }

	err := r.run(ctx)
	require.ErrorIs(t, err, privilege.ErrNotElevated)

	// No directory was created and no variable was touched.
	_, err = os.Stat(installPath)
	require.True(t, os.IsNotExist(err))
	require.Zero(t, env.Len())
}

// TestRun_SmokeTestFailureIsNonFatal ensures a failing smoke test does not
// fail the installation.
func TestRun_SmokeTestFailureIsNonFatal(t *testing.T) {
	t.Parallel()

	server, _ := mirrorServer(t, "3.3.6")
	installPath := filepath.Join(t.TempDir(), "hadoop")

	cfg := &config.Config{
		HadoopVersion: "3.3.6",
		InstallPath:   installPath,
		MirrorURL:     server.URL,
	}

	var (
		ctx      = context.Background()
		commands = &fakeCommandRunner{err: errors.New("winutils crashed")}
		r        = newTestRunner(t, cfg, winenv.NewMemoryManager(), commands)
	)

	defer r.cleanup(ctx)

	require.NoError(t, r.run(ctx))
	require.Len(t, commands.calls, 1)
}

// TestVersionCandidates covers ordering and deduplication of attempts.
func TestVersionCandidates(t *testing.T) {
	t.Parallel()

	require.Equal(t, []string{"3.3.6", "3.3.4"}, versionCandidates("3.3.6", "3.3.4"))
	require.Equal(t, []string{"3.3.4"}, versionCandidates("3.3.4", "3.3.4"))
	require.Equal(t, []string{"3.3.6"}, versionCandidates("3.3.6", ""))
}

// TestArtifactURL checks URL composition against the fixed template.
func TestArtifactURL(t *testing.T) {
	t.Parallel()

	finalURL, err := artifactURL("https://mirror.local/winutils/", "3.3.6", "winutils.exe")
	require.NoError(t, err)
	require.Equal(t, "https://mirror.local/winutils/hadoop-3.3.6/bin/winutils.exe", finalURL)
}
