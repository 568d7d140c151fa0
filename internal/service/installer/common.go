package installer

import (
	"context"
	"net/url"
	"os"
	"os/exec"
	"path"

	"github.com/mitchellh/go-ps"

	"github.com/oshokin/winutils-installer/internal/domain/layout"
)

const (
	// DefaultFileMode is applied to the installed native binaries.
	DefaultFileMode os.FileMode = 0o755

	// generatedFileMode is applied to the emitted configuration files.
	generatedFileMode os.FileMode = 0o644

	// tempDirPattern names the temporary download directory.
	tempDirPattern = "winutils-installer-"
)

// ArtifactFilenames lists the native helpers fetched from the mirror.
func ArtifactFilenames() []string {
	return []string{
		layout.WinutilsFilename,
		layout.HadoopDLLFilename,
	}
}

// versionCandidates returns the ordered list of releases to try: the requested
// one first, then the pinned fallback. Duplicates are collapsed so the same
// version is never attempted twice.
func versionCandidates(requested, fallback string) []string {
	if fallback == "" || fallback == requested {
		return []string{requested}
	}

	return []string{requested, fallback}
}

// artifactURL composes <mirror>/hadoop-<version>/bin/<filename>.
func artifactURL(mirror, version, filename string) (string, error) {
	mirrorURL, err := url.Parse(mirror)
	if err != nil {
		return "", err
	}

	// Use path.Join to normalize duplicate slashes when composing the URL path.
	mirrorURL.Path = path.Join(mirrorURL.Path, "hadoop-"+version, "bin", filename)

	return mirrorURL.String(), nil
}

// CommandRunner executes an external command and returns its combined output.
// The smoke test goes through this seam so tests can stub the invocation.
type CommandRunner interface {
	CombinedOutput(ctx context.Context, name string, args ...string) ([]byte, error)
}

// execCommandRunner runs commands through os/exec.
type execCommandRunner struct{}

// CombinedOutput implements CommandRunner.
func (execCommandRunner) CombinedOutput(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// terminateProcessByName tries to kill processes with the provided executable
// name. A running winutils.exe holds a lock on its file and would make the
// overwrite fail.
func terminateProcessByName(processName string) error {
	processList, err := ps.Processes()
	if err != nil {
		return err
	}

	thisProcessID := os.Getpid()

	for _, process := range processList {
		if process.Pid() == thisProcessID {
			continue
		}

		if process.Executable() != processName {
			continue
		}

		var runningProcess *os.Process

		runningProcess, err = os.FindProcess(process.Pid())
		if err != nil {
			return err
		}

		if err = runningProcess.Kill(); err != nil {
			return err
		}
	}

	return nil
}
