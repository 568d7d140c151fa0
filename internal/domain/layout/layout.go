package layout

import "path/filepath"

// Artifact filenames fetched from the mirror into the bin directory.
const (
	// WinutilsFilename is the native Hadoop shell helper executable.
	WinutilsFilename = "winutils.exe"
	// HadoopDLLFilename is the native Hadoop library loaded by the JVM.
	HadoopDLLFilename = "hadoop.dll"

	// CoreSiteFilename is the generated Hadoop client configuration file.
	CoreSiteFilename = "core-site.xml"
	// JVMArgsFilename is the generated JVM arguments file.
	JVMArgsFilename = "jvm-args.txt"
)

// Layout derives every path of the installation tree from the install root.
type Layout struct {
	// InstallPath is the root directory of the installation.
	InstallPath string
}

// New returns a layout rooted at the provided install path.
func New(installPath string) *Layout {
	return &Layout{
		InstallPath: filepath.Clean(installPath),
	}
}

// BinPath is the directory holding the native helper binaries.
func (l *Layout) BinPath() string {
	return filepath.Join(l.InstallPath, "bin")
}

// EtcHadoopPath is the Hadoop configuration directory (HADOOP_CONF_DIR).
func (l *Layout) EtcHadoopPath() string {
	return filepath.Join(l.InstallPath, "etc", "hadoop")
}

// TmpPath is the scratch directory used by the runtime and the smoke test.
func (l *Layout) TmpPath() string {
	return filepath.Join(l.InstallPath, "tmp")
}

// Directories lists every directory that must exist before files are written,
// parents before children.
func (l *Layout) Directories() []string {
	return []string{
		l.InstallPath,
		l.BinPath(),
		l.EtcHadoopPath(),
		l.TmpPath(),
	}
}

// WinutilsPath is the installed location of winutils.exe.
func (l *Layout) WinutilsPath() string {
	return filepath.Join(l.BinPath(), WinutilsFilename)
}

// HadoopDLLPath is the installed location of hadoop.dll.
func (l *Layout) HadoopDLLPath() string {
	return filepath.Join(l.BinPath(), HadoopDLLFilename)
}

// CoreSitePath is the generated core-site.xml location inside the conf dir.
func (l *Layout) CoreSitePath() string {
	return filepath.Join(l.EtcHadoopPath(), CoreSiteFilename)
}

// JVMArgsPath is the generated jvm-args.txt location at the install root.
func (l *Layout) JVMArgsPath() string {
	return filepath.Join(l.InstallPath, JVMArgsFilename)
}
