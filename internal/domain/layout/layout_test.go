package layout

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestLayout_DerivedPaths ensures every path is derived from the install root
// with its fixed suffix.
func TestLayout_DerivedPaths(t *testing.T) {
	t.Parallel()

	root := filepath.Join("some", "install", "root")
	l := New(root)

	require.Equal(t, root, l.InstallPath)
	require.Equal(t, filepath.Join(root, "bin"), l.BinPath())
	require.Equal(t, filepath.Join(root, "etc", "hadoop"), l.EtcHadoopPath())
	require.Equal(t, filepath.Join(root, "tmp"), l.TmpPath())

	require.Equal(t, filepath.Join(root, "bin", WinutilsFilename), l.WinutilsPath())
	require.Equal(t, filepath.Join(root, "bin", HadoopDLLFilename), l.HadoopDLLPath())
	require.Equal(t, filepath.Join(root, "etc", "hadoop", CoreSiteFilename), l.CoreSitePath())
	require.Equal(t, filepath.Join(root, JVMArgsFilename), l.JVMArgsPath())
}

// TestLayout_Directories ensures parents are listed before children so the list
// can be created in order.
func TestLayout_Directories(t *testing.T) {
	t.Parallel()

	l := New("root")
	dirs := l.Directories()

	require.Len(t, dirs, 4)
	require.Equal(t, l.InstallPath, dirs[0])
	require.Contains(t, dirs, l.BinPath())
	require.Contains(t, dirs, l.EtcHadoopPath())
	require.Contains(t, dirs, l.TmpPath())
}
