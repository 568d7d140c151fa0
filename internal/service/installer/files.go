package installer

import (
	"context"
	"fmt"
	"os"

	"github.com/oshokin/winutils-installer/internal/logger"
)

// defaultFSValue keeps the runtime on the local filesystem: no cluster is
// involved on a provisioned workstation.
const defaultFSValue = "file:///"

// coreSiteTemplate is the fixed Hadoop client configuration; only the two
// property values are substituted.
const coreSiteTemplate = `<?xml version="1.0" encoding="UTF-8"?>
<?xml-stylesheet type="text/xsl" href="configuration.xsl"?>
<configuration>
  <property>
    <name>fs.defaultFS</name>
    <value>%s</value>
  </property>
  <property>
    <name>hadoop.tmp.dir</name>
    <value>%s</value>
  </property>
</configuration>
`

// jvmArgsTemplate lists the system properties a JVM runtime needs to locate
// the native helpers.
const jvmArgsTemplate = `-Dhadoop.home.dir=%s
-Djava.library.path=%s
`

// renderCoreSite produces core-site.xml contents for the install root.
// Hadoop expects forward slashes in hadoop.tmp.dir even on Windows, so the
// value is the install path with a literal /tmp suffix.
func renderCoreSite(installPath string) string {
	return fmt.Sprintf(coreSiteTemplate, defaultFSValue, installPath+"/tmp")
}

// renderJVMArgs produces jvm-args.txt contents for the install tree.
func renderJVMArgs(installPath, binPath string) string {
	return fmt.Sprintf(jvmArgsTemplate, installPath, binPath)
}

// writeGeneratedFiles emits core-site.xml and jvm-args.txt, overwriting any
// previous contents.
func (r *runner) writeGeneratedFiles(ctx context.Context) error {
	coreSite := renderCoreSite(r.layout.InstallPath)
	if err := os.WriteFile(r.layout.CoreSitePath(), []byte(coreSite), generatedFileMode); err != nil {
		return err
	}

	logger.InfoKV(ctx, "Wrote configuration file", "path", r.layout.CoreSitePath())

	jvmArgs := renderJVMArgs(r.layout.InstallPath, r.layout.BinPath())
	if err := os.WriteFile(r.layout.JVMArgsPath(), []byte(jvmArgs), generatedFileMode); err != nil {
		return err
	}

	logger.InfoKV(ctx, "Wrote configuration file", "path", r.layout.JVMArgsPath())

	return nil
}
