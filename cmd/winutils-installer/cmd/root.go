package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/winutils-installer/internal/config"
	"github.com/oshokin/winutils-installer/internal/logger"
	"github.com/oshokin/winutils-installer/internal/service/installer"
	"github.com/oshokin/winutils-installer/internal/version"
)

var (
	// configPath stores the path to the configuration YAML file.
	configPath string
	// hadoopVersion overrides the configured Hadoop release when set.
	hadoopVersion string
	// installPath overrides the configured installation root when set.
	installPath string
	// logLevel controls logging verbosity.
	logLevel string

	// rootCmd represents the base command for provisioning the native helpers.
	rootCmd = &cobra.Command{
		Use:   "winutils-installer",
		Short: "Provision Hadoop native Windows helpers.",
		Long: `One-shot installer for winutils.exe and hadoop.dll on a Windows host.

Creates the installation tree (bin, etc\hadoop, tmp), downloads the native
helper binaries for the requested Hadoop release (falling back once to a
pinned alternate release when the downloads fail), persists HADOOP_HOME and
HADOOP_CONF_DIR machine-wide, appends the bin directory to the machine PATH,
writes core-site.xml and jvm-args.txt, and finishes with a smoke test.

Must be run from an elevated (run-as-administrator) shell.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			if level, ok := logger.ParseLogLevel(logLevel); ok {
				logger.SetLevel(level)
			}

			options := &installer.Options{
				ConfigPath:    configPath,
				HadoopVersion: hadoopVersion,
				InstallPath:   installPath,
			}

			return installer.Run(ctx, options)
		},
	}
)

// Execute runs the winutils-installer CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.Flags().StringVar(&hadoopVersion, "hadoop-version", "",
		`hadoop release to install (default "`+config.DefaultHadoopVersion+`")`)
	rootCmd.Flags().StringVar(&installPath, "install-path", "",
		`installation root directory (default "`+config.DefaultInstallPath+`")`)
	rootCmd.Flags().StringVar(&logLevel, "log-level", "info", "logging level (debug, info, warn, error)")
}
