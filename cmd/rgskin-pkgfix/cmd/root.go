package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/r2o3/rgskin-pkgfix/internal/config"
	"github.com/r2o3/rgskin-pkgfix/internal/logger"
	"github.com/r2o3/rgskin-pkgfix/internal/service/patcher"
	"github.com/r2o3/rgskin-pkgfix/internal/version"
)

// rootFlags holds the values bound to the root command flags.
type rootFlags struct {
	// configPath to the configuration YAML file.
	configPath string
	// root overrides the folder containing the distribution outputs.
	root string
	// logLevel is the minimum level of emitted log messages.
	logLevel string
	// buildCheck enables the running-build guard.
	buildCheck bool
}

// Execute runs the rgskin-pkgfix CLI and exits with non-zero status on error.
func Execute() {
	// Setup graceful shutdown handling.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)

	stop()
	os.Exit(code)
}

// run executes the CLI with the given arguments and streams and returns the exit code.
// The failure reason is written to stderr regardless of the log level.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	previous := logger.Logger()
	defer logger.SetLogger(previous)

	if args == nil {
		args = []string{}
	}

	rootCmd := newRootCmd(stdout, stderr)
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		_, _ = fmt.Fprintln(stderr, "Error:", err)
		return 1
	}

	return 0
}

// newRootCmd builds the command tree with loggers writing to the given streams.
func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	flags := new(rootFlags)

	rootCmd := &cobra.Command{
		Use:           "rgskin-pkgfix",
		Short:         "Set distribution names and keywords in the generated package manifests",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			level, ok := logger.ParseLogLevel(flags.logLevel)
			if !ok {
				return fmt.Errorf("unknown log level %q", flags.logLevel)
			}

			logger.SetLogger(logger.NewWithWriters(level, stdout, stderr))

			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			options := &patcher.Options{
				ConfigPath: resolveConfigPath(cmd, flags.configPath),
				Root:       flags.root,
				BuildCheck: flags.buildCheck,
			}

			return patcher.Run(cmd.Context(), options)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.Flags().StringVarP(&flags.root, "root", "r", "", "folder containing the distribution outputs")
	rootCmd.Flags().BoolVar(&flags.buildCheck, "build-check", false, "refuse to patch while a configured build process is running")

	rootCmd.AddCommand(newInitConfigCmd())
	version.AttachCobraVersionCommand(rootCmd)

	return rootCmd
}

// newInitConfigCmd builds the command writing the default settings to a file.
func newInitConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init-config [path]",
		Short: "Write the default settings file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.DefaultConfigFilename
			if len(args) > 0 {
				path = args[0]
			}

			if err := config.Save(path, config.Default()); err != nil {
				return err
			}

			logger.InfoKV(cmd.Context(), "Settings written", "path", path)

			return nil
		},
	}
}

// resolveConfigPath returns the settings file to load. The default file is optional;
// an explicitly passed one must exist.
func resolveConfigPath(cmd *cobra.Command, path string) string {
	if cmd.Flags().Changed("config") {
		return path
	}

	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return ""
	}

	return path
}
