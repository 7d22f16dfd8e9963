// Package cli provides the command-line interface for gns3-transfer.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/gns3/gns3-desktop/internal/config"
	"github.com/gns3/gns3-desktop/internal/logging"
	"github.com/gns3/gns3-desktop/internal/version"
)

var (
	// Global flags
	cfgFile string
	logFile string
	verbose bool
	debug   bool

	// Global logger
	logger *logging.Logger

	// Preferences loaded from transfer.conf, after flag overrides
	settings *config.TransferConfig

	// Global context for signal handling
	rootContext context.Context
	cancelFunc  context.CancelFunc
)

// NewRootCmd creates the root command for CLI mode.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "gns3-transfer",
		Short: "Copy or move GNS3 directories with progress and cancellation",
		Long: `gns3-transfer ` + version.Version + ` - Built: ` + version.BuildTime + `
Copies or moves directory trees (images, projects, appliances) the way the
GNS3 desktop does when its storage locations change.

  gns3-transfer copy ~/GNS3/images /mnt/data/GNS3/images
  gns3-transfer move ~/GNS3/projects /mnt/data/GNS3/projects --prune
  gns3-transfer batch relocate.plan

Press Ctrl+C to cancel. The file being transferred is finished first and
nothing already transferred is undone.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setup()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Configuration file path (default: user config dir/gns3/transfer.conf)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Also write logs to this rotating file (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output (shows debug messages)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug output (same as --verbose)")

	rootCmd.Version = version.Version + " (" + version.BuildTime + ")"

	completionCmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for gns3-transfer.

QUICK TEST (temporary, current session only):
  source <(gns3-transfer completion bash)`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletion(out)
			default:
				return fmt.Errorf("unsupported shell %q", args[0])
			}
		},
	}
	rootCmd.AddCommand(completionCmd)
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	return rootCmd
}

// setup loads preferences and builds the logger. Flags win over the file.
func setup() error {
	cfg, err := config.LoadTransferConfig(cfgFile)
	if err != nil {
		return err
	}
	if logFile != "" {
		cfg.Logging.File = logFile
	}
	settings = cfg

	level, err := logging.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.Logging.Level, err)
	}
	if verbose || debug {
		level = zerolog.DebugLevel
	}
	logging.SetGlobalLevel(level)

	logger = logging.NewLogger(logging.Options{Mode: "cli", File: cfg.Logging.File})
	return nil
}

// Execute runs the CLI.
func Execute() error {
	rootContext, cancelFunc = context.WithCancel(context.Background())
	defer cancelFunc()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Loop so repeated Ctrl+C presses do not kill the process mid-file
	go func() {
		for sig := range sigChan {
			if sig != nil {
				fmt.Fprintf(os.Stderr, "\nReceived signal %v, cancelling after the current file...\n", sig)
				cancelFunc()
			}
		}
	}()

	err := execute(os.Args[1:], os.Stdout, os.Stderr)

	signal.Stop(sigChan)
	close(sigChan)

	return err
}

// execute runs the command tree with args. The logger is closed however the
// command ends; cobra skips post-run hooks when RunE fails.
func execute(args []string, out, errOut io.Writer) error {
	defer closeLogger()

	rootCmd := NewRootCmd()
	AddCommands(rootCmd)
	rootCmd.SetArgs(args)
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)
	return rootCmd.Execute()
}

// closeLogger flushes the log file and drops the global logger.
func closeLogger() {
	if logger != nil {
		_ = logger.Close()
		logger = nil
	}
}

// AddCommands adds all subcommands to the root command.
func AddCommands(rootCmd *cobra.Command) {
	rootCmd.AddCommand(newCopyCmd())
	rootCmd.AddCommand(newMoveCmd())
	rootCmd.AddCommand(newBatchCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newVersionCmd())
}

// GetLogger returns the global CLI logger.
func GetLogger() *logging.Logger {
	if logger == nil {
		logger = logging.NewDefaultCLILogger()
	}
	return logger
}

// GetSettings returns the loaded preferences, or defaults before setup ran.
func GetSettings() *config.TransferConfig {
	if settings == nil {
		return config.NewTransferConfig()
	}
	return settings
}

// GetContext returns the global CLI context with signal handling.
// This context will be cancelled when the user presses Ctrl+C.
func GetContext() context.Context {
	if rootContext == nil {
		return context.Background()
	}
	return rootContext
}
