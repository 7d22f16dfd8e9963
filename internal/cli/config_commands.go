package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gns3/gns3-desktop/internal/config"
)

// newConfigCmd creates the 'config' command group.
func newConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage gns3-transfer configuration",
		Long: `Configuration management commands for gns3-transfer.

Commands:
  init  - Write a configuration file with default values
  show  - Display current configuration
  path  - Show configuration file path`,
	}

	configCmd.AddCommand(newConfigInitCmd())
	configCmd.AddCommand(newConfigShowCmd())
	configCmd.AddCommand(newConfigPathCmd())

	return configCmd
}

// resolveConfigPath returns the --config value or the default location.
func resolveConfigPath() (string, error) {
	if cfgFile != "" {
		return cfgFile, nil
	}
	return config.DefaultTransferConfigPath()
}

// newConfigInitCmd creates the 'config init' command.
func newConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default configuration file",
		Long: `Write transfer.conf with default values so they can be edited.

Use --force to overwrite an existing configuration.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, err := resolveConfigPath()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if !force {
				if _, err := os.Stat(configPath); err == nil {
					fmt.Fprintf(out, "Configuration already exists at: %s\n", configPath)
					fmt.Fprintln(out, "Use --force to overwrite or run 'config show' to view current config.")
					return nil
				}
			}

			if err := config.SaveTransferConfig(config.NewTransferConfig(), configPath); err != nil {
				return err
			}
			GetLogger().Info().Str("path", configPath).Msg("Configuration written")
			fmt.Fprintf(out, "Configuration written to %s\n", configPath)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite existing configuration")
	return cmd
}

// newConfigShowCmd creates the 'config show' command.
func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Display current configuration",
		Long: `Display the configuration in effect: transfer.conf merged with
command-line flags (--log-file). Missing keys show their defaults.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if configPath, err := resolveConfigPath(); err == nil {
				fmt.Fprintf(out, "# %s\n", configPath)
			}
			fmt.Fprint(out, GetSettings().String())
			return nil
		},
	}
}

// newConfigPathCmd creates the 'config path' command.
func newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		Long:  `Display the path to the configuration file and whether it exists.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, err := resolveConfigPath()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, configPath)

			if info, err := os.Stat(configPath); err == nil {
				fmt.Fprintf(out, "Status:   exists (%d bytes, modified %s)\n",
					info.Size(), info.ModTime().Format("2006-01-02 15:04:05"))
			} else {
				fmt.Fprintln(out, "Status:   does not exist")
				fmt.Fprintln(out, "Create it with: gns3-transfer config init")
			}
			return nil
		},
	}
}

// newVersionCmd creates the 'version' command.
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "gns3-transfer %s\n", cmd.Root().Version)
		},
	}
}
