package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rshade/govlist/internal/config"
)

// errConfigExists is returned by config init when the file exists and overwriting was not confirmed.
var errConfigExists = errors.New("configuration file already exists, use --force to overwrite")

// NewConfigInitCmd creates the config init command for initializing configuration.
func NewConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize configuration file with default values",
		Long: `Creates ~/.govlist/config.yaml with default values.

The directory can be moved with GOVLIST_HOME. An existing file is only
replaced with --force, or after confirmation when running in a terminal.`,
		Example: `  # Create configuration
  govlist config init

  # Create configuration, overwriting existing
  govlist config init --force`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigInit(cmd, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing configuration file")

	return cmd
}

func runConfigInit(cmd *cobra.Command, force bool) error {
	cfg := config.Defaults()
	path := cfg.ConfigPath()
	if path == "" {
		return errors.New("cannot determine configuration directory")
	}

	if !force {
		_, err := os.Stat(path)
		switch {
		case err == nil:
			if !ConfirmOverwrite(cmd.OutOrStdout(), cmd.InOrStdin(), path).Accepted {
				return errConfigExists
			}
		case !os.IsNotExist(err):
			return fmt.Errorf("cannot access config path %s: %w", path, err)
		}
	}

	if err := cfg.Save(); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	logger.Debug().Ctx(cmd.Context()).Str("path", path).Msg("configuration initialized")
	cmd.Printf("Configuration initialized successfully\n")
	cmd.Printf("Configuration file: %s\n", path)
	return nil
}

// NewConfigShowCmd creates the config show command, which prints the
// effective configuration after the user file, overlay and environment.
func NewConfigShowCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Example: `  # Show the merged configuration
  govlist config show

  # Show it with a project overlay applied
  govlist --config ./govlist.yaml config show --output json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.GetGlobalConfig()
			if output == formatJSON {
				return writeJSON(cmd.OutOrStdout(), cfg)
			}
			if output != "" && output != formatYAML {
				return usageError(fmt.Errorf("unsupported output format %q: use yaml or json", output))
			}
			return writeYAML(cmd.OutOrStdout(), cfg)
		},
	}

	cmd.Flags().StringVar(&output, "output", formatYAML, "Output format: yaml or json")

	return cmd
}

// NewConfigValidateCmd creates the config validate command for validating configuration.
func NewConfigValidateCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		Long: `Validates the effective configuration for semantic correctness.

This includes:
- List dimensions (positive item and container heights, non-negative overscan)
- Wheel step and throttle interval
- Output format and logging settings
- The requires_version constraint against this binary's version`,
		Example: `  # Validate current configuration
  govlist config validate

  # Validate and show detailed information
  govlist config validate --verbose`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigValidate(cmd, verbose)
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "show detailed validation information")

	return cmd
}

// runConfigValidate executes the configuration validation logic.
func runConfigValidate(cmd *cobra.Command, verbose bool) error {
	cfg := config.GetGlobalConfig()

	// New ignores a malformed user file, so parse it again to report the error.
	if path := cfg.ConfigPath(); path != "" {
		if _, statErr := os.Stat(path); statErr == nil {
			if _, err := config.Load(path); err != nil {
				return &ExitError{Code: ExitCodeConfig, Err: err}
			}
		}
	}

	if err := cfg.Validate(); err != nil {
		return &ExitError{Code: ExitCodeConfig, Err: fmt.Errorf("configuration validation failed: %w", err)}
	}

	cmd.Printf("Configuration is valid\n")

	if verbose {
		printVerboseDetails(cmd, cfg)
	}
	return nil
}

// printVerboseDetails prints detailed configuration information.
func printVerboseDetails(cmd *cobra.Command, cfg *config.Config) {
	cmd.Println()
	cmd.Println("Configuration details:")
	cmd.Printf("  Item height: %d\n", cfg.List.ItemHeight)
	cmd.Printf("  Container height: %d\n", cfg.List.ContainerHeight)
	cmd.Printf("  Overscan: %d\n", cfg.List.Overscan)
	cmd.Printf("  Wheel step: %d\n", cfg.List.WheelStep)
	cmd.Printf("  Throttle: %dms\n", cfg.List.ThrottleMS)
	cmd.Printf("  Output format: %s\n", cfg.Output.DefaultFormat)
	cmd.Printf("  Logging level: %s\n", cfg.Logging.Level)
	cmd.Printf("  Log file: %s\n", cfg.Logging.File)
	if cfg.RequiresVersion != "" {
		cmd.Printf("  Requires version: %s\n", cfg.RequiresVersion)
	}
}
