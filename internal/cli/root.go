package cli

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rshade/govlist/internal/config"
	"github.com/rshade/govlist/internal/logging"
)

// logger is the package-level logger for CLI operations.
var logger zerolog.Logger //nolint:gochecknoglobals // Required for zerolog context integration

// annotationInteractive marks commands that may take over the terminal.
// Logging for those commands goes to the log file instead of stderr.
const annotationInteractive = "govlist.interactive"

// NewRootCmd creates the root Cobra command for the govlist CLI.
// It loads configuration (including the --config overlay), wires up logging and
// tracing, and registers the range, browse and config subcommands.
func NewRootCmd(ver string) *cobra.Command {
	var (
		logResult  *logging.LogPathResult
		configPath string
	)

	cmd := &cobra.Command{
		Use:     "govlist",
		Short:   "Windowed list rendering for terminal UIs",
		Long:    "govlist: browse very large governance proposal lists by rendering only the rows on screen",
		Version: ver,
		Example: rootCmdExample,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.NewWithOverlay(cmd.Context(), configPath)
			if err != nil {
				return &ExitError{Code: ExitCodeConfig, Err: fmt.Errorf("loading configuration: %w", err)}
			}
			config.SetGlobalConfig(cfg)

			result := setupLogging(cmd)
			logResult = &result
			return nil
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			return cleanupLogging(logResult)
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	cmd.PersistentFlags().StringVar(&configPath, "config", "",
		"overlay config file merged over ~/.govlist/config.yaml (top-level sections replace)")
	cmd.AddCommand(NewRangeCmd(), NewBrowseCmd(), newConfigCmd())

	return cmd
}

const rootCmdExample = `  # Show which rows a 20-row viewport renders at scroll offset 150
  govlist range --items 10000 --item-height 3 --container-height 20 --offset 150

  # Same computation as JSON
  govlist range --items 10000 --offset 150 --output json

  # Browse 10,000 generated proposals interactively
  govlist browse --generate 10000

  # Search proposals loaded from files, sorted by participants
  govlist browse --file proposals.yaml --search treasury --sort participants:desc

  # Print the second page of active proposals as a plain table
  govlist browse --file proposals.yaml --status active --page 2 --page-size 50 --plain

  # Initialize configuration
  govlist config init`

// newConfigCmd creates the config command group with configuration subcommands.
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "config", Short: "Configuration management commands"}
	cmd.AddCommand(NewConfigInitCmd(), NewConfigShowCmd(), NewConfigValidateCmd())
	return cmd
}
