package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/govlist/internal/config"
	"github.com/rshade/govlist/internal/logging"
	"github.com/rshade/govlist/internal/tui"
)

// setupLogging configures logging based on config file, environment, and CLI flags.
func setupLogging(cmd *cobra.Command) logging.LogPathResult {
	loggingCfg := config.GetLoggingConfig()

	debug, _ := cmd.Flags().GetBool("debug")
	if debug {
		loggingCfg.Level = "debug"
		loggingCfg.Format = "console"
	}

	logCfg := loggingCfg.ToLoggingConfig(runsInteractive(cmd))

	// Ensure log directory exists after all overrides have been applied.
	if logCfg.Output == logging.OutputFile {
		if err := config.EnsureLogDir(); err != nil {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: could not create log directory: %v\n", err)
		}
	}

	result := logging.NewLoggerWithPath(logCfg)
	logger = logging.ComponentLogger(result.Logger, "cli")

	if result.UsingFile {
		logging.PrintLogPathMessage(cmd.ErrOrStderr(), result.FilePath)
	} else if result.FallbackUsed {
		logging.PrintFallbackWarning(cmd.ErrOrStderr(), result.FallbackReason)
	}

	ctx := cmd.Context()
	traceID := logging.GetOrGenerateTraceID(ctx)
	ctx = logging.ContextWithTraceID(ctx, traceID)
	ctx = logger.WithContext(ctx)
	cmd.SetContext(ctx)

	logger.Debug().Ctx(ctx).Str("command", cmd.Name()).Str(logging.TraceIDField, traceID).Msg("command started")

	return result
}

// runsInteractive reports whether cmd is about to take over the terminal.
func runsInteractive(cmd *cobra.Command) bool {
	if cmd.Annotations[annotationInteractive] != "true" {
		return false
	}
	plain, _ := cmd.Flags().GetBool("plain")
	if output, _ := cmd.Flags().GetString("output"); output != "" && output != formatTable {
		return false
	}
	return tui.DetectOutputMode(plain, false, false) == tui.OutputModeInteractive
}

// cleanupLogging closes the log file handle, if any.
func cleanupLogging(logResult *logging.LogPathResult) error {
	if logResult != nil {
		return logResult.Close()
	}
	return nil
}
