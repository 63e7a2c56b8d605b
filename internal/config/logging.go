package config

import (
	"github.com/rshade/govlist/internal/logging"
)

// ToLoggingConfig converts the Logging section into a logging.Config.
//
// interactive selects the destination: interactive sessions write to the
// configured file so log lines cannot corrupt the TUI, everything else
// writes to stderr. An interactive session without a file also uses stderr.
func (lc LoggingConfig) ToLoggingConfig(interactive bool) logging.Config {
	output := logging.OutputStderr
	if interactive && lc.File != "" {
		output = logging.OutputFile
	}

	return logging.Config{
		Level:  lc.Level,
		Format: lc.Format,
		Output: output,
		File:   lc.File,
	}
}
