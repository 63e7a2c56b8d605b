package tui

import (
	"os"

	"golang.org/x/term"
)

// OutputMode selects how list output is presented.
type OutputMode int

const (
	// OutputModePlain writes tab-separated rows without styling.
	OutputModePlain OutputMode = iota
	// OutputModeStyled writes a styled, non-interactive rendering.
	OutputModeStyled
	// OutputModeInteractive runs the Bubble Tea program.
	OutputModeInteractive
)

// fallbackTerminalWidth is used when the terminal size cannot be read.
const fallbackTerminalWidth = 80

// isTerminal reports whether stdout is a terminal. Replaced in tests.
var isTerminal = func() bool { //nolint:gochecknoglobals // Test seam.
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// DetectOutputMode chooses the output mode. forcePlain wins; a non-terminal
// stdout is always plain; noColor (or NO_COLOR) and CI keep output static.
func DetectOutputMode(forcePlain, noColor, ci bool) OutputMode {
	if forcePlain || !isTerminal() {
		return OutputModePlain
	}
	if _, set := os.LookupEnv("CI"); set {
		ci = true
	}
	if _, set := os.LookupEnv("NO_COLOR"); set {
		noColor = true
	}
	if noColor || ci {
		return OutputModeStyled
	}
	return OutputModeInteractive
}

// TerminalWidth returns the width of stdout, or 80 when unknown.
func TerminalWidth() int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return fallbackTerminalWidth
	}
	return w
}
