package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// stdinIsTerminal reports whether stdin is a terminal. Replaced in tests.
var stdinIsTerminal = func() bool { //nolint:gochecknoglobals // Test seam.
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// PromptResult contains the result of a user prompt interaction.
type PromptResult struct {
	// Accepted is true if the user accepted the prompt (typed "y" or "yes").
	Accepted bool
	// Cancelled is true if input ended before an answer was read.
	Cancelled bool
}

// ConfirmOverwrite asks whether an existing file at path may be replaced.
// It returns immediately with Accepted=false when stdin is not a terminal.
//
// The prompt defaults to "No" when the user presses Enter without input.
// "y" and "yes" in any case accept; anything else declines.
func ConfirmOverwrite(writer io.Writer, reader io.Reader, path string) PromptResult {
	if !stdinIsTerminal() {
		return PromptResult{}
	}

	fmt.Fprintf(writer, "? %s already exists. Overwrite it with defaults? [y/N] ", path)

	scanner := bufio.NewScanner(reader)
	if !scanner.Scan() {
		fmt.Fprintln(writer)
		return PromptResult{Cancelled: true}
	}

	switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
	case "y", "yes":
		return PromptResult{Accepted: true}
	default:
		return PromptResult{}
	}
}
