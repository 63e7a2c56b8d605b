// Command govlist renders very large lists in the terminal by drawing only
// the rows inside the viewport.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rshade/govlist/internal/cli"
	"github.com/rshade/govlist/pkg/version"
)

func main() {
	if err := run(); err != nil {
		os.Exit(extractExitCode(err))
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := cli.NewRootCmd(version.GetVersion())
	return root.ExecuteContext(ctx)
}

// extractExitCode returns the exit code carried by a cli.ExitError in err's
// chain, 1 for any other error and 0 for nil.
func extractExitCode(err error) int {
	return cli.ExitCode(err)
}
