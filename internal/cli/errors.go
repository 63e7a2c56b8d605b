package cli

import (
	"errors"
	"fmt"
)

// Process exit codes.
const (
	ExitCodeOK     = 0
	ExitCodeError  = 1
	// ExitCodeUsage reports invalid flags or flag combinations.
	ExitCodeUsage  = 2
	// ExitCodeConfig reports a configuration that cannot be loaded or fails validation.
	ExitCodeConfig = 3
)

// ExitError is an error that carries the process exit code main should use.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// usageError marks err as a bad flag combination or flag value.
func usageError(err error) error {
	return &ExitError{Code: ExitCodeUsage, Err: err}
}

// ExitCode maps err to a process exit code: 0 for nil, the carried code for
// an ExitError anywhere in the chain, 1 otherwise.
func ExitCode(err error) int {
	if err == nil {
		return ExitCodeOK
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitCodeError
}
