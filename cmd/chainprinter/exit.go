package main

import (
	stderrors "errors"
	"fmt"

	"chainprinter-go/pkg/errors"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Line rejected, stalled, or trace invalid
	ExitCommandError = 2 // Bad configuration, flags, or device
)

// ExitError carries the process exit code for a failed command.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// WrapExitError wraps err with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error. Config and driver
// errors are command errors; anything else is a failure.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if stderrors.As(err, &exitErr) {
		return exitErr.Code
	}
	if errors.IsConfig(err) || errors.Is(err, errors.ErrDriverIO) {
		return ExitCommandError
	}
	return ExitFailure
}
