package cli

import "fmt"

// CommandError reports a failure the command has already printed. Main
// exits with its code instead of printing it again.
type CommandError struct {
	Reason   string
	exitCode int
}

// NewCommandError creates a CommandError with a formatted reason.
func NewCommandError(exitCode int, format string, args ...any) *CommandError {
	return &CommandError{Reason: fmt.Sprintf(format, args...), exitCode: exitCode}
}

func (e *CommandError) Error() string {
	if e.Reason == "" {
		return "command failed"
	}
	return e.Reason
}

// ExitCode returns the exit code associated with this error.
func (e *CommandError) ExitCode() int {
	return e.exitCode
}
