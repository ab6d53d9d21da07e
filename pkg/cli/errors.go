package cli

import (
	"errors"
	"fmt"
)

// ErrNoInput is returned when a command has no text from its argument,
// --file or stdin.
var ErrNoInput = errors.New("no input: pass text as an argument, use --file, or pipe it on stdin")

// ConfigError represents an error in configuration.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error in %s: %s", e.Field, e.Message)
}

// CommandError represents an error from a command execution.
type CommandError struct {
	Command string
	Err     error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("command %s failed: %v", e.Command, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError.
func NewConfigError(field, message string) *ConfigError {
	return &ConfigError{
		Field:   field,
		Message: message,
	}
}

// NewCommandError wraps err with the command name. A nil err stays nil.
func NewCommandError(command string, err error) error {
	if err == nil {
		return nil
	}
	return &CommandError{
		Command: command,
		Err:     err,
	}
}

// ExitCode maps an error to a process exit status: 0 for nil, 2 for
// configuration problems and 1 otherwise.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var cfgErr *ConfigError
	if errors.As(err, &cfgErr) {
		return 2
	}
	return 1
}
