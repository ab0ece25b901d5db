package cli

import (
	"errors"
	"fmt"

	"github.com/yaklabco/domsplice/pkg/runner"
)

// Exit codes for domsplice.
const (
	ExitSuccess       = 0
	ExitFilesFailed   = 1
	ExitNoMatch       = 2
	ExitInvalidUsage  = 64
	ExitConfigError   = 65
	ExitInternalError = 70
)

// Sentinel errors that map to exit codes without further logging.
var (
	ErrFilesFailed = errors.New("some files could not be processed")
	ErrNoMatch     = errors.New("no matches found")
)

// ConfigError marks a failure to load or validate configuration.
type ConfigError struct {
	Err error
}

func (e *ConfigError) Error() string { return fmt.Sprintf("configuration: %v", e.Err) }

func (e *ConfigError) Unwrap() error { return e.Err }

// ExitCode maps an error returned by a command to a process exit code.
func ExitCode(err error) int {
	var cfgErr *ConfigError
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrFilesFailed):
		return ExitFilesFailed
	case errors.Is(err, ErrNoMatch):
		return ExitNoMatch
	case errors.As(err, &cfgErr), errors.Is(err, runner.ErrNoRules):
		return ExitConfigError
	default:
		return ExitInternalError
	}
}

// Quiet reports whether err only signals an exit status and needs no log line.
func Quiet(err error) bool {
	return errors.Is(err, ErrFilesFailed) || errors.Is(err, ErrNoMatch)
}

// resultError converts a run result into the command's error.
func resultError(result *runner.Result) error {
	if result.HasErrors() {
		return ErrFilesFailed
	}
	return nil
}
