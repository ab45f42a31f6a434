package config

import (
	"context"
	"errors"
	"fmt"
	"os"
)

// ExitInterrupted is the status for runs cut short by SIGINT or SIGTERM,
// matching what shells report for an interrupted process.
const ExitInterrupted = 130

// ExitCode returns the process status for a command failure.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, context.Canceled):
		return ExitInterrupted
	default:
		return 1
	}
}

// Exit writes "action: err" to stderr and exits with ExitCode(err).
func Exit(action string, err error) {
	fmt.Fprintf(os.Stderr, "%s: %v\n", action, err)
	os.Exit(ExitCode(err))
}
