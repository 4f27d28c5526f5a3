// Package main provides the gymkeeper CLI, a membership management tool
// backed by a durable SQLite store with an in-memory fallback.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/mesh-intelligence/gymkeeper/pkg/logging"
	"github.com/mesh-intelligence/gymkeeper/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

func main() {
	logging.Setup()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps an error to the CLI exit code: system errors are backend and
// initialization failures, everything else is a user error.
func exitCode(err error) int {
	var timeoutErr *types.InitTimeoutError
	if errors.As(err, &timeoutErr) ||
		errors.Is(err, types.ErrBackendUnavailable) ||
		errors.Is(err, types.ErrTransactionAborted) {
		return exitSysError
	}
	return exitUserError
}
