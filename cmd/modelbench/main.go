package main

import (
	"errors"
	"fmt"
	"os"
)

// Exit codes for different failure modes
const (
	ExitSuccess    = 0 // Every cell produced output
	ExitTestFailed = 1 // The run completed but one or more cells failed
	ExitError      = 2 // Configuration or runtime error
)

// TestFailureError indicates that the benchmark ran to completion,
// but one or more cells failed.
type TestFailureError struct {
	Message string
}

func (e *TestFailureError) Error() string {
	return e.Message
}

func main() {
	os.Exit(exitCode(execute()))
}

func exitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	fmt.Fprintln(os.Stderr, err)

	var testFailureErr *TestFailureError
	if errors.As(err, &testFailureErr) {
		return ExitTestFailed
	}
	return ExitError
}
