package executor

import (
	"context"
	"errors"
	"fmt"
)

// ExitInterrupted is the status reported when a run was cancelled.
const ExitInterrupted = 130

// EngineError reports a process that exited with a non-zero status.
type EngineError struct {
	Task   string
	Code   int
	Stderr string
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("%s exited with status %d", e.Task, e.Code)
}

// ExitStatus maps the result of Pipeline.Run to a process exit status.
func ExitStatus(err error) int {
	if err == nil {
		return 0
	}
	var engErr *EngineError
	if errors.As(err, &engErr) {
		return engErr.Code
	}
	if errors.Is(err, context.Canceled) {
		return ExitInterrupted
	}
	return 1
}
