// Package task defines the unit of work the executor runs.
package task

import "context"

// Queue accepts follow-up work while a run is in progress.
type Queue interface {
	Enqueue(tasks ...Task)
}

// Task is one step of a run: a shell hook or a single engine invocation.
// It returns nil when the step succeeded. A failed step returns an error;
// a non-zero exit of the underlying process is reported as a typed error
// so the caller can recover the status.
//
// A running task may append follow-up work to q. Those tasks run after
// everything already queued.
type Task interface {
	Name() string
	Run(ctx context.Context, q Queue) error
}
