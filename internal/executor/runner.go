package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"

	"github.com/specialistvlad/dockerish/internal/ctxlog"
)

// WaitDelay bounds how long Run waits for output pipes after the process
// was killed. Grandchildren that inherited the pipes would otherwise hold
// Run open.
const WaitDelay = time.Second

// Invocation describes one external process.
type Invocation struct {
	Name string
	Args []string
	Dir  string
	// Interactive attaches the runner's stdin to the process.
	Interactive bool
}

// Result is the observable outcome of a finished process.
type Result struct {
	ExitCode int
	// Stderr is a copy of everything the process wrote to stderr.
	Stderr string
}

// ProcessRunner spawns a process and waits for it. A non-zero exit is not
// an error; the status is returned in Result. Errors are reserved for
// processes that could not be started or were cancelled.
type ProcessRunner interface {
	Run(ctx context.Context, inv Invocation) (Result, error)
}

// ExecRunner implements ProcessRunner with os/exec, streaming output to
// Stdout and Stderr while keeping a copy of stderr for inspection.
type ExecRunner struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// NewExecRunner returns a runner wired to the current process's stdio.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
}

// Run executes inv. Cancelling ctx kills the process. A non-interactive
// process gets its own process group, and the whole group is killed.
// Interactive processes stay in the foreground group so they keep the
// terminal.
func (r *ExecRunner) Run(ctx context.Context, inv Invocation) (Result, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Spawning process.", "name", inv.Name, "args", inv.Args, "dir", inv.Dir)

	cmd := exec.CommandContext(ctx, inv.Name, inv.Args...)
	cmd.Dir = inv.Dir
	cmd.WaitDelay = WaitDelay
	if inv.Interactive {
		cmd.Stdin = r.Stdin
	} else {
		killProcessGroupOnCancel(cmd)
	}
	cmd.Stdout = r.Stdout

	var stderr bytes.Buffer
	if r.Stderr != nil {
		cmd.Stderr = io.MultiWriter(r.Stderr, &stderr)
	} else {
		cmd.Stderr = &stderr
	}

	err := cmd.Run()
	res := Result{Stderr: stderr.String()}
	if err == nil {
		return res, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return res, ctxErr
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
		logger.Debug("Process exited with non-zero status.", "name", inv.Name, "code", res.ExitCode)
		return res, nil
	}
	return res, fmt.Errorf("failed to run %s: %w", inv.Name, err)
}
