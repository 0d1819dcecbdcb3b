package executor

import (
	"context"
	"testing"

	"github.com/specialistvlad/dockerish/internal/artifact"
	"github.com/specialistvlad/dockerish/internal/target"
	"github.com/specialistvlad/dockerish/internal/task"
)

// fakeRunner records invocations and answers them with respond, or with
// success when respond is nil. n is the 1-based call number.
type fakeRunner struct {
	calls   []Invocation
	respond func(ctx context.Context, inv Invocation, n int) (Result, error)
}

func (f *fakeRunner) Run(ctx context.Context, inv Invocation) (Result, error) {
	f.calls = append(f.calls, inv)
	if f.respond == nil {
		return Result{}, nil
	}
	return f.respond(ctx, inv, len(f.calls))
}

func newTestRuntime(t *testing.T, runner ProcessRunner) *Runtime {
	t.Helper()
	return &Runtime{
		Runner:  runner,
		Staging: artifact.NewStaging(),
		Target: &target.Target{
			Container:  &target.Container{Name: "acme/web", Image: "web"},
			Dockerfile: &target.Dockerfile{From: "alpine:3.19", Commands: "RUN true"},
		},
		TemplateDir: t.TempDir(),
		Engine:      "docker",
	}
}

// recordTask appends its name to log and returns err.
type recordTask struct {
	name string
	log  *[]string
	err  error
	then []task.Task
}

func (r *recordTask) Name() string { return r.name }

func (r *recordTask) Run(_ context.Context, q task.Queue) error {
	*r.log = append(*r.log, r.name)
	if len(r.then) > 0 {
		q.Enqueue(r.then...)
	}
	return r.err
}
