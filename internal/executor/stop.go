package executor

import (
	"context"

	"github.com/specialistvlad/dockerish/internal/ctxlog"
	"github.com/specialistvlad/dockerish/internal/engine"
	"github.com/specialistvlad/dockerish/internal/target"
	"github.com/specialistvlad/dockerish/internal/task"
)

// StopTask stops or removes the container instance.
type StopTask struct {
	rt   *Runtime
	spec *target.RunSpec
	// tolerant lets the queue continue when the container was not running.
	tolerant bool
}

// NewStopTask creates a stop task. With tolerant set, a non-zero engine
// status is logged instead of failing the run.
func NewStopTask(rt *Runtime, spec *target.RunSpec, tolerant bool) *StopTask {
	return &StopTask{rt: rt, spec: spec, tolerant: tolerant}
}

func (s *StopTask) Name() string { return "stop" }

func (s *StopTask) Run(ctx context.Context, _ task.Queue) error {
	logger := ctxlog.FromContext(ctx)
	rt := s.rt

	args := engine.StopArgs(rt.Target, s.spec, rt.Passthrough)
	logger.Info("Stopping container.", "container", rt.Target.Container.Image, "args", args)

	res, err := rt.Runner.Run(ctx, Invocation{
		Name: rt.engineBinary(),
		Args: args,
		Dir:  rt.TemplateDir,
	})
	if err != nil {
		return err
	}
	if res.ExitCode == 0 {
		return nil
	}
	if s.tolerant {
		logger.Warn("Stop failed, continuing.", "code", res.ExitCode)
		return nil
	}
	return &EngineError{Task: s.Name(), Code: res.ExitCode, Stderr: res.Stderr}
}
