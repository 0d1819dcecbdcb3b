package executor

import (
	"context"
	"strings"

	"github.com/specialistvlad/dockerish/internal/ctxlog"
	"github.com/specialistvlad/dockerish/internal/engine"
	"github.com/specialistvlad/dockerish/internal/target"
	"github.com/specialistvlad/dockerish/internal/task"
)

// ImageNotFound is the engine's stderr text for a missing image.
const ImageNotFound = "Unable to find image"

// RunTask starts the container.
type RunTask struct {
	rt   *Runtime
	spec *target.RunSpec
	// buildOnDemand schedules one build and one retry when the image is missing.
	buildOnDemand bool
}

// NewRunTask creates a run task for the given run block.
func NewRunTask(rt *Runtime, spec *target.RunSpec, buildOnDemand bool) *RunTask {
	return &RunTask{rt: rt, spec: spec, buildOnDemand: buildOnDemand}
}

func (r *RunTask) Name() string { return "run" }

// Run stages the env file, prepares mounts and invokes the engine.
func (r *RunTask) Run(ctx context.Context, q task.Queue) error {
	logger := ctxlog.FromContext(ctx)
	rt := r.rt

	var envFile string
	if strings.TrimSpace(rt.Target.Environment) != "" {
		path, err := rt.Staging.StageEnvFile(rt.TemplateDir, rt.Target.Environment)
		if err != nil {
			return err
		}
		envFile = path
	}

	volumes, err := engine.PrepareMounts(ctx, r.spec.Mounts, rt.Bindings, rt.TemplateDir)
	if err != nil {
		return err
	}

	args := engine.RunArgs(rt.Target, r.spec, engine.RunOptions{
		EnvFile:     envFile,
		Volumes:     volumes,
		Passthrough: rt.Passthrough,
	})
	logger.Info("Running container.", "container", rt.Target.Container.Image, "args", args)

	res, err := rt.Runner.Run(ctx, Invocation{
		Name:        rt.engineBinary(),
		Args:        args,
		Dir:         rt.TemplateDir,
		Interactive: true,
	})
	if err != nil {
		return err
	}
	if res.ExitCode == 0 {
		return nil
	}

	if r.buildOnDemand && strings.Contains(res.Stderr, ImageNotFound) {
		logger.Info("Image not found, building on demand.", "tag", rt.Target.Container.Name)
		q.Enqueue(NewBuildTask(rt), NewRunTask(rt, r.spec, false))
		return nil
	}
	return &EngineError{Task: r.Name(), Code: res.ExitCode, Stderr: res.Stderr}
}
