package executor

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/specialistvlad/dockerish/internal/ctxlog"
	"github.com/specialistvlad/dockerish/internal/engine"
	"github.com/specialistvlad/dockerish/internal/target"
	"github.com/specialistvlad/dockerish/internal/task"
)

// BuildTask stages the build inputs and builds the image.
type BuildTask struct {
	rt *Runtime
}

// NewBuildTask creates a build task.
func NewBuildTask(rt *Runtime) *BuildTask {
	return &BuildTask{rt: rt}
}

func (b *BuildTask) Name() string { return "build" }

// Run snapshots the configured symlinked directories into the build
// context, writes the Dockerfile and invokes the engine. Every staged
// artifact is removed once the engine returns, whatever the outcome.
func (b *BuildTask) Run(ctx context.Context, _ task.Queue) error {
	logger := ctxlog.FromContext(ctx)
	rt := b.rt
	defer func() {
		if cerr := rt.Staging.CleanupAll(ctx); cerr != nil {
			logger.Warn("Artifact cleanup after build was incomplete.", "error", cerr)
		}
	}()

	if rt.Target.Dockerfile == nil {
		return fmt.Errorf("%w: missing 'dockerfile' section", target.ErrTargetParse)
	}
	contextDir := rt.buildContext()
	spec := *rt.Target.Dockerfile

	snapshots := make(map[string]string, len(spec.Symlinks))
	for _, link := range spec.Symlinks {
		tarPath, err := rt.Staging.SnapshotDir(contextDir, rt.hostPath(link))
		if err != nil {
			return err
		}
		snapshots[link] = filepath.Base(tarPath)
		logger.Debug("Snapshotted directory.", "source", link, "tar", tarPath)
	}
	spec.Commands = engine.SubstituteSnapshots(spec.Commands, snapshots)

	lines := engine.NewDockerfileBuilder(&spec, rt.NoCache).Lines()
	dockerfile, err := rt.Staging.StageDockerfile(contextDir, lines)
	if err != nil {
		return err
	}
	logger.Debug("Dockerfile staged.", "path", dockerfile, "lines", lines)

	args := engine.BuildArgs(rt.Target, engine.BuildOptions{
		Dockerfile:  dockerfile,
		ContextDir:  contextDir,
		Platforms:   rt.Platforms,
		Passthrough: rt.Passthrough,
	})
	logger.Info("Building image.", "tag", rt.Target.Container.Name, "args", args)

	res, err := rt.Runner.Run(ctx, Invocation{
		Name:        rt.engineBinary(),
		Args:        args,
		Dir:         rt.TemplateDir,
		Interactive: true,
	})
	if err != nil {
		return err
	}
	if res.ExitCode != 0 {
		return &EngineError{Task: b.Name(), Code: res.ExitCode, Stderr: res.Stderr}
	}
	return nil
}
