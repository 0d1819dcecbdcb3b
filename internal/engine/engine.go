package engine

import (
	"strings"

	"github.com/specialistvlad/dockerish/internal/target"
)

// DefaultBinary is the engine executable used when none is configured.
const DefaultBinary = "docker"

// BuildOptions carries everything BuildArgs needs besides the target.
type BuildOptions struct {
	Dockerfile  string
	ContextDir  string
	Platforms   []string
	Passthrough []string
}

// RunOptions carries everything RunArgs needs besides the target.
type RunOptions struct {
	// EnvFile is the staged environment file, empty when there is none.
	EnvFile string
	// Volumes are prepared -v values, see PrepareMounts.
	Volumes     []string
	Passthrough []string
}

// StopArgs stops the container instance. A container started with a restart
// policy is force-removed instead, since a plain stop would let the engine
// restart it.
func StopArgs(t *target.Target, run *target.RunSpec, passthrough []string) []string {
	var args []string
	if run != nil && run.Restart != "" {
		args = []string{"rm", "-f"}
	} else {
		args = []string{"stop"}
	}
	args = append(args, t.Container.Image.String())
	return append(args, passthrough...)
}

// BuildArgs builds the image tag from the staged Dockerfile. Requesting
// platforms switches to a buildx multi-architecture build loaded into the
// local engine.
func BuildArgs(t *target.Target, opts BuildOptions) []string {
	args := []string{"build"}
	if len(opts.Platforms) > 0 {
		args = []string{"buildx", "build", "--platform", strings.Join(opts.Platforms, ","), "--output", "type=docker"}
	}
	args = append(args,
		"-f", opts.Dockerfile,
		"-t", t.Container.Name.String(),
		opts.ContextDir,
	)
	return append(args, opts.Passthrough...)
}

// RunArgs starts the image as the named container instance.
func RunArgs(t *target.Target, run *target.RunSpec, opts RunOptions) []string {
	args := []string{"run"}

	if run.Daemon {
		args = append(args, "-d")
	}
	if run.Restart != "" {
		args = append(args, "--restart="+run.Restart)
	} else {
		args = append(args, "--rm")
	}
	if opts.EnvFile != "" {
		args = append(args, "--env-file", opts.EnvFile)
	}
	for _, pm := range run.Portmaps {
		args = append(args, "-p", portSpec(pm))
	}
	for _, v := range opts.Volumes {
		args = append(args, "-v", v)
	}
	if run.Privileged {
		args = append(args, "--privileged", "-v", "/dev:/dev")
	}
	if run.Memory != "" {
		args = append(args, "--memory="+run.Memory.String())
	}
	if run.LogMaxSize != "" {
		args = append(args, "--log-opt", "max-size="+run.LogMaxSize.String())
	}
	args = append(args, "--name", t.Container.Image.String())
	if run.Interactive {
		args = append(args, "-i", "-t")
	} else {
		args = append(args, "-t")
	}
	args = append(args, t.Container.Name.String())
	args = append(args, strings.Fields(run.Command)...)
	return append(args, opts.Passthrough...)
}

func portSpec(pm target.Portmap) string {
	s := pm.Host.String() + ":" + pm.Container.String()
	if pm.UDP {
		s += "/udp"
	}
	return s
}
