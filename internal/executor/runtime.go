package executor

import (
	"path/filepath"

	"github.com/specialistvlad/dockerish/internal/artifact"
	"github.com/specialistvlad/dockerish/internal/engine"
	"github.com/specialistvlad/dockerish/internal/target"
)

// DefaultShell interprets hook scripts.
const DefaultShell = "sh"

// Runtime is the state shared by every task of one run.
type Runtime struct {
	Runner  ProcessRunner
	Staging *artifact.Staging
	Target  *target.Target

	// TemplateDir is the directory holding the template file. Hooks run
	// there and relative paths are resolved against it.
	TemplateDir string
	// Engine is the container engine binary.
	Engine string
	// Shell runs hook scripts with -c.
	Shell string

	// Bindings maps mount placeholders to host paths.
	Bindings    map[string]string
	NoCache     bool
	Platforms   []string
	Passthrough []string
}

func (rt *Runtime) engineBinary() string {
	if rt.Engine == "" {
		return engine.DefaultBinary
	}
	return rt.Engine
}

func (rt *Runtime) shell() string {
	if rt.Shell == "" {
		return DefaultShell
	}
	return rt.Shell
}

// buildContext is the template directory, narrowed by container.basedir.
func (rt *Runtime) buildContext() string {
	if rt.Target.Container != nil && rt.Target.Container.Basedir != "" {
		return filepath.Join(rt.TemplateDir, rt.Target.Container.Basedir)
	}
	return rt.TemplateDir
}

// hostPath resolves p against the template directory.
func (rt *Runtime) hostPath(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(rt.TemplateDir, p)
}
