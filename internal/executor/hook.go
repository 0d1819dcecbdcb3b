package executor

import (
	"context"
	"strings"

	"github.com/specialistvlad/dockerish/internal/ctxlog"
	"github.com/specialistvlad/dockerish/internal/task"
)

// HookTask runs a prebuild, postbuild or prerun script.
type HookTask struct {
	rt     *Runtime
	label  string
	script string
}

// NewHookTask creates a hook named label running script.
func NewHookTask(rt *Runtime, label, script string) *HookTask {
	return &HookTask{rt: rt, label: label, script: script}
}

func (h *HookTask) Name() string { return h.label }

// Run executes the script as one shell command with its lines chained by
// &&, so the first failing line ends the hook.
func (h *HookTask) Run(ctx context.Context, _ task.Queue) error {
	logger := ctxlog.FromContext(ctx).With("hook", h.label)

	command := HookCommand(h.script)
	if command == "" {
		logger.Debug("Hook is empty, skipping.")
		return nil
	}

	logger.Info("Running hook.")
	res, err := h.rt.Runner.Run(ctx, Invocation{
		Name: h.rt.shell(),
		Args: []string{"-c", command},
		Dir:  h.rt.TemplateDir,
	})
	if err != nil {
		return err
	}
	if res.ExitCode != 0 {
		return &EngineError{Task: h.label, Code: res.ExitCode, Stderr: res.Stderr}
	}
	return nil
}

// HookCommand joins the non-blank lines of script with " && ".
func HookCommand(script string) string {
	var lines []string
	for _, line := range strings.Split(script, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, " && ")
}
