package executor

import (
	"github.com/specialistvlad/dockerish/internal/target"
	"github.com/specialistvlad/dockerish/internal/task"
)

// PlanOptions selects what a run does.
type PlanOptions struct {
	Actions       target.Actions
	BuildOnDemand bool
}

// Plan lays out the tasks for the requested actions in the order
// stop, prebuild, build, postbuild, prerun, run. Empty hooks are left out.
func Plan(rt *Runtime, opts PlanOptions) ([]task.Task, error) {
	a := opts.Actions
	if !a.Any() {
		return nil, nil
	}

	spec, err := rt.Target.RunBlock(a.RunAs)
	if err != nil {
		return nil, err
	}

	var tasks []task.Task
	hook := func(label, script string) {
		if HookCommand(script) != "" {
			tasks = append(tasks, NewHookTask(rt, label, script))
		}
	}

	if a.Stop {
		// Stopping ahead of a rebuild or restart must not fail when there
		// is nothing to stop.
		tasks = append(tasks, NewStopTask(rt, spec, a.Build || a.Run || a.RunAs != ""))
	}
	if a.Build {
		hook("prebuild", rt.Target.Prebuild)
		tasks = append(tasks, NewBuildTask(rt))
		hook("postbuild", rt.Target.Postbuild)
	}
	if a.Run || a.RunAs != "" {
		hook("prerun", rt.Target.Prerun)
		tasks = append(tasks, NewRunTask(rt, spec, opts.BuildOnDemand))
	}
	return tasks, nil
}
