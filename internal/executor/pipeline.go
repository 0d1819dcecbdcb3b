package executor

import (
	"context"
	"fmt"

	"github.com/specialistvlad/dockerish/internal/ctxlog"
	"github.com/specialistvlad/dockerish/internal/task"
)

// Pipeline is a FIFO queue of tasks executed one at a time.
type Pipeline struct {
	queue []task.Task
	ran   []string
}

// NewPipeline creates a pipeline holding tasks in order.
func NewPipeline(tasks ...task.Task) *Pipeline {
	p := &Pipeline{}
	p.Enqueue(tasks...)
	return p
}

// Enqueue appends tasks to the end of the queue.
func (p *Pipeline) Enqueue(tasks ...task.Task) {
	p.queue = append(p.queue, tasks...)
}

// Len returns the number of tasks still waiting.
func (p *Pipeline) Len() int {
	return len(p.queue)
}

// Ran returns the names of the tasks started so far, in order.
func (p *Pipeline) Ran() []string {
	return append([]string(nil), p.ran...)
}

// Run drains the queue. The first failing task stops the pipeline and its
// error is returned; remaining tasks are dropped. Cancellation is checked
// before every task.
func (p *Pipeline) Run(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)

	for len(p.queue) > 0 {
		if err := ctx.Err(); err != nil {
			logger.Warn("Pipeline interrupted.", "pending", len(p.queue))
			return err
		}

		t := p.queue[0]
		p.queue = p.queue[1:]
		p.ran = append(p.ran, t.Name())

		logger.Debug("Task started.", "task", t.Name(), "pending", len(p.queue))
		if err := t.Run(ctx, p); err != nil {
			logger.Debug("Task failed, halting pipeline.", "task", t.Name(), "dropped", len(p.queue))
			p.queue = nil
			return fmt.Errorf("task %s: %w", t.Name(), err)
		}
		logger.Debug("Task finished.", "task", t.Name())
	}
	return nil
}
