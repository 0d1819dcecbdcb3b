// Package executor runs a dockerish invocation: a strictly sequential
// queue of tasks, each spawning one external process (a shell hook or the
// container engine) and waiting for it before the next starts.
//
// Tasks may extend the queue while it runs. The run task uses this to
// schedule a build and a second run when the engine reports a missing
// image and build-on-demand was requested.
package executor
