// Package engine synthesizes the argument vectors for container engine
// invocations (build, run, stop) from a target.Target.
//
// The *Args functions are pure. Side effects needed before a run, namely
// creating missing writable mount sources, live in PrepareMounts, and the
// Dockerfile text is produced by DockerfileBuilder and staged elsewhere.
package engine
