package engine

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/specialistvlad/dockerish/internal/target"
)

// DockerfileBuilder renders a target's dockerfile section into lines.
type DockerfileBuilder struct {
	spec    *target.Dockerfile
	noCache bool
	now     func() time.Time
	lines   []string
}

// NewDockerfileBuilder creates a builder. With noCache set, a unique RUN
// line is placed right after FROM so the engine's layer cache never matches.
func NewDockerfileBuilder(spec *target.Dockerfile, noCache bool) *DockerfileBuilder {
	return &DockerfileBuilder{
		spec:    spec,
		noCache: noCache,
		now:     time.Now,
	}
}

// Lines generates the Dockerfile content, one instruction per line.
func (b *DockerfileBuilder) Lines() []string {
	b.lines = make([]string, 0)

	b.addLine("FROM %s", b.spec.From)
	if b.spec.Maintainer != "" {
		b.addLine("MAINTAINER %s", b.spec.Maintainer)
	}
	if b.noCache {
		b.addLine("RUN echo \"cache-bust %d-%s\" > /dev/null", b.now().UnixNano(), uuid.NewString())
	}
	if b.spec.Commands != "" {
		b.lines = append(b.lines, strings.Split(strings.TrimRight(b.spec.Commands, "\n"), "\n")...)
	}
	return b.lines
}

func (b *DockerfileBuilder) addLine(format string, args ...interface{}) {
	b.lines = append(b.lines, fmt.Sprintf(format, args...))
}

// SubstituteSnapshots replaces each snapshotted directory reference in the
// commands with the name of its tar file. Longer references are replaced
// first so nested paths are not clobbered by their parents.
func SubstituteSnapshots(commands string, snapshots map[string]string) string {
	refs := make([]string, 0, len(snapshots))
	for ref := range snapshots {
		refs = append(refs, ref)
	}
	sort.Slice(refs, func(i, j int) bool { return len(refs[i]) > len(refs[j]) })

	pairs := make([]string, 0, 2*len(refs))
	for _, ref := range refs {
		pairs = append(pairs, ref, snapshots[ref])
	}
	return strings.NewReplacer(pairs...).Replace(commands)
}
