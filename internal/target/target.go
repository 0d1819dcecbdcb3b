package target

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrTargetParse is returned for invalid YAML or for a target that lacks the
// structure a requested action needs.
var ErrTargetParse = errors.New("target parse error")

// DefaultRunBlock is the key of the run block used unless another is selected.
const DefaultRunBlock = "run"

// Scalar accepts any YAML scalar (string, number, bool) and keeps its
// literal text, so `8080` and `"8080"` decode alike.
type Scalar string

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *Scalar) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected a scalar value", node.Line)
	}
	if node.Tag == "!!null" {
		*s = ""
		return nil
	}
	*s = Scalar(node.Value)
	return nil
}

// String returns the literal text.
func (s Scalar) String() string {
	return string(s)
}

// Container identifies the image tag and container instance.
type Container struct {
	// Name is the engine image tag to build and run.
	Name Scalar `yaml:"name"`
	// Image is the engine container instance name.
	Image Scalar `yaml:"image"`
	// Basedir is an optional subpath of the template directory used as
	// the build context.
	Basedir string `yaml:"basedir"`
}

// Dockerfile is the recipe a temporary Dockerfile is synthesized from.
type Dockerfile struct {
	From       Scalar   `yaml:"from"`
	Maintainer string   `yaml:"maintainer"`
	Commands   string   `yaml:"commands"`
	Symlinks   []string `yaml:"symlinks"`
}

// Portmap publishes a container port on the host.
type Portmap struct {
	Host      Scalar `yaml:"host"`
	Container Scalar `yaml:"container"`
	UDP       bool   `yaml:"udp"`
}

// Mount binds a host path, or a placeholder bound on the command line, into
// the container.
type Mount struct {
	Host        string `yaml:"host"`
	Placeholder string `yaml:"placeholder"`
	Container   string `yaml:"container"`
	// Permission contains 'r' and/or 'w'.
	Permission string `yaml:"permission"`
}

// Writable reports whether the mount grants write access.
func (m Mount) Writable() bool {
	return strings.Contains(m.Permission, "w")
}

// RunSpec is a run block.
type RunSpec struct {
	Daemon      bool      `yaml:"daemon"`
	Restart     string    `yaml:"restart"`
	Portmaps    []Portmap `yaml:"portmaps"`
	Mounts      []Mount   `yaml:"mounts"`
	Privileged  bool      `yaml:"privileged"`
	Memory      Scalar    `yaml:"memory"`
	LogMaxSize  Scalar    `yaml:"logmaxsize"`
	Interactive bool      `yaml:"interactive"`
	Command     string    `yaml:"command"`
}

// Target is the expanded template.
type Target struct {
	Container   *Container  `yaml:"container"`
	Dockerfile  *Dockerfile `yaml:"dockerfile"`
	Run         *RunSpec    `yaml:"run"`
	Environment string      `yaml:"environment"`
	Prebuild    string      `yaml:"prebuild"`
	Postbuild   string      `yaml:"postbuild"`
	Prerun      string      `yaml:"prerun"`

	// Extra keeps every other top-level key; named run blocks live here.
	Extra map[string]yaml.Node `yaml:",inline"`
}

// Parse decodes expanded template text.
func Parse(data []byte) (*Target, error) {
	var t Target
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTargetParse, err)
	}
	return &t, nil
}

// RunBlock returns the run block with the given name; an empty name selects
// the default `run` block. A missing block yields an empty RunSpec so stop
// and run still have defaults to work from.
func (t *Target) RunBlock(name string) (*RunSpec, error) {
	if name == "" || name == DefaultRunBlock {
		if t.Run == nil {
			return &RunSpec{}, nil
		}
		return t.Run, nil
	}

	node, ok := t.Extra[name]
	if !ok {
		return nil, fmt.Errorf("%w: run block %q not found (have %s)", ErrTargetParse, name, strings.Join(t.extraKeys(), ", "))
	}
	var spec RunSpec
	if err := node.Decode(&spec); err != nil {
		return nil, fmt.Errorf("%w: run block %q: %w", ErrTargetParse, name, err)
	}
	return &spec, nil
}

func (t *Target) extraKeys() []string {
	keys := make([]string, 0, len(t.Extra))
	for k := range t.Extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Actions are the engine operations requested for a run.
type Actions struct {
	Stop  bool
	Build bool
	Run   bool
	// RunAs names an alternate run block; it implies Run.
	RunAs string
}

// Any reports whether at least one engine command was requested.
func (a Actions) Any() bool {
	return a.Stop || a.Build || a.Run || a.RunAs != ""
}

// ValidateFor checks that t has what the requested actions need.
func (t *Target) ValidateFor(a Actions) error {
	if !a.Any() {
		return nil
	}
	if t.Container == nil {
		return fmt.Errorf("%w: missing 'container' section", ErrTargetParse)
	}
	if t.Container.Name == "" && (a.Build || a.Run || a.RunAs != "") {
		return fmt.Errorf("%w: missing 'container.name'", ErrTargetParse)
	}
	if t.Container.Image == "" {
		return fmt.Errorf("%w: missing 'container.image'", ErrTargetParse)
	}
	if a.Build {
		if t.Dockerfile == nil {
			return fmt.Errorf("%w: missing 'dockerfile' section", ErrTargetParse)
		}
		if t.Dockerfile.From == "" {
			return fmt.Errorf("%w: missing 'dockerfile.from'", ErrTargetParse)
		}
	}
	if a.RunAs != "" {
		if _, err := t.RunBlock(a.RunAs); err != nil {
			return err
		}
	}
	return nil
}
