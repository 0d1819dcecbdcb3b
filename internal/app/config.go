package app

import (
	"errors"
	"fmt"
	"strings"

	"github.com/specialistvlad/dockerish/internal/config"
	"github.com/specialistvlad/dockerish/internal/engine"
	"github.com/specialistvlad/dockerish/internal/target"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ConfigPath string
	// Overrides are key:value pairs applied on top of the config file.
	Overrides []string
	// Mounts are name:path bindings for mount placeholders.
	Mounts     []string
	Namespace  string
	TargetPath string

	Actions       target.Actions
	NoCache       bool
	Platforms     []string
	BuildOnDemand bool

	Engine      string
	Passthrough []string

	Debug     bool
	LogFormat string
	LogLevel  string

	// Bindings is Mounts parsed by NewConfig.
	Bindings map[string]string
}

// NewConfig validates cfg and fills in defaults.
func NewConfig(cfg Config) (*Config, error) {
	if _, err := config.ParseBindings(cfg.Overrides); err != nil {
		return nil, fmt.Errorf("invalid --set value: %w", err)
	}

	bindings, err := config.ParseBindings(cfg.Mounts)
	if err != nil {
		return nil, fmt.Errorf("invalid --mount value: %w", err)
	}
	cfg.Bindings = bindings

	for _, p := range cfg.Platforms {
		if strings.TrimSpace(p) == "" {
			return nil, errors.New("platforms must not contain empty entries")
		}
	}

	if cfg.Engine == "" {
		cfg.Engine = engine.DefaultBinary
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.Debug {
		cfg.LogLevel = "debug"
	}

	return &cfg, nil
}
