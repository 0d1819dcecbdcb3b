package config

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/specialistvlad/dockerish/internal/ctxlog"
	"github.com/specialistvlad/dockerish/internal/fsutil"
)

// Config is the resolved configuration: string keys mapped to decoded JSON
// values (map[string]any, []any, string, json.Number, bool or nil).
type Config map[string]any

// ResolveOptions controls a single Resolve call.
type ResolveOptions struct {
	// Path is an explicit config file. When empty the conventional
	// ./dockerish.config.json is used if it exists.
	Path      string
	Overrides []string
	Namespace string
}

// Resolve builds the run's config: load, override, namespace, then
// %{JSON:...} substitution.
func Resolve(ctx context.Context, opts ResolveOptions) (Config, error) {
	logger := ctxlog.FromContext(ctx)

	cfg, err := Load(opts.Path)
	if err != nil {
		return nil, err
	}
	logger.Debug("Config loaded.", "path", opts.Path, "keys", len(cfg))

	if err := ApplyOverrides(cfg, opts.Overrides); err != nil {
		return nil, err
	}

	cfg = SelectNamespace(ctx, cfg, opts.Namespace)

	if err := ResolveJSONRefs(cfg); err != nil {
		return nil, err
	}
	logger.Debug("Config resolved.", "config", cfg)
	return cfg, nil
}

// Load reads the JSON object at path. An empty path falls back to the
// conventional config file in the working directory, and to an empty
// config when that does not exist either.
func Load(path string) (Config, error) {
	if path == "" {
		path = filepath.Join(".", fsutil.ConfigFileName)
		if !fsutil.Exists(path) {
			return Config{}, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config file '%s' does not exist: %w", path, err)
		}
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}
	return Parse(data, path)
}

// Parse decodes a JSON object. Numbers are kept as json.Number so they are
// rendered exactly as written.
func Parse(data []byte, source string) (Config, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrConfigParse, source, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %s: unexpected data after the top level value", ErrConfigParse, source)
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: %s: top level value must be an object", ErrConfigParse, source)
	}
	return Config(obj), nil
}

// ParseBindings splits each argument on its first colon. Everything after
// that colon, further colons included, is the value.
func ParseBindings(args []string) (map[string]string, error) {
	out := make(map[string]string, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, ":")
		if !ok || key == "" {
			return nil, fmt.Errorf("%w: %q, expected key:value", ErrInvalidOverride, arg)
		}
		out[key] = value
	}
	return out, nil
}

// ApplyOverrides writes each key:value override into the top level of cfg
// as a literal string. Later overrides of the same key win.
func ApplyOverrides(cfg Config, overrides []string) error {
	for _, o := range overrides {
		kv, err := ParseBindings([]string{o})
		if err != nil {
			return err
		}
		for k, v := range kv {
			cfg[k] = v
		}
	}
	return nil
}

// SelectNamespace replaces the config with its namespace sub-mapping. A
// missing or non-object namespace yields an empty config.
func SelectNamespace(ctx context.Context, cfg Config, namespace string) Config {
	if namespace == "" {
		return cfg
	}
	sub, ok := cfg[namespace].(map[string]any)
	if !ok {
		if _, present := cfg[namespace]; present {
			ctxlog.FromContext(ctx).Warn("Namespace is not an object, using empty config.", "namespace", namespace)
		}
		return Config{}
	}
	return Config(sub)
}
