package engine

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/specialistvlad/dockerish/internal/ctxlog"
	"github.com/specialistvlad/dockerish/internal/target"
)

// ErrUnboundPlaceholder is returned when a mount names a placeholder that
// was not bound on the command line.
var ErrUnboundPlaceholder = errors.New("unbound mount placeholder")

// PrepareMounts resolves each mount's host path and returns the -v values.
// Placeholders are looked up in bindings, `~` is expanded and relative
// paths are taken relative to baseDir. A writable mount whose host path does
// not exist yet is created empty: a file when the name has an extension,
// a directory otherwise.
func PrepareMounts(ctx context.Context, mounts []target.Mount, bindings map[string]string, baseDir string) ([]string, error) {
	logger := ctxlog.FromContext(ctx)
	volumes := make([]string, 0, len(mounts))

	for _, m := range mounts {
		host := m.Host
		if m.Placeholder != "" {
			bound, ok := bindings[m.Placeholder]
			if !ok {
				return nil, fmt.Errorf("%w: %q", ErrUnboundPlaceholder, m.Placeholder)
			}
			host = bound
		}
		if host == "" || m.Container == "" {
			return nil, fmt.Errorf("%w: mount needs a host path and a container path", target.ErrTargetParse)
		}

		expanded, err := homedir.Expand(host)
		if err != nil {
			return nil, fmt.Errorf("failed to expand mount path '%s': %w", host, err)
		}
		host = expanded
		if !filepath.IsAbs(host) {
			host = filepath.Join(baseDir, host)
		}

		if m.Writable() {
			created, err := ensureHostPath(host)
			if err != nil {
				return nil, err
			}
			if created {
				logger.Info("Created missing mount source.", "path", host)
			}
		}

		volumes = append(volumes, volumeSpec(host, m))
	}
	return volumes, nil
}

// ensureHostPath creates path if nothing exists there and reports whether it did.
func ensureHostPath(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return false, fmt.Errorf("failed to stat mount source '%s': %w", path, err)
	}

	if filepath.Ext(path) == "" {
		if err := os.MkdirAll(path, 0755); err != nil {
			return false, fmt.Errorf("failed to create mount directory '%s': %w", path, err)
		}
		return true, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return false, fmt.Errorf("failed to create parent of mount file '%s': %w", path, err)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return false, fmt.Errorf("failed to create mount file '%s': %w", path, err)
	}
	return true, f.Close()
}

func volumeSpec(host string, m target.Mount) string {
	s := host + ":" + m.Container
	switch {
	case m.Writable():
		s += ":rw"
	case strings.Contains(m.Permission, "r"):
		s += ":ro"
	}
	return s
}
