// Package artifact creates the transient files handed to the engine
// (synthesized Dockerfiles, directory tar snapshots, env files) and owns
// their deletion.
//
// Every file is registered the moment it exists on disk, so CleanupAll
// removes partially written artifacts too. CleanupAll drains the registry,
// which makes repeated calls from different exit paths harmless.
package artifact

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/moby/go-archive"
	"github.com/specialistvlad/dockerish/internal/ctxlog"
)

// ErrArtifactIO is returned when a staged file cannot be created or written.
var ErrArtifactIO = errors.New("artifact io error")

// Staging is the per-run registry of temporary artifacts. It is safe for
// use by the pipeline and an interrupt handler at the same time.
type Staging struct {
	mu    sync.Mutex
	paths []string
}

// NewStaging returns an empty registry.
func NewStaging() *Staging {
	return &Staging{}
}

// Paths returns the currently registered artifacts in creation order.
func (s *Staging) Paths() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.paths...)
}

func (s *Staging) register(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paths = append(s.paths, path)
}

// create makes a new, uniquely named file in dir and registers it.
func (s *Staging) create(dir, prefix, suffix string) (*os.File, error) {
	name := filepath.Join(dir, prefix+uuid.NewString()+suffix)
	f, err := os.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return nil, fmt.Errorf("%w: create %s: %w", ErrArtifactIO, name, err)
	}
	s.register(name)
	return f, nil
}

func (s *Staging) writeFile(dir, prefix, suffix string, content string) (string, error) {
	f, err := s.create(dir, prefix, suffix)
	if err != nil {
		return "", err
	}
	if _, err := io.WriteString(f, content); err != nil {
		f.Close()
		return "", fmt.Errorf("%w: write %s: %w", ErrArtifactIO, f.Name(), err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("%w: close %s: %w", ErrArtifactIO, f.Name(), err)
	}
	return f.Name(), nil
}

// StageDockerfile writes the joined lines to a new Dockerfile-tmp-* file in dir.
func (s *Staging) StageDockerfile(dir string, lines []string) (string, error) {
	return s.writeFile(dir, "Dockerfile-tmp-", "", strings.Join(lines, "\n")+"\n")
}

// StageEnvFile writes the environment block verbatim to a new .env file in dir.
func (s *Staging) StageEnvFile(dir, text string) (string, error) {
	return s.writeFile(dir, ".dockerish-", ".env", text)
}

// SnapshotDir archives the contents of source into a new .tar file in dir.
// Symlinks in source itself are followed, so a linked directory outside the
// build context ends up inside it.
func (s *Staging) SnapshotDir(dir, source string) (string, error) {
	resolved, err := filepath.EvalSymlinks(source)
	if err != nil {
		return "", fmt.Errorf("%w: resolve %s: %w", ErrArtifactIO, source, err)
	}
	info, err := os.Stat(resolved)
	if err != nil {
		return "", fmt.Errorf("%w: stat %s: %w", ErrArtifactIO, resolved, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: %s is not a directory", ErrArtifactIO, source)
	}

	rc, err := archive.TarWithOptions(resolved, &archive.TarOptions{})
	if err != nil {
		return "", fmt.Errorf("%w: archive %s: %w", ErrArtifactIO, resolved, err)
	}
	defer rc.Close()

	base := filepath.Base(resolved)
	f, err := s.create(dir, base+"-", ".tar")
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, rc); err != nil {
		f.Close()
		return "", fmt.Errorf("%w: write %s: %w", ErrArtifactIO, f.Name(), err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("%w: close %s: %w", ErrArtifactIO, f.Name(), err)
	}
	return f.Name(), nil
}

// CleanupAll deletes every registered artifact and empties the registry.
// Files that are already gone are skipped; other failures are logged and
// returned joined.
func (s *Staging) CleanupAll(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)

	s.mu.Lock()
	paths := s.paths
	s.paths = nil
	s.mu.Unlock()

	var errs []error
	for _, p := range paths {
		err := os.Remove(p)
		switch {
		case err == nil:
			logger.Debug("Removed artifact.", "path", p)
		case errors.Is(err, fs.ErrNotExist):
			logger.Debug("Artifact already gone.", "path", p)
		default:
			logger.Warn("Failed to remove artifact.", "path", p, "error", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
