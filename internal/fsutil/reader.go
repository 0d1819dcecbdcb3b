package fsutil

import (
	"os"
	"path/filepath"
)

// Reader is the file-system collaborator handed to templates so they can
// pull in auxiliary files.
type Reader interface {
	ReadFile(path string) ([]byte, error)
	Exists(path string) bool
}

// OSReader reads from the local disk. Relative paths are resolved against Root.
type OSReader struct {
	Root string
}

// NewOSReader returns a reader rooted at dir.
func NewOSReader(dir string) *OSReader {
	return &OSReader{Root: dir}
}

func (r *OSReader) resolve(path string) string {
	if filepath.IsAbs(path) || r.Root == "" {
		return path
	}
	return filepath.Join(r.Root, path)
}

// ReadFile reads the whole file at path.
func (r *OSReader) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(r.resolve(path))
}

// Exists reports whether path exists.
func (r *OSReader) Exists(path string) bool {
	return Exists(r.resolve(path))
}
