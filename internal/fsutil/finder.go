// Package fsutil provides file system utility functions: locating the
// template file and reading auxiliary files on behalf of templates.
package fsutil

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// TemplateFileName is the conventional template file name, looked up in the
// working directory or inside a target directory.
const TemplateFileName = "dockerish.template.yml"

// ConfigFileName is the conventional config file name in the working directory.
const ConfigFileName = "dockerish.config.json"

// ResolveTemplatePath turns the user supplied target into the template file
// path. An empty target means ./dockerish.template.yml, a directory means
// <dir>/dockerish.template.yml and anything else is taken as the file itself.
func ResolveTemplatePath(target string) (string, error) {
	if target == "" {
		return filepath.Join(".", TemplateFileName), nil
	}

	info, err := os.Stat(target)
	if err != nil {
		return "", fmt.Errorf("failed to stat target '%s': %w", target, err)
	}
	if info.IsDir() {
		return filepath.Join(target, TemplateFileName), nil
	}
	return target, nil
}

// Exists reports whether anything exists at path.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return !errors.Is(err, fs.ErrNotExist)
}
