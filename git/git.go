// Package git locates the enclosing git repository.
package git

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNotRepo is returned when no enclosing directory contains .git.
var ErrNotRepo = errors.New("not in a git repository")

// FindRoot finds the root of the git repository by walking up from the current directory.
func FindRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return FindRootFrom(dir)
}

// FindRootFrom finds the root of the git repository by walking up from the given directory.
// A .git file (worktrees, submodules) counts as well as a directory.
func FindRootFrom(dir string) (string, error) {
	dir = filepath.Clean(dir)
	start := dir
	for {
		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("%s: %w", start, ErrNotRepo)
		}
		dir = parent
	}
}

// RootOrDir returns the repository root enclosing dir, or dir itself
// when it is not inside a repository.
func RootOrDir(dir string) string {
	if root, err := FindRootFrom(dir); err == nil {
		return root
	}
	return filepath.Clean(dir)
}
