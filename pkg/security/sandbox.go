// Package security holds the guard rails applied before side effects happen:
// path confinement for file tools, a deny list for shell commands, and the
// operator approval surface.
package security

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrPathNotAllowed is returned when a path escapes every allowed root.
var ErrPathNotAllowed = errors.New("path not allowed")

// Sandbox confines file access to a root directory plus explicitly allowed
// extra directories.
type Sandbox struct {
	roots []string
}

// NewSandbox builds a sandbox rooted at root.
func NewSandbox(root string) *Sandbox {
	s := &Sandbox{}
	s.Allow(root)
	return s
}

// Allow adds another directory under which paths are permitted.
func (s *Sandbox) Allow(dir string) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}
	s.roots = append(s.roots, abs)
}

// ValidatePath checks that path stays within an allowed root after symlink
// resolution. The path itself does not have to exist yet; its nearest
// existing ancestor is what gets resolved.
func (s *Sandbox) ValidatePath(path string) error {
	if strings.TrimSpace(path) == "" {
		return errors.New("empty path")
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", path, err)
	}

	resolved, err := resolveExisting(abs)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", path, err)
	}

	for _, root := range s.roots {
		if resolved == root || strings.HasPrefix(resolved, root+string(filepath.Separator)) {
			return nil
		}
	}
	if resolved != abs {
		return fmt.Errorf("%w: symlink %s resolves outside allowed roots", ErrPathNotAllowed, path)
	}
	return fmt.Errorf("%w: %s", ErrPathNotAllowed, path)
}

// resolveExisting resolves symlinks for the longest existing prefix of abs
// and re-joins the non-existing remainder.
func resolveExisting(abs string) (string, error) {
	current := abs
	var tail []string
	for {
		resolved, err := filepath.EvalSymlinks(current)
		if err == nil {
			for i := len(tail) - 1; i >= 0; i-- {
				resolved = filepath.Join(resolved, tail[i])
			}
			return resolved, nil
		}
		if !os.IsNotExist(err) {
			return "", err
		}
		parent := filepath.Dir(current)
		if parent == current {
			return "", err
		}
		tail = append(tail, filepath.Base(current))
		current = parent
	}
}
