// Package pathguard confines externally supplied file paths to a fixed set of
// directories. Every path that arrives over the dispatch layer passes through a
// Guard before any read or delete touches the filesystem.
package pathguard

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrInvalidPath is returned when a path resolves outside every permitted directory.
var ErrInvalidPath = errors.New("invalid path")

// Guard validates that paths resolve inside one of its permitted directories.
// A Guard is immutable after construction and safe for concurrent use.
type Guard struct {
	dirs []string // canonical absolute paths, symlinks evaluated
}

// NewGuard creates a guard for the given directories. Directories need not exist
// yet; their nearest existing ancestor is used for symlink evaluation.
func NewGuard(dirs ...string) (*Guard, error) {
	if len(dirs) == 0 {
		return nil, fmt.Errorf("at least one permitted directory is required")
	}

	g := &Guard{dirs: make([]string, 0, len(dirs))}
	for _, dir := range dirs {
		if dir == "" {
			return nil, fmt.Errorf("permitted directory cannot be empty")
		}
		canonical, err := Canonicalize(dir)
		if err != nil {
			return nil, err
		}
		if !g.has(canonical) {
			g.dirs = append(g.dirs, canonical)
		}
	}
	return g, nil
}

// Canonicalize returns the absolute, cleaned, symlink-evaluated form of path.
// Paths produced by the screenshot manager use this form, so they compare equal
// to whatever Validate returns for the same file.
func Canonicalize(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %q: %w", path, err)
	}
	return resolveSymlinks(filepath.Clean(absPath)), nil
}

// Validate resolves candidate and returns its canonical absolute form when it lies
// strictly inside a permitted directory. Otherwise the error wraps ErrInvalidPath.
func (g *Guard) Validate(candidate string) (string, error) {
	if candidate == "" {
		return "", fmt.Errorf("%w: path cannot be empty", ErrInvalidPath)
	}

	resolved, err := Canonicalize(candidate)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidPath, err)
	}

	if !g.Contains(resolved) {
		return "", fmt.Errorf("%w: %q is outside allowed directories", ErrInvalidPath, candidate)
	}
	return resolved, nil
}

// Contains reports whether absPath (already canonical) is inside any permitted directory.
func (g *Guard) Contains(absPath string) bool {
	for _, dir := range g.dirs {
		if isInside(absPath, dir) {
			return true
		}
	}
	return false
}

// Dirs returns the canonical permitted directories in registration order.
func (g *Guard) Dirs() []string {
	out := make([]string, len(g.dirs))
	copy(out, g.dirs)
	return out
}

func (g *Guard) has(dir string) bool {
	for _, existing := range g.dirs {
		if existing == dir {
			return true
		}
	}
	return false
}

// isInside is the core check: the relative path from dir must neither climb out
// through a ".." segment nor come back absolute (different volume on Windows).
// The directory itself does not count as inside.
func isInside(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	if rel == "." || filepath.IsAbs(rel) {
		return false
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return false
	}
	return true
}

// resolveSymlinks evaluates symlinks in path. For paths that do not exist yet it
// walks up to the nearest existing ancestor, evaluates that, and re-appends the tail.
func resolveSymlinks(path string) string {
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		return resolved
	}

	var tail []string
	current := path
	for {
		dir := filepath.Dir(current)
		if dir == current {
			return path
		}
		tail = append(tail, filepath.Base(current))
		current = dir

		if resolved, err := filepath.EvalSymlinks(current); err == nil {
			for i := len(tail) - 1; i >= 0; i-- {
				resolved = filepath.Join(resolved, tail[i])
			}
			return resolved
		}
	}
}
