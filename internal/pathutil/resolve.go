package pathutil

import (
	"fmt"
	"os"
	"strings"
)

// Resolver turns possibly-relative, possibly-home-relative paths into absolute
// normalized ones. The working directory and home directory come from injected
// providers rather than the process environment, so resolution is testable
// offline.
type Resolver struct {
	Cwd  func() (string, error)
	Home func() (string, error)
}

// DefaultResolver resolves against the real process environment.
func DefaultResolver() Resolver {
	return Resolver{Cwd: os.Getwd, Home: os.UserHomeDir}
}

// Abs expands a leading `~` to the home directory, prefixes relative paths
// with the working directory, and normalizes the result.
func (r Resolver) Abs(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := r.Home()
		if err != nil {
			return "", fmt.Errorf("expand ~: %w", err)
		}
		path = home + strings.TrimPrefix(path, "~")
	}

	if !strings.HasPrefix(path, sep) {
		cwd, err := r.Cwd()
		if err != nil {
			return "", fmt.Errorf("resolve relative path %q: %w", path, err)
		}
		path = cwd + sep + path
	}

	return Normalize(path), nil
}

// Join appends path to base and normalizes. An absolute path replaces the
// base entirely; a relative result stays relative.
func Join(base, path string) string {
	if base == "" || strings.HasPrefix(path, sep) {
		return Normalize(path)
	}
	return Normalize(base + sep + path)
}
