package services

import (
	"os"
	"path/filepath"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// normalizePaths makes paths absolute and drops empties and duplicates while
// keeping the original order.
func normalizePaths(paths []string) ([]string, error) {
	seen := make(map[string]struct{})
	result := make([]string, 0, len(paths))
	for _, path := range paths {
		if path == "" {
			continue
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, errors.Errorf("resolve %s: %w", path, err)
		}
		clean := filepath.Clean(abs)
		if _, ok := seen[clean]; ok {
			continue
		}
		seen[clean] = struct{}{}
		result = append(result, clean)
	}
	return result, nil
}

func resolveDestination(destination string) (string, error) {
	if destination == "" {
		return "", errors.Errorf("%w: destination required", ErrInvalidRequest)
	}
	abs, err := filepath.Abs(destination)
	if err != nil {
		return "", errors.Errorf("resolve %s: %w", destination, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", errors.Errorf("%w: destination %s: %s", ErrInvalidRequest, abs, err.Error())
	}
	if !info.IsDir() {
		return "", errors.Errorf("%w: destination %s is not a directory", ErrInvalidRequest, abs)
	}
	return filepath.Clean(abs), nil
}

// isWithin reports whether path is parent or lies below it.
func isWithin(parent, path string) bool {
	rel, err := filepath.Rel(filepath.Clean(parent), filepath.Clean(path))
	if err != nil {
		return false
	}
	if rel == "." {
		return true
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
