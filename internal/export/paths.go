// paths.go — Path safety checks shared by every file-writing exporter.
// Writes are allowed only under the current working directory or the temp
// directory, after resolving symlinks on the longest existing prefix.
package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnsafePath is returned when an output path escapes the allowed directories.
var ErrUnsafePath = errors.New("unsafe output path")

// FileResult describes a file written by an exporter.
type FileResult struct {
	SavedTo       string `json:"saved_to"`
	FileSizeBytes int64  `json:"file_size_bytes"`
}

// resolveExistingPath resolves symlinks on the longest existing prefix of the path.
// For paths where the file doesn't exist yet, it resolves the nearest existing
// ancestor and appends the remaining path components.
func resolveExistingPath(path string) string {
	path = filepath.Clean(path)
	resolved, err := filepath.EvalSymlinks(path)
	if err == nil {
		return resolved
	}
	parent := filepath.Dir(path)
	if parent == path {
		return path
	}
	return filepath.Join(resolveExistingPath(parent), filepath.Base(path))
}

func isUnderDir(resolvedPath, dir string) bool {
	resolved, err := filepath.EvalSymlinks(dir)
	if err != nil {
		return false
	}
	return strings.HasPrefix(resolvedPath, resolved+string(os.PathSeparator))
}

// SafePath returns the absolute form of path when it is under the working
// directory or the temp directory.
func SafePath(path string) (string, error) {
	if path == "" || strings.Contains(path, "..") {
		return "", fmt.Errorf("%w: %q", ErrUnsafePath, path)
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve path: %w", err)
	}

	resolved := resolveExistingPath(absPath)
	if isUnderDir(resolved, os.TempDir()) {
		return absPath, nil
	}
	if cwd, err := os.Getwd(); err == nil && isUnderDir(resolved, cwd) {
		return absPath, nil
	}
	return "", fmt.Errorf("%w: %s must be under the working directory or temp directory", ErrUnsafePath, absPath)
}

// WriteFile writes data to a checked path, creating parent directories.
func WriteFile(path string, data []byte) (FileResult, error) {
	absPath, err := SafePath(path)
	if err != nil {
		return FileResult{}, err
	}
	// #nosec G301 -- 0755 for export directory is appropriate
	if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
		return FileResult{}, fmt.Errorf("create directory: %w", err)
	}
	// #nosec G306 -- export files are intentionally world-readable
	if err := os.WriteFile(absPath, data, 0o644); err != nil {
		return FileResult{}, fmt.Errorf("write %s: %w", absPath, err)
	}
	return FileResult{SavedTo: absPath, FileSizeBytes: int64(len(data))}, nil
}
