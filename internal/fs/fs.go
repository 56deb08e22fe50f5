package fs

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/google/uuid"
)

const (
	// Strict permissions (gosec-compliant defaults)
	DirStrict  = 0o750 // rwxr-x--- - gosec-compliant directory
	FileStrict = 0o600 // rw------- - gosec-compliant file

	// Git-compatible permissions (required for git metadata files)
	DirGit  = 0o755 // rwxr-xr-x - git-compatible directory
	FileGit = 0o644 // rw-r--r-- - git-compatible file

	// MaxDirectoryIterations limits upward directory walks.
	MaxDirectoryIterations = 100
)

// DirectoryExists checks if a directory exists
func DirectoryExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// FileExists checks if path exists and is a file (not a directory)
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// PathExists reports whether anything occupies path, including a dangling symlink.
func PathExists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// IsEmptyDir checks if a directory is empty
func IsEmptyDir(path string) (bool, error) {
	f, err := os.Open(path) // nolint:gosec // Controlled path for worktree cleanup
	if err != nil {
		return false, err
	}
	defer func() {
		_ = f.Close()
	}()

	_, err = f.Readdirnames(1)
	if err == nil {
		return false, nil
	}

	if errors.Is(err, io.EOF) {
		return true, nil
	}

	return false, err
}

// RemoveEmptyParents removes dir and its ancestors while they are empty,
// stopping at stop (exclusive). Used after a worktree removal so an emptied
// worktrees/ container does not linger.
func RemoveEmptyParents(dir, stop string) error {
	current := filepath.Clean(dir)
	for range MaxDirectoryIterations {
		if PathsEqual(current, stop) || !PathHasPrefix(current, stop) {
			return nil
		}
		empty, err := IsEmptyDir(current)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				current = filepath.Dir(current)
				continue
			}
			return err
		}
		if !empty {
			return nil
		}
		if err := os.Remove(current); err != nil {
			return err
		}
		current = filepath.Dir(current)
	}
	return nil
}

// WriteFileAtomic writes data to a file atomically by writing to a temp file then renaming
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	tmpPath := path + ".tmp." + uuid.NewString()
	if err := os.WriteFile(tmpPath, data, perm); err != nil {
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	return nil
}

// PathsEqual compares two cleaned paths for equality.
// On Windows, comparison is case-insensitive since the filesystem is case-insensitive.
func PathsEqual(path1, path2 string) bool {
	clean1 := filepath.Clean(path1)
	clean2 := filepath.Clean(path2)

	if runtime.GOOS == "windows" {
		return strings.EqualFold(clean1, clean2)
	}
	return clean1 == clean2
}

// PathHasPrefix checks if path is strictly inside prefix, accounting for path separators.
// On Windows, comparison is case-insensitive.
func PathHasPrefix(path, prefix string) bool {
	cleanPath := filepath.Clean(path)
	cleanPrefix := filepath.Clean(prefix)
	if !strings.HasSuffix(cleanPrefix, string(filepath.Separator)) {
		cleanPrefix += string(filepath.Separator)
	}

	if runtime.GOOS == "windows" {
		return strings.HasPrefix(strings.ToLower(cleanPath), strings.ToLower(cleanPrefix))
	}
	return strings.HasPrefix(cleanPath, cleanPrefix)
}

// IsInside reports whether path equals dir or lies beneath it.
func IsInside(path, dir string) bool {
	return PathsEqual(path, dir) || PathHasPrefix(path, dir)
}
