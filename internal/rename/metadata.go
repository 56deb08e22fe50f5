package rename

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sqve/wtm/internal/fs"
)

const gitdirPrefix = "gitdir:"

// readForwardRef returns the metadata directory named by the .git file in a
// linked worktree.
func readForwardRef(worktreePath string) (string, error) {
	data, err := os.ReadFile(filepath.Join(worktreePath, ".git")) // nolint:gosec // Path derived from git worktree list
	if err != nil {
		return "", err
	}

	content := strings.TrimSpace(string(data))
	if !strings.HasPrefix(content, gitdirPrefix) {
		return "", fmt.Errorf("%s/.git is not a gitdir file", worktreePath)
	}

	dir := filepath.FromSlash(strings.TrimSpace(strings.TrimPrefix(content, gitdirPrefix)))
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(worktreePath, dir)
	}
	return filepath.Clean(dir), nil
}

// writeForwardRef points the worktree's .git file at adminDir.
func writeForwardRef(worktreePath, adminDir string) error {
	content := gitdirPrefix + " " + filepath.ToSlash(adminDir) + "\n"
	return fs.WriteFileAtomic(filepath.Join(worktreePath, ".git"), []byte(content), fs.FileGit)
}

// writeBackRef records the worktree's .git file path in adminDir/gitdir.
func writeBackRef(adminDir, worktreePath string) error {
	content := filepath.ToSlash(filepath.Join(worktreePath, ".git")) + "\n"
	return fs.WriteFileAtomic(filepath.Join(adminDir, "gitdir"), []byte(content), fs.FileGit)
}
