package git

import (
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sqve/wtm/internal/testutil"
)

// TestRepo provides a test git repository with proper configuration
type TestRepo struct {
	t    *testing.T
	Dir  string
	Path string
}

// NewTestRepo creates a repository at <tempdir>/<name> (default "repo")
// with an initial commit on main.
func NewTestRepo(t *testing.T, name ...string) *TestRepo {
	t.Helper()

	dir := testutil.TempDir(t)
	repoName := "repo"
	if len(name) > 0 && name[0] != "" {
		repoName = name[0]
	}
	repoPath := filepath.Join(dir, repoName)
	testutil.Mkdir(t, repoPath)

	r := &TestRepo{t: t, Dir: dir, Path: repoPath}
	r.Git("init", "-b", "main")

	for _, cfg := range [][]string{
		{"commit.gpgsign", "false"},
		{"tag.gpgsign", "false"},
		{"user.email", "test@example.com"},
		{"user.name", "Test User"},
	} {
		r.Git("config", cfg[0], cfg[1])
	}

	r.WriteFile("README.md", "test")
	r.Git("add", ".")
	r.Git("commit", "-m", "initial")

	return r
}

// Git runs git in the repository and returns trimmed stdout.
func (r *TestRepo) Git(args ...string) string {
	r.t.Helper()
	return r.GitIn(r.Path, args...)
}

// GitIn runs git in dir and returns trimmed stdout.
func (r *TestRepo) GitIn(dir string, args ...string) string {
	r.t.Helper()
	cmd := exec.Command("git", args...) // nolint:gosec // Test helper with controlled input
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		r.t.Fatalf("git %s failed: %v\n%s", strings.Join(args, " "), err, out)
	}
	return strings.TrimSpace(string(out))
}

// CreateBranch creates a new branch at the current HEAD
func (r *TestRepo) CreateBranch(name string) {
	r.t.Helper()
	r.Git("branch", name)
}

// Tag creates a lightweight tag at the current HEAD.
func (r *TestRepo) Tag(name string) {
	r.t.Helper()
	r.Git("tag", name)
}

// WriteFile writes content to a file in the repository
func (r *TestRepo) WriteFile(name, content string) {
	r.t.Helper()
	testutil.WriteFile(r.t, filepath.Join(r.Path, name), content)
}

// AddWorktree creates a linked worktree at path on a new branch and
// registers its removal on cleanup.
func (r *TestRepo) AddWorktree(path, branch string) string {
	r.t.Helper()
	r.Git("worktree", "add", "-b", branch, path)
	CleanupWorktree(r.t, r.Path, path)
	return path
}

// AddDetachedWorktree creates a linked worktree with a detached HEAD.
func (r *TestRepo) AddDetachedWorktree(path string) string {
	r.t.Helper()
	r.Git("worktree", "add", "--detach", path)
	CleanupWorktree(r.t, r.Path, path)
	return path
}

// CurrentBranch returns the branch checked out in dir.
func (r *TestRepo) CurrentBranch(dir string) string {
	r.t.Helper()
	return r.GitIn(dir, "rev-parse", "--abbrev-ref", "HEAD")
}

// CleanupWorktree registers cleanup for a worktree path to release Windows file locks.
// Call this after creating a worktree with git worktree add.
func CleanupWorktree(t *testing.T, repoDir, worktreePath string) {
	t.Helper()
	t.Cleanup(func() {
		cmd := exec.Command("git", "worktree", "remove", "--force", worktreePath) // nolint:gosec
		cmd.Dir = repoDir
		_ = cmd.Run()
	})
}
