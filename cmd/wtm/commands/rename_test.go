package commands

import (
	"path/filepath"
	"testing"

	"github.com/sqve/wtm/internal/errors"
	"github.com/sqve/wtm/internal/testutil"
	testgit "github.com/sqve/wtm/internal/testutil/git"
)

func TestNewRenameCmd(t *testing.T) {
	cmd := NewRenameCmd()
	if cmd.Use != "rename <old> <new>" {
		t.Errorf("unexpected Use %q", cmd.Use)
	}
	if len(cmd.Aliases) == 0 || cmd.Aliases[0] != "mv" {
		t.Errorf("expected mv alias, got %v", cmd.Aliases)
	}
}

func TestRunRename_Integration(t *testing.T) {
	repo := setupRepo(t)
	oldPath := repo.AddWorktree(filepath.Join(repo.Dir, "feat"), "feat")
	newPath := filepath.Join(repo.Dir, "feature")
	testgit.CleanupWorktree(t, repo.Path, newPath)

	if _, err := testutil.ExecuteCommand(t, NewRenameCmd(), "feat", "feature"); err != nil {
		t.Fatal(err)
	}

	testutil.AssertPathMissing(t, oldPath)
	testutil.AssertPathExists(t, filepath.Join(newPath, ".git"))
	if branch := repo.CurrentBranch(newPath); branch != "feature" {
		t.Errorf("expected branch to follow the rename, got %q", branch)
	}

	t.Run("typo gets suggestions", func(t *testing.T) {
		_, err := testutil.ExecuteCommand(t, NewRenameCmd(), "featur", "other")
		if !errors.IsCode(err, errors.CodeWorktreeNotFound) {
			t.Fatalf("expected WORKTREE_NOT_FOUND, got %v", err)
		}
		if got := Suggestions(err); len(got) == 0 || got[0] != "feature" {
			t.Errorf("expected suggestion feature, got %v", got)
		}
	})

	t.Run("main worktree", func(t *testing.T) {
		_, err := testutil.ExecuteCommand(t, NewRenameCmd(), "proj", "other")
		if !errors.IsCode(err, errors.CodeMainWorktree) {
			t.Errorf("expected MAIN_WORKTREE, got %v", err)
		}
	})

	t.Run("current worktree", func(t *testing.T) {
		t.Chdir(newPath)
		_, err := testutil.ExecuteCommand(t, NewRenameCmd(), "feature", "other")
		if !errors.IsCode(err, errors.CodeCannotRenameCurrent) {
			t.Errorf("expected CANNOT_RENAME_CURRENT, got %v", err)
		}
	})
}

func TestRunRename_PostRenameHook(t *testing.T) {
	skipOnWindows(t)
	repo := setupRepo(t)
	repo.AddWorktree(filepath.Join(repo.Dir, "old"), "old")
	newPath := filepath.Join(repo.Dir, "new")
	testgit.CleanupWorktree(t, repo.Path, newPath)
	t.Setenv("WTM_HOOKS_POST_RENAME", `echo "$WTM_OLD_NAME->$WTM_WORKTREE_NAME" > renamed.txt`)

	if _, err := testutil.ExecuteCommand(t, NewRenameCmd(), "old", "new"); err != nil {
		t.Fatal(err)
	}
	testutil.AssertFileContent(t, filepath.Join(newPath, "renamed.txt"), "old->new")
}

func TestRunRename_ByBranch(t *testing.T) {
	repo := setupRepo(t)
	oldPath := repo.AddWorktree(filepath.Join(repo.Dir, "dir1"), "topic")
	newPath := filepath.Join(repo.Dir, "dir2")
	testgit.CleanupWorktree(t, repo.Path, newPath)

	if _, err := testutil.ExecuteCommand(t, NewRenameCmd(), " topic ", "dir2"); err != nil {
		t.Fatal(err)
	}

	testutil.AssertPathMissing(t, oldPath)
	testutil.AssertPathExists(t, filepath.Join(newPath, ".git"))
	if branch := repo.CurrentBranch(newPath); branch != "topic" {
		t.Errorf("expected branch topic to be kept, got %q", branch)
	}
}

func TestRunRename_TrimsNewName(t *testing.T) {
	skipOnWindows(t)
	repo := setupRepo(t)
	repo.AddWorktree(filepath.Join(repo.Dir, "old"), "old")
	newPath := filepath.Join(repo.Dir, "new")
	testgit.CleanupWorktree(t, repo.Path, newPath)
	t.Setenv("WTM_HOOKS_POST_RENAME", `echo "[$WTM_WORKTREE_NAME]" > renamed.txt`)

	if _, err := testutil.ExecuteCommand(t, NewRenameCmd(), "old", " new "); err != nil {
		t.Fatal(err)
	}

	testutil.AssertFileContent(t, filepath.Join(newPath, "renamed.txt"), "[new]")
	if branch := repo.CurrentBranch(newPath); branch != "new" {
		t.Errorf("expected branch new, got %q", branch)
	}
}
