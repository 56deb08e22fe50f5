package rename

import "github.com/sqve/wtm/internal/git"

// WorktreeLister supplies the current worktree set.
type WorktreeLister interface {
	ListWorktrees(repoDir string, opts git.ListOptions) ([]git.Worktree, error)
}

// BranchRenamer renames a local branch.
type BranchRenamer interface {
	RenameBranch(repoDir, oldName, newName string) error
}
