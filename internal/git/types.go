package git

import "path/filepath"

// Branch sentinels reported for worktrees without a named branch.
const (
	BranchDetached = "detached"
	BranchUnknown  = "unknown"
)

// Worktree describes one entry of `git worktree list`.
type Worktree struct {
	// Name is the base name of the worktree directory
	Name string `json:"name" yaml:"name"`

	// Path is the absolute path to the worktree directory
	Path string `json:"path" yaml:"path"`

	// Branch is the checked out branch, or BranchDetached / BranchUnknown
	Branch string `json:"branch" yaml:"branch"`

	// Head is the commit hash of HEAD
	Head string `json:"head,omitempty" yaml:"head,omitempty"`

	Current    bool   `json:"current" yaml:"current"`
	Dirty      bool   `json:"dirty" yaml:"dirty"`
	Locked     bool   `json:"locked" yaml:"locked"`
	LockReason string `json:"lock_reason,omitempty" yaml:"lock_reason,omitempty"`
	Prunable   bool   `json:"prunable,omitempty" yaml:"prunable,omitempty"`

	// Main marks the primary worktree (or the bare repository entry)
	Main bool `json:"main" yaml:"main"`
	Bare bool `json:"bare,omitempty" yaml:"bare,omitempty"`
}

// IsDetached reports whether HEAD is not on a branch.
func (w Worktree) IsDetached() bool {
	return w.Branch == BranchDetached
}

// Linked returns the worktrees other than the main one.
func Linked(worktrees []Worktree) []Worktree {
	linked := make([]Worktree, 0, len(worktrees))
	for _, wt := range worktrees {
		if !wt.Main {
			linked = append(linked, wt)
		}
	}
	return linked
}

// FindByName returns the worktree whose directory name is name.
func FindByName(worktrees []Worktree, name string) (Worktree, bool) {
	for _, wt := range worktrees {
		if wt.Name == name {
			return wt, true
		}
	}
	return Worktree{}, false
}

// Names returns the directory names of worktrees, in order.
func Names(worktrees []Worktree) []string {
	names := make([]string, 0, len(worktrees))
	for _, wt := range worktrees {
		names = append(names, wt.Name)
	}
	return names
}

func worktreeName(path string) string {
	return filepath.Base(filepath.Clean(path))
}
