package rename

// Rename steps, in execution order. They label operation log entries and
// partial-failure errors.
const (
	StepMoveDirectory     = "move directory"
	StepRelocateMetadata  = "relocate metadata"
	StepRewriteBackRef    = "rewrite back-reference"
	StepRewriteForwardRef = "rewrite forward-reference"
	StepRenameBranch      = "rename branch"
)

// Plan is a rename whose preconditions have been checked.
type Plan struct {
	OldName string
	NewName string
	OldPath string
	NewPath string

	// OldAdminDir and NewAdminDir are Git's per-worktree metadata
	// directories under <common dir>/worktrees.
	OldAdminDir string
	NewAdminDir string

	OldBranch string
	// NewBranch is set when RenameBranch is true.
	NewBranch    string
	RenameBranch bool
}

// Result describes a completed rename.
type Result struct {
	OldName string
	// NewName is the validated name, with surrounding whitespace removed.
	NewName string
	NewPath string

	// OldBranch is the branch checked out in the worktree. NewBranch equals
	// it unless the branch was renamed.
	OldBranch string
	NewBranch string

	// BranchRenamed is true when the branch followed the worktree name.
	BranchRenamed bool

	// BranchErr holds the best-effort branch rename failure. The worktree
	// rename itself succeeded when this is set.
	BranchErr error
}
