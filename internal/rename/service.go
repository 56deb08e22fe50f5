package rename

import (
	"path/filepath"

	"go.uber.org/zap"

	"github.com/sqve/wtm/internal/errors"
	"github.com/sqve/wtm/internal/fs"
	"github.com/sqve/wtm/internal/git"
	"github.com/sqve/wtm/internal/logger"
	"github.com/sqve/wtm/internal/validation"
)

// Service renames linked worktrees. The rename is a fixed sequence of
// filesystem steps with no rollback; a failure after the directory move is
// reported as a partial failure naming the step that stopped it.
type Service struct {
	repo     *git.Repo
	lister   WorktreeLister
	branches BranchRenamer
	oplog    *logger.OpLog

	// currentDir is the process working directory. The worktree containing
	// it cannot be renamed.
	currentDir string
}

// NewService creates a rename service for repo. oplog may be nil.
func NewService(repo *git.Repo, lister WorktreeLister, branches BranchRenamer, oplog *logger.OpLog, currentDir string) *Service {
	return &Service{
		repo:       repo,
		lister:     lister,
		branches:   branches,
		oplog:      oplog,
		currentDir: currentDir,
	}
}

// Rename checks preconditions and executes the rename of oldName to newName.
func (s *Service) Rename(oldName, newName string) (*Result, error) {
	plan, err := s.Plan(oldName, newName)
	if err != nil {
		return nil, err
	}
	return s.Execute(plan)
}

// Plan validates the rename without touching the filesystem.
func (s *Service) Plan(oldName, newName string) (*Plan, error) {
	name, err := validation.ValidateWorktreeName(newName)
	if err != nil {
		return nil, err
	}
	if name.String() == oldName {
		return nil, errors.SameName(oldName)
	}

	worktrees, err := s.lister.ListWorktrees(s.repo.Root, git.ListOptions{CurrentDir: s.currentDir, Fast: true})
	if err != nil {
		return nil, err
	}

	rec, ok := git.FindByName(worktrees, oldName)
	if !ok {
		return nil, errors.WorktreeNotFound(oldName)
	}
	if rec.Main {
		return nil, errors.MainWorktree(oldName, "rename")
	}

	newPath := filepath.Join(filepath.Dir(rec.Path), name.String())
	if fs.PathExists(newPath) {
		return nil, errors.TargetExists(newPath)
	}
	if rec.Current || (s.currentDir != "" && fs.IsInside(s.currentDir, rec.Path)) {
		return nil, errors.CannotRenameCurrent(oldName)
	}
	if rec.IsDetached() {
		return nil, errors.DetachedHead(oldName)
	}
	if rec.Locked {
		return nil, errors.WorktreeLocked(oldName)
	}

	oldAdmin, err := readForwardRef(rec.Path)
	if err != nil {
		logger.Debug("Falling back to default metadata directory for %s: %v", oldName, err)
		oldAdmin = s.repo.AdminDir(oldName)
	}
	newAdmin := filepath.Join(filepath.Dir(oldAdmin), name.String())
	if fs.PathExists(newAdmin) {
		return nil, errors.TargetExists(newAdmin)
	}

	plan := &Plan{
		OldName:     oldName,
		NewName:     name.String(),
		OldPath:     rec.Path,
		NewPath:     newPath,
		OldAdminDir: oldAdmin,
		NewAdminDir: newAdmin,
		OldBranch:   rec.Branch,
	}
	if rec.Branch == oldName {
		plan.RenameBranch = true
		plan.NewBranch = name.String()
	}
	return plan, nil
}

// Execute performs the steps of plan in order. Steps after the directory
// move are not undone when a later one fails.
func (s *Service) Execute(plan *Plan) (*Result, error) {
	op := s.oplog.Begin("rename",
		zap.String("old_name", plan.OldName),
		zap.String("new_name", plan.NewName),
		zap.String("old_path", plan.OldPath),
		zap.String("new_path", plan.NewPath),
		zap.String("old_admin_dir", plan.OldAdminDir),
		zap.String("new_admin_dir", plan.NewAdminDir),
	)

	if err := moveDir(plan.OldPath, plan.NewPath); err != nil {
		op.Fail(StepMoveDirectory, err)
		return nil, errors.FileSystem(StepMoveDirectory, err)
	}
	op.Step(StepMoveDirectory)
	completed := []string{StepMoveDirectory}

	steps := []struct {
		name string
		run  func() error
	}{
		{StepRelocateMetadata, func() error { return moveDir(plan.OldAdminDir, plan.NewAdminDir) }},
		{StepRewriteBackRef, func() error { return writeBackRef(plan.NewAdminDir, plan.NewPath) }},
		{StepRewriteForwardRef, func() error { return writeForwardRef(plan.NewPath, plan.NewAdminDir) }},
	}
	for _, step := range steps {
		if err := step.run(); err != nil {
			op.Fail(step.name, err, zap.Strings("completed", completed))
			return nil, errors.PartialRename(step.name, completed, err)
		}
		op.Step(step.name)
		completed = append(completed, step.name)
	}

	result := &Result{
		OldName:   plan.OldName,
		NewName:   plan.NewName,
		NewPath:   plan.NewPath,
		OldBranch: plan.OldBranch,
		NewBranch: plan.OldBranch,
	}

	if plan.RenameBranch {
		if err := s.branches.RenameBranch(s.repo.Root, plan.OldBranch, plan.NewBranch); err != nil {
			op.Warn(StepRenameBranch, err)
			logger.Warning("Worktree renamed, but branch %s was not renamed: %v", plan.OldBranch, err)
			result.BranchErr = err
		} else {
			op.Step(StepRenameBranch, zap.String("branch", plan.NewBranch))
			result.BranchRenamed = true
			result.NewBranch = plan.NewBranch
		}
	}

	op.Done()
	return result, nil
}
