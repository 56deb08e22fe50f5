package commands

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sqve/wtm/internal/errors"
	"github.com/sqve/wtm/internal/fs"
	"github.com/sqve/wtm/internal/git"
	"github.com/sqve/wtm/internal/hooks"
	"github.com/sqve/wtm/internal/logger"
	"github.com/sqve/wtm/internal/prompt"
)

// ErrConfirmationRequired is returned when removal needs confirmation but
// no terminal is attached.
var ErrConfirmationRequired = errors.New("confirmation required: rerun with --yes")

type removeOptions struct {
	force        bool
	deleteBranch bool
	yes          bool
}

// NewRemoveCmd creates the remove command
func NewRemoveCmd() *cobra.Command {
	var opts removeOptions

	cmd := &cobra.Command{
		Use:   "remove <name>...",
		Short: "Remove worktrees",
		Long: `Remove one or more worktrees, optionally deleting their branches.

Accepts worktree names (directories) or branch names. The current and the
main worktree are never removed.

Examples:
  wtm remove feature-login            # Remove after confirmation
  wtm remove -y old-spike wip         # Remove several without asking
  wtm remove --force --delete-branch wip`,
		Aliases:           []string{"rm"},
		Args:              cobra.MinimumNArgs(1),
		ValidArgsFunction: completeWorktrees(true),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRemove(cmd, args, opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.force, "force", "f", false, "Remove even if dirty or locked")
	cmd.Flags().BoolVarP(&opts.deleteBranch, "delete-branch", "d", false, "Also delete the branch")
	cmd.Flags().BoolVarP(&opts.yes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}

func runRemove(cmd *cobra.Command, targets []string, opts removeOptions) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	worktrees, err := s.listWorktrees(true)
	if err != nil {
		return err
	}

	// Resolve every target before removing anything
	seen := make(map[string]bool)
	var selected []git.Worktree
	for _, target := range targets {
		wt, err := findWorktree(worktrees, target)
		if err != nil {
			return err
		}
		if seen[wt.Path] {
			continue
		}
		seen[wt.Path] = true
		selected = append(selected, wt)
	}

	if !opts.yes {
		ok, err := confirmRemoval(prompt.Default(), selected, opts.deleteBranch)
		if err != nil {
			return err
		}
		if !ok {
			logger.Info("Nothing removed")
			return nil
		}
	}

	lock, err := s.lock(cmd.Context())
	if err != nil {
		return err
	}
	defer releaseLock(lock)

	// Safety checks use the state seen under the lock.
	worktrees, err = s.listWorktrees(false)
	if err != nil {
		return err
	}
	selected, err = refreshSelection(selected, worktrees)
	if err != nil {
		return err
	}

	op := s.oplog.Begin("remove",
		zap.Strings("names", git.Names(selected)),
		zap.Bool("force", opts.force),
		zap.Bool("delete_branch", opts.deleteBranch),
	)

	var removed, failed []string
	for _, wt := range selected {
		if err := s.removeWorktree(wt, opts, op); err != nil {
			logger.Error("%s: %v", wt.Name, err)
			op.Fail("remove", err, zap.String("name", wt.Name))
			failed = append(failed, wt.Name)
			continue
		}
		removed = append(removed, wt.Name)
	}
	op.Done(zap.Strings("removed", removed), zap.Strings("failed", failed))

	switch len(removed) {
	case 0:
	case 1:
		logger.Success("Removed worktree %s", removed[0])
	default:
		logger.Success("Removed %d worktrees", len(removed))
		for _, name := range removed {
			logger.ListItem("%s", name)
		}
	}

	if len(failed) > 0 {
		return fmt.Errorf("failed to remove: %s", strings.Join(failed, ", "))
	}
	return nil
}

// refreshSelection replaces each selected worktree with its entry in
// current. A worktree that disappeared in between is an error.
func refreshSelection(selected, current []git.Worktree) ([]git.Worktree, error) {
	refreshed := make([]git.Worktree, 0, len(selected))
	for _, wt := range selected {
		i := slices.IndexFunc(current, func(c git.Worktree) bool { return fs.PathsEqual(c.Path, wt.Path) })
		if i < 0 {
			return nil, errors.WorktreeNotFound(wt.Name)
		}
		refreshed = append(refreshed, current[i])
	}
	return refreshed, nil
}

func confirmRemoval(p *prompt.Prompter, selected []git.Worktree, deleteBranch bool) (bool, error) {
	if !p.Interactive() {
		return false, ErrConfirmationRequired
	}

	what := "worktree"
	if len(selected) > 1 {
		what = fmt.Sprintf("%d worktrees", len(selected))
	}
	if deleteBranch {
		what += " and branch"
		if len(selected) > 1 {
			what += "es"
		}
	}
	return p.Confirm(fmt.Sprintf("Remove %s %s?", what, strings.Join(git.Names(selected), ", ")), false)
}

// checkRemovable refuses the main worktree, the worktree containing cwd,
// and, without force, dirty or locked worktrees.
func checkRemovable(wt git.Worktree, cwd string, force bool) error {
	switch {
	case wt.Main:
		return errors.MainWorktree(wt.Name, "remove")
	case wt.Current || fs.IsInside(cwd, wt.Path):
		return errors.CannotRemoveCurrent(wt.Name)
	case force:
		return nil
	case wt.Dirty:
		return errors.WorktreeDirty(wt.Name)
	case wt.Locked:
		return errors.WorktreeLocked(wt.Name)
	}
	return nil
}

func (s *session) removeWorktree(wt git.Worktree, opts removeOptions, op *logger.Op) error {
	if err := checkRemovable(wt, s.cwd, opts.force); err != nil {
		return err
	}

	env := hooks.Env{Name: wt.Name, Path: wt.Path}
	if !s.runHooks(hooks.EventPreRemove, wt.Path, env, op) && !opts.force {
		return errors.New("pre_remove hook failed; use --force to remove anyway")
	}

	// git refuses a locked worktree unless forced twice
	unlocked := false
	if wt.Locked {
		if err := s.git.UnlockWorktree(s.repo.Root, wt.Path); err != nil {
			logger.Debug("Failed to unlock worktree %s: %v", wt.Name, err)
		} else {
			unlocked = true
		}
	}

	if err := s.git.RemoveWorktree(s.repo.Root, wt.Path, opts.force); err != nil {
		if unlocked {
			s.restoreLock(wt, op)
		}
		return err
	}
	op.Step("git worktree remove", zap.String("name", wt.Name), zap.String("path", wt.Path))

	if fs.IsInside(wt.Path, s.repo.Root) {
		if err := fs.RemoveEmptyParents(filepath.Dir(wt.Path), s.repo.Root); err != nil {
			logger.Debug("Failed to clean up empty directories above %s: %v", wt.Path, err)
		}
	}

	if opts.deleteBranch && !wt.IsDetached() && wt.Branch != git.BranchUnknown {
		if err := s.git.DeleteBranch(s.repo.Root, wt.Branch, opts.force); err != nil {
			op.Warn("delete branch", err, zap.String("branch", wt.Branch))
			logger.Warning("%s: worktree removed, but branch %s was not deleted: %v", wt.Name, wt.Branch, err)
		} else {
			op.Step("delete branch", zap.String("branch", wt.Branch))
		}
	}

	s.runHooks(hooks.EventPostRemove, s.repo.Root, env, op)
	return nil
}

// restoreLock locks wt again with its original reason after a failed removal.
func (s *session) restoreLock(wt git.Worktree, op *logger.Op) {
	if err := s.git.LockWorktree(s.repo.Root, wt.Path, wt.LockReason); err != nil {
		op.Warn("restore lock", err, zap.String("name", wt.Name))
		logger.Warning("%s: worktree is no longer locked: %v", wt.Name, err)
		return
	}
	op.Step("restore lock", zap.String("name", wt.Name))
}
