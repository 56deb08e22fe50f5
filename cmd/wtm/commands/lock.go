package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sqve/wtm/internal/errors"
	"github.com/sqve/wtm/internal/logger"
)

// NewLockCmd creates the lock command
func NewLockCmd() *cobra.Command {
	var reason string

	cmd := &cobra.Command{
		Use:   "lock <name>",
		Short: "Lock a worktree against removal and rename",
		Long: `Lock a worktree to prevent removal, pruning and rename.

Examples:
  wtm lock feat-auth                 # Lock worktree
  wtm lock usb-work --reason "USB"   # Lock with reason`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeWorktrees(false),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLock(cmd, args[0], reason)
		},
	}

	cmd.Flags().StringVar(&reason, "reason", "", "Reason for locking")

	return cmd
}

// NewUnlockCmd creates the unlock command
func NewUnlockCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "unlock <name>",
		Short:             "Unlock a worktree",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeWorktrees(false),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUnlock(cmd, args[0])
		},
	}
}

func runLock(cmd *cobra.Command, target, reason string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	worktrees, err := s.listWorktrees(true)
	if err != nil {
		return err
	}
	wt, err := findWorktree(worktrees, target)
	if err != nil {
		return err
	}
	if wt.Main {
		return errors.MainWorktree(wt.Name, "lock")
	}
	if wt.Locked {
		if wt.LockReason != "" {
			return fmt.Errorf("worktree %s is already locked: %q", wt.Name, wt.LockReason)
		}
		return fmt.Errorf("worktree %s is already locked", wt.Name)
	}

	if err := s.git.LockWorktree(s.repo.Root, wt.Path, reason); err != nil {
		return err
	}
	op := s.oplog.Begin("lock", zap.String("name", wt.Name), zap.String("reason", reason))
	op.Done()

	if reason != "" {
		logger.Success("Locked worktree %s (%s)", wt.Name, reason)
	} else {
		logger.Success("Locked worktree %s", wt.Name)
	}
	return nil
}

func runUnlock(cmd *cobra.Command, target string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	worktrees, err := s.listWorktrees(true)
	if err != nil {
		return err
	}
	wt, err := findWorktree(worktrees, target)
	if err != nil {
		return err
	}
	if !wt.Locked {
		return fmt.Errorf("worktree %s is not locked", wt.Name)
	}

	if err := s.git.UnlockWorktree(s.repo.Root, wt.Path); err != nil {
		return err
	}
	op := s.oplog.Begin("unlock", zap.String("name", wt.Name))
	op.Done()

	logger.Success("Unlocked worktree %s", wt.Name)
	return nil
}
