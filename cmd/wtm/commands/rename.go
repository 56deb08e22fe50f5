package commands

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sqve/wtm/internal/hooks"
	"github.com/sqve/wtm/internal/logger"
	"github.com/sqve/wtm/internal/rename"
)

// NewRenameCmd creates the rename command
func NewRenameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rename <old> <new>",
		Short: "Rename a worktree",
		Long: `Rename a linked worktree directory and its Git metadata.

<old> is a worktree name or the branch checked out in it. The branch is
renamed too when it has the same name as the worktree. The
current worktree, the main worktree and worktrees with a detached HEAD cannot
be renamed.

Examples:
  wtm rename feat-auth feature-auth`,
		Aliases:           []string{"mv"},
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: completeRenameArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRename(cmd, args[0], args[1])
		},
	}

	return cmd
}

func runRename(cmd *cobra.Command, target, newName string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	result, err := s.renameWorktree(cmd, target, newName)
	if err != nil {
		return err
	}

	logger.Success("Renamed worktree %s to %s", result.OldName, result.NewName)
	if result.BranchRenamed {
		logger.Info("Renamed branch %s to %s", result.OldBranch, result.NewBranch)
	}

	op := s.oplog.Begin("post_rename", zap.String("name", result.NewName), zap.String("old_name", result.OldName))
	s.runHooks(hooks.EventPostRename, result.NewPath, hooks.Env{Name: result.NewName, Path: result.NewPath, OldName: result.OldName}, op)
	op.Done()

	return nil
}

// renameWorktree resolves target by name or branch under the lock and
// renames the worktree it names.
func (s *session) renameWorktree(cmd *cobra.Command, target, newName string) (*rename.Result, error) {
	lock, err := s.lock(cmd.Context())
	if err != nil {
		return nil, err
	}
	defer releaseLock(lock)

	worktrees, err := s.listWorktrees(true)
	if err != nil {
		return nil, err
	}
	wt, err := findWorktree(worktrees, target)
	if err != nil {
		return nil, err
	}

	return rename.NewService(s.repo, s.git, s.git, s.oplog, s.cwd).Rename(wt.Name, newName)
}

func completeRenameArgs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) != 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return completeWorktrees(true)(cmd, args, toComplete)
}
