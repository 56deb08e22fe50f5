package commands

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sqve/wtm/internal/config"
	"github.com/sqve/wtm/internal/errors"
	"github.com/sqve/wtm/internal/git"
	"github.com/sqve/wtm/internal/hooks"
	"github.com/sqve/wtm/internal/logger"
	"github.com/sqve/wtm/internal/styles"
	"github.com/sqve/wtm/internal/workspace"
)

// session is the state shared by commands that act on a repository.
type session struct {
	cwd   string
	git   *git.Client
	repo  *git.Repo
	cfg   *config.Config
	oplog *logger.OpLog
}

// openSession discovers the repository containing the working directory and
// loads its configuration. Callers must close the session.
func openSession(cmd *cobra.Command) (*session, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, errors.FileSystem("get current directory", err)
	}

	client := git.NewClient(nil)
	repo, err := client.Discover(cwd)
	if err != nil {
		return nil, err
	}

	cfg, err := loadConfig(cmd, repo.Root)
	if err != nil {
		return nil, err
	}

	return &session{
		cwd:  cwd,
		git:  client,
		repo: repo,
		cfg:  cfg,
		oplog: logger.OpenOpLog(logger.OpLogConfig{
			FilePath: cfg.Log.File,
			Level:    cfg.Log.Level,
		}),
	}, nil
}

// loadConfig merges configuration for projectRoot, which may be empty, and
// applies its output settings.
func loadConfig(cmd *cobra.Command, projectRoot string) (*config.Config, error) {
	cfg, err := config.Load(projectRoot, cmd.Flags())
	if err != nil {
		return nil, err
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}

	config.Apply(cfg)
	if !config.IsPlain() && styles.ShouldUsePlain() {
		config.Global.Plain = true
	}
	return cfg, nil
}

func (s *session) close() {
	if err := s.oplog.Close(); err != nil {
		logger.Debug("Failed to close operation log: %v", err)
	}
}

// lock takes the repository-wide lock guarding worktree creation, removal
// and rename.
func (s *session) lock(ctx context.Context) (*workspace.Lock, error) {
	return workspace.AcquireLock(ctx, workspace.LockPath(s.repo.CommonDir), s.cfg.Lock.Timeout)
}

// listWorktrees lists worktrees with the current one marked. Dirty checks
// are skipped when fast is set.
func (s *session) listWorktrees(fast bool) ([]git.Worktree, error) {
	return s.git.ListWorktrees(s.repo.Root, git.ListOptions{CurrentDir: s.cwd, Fast: fast})
}

// runHooks runs the configured commands for event in workDir and records
// each result on op. It reports whether every hook succeeded.
func (s *session) runHooks(event, workDir string, env hooks.Env, op *logger.Op) bool {
	commands := s.cfg.Hooks.For(event)
	if len(commands) == 0 {
		return true
	}

	env.Event = event
	result := hooks.Run(workDir, commands, env, os.Stderr)
	for _, c := range result.Succeeded {
		op.Step("hook", zap.String("event", event), zap.String("command", c))
	}

	if failed := result.Failed; failed != nil {
		op.Warn("hook", failed.Err,
			zap.String("event", event),
			zap.String("command", failed.Command),
			zap.Int("exit_code", failed.ExitCode),
		)
		logger.Warning("%s hook failed (exit %d): %s", event, failed.ExitCode, failed.Command)
		return false
	}
	return true
}

func releaseLock(lock *workspace.Lock) {
	if err := lock.Release(); err != nil {
		logger.Debug("Failed to release lock: %v", err)
	}
}
