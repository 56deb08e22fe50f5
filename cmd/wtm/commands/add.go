package commands

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sqve/wtm/internal/config"
	"github.com/sqve/wtm/internal/errors"
	"github.com/sqve/wtm/internal/fs"
	"github.com/sqve/wtm/internal/git"
	"github.com/sqve/wtm/internal/hooks"
	"github.com/sqve/wtm/internal/logger"
	"github.com/sqve/wtm/internal/prompt"
	"github.com/sqve/wtm/internal/validation"
	"github.com/sqve/wtm/internal/workspace"
)

type addOptions struct {
	location string
	path     string
	branch   string
	from     string
	switchTo bool
}

// NewAddCmd creates the add command
func NewAddCmd() *cobra.Command {
	var opts addOptions

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a worktree",
		Long: `Create a worktree named <name> on a branch of the same name.

The branch is created when it does not exist yet. The worktree is placed next
to the existing worktrees; for the first worktree the location is asked for
interactively, or taken from worktree.default_location.

Examples:
  wtm add feature-login                       # Follow the existing layout
  wtm add fix --branch bugfix/crash           # Use a different branch name
  wtm add hotfix --from v1.2.0                # Branch off a tag
  wtm add spike --location subdirectory       # Force <project>/worktrees/spike
  wtm add spike --location custom --path tmp  # <project>/tmp/spike
  cd "$(wtm add review --switch)"             # Print the path for cd`,
		Args: cobra.ExactArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			return nil, cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdd(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.location, "location", "l", "", "Placement: same-level, subdirectory or custom")
	cmd.Flags().StringVarP(&opts.path, "path", "p", "", "Directory for the custom location, relative to the project")
	cmd.Flags().StringVarP(&opts.branch, "branch", "b", "", "Branch to check out (default: the worktree name)")
	cmd.Flags().StringVar(&opts.from, "from", "", "Start point for a new branch")
	cmd.Flags().BoolVarP(&opts.switchTo, "switch", "s", false, "Print the new worktree path to stdout")

	_ = cmd.RegisterFlagCompletionFunc("location", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return config.ValidLocations(), cobra.ShellCompDirectiveNoFileComp
	})
	_ = cmd.RegisterFlagCompletionFunc("from", completeRefs)
	_ = cmd.RegisterFlagCompletionFunc("branch", completeBranches)

	return cmd
}

func runAdd(cmd *cobra.Command, rawName string, opts addOptions) error {
	name, err := validation.ValidateWorktreeName(rawName)
	if err != nil {
		return err
	}
	if opts.location != "" {
		if _, err := workspace.ParseLocation(opts.location); err != nil {
			return err
		}
	}
	if opts.path != "" && opts.location != "" && opts.location != workspace.LocationCustom {
		return fmt.Errorf("--path only applies to the %s location", workspace.LocationCustom)
	}

	branch := name.String()
	if opts.branch != "" {
		if err := validation.ValidateBranchName(opts.branch); err != nil {
			return err
		}
		branch = opts.branch
	}

	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	op := s.oplog.Begin("add",
		zap.String("name", name.String()),
		zap.String("branch", branch),
		zap.String("from", opts.from),
	)

	path, err := s.createWorktree(cmd, name, branch, opts, op)
	if err != nil {
		return err
	}

	s.runHooks(hooks.EventPostCreate, path, hooks.Env{Name: name.String(), Path: path}, op)
	op.Done(zap.String("path", path))

	if opts.switchTo {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), path)
	}
	return nil
}

// createWorktree resolves the path and runs git worktree add while holding
// the repository lock.
func (s *session) createWorktree(cmd *cobra.Command, name validation.WorktreeName, branch string, opts addOptions, op *logger.Op) (string, error) {
	lock, err := s.lock(cmd.Context())
	if err != nil {
		op.Fail("acquire lock", err)
		return "", err
	}
	defer releaseLock(lock)

	worktrees, err := s.listWorktrees(true)
	if err != nil {
		op.Fail("list worktrees", err)
		return "", err
	}
	if existing, ok := git.FindByName(worktrees, name.String()); ok {
		return "", errors.TargetExists(existing.Path)
	}

	planOpts := workspace.PlanOptions{
		Location:         opts.location,
		CustomDir:        opts.path,
		DefaultLocation:  s.cfg.Worktree.DefaultLocation,
		DefaultCustomDir: s.cfg.Worktree.CustomDir,
	}
	if p := prompt.Default(); p.Interactive() {
		planOpts.Choose = locationChooser(p, s.cfg)
	}

	plan, err := workspace.PlanNewWorktree(s.repo.Root, name, worktrees, planOpts)
	if err != nil {
		op.Fail("resolve path", err)
		return "", err
	}
	if fs.PathExists(plan.Path) {
		return "", errors.TargetExists(plan.Path)
	}
	op.Step("resolve path",
		zap.String("path", plan.Path),
		zap.Stringer("pattern", plan.Pattern),
		zap.Bool("detected", plan.Detected),
	)

	spinner := logger.StartSpinner(fmt.Sprintf("Checking branch %s...", branch))
	exists, err := s.git.BranchExists(s.repo.Root, branch)
	if err != nil {
		spinner.Stop()
		return "", err
	}
	if exists && opts.from != "" {
		spinner.Stop()
		return "", fmt.Errorf("branch %s already exists; --from only applies to new branches", branch)
	}

	spinner.Update(fmt.Sprintf("Creating worktree %s...", name))
	err = s.git.AddWorktree(s.repo.Root, plan.Path, git.AddOptions{
		Branch:    branch,
		NewBranch: !exists,
		From:      opts.from,
	})
	if err != nil {
		spinner.StopWithError(fmt.Sprintf("Failed to create worktree %s", name))
		op.Fail("git worktree add", err)
		return "", err
	}
	spinner.StopWithSuccess(fmt.Sprintf("Created worktree %s at %s", name, plan.Path))
	op.Step("git worktree add", zap.Bool("new_branch", !exists))

	return plan.Path, nil
}

// locationChooser asks where the first worktree of a repository goes.
func locationChooser(p *prompt.Prompter, cfg *config.Config) workspace.Chooser {
	return func(name validation.WorktreeName) (string, string, error) {
		locations := config.ValidLocations()
		labels := []string{
			fmt.Sprintf("same-level    next to the project (../%s)", name),
			fmt.Sprintf("subdirectory  inside the project (worktrees/%s)", name),
			"custom        a directory of your choice",
		}

		def := max(slices.Index(locations, cfg.Worktree.DefaultLocation), 0)
		idx, err := p.Select(fmt.Sprintf("Where should worktree %s go?", name), labels, def)
		if err != nil {
			return "", "", err
		}

		location := locations[idx]
		if location != workspace.LocationCustom {
			return location, "", nil
		}

		dir, err := p.Input("Directory, relative to the project", cfg.Worktree.CustomDir)
		if err != nil {
			return "", "", err
		}
		return location, dir, nil
	}
}
