package commands

import (
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sqve/wtm/internal/hooks"
	"github.com/sqve/wtm/internal/logger"
)

const shellInit = `# wtm worktree switcher
wcd() {
    local target
    target="$(wtm switch "$@")" || return $?
    cd "$target" || return $?
}
`

// NewSwitchCmd creates the switch command
func NewSwitchCmd() *cobra.Command {
	var copyPath bool

	cmd := &cobra.Command{
		Use:   "switch <name>",
		Short: "Print the path of a worktree",
		Long: `Print the path of a worktree for the given name or branch.

A process cannot change its parent shell's directory, so use the wcd shell
function to switch:
  eval "$(wtm switch shell-init)"
  wcd feature-login`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeWorktrees(true),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSwitch(cmd, args[0], copyPath)
		},
	}

	cmd.Flags().BoolVarP(&copyPath, "copy", "c", false, "Also copy the path to the clipboard")

	cmd.AddCommand(newShellInitCmd())

	return cmd
}

func newShellInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shell-init",
		Short: "Output shell function for directory switching",
		Long:  `Output a shell function that wraps wtm switch to change directory. Add to your shell config with: eval "$(wtm switch shell-init)"`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprint(cmd.OutOrStdout(), shellInit)
			return err
		},
	}
}

func runSwitch(cmd *cobra.Command, target string, copyPath bool) error {
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

	if _, err := fmt.Fprintln(cmd.OutOrStdout(), wt.Path); err != nil {
		return err
	}

	if copyPath {
		if err := clipboard.WriteAll(wt.Path); err != nil {
			logger.Warning("Failed to copy path to clipboard: %v", err)
		} else {
			logger.Success("Copied %s to clipboard", wt.Path)
		}
	}

	if len(s.cfg.Hooks.PostSwitch) > 0 {
		op := s.oplog.Begin("switch", zap.String("name", wt.Name), zap.String("path", wt.Path))
		s.runHooks(hooks.EventPostSwitch, wt.Path, hooks.Env{Name: wt.Name, Path: wt.Path}, op)
		op.Done()
	}
	return nil
}
