package commands

import (
	"github.com/spf13/cobra"

	"github.com/sqve/wtm/internal/logger"
	"github.com/sqve/wtm/internal/styles"
)

// NewRootCmd assembles the wtm command tree.
func NewRootCmd(version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "wtm",
		Short:   "Git worktree menu",
		Version: version,
		Long: `wtm lists, creates, removes, switches between and renames Git worktrees.

New worktrees follow the layout already used in the repository. The first
worktree is placed next to the project, in a worktrees/ subdirectory, or in
a custom directory, as chosen interactively or configured in .wtm.toml.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			plain, _ := cmd.Flags().GetBool("plain")
			debug, _ := cmd.Flags().GetBool("debug")
			logger.Init(plain || styles.ShouldUsePlain(), debug)
		},
	}

	cmd.PersistentFlags().Bool("plain", false, "Disable colors and symbols")
	cmd.PersistentFlags().Bool("debug", false, "Print debug output")

	cmd.AddCommand(
		NewListCmd(),
		NewAddCmd(),
		NewRemoveCmd(),
		NewSwitchCmd(),
		NewRenameCmd(),
		NewLockCmd(),
		NewUnlockCmd(),
		NewConfigCmd(),
	)

	return cmd
}
