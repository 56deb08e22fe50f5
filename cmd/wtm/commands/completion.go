package commands

import (
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/sqve/wtm/internal/git"
)

// completionRepo discovers the repository for shell completion without
// loading configuration or opening the operation log.
func completionRepo() (*git.Client, *git.Repo, string, bool) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, nil, "", false
	}
	client := git.NewClient(nil)
	repo, err := client.Discover(cwd)
	if err != nil {
		return nil, nil, "", false
	}
	return client, repo, cwd, true
}

// completeWorktrees completes linked worktree names not yet in args. The
// current worktree is left out when skipCurrent is set.
func completeWorktrees(skipCurrent bool) cobra.CompletionFunc {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		client, repo, cwd, ok := completionRepo()
		if !ok {
			return nil, cobra.ShellCompDirectiveError
		}
		worktrees, err := client.ListWorktrees(repo.Root, git.ListOptions{CurrentDir: cwd, Fast: true})
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}

		var names []string
		for _, wt := range git.Linked(worktrees) {
			if (skipCurrent && wt.Current) || slices.Contains(args, wt.Name) {
				continue
			}
			names = append(names, wt.Name)
		}
		return names, cobra.ShellCompDirectiveNoFileComp
	}
}

func completeBranches(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	client, repo, _, ok := completionRepo()
	if !ok {
		return nil, cobra.ShellCompDirectiveError
	}
	branches, err := client.ListBranches(repo.Root)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	return branches, cobra.ShellCompDirectiveNoFileComp
}

// completeRefs completes branches and tags usable as a start point.
func completeRefs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	client, repo, _, ok := completionRepo()
	if !ok {
		return nil, cobra.ShellCompDirectiveError
	}
	branches, err := client.ListBranches(repo.Root)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	tags, err := client.ListTags(repo.Root)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	return append(branches, tags...), cobra.ShellCompDirectiveNoFileComp
}
