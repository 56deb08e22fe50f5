package commands

import (
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/sqve/wtm/internal/errors"
	"github.com/sqve/wtm/internal/git"
)

const maxSuggestions = 3

// SuggestionsKey is the error context key holding close worktree names.
const SuggestionsKey = "suggestions"

// findWorktree looks up target by directory name, then by branch. A miss
// returns WORKTREE_NOT_FOUND carrying the closest names.
func findWorktree(worktrees []git.Worktree, target string) (git.Worktree, error) {
	target = strings.TrimSpace(target)
	if wt, ok := git.FindByName(worktrees, target); ok {
		return wt, nil
	}
	for _, wt := range worktrees {
		if wt.Branch == target && !wt.IsDetached() && wt.Branch != git.BranchUnknown {
			return wt, nil
		}
	}
	return git.Worktree{}, notFound(target, worktrees)
}

func notFound(target string, worktrees []git.Worktree) error {
	err := errors.WorktreeNotFound(target)
	if s := suggest(target, git.Names(worktrees)); len(s) > 0 {
		err = err.WithContext(SuggestionsKey, s)
	}
	return err
}

// suggest returns up to maxSuggestions candidates closest to target.
func suggest(target string, candidates []string) []string {
	if target == "" {
		return nil
	}

	matches := fuzzy.Find(target, candidates)
	if len(matches) == 0 {
		// Also catch overlong input such as a name with a typo appended.
		for _, c := range candidates {
			if c != "" && strings.Contains(target, c) {
				matches = append(matches, fuzzy.Match{Str: c})
			}
		}
	}

	var out []string
	for _, m := range matches {
		if len(out) == maxSuggestions {
			break
		}
		out = append(out, m.Str)
	}
	return out
}

// Suggestions returns the names attached to a WORKTREE_NOT_FOUND error.
func Suggestions(err error) []string {
	if !errors.IsCode(err, errors.CodeWorktreeNotFound) {
		return nil
	}
	s, _ := errors.GetErrorContext(err)[SuggestionsKey].([]string)
	return s
}
