package git

import (
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/sqve/wtm/internal/fs"
	"github.com/sqve/wtm/internal/logger"
)

// maxStatusWorkers caps concurrent `git status` calls while listing.
const maxStatusWorkers = 8

// ListOptions controls how much work ListWorktrees does per entry.
type ListOptions struct {
	// CurrentDir marks the worktree containing it as Current. Empty skips.
	CurrentDir string

	// Fast skips the per-worktree dirty check.
	Fast bool
}

// ListWorktrees returns every worktree of the repository at repoDir. The
// first entry is always the main worktree or the bare repository.
func (c *Client) ListWorktrees(repoDir string, opts ListOptions) ([]Worktree, error) {
	out, err := c.output("worktree list", repoDir, "worktree", "list", "--porcelain")
	if err != nil {
		return nil, err
	}

	worktrees := parseWorktreePorcelain(out)
	if opts.CurrentDir != "" {
		markCurrent(worktrees, opts.CurrentDir)
	}
	if !opts.Fast {
		c.markDirty(worktrees)
	}
	return worktrees, nil
}

// parseWorktreePorcelain parses the output of 'git worktree list --porcelain'.
func parseWorktreePorcelain(output string) []Worktree {
	var worktrees []Worktree
	var current *Worktree

	flush := func() {
		if current == nil {
			return
		}
		if current.Branch == "" && !current.Bare {
			current.Branch = BranchUnknown
		}
		current.Main = len(worktrees) == 0
		worktrees = append(worktrees, *current)
		current = nil
	}

	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			flush()
			continue
		}

		key, value, _ := strings.Cut(line, " ")
		switch key {
		case "worktree":
			flush()
			path := filepath.FromSlash(value)
			current = &Worktree{Path: path, Name: worktreeName(path)}
		case "HEAD":
			if current != nil {
				current.Head = value
			}
		case "branch":
			if current != nil {
				current.Branch = strings.TrimPrefix(value, "refs/heads/")
			}
		case "detached":
			if current != nil {
				current.Branch = BranchDetached
			}
		case "bare":
			if current != nil {
				current.Bare = true
			}
		case "locked":
			if current != nil {
				current.Locked = true
				current.LockReason = value
			}
		case "prunable":
			if current != nil {
				current.Prunable = true
			}
		}
	}
	flush()

	return worktrees
}

// markCurrent flags the worktree that most deeply contains dir, since
// subdirectory layouts nest linked worktrees inside the main one.
func markCurrent(worktrees []Worktree, dir string) {
	best := -1
	for i, wt := range worktrees {
		if wt.Bare || !fs.IsInside(dir, wt.Path) {
			continue
		}
		if best < 0 || len(wt.Path) > len(worktrees[best].Path) {
			best = i
		}
	}
	if best >= 0 {
		worktrees[best].Current = true
	}
}

func (c *Client) markDirty(worktrees []Worktree) {
	var g errgroup.Group
	g.SetLimit(maxStatusWorkers)

	for i := range worktrees {
		wt := &worktrees[i]
		if wt.Bare || wt.Prunable {
			continue
		}
		g.Go(func() error {
			stdout, _, err := c.cmd.Run(wt.Path, "status", "--porcelain")
			if err != nil {
				logger.Debug("Skipping dirty check for %s: %v", wt.Path, err)
				return nil
			}
			wt.Dirty = strings.TrimSpace(string(stdout)) != ""
			return nil
		})
	}

	_ = g.Wait()
}

// AddOptions describes the branch a new worktree checks out.
type AddOptions struct {
	// Branch is checked out in the new worktree.
	Branch string

	// NewBranch creates Branch, starting at From (or HEAD when From is empty).
	NewBranch bool
	From      string
}

// AddWorktree creates a worktree at path.
func (c *Client) AddWorktree(repoDir, path string, opts AddOptions) error {
	args := []string{"worktree", "add"}
	if opts.NewBranch {
		args = append(args, "-b", opts.Branch, path)
		if opts.From != "" {
			args = append(args, opts.From)
		}
	} else {
		args = append(args, path, opts.Branch)
	}

	_, err := c.output("worktree add", repoDir, args...)
	return err
}

// RemoveWorktree removes the worktree at path and its administrative files.
func (c *Client) RemoveWorktree(repoDir, path string, force bool) error {
	args := []string{"worktree", "remove"}
	if force {
		args = append(args, "--force")
	}
	args = append(args, path)

	_, err := c.output("worktree remove", repoDir, args...)
	return err
}

// LockWorktree marks a worktree as locked, with an optional reason.
func (c *Client) LockWorktree(repoDir, path, reason string) error {
	args := []string{"worktree", "lock"}
	if reason != "" {
		args = append(args, "--reason", reason)
	}
	args = append(args, path)

	_, err := c.output("worktree lock", repoDir, args...)
	return err
}

// UnlockWorktree clears the lock on a worktree.
func (c *Client) UnlockWorktree(repoDir, path string) error {
	_, err := c.output("worktree unlock", repoDir, "worktree", "unlock", path)
	return err
}

// PruneWorktrees drops administrative files of worktrees whose directories
// no longer exist.
func (c *Client) PruneWorktrees(repoDir string) error {
	_, err := c.output("worktree prune", repoDir, "worktree", "prune")
	return err
}
