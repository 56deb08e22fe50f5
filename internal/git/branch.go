package git

import (
	"sort"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/sqve/wtm/internal/errors"
)

// openRepository opens the repository containing dir. Linked worktrees are
// resolved through their commondir so refs are read from the shared store.
func openRepository(dir string) (*gogit.Repository, error) {
	repo, err := gogit.PlainOpenWithOptions(dir, &gogit.PlainOpenOptions{
		DetectDotGit:          true,
		EnableDotGitCommonDir: true,
	})
	if err != nil {
		return nil, errors.GitOperation("open repository", err)
	}
	return repo, nil
}

// BranchExists reports whether a local branch exists.
func (c *Client) BranchExists(repoDir, name string) (bool, error) {
	repo, err := openRepository(repoDir)
	if err != nil {
		return false, err
	}

	_, err = repo.Reference(plumbing.NewBranchReferenceName(name), false)
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return false, nil
	}
	if err != nil {
		return false, errors.GitOperation("read branch", err)
	}
	return true, nil
}

// ListBranches returns local branch names, sorted.
func (c *Client) ListBranches(repoDir string) ([]string, error) {
	repo, err := openRepository(repoDir)
	if err != nil {
		return nil, err
	}

	iter, err := repo.Branches()
	if err != nil {
		return nil, errors.GitOperation("list branches", err)
	}
	return collectRefNames(iter.ForEach)
}

// ListTags returns tag names, sorted.
func (c *Client) ListTags(repoDir string) ([]string, error) {
	repo, err := openRepository(repoDir)
	if err != nil {
		return nil, err
	}

	iter, err := repo.Tags()
	if err != nil {
		return nil, errors.GitOperation("list tags", err)
	}
	return collectRefNames(iter.ForEach)
}

func collectRefNames(forEach func(func(*plumbing.Reference) error) error) ([]string, error) {
	var names []string
	err := forEach(func(ref *plumbing.Reference) error {
		names = append(names, ref.Name().Short())
		return nil
	})
	if err != nil {
		return nil, errors.GitOperation("read references", err)
	}
	sort.Strings(names)
	return names, nil
}

// RenameBranch renames a local branch with `git branch -m`, which also
// moves its reflog and upstream configuration.
func (c *Client) RenameBranch(repoDir, oldName, newName string) error {
	_, err := c.output("branch rename", repoDir, "branch", "-m", oldName, newName)
	return err
}

// DeleteBranch deletes a local branch. Without force, git refuses to delete
// unmerged branches.
func (c *Client) DeleteBranch(repoDir, name string, force bool) error {
	flag := "-d"
	if force {
		flag = "-D"
	}
	_, err := c.output("branch delete", repoDir, "branch", flag, name)
	return err
}
