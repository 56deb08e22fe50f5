package git

import (
	"path/filepath"

	"github.com/sqve/wtm/internal/errors"
)

// Repo locates a repository as seen from a directory inside it.
type Repo struct {
	// Root is the main worktree, or the repository directory when bare.
	Root string

	// CommonDir is the shared administrative directory (usually Root/.git).
	CommonDir string

	// Toplevel is the worktree containing the starting directory. Empty
	// when the starting directory is inside a bare repository.
	Toplevel string

	Bare bool
}

// AdminDir returns the per-worktree metadata directory Git keeps for name.
func (r *Repo) AdminDir(name string) string {
	return filepath.Join(r.CommonDir, "worktrees", name)
}

// Discover finds the repository containing dir.
func (c *Client) Discover(dir string) (*Repo, error) {
	commonDir, err := c.output("rev-parse", dir, "rev-parse", "--path-format=absolute", "--git-common-dir")
	if err != nil {
		return nil, errors.Wrapf(err, "%s is not inside a git repository", dir)
	}
	commonDir = filepath.Clean(filepath.FromSlash(commonDir))

	bare, err := c.output("rev-parse", dir, "rev-parse", "--is-bare-repository")
	if err != nil {
		return nil, err
	}

	repo := &Repo{CommonDir: commonDir, Bare: bare == "true"}

	if !repo.Bare {
		// Fails inside the .git directory of a non-bare repository.
		if toplevel, err := c.output("rev-parse", dir, "rev-parse", "--show-toplevel"); err == nil && toplevel != "" {
			repo.Toplevel = filepath.Clean(filepath.FromSlash(toplevel))
		}
	}

	if filepath.Base(commonDir) == ".git" && !repo.Bare {
		repo.Root = filepath.Dir(commonDir)
	} else {
		repo.Root = commonDir
	}

	return repo, nil
}
