package workspace

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/sqve/wtm/internal/errors"
	"github.com/sqve/wtm/internal/git"
	"github.com/sqve/wtm/internal/logger"
	"github.com/sqve/wtm/internal/validation"
)

const (
	worktreesDir    = "worktrees"
	fallbackRepoDir = "repo"
)

// RepoName derives the repository name from root. A ".git" directory yields
// its parent's name and a bare repository drops its ".git" suffix.
func RepoName(root string) string {
	clean := filepath.Clean(root)
	name := filepath.Base(clean)
	if name == ".git" {
		name = filepath.Base(filepath.Dir(clean))
	} else {
		name = strings.TrimSuffix(name, ".git")
	}

	switch name {
	case "", ".", "..", string(filepath.Separator):
		return fallbackRepoDir
	}
	return name
}

func subdirectoryBase(root string) string {
	return filepath.Join(filepath.Dir(filepath.Clean(root)), RepoName(root), worktreesDir)
}

// DetermineWorktreePath computes where a worktree named name is created.
//
//	same-level    parent(root)/name
//	subdirectory  parent(root)/<repo name>/worktrees/name
//	custom        root/customPath
//
// name and customPath must already be validated. For custom, customPath is
// the full relative location of the worktree (see ComposeCustomPath).
func DetermineWorktreePath(root string, name validation.WorktreeName, location string, customPath *validation.CustomPath) (string, LocationPattern, error) {
	pattern, err := ParseLocation(location)
	if err != nil {
		return "", 0, err
	}

	root = filepath.Clean(root)

	switch pattern {
	case SameLevel:
		return filepath.Join(filepath.Dir(root), name.String()), pattern, nil
	case Subdirectory:
		return filepath.Join(subdirectoryBase(root), name.String()), pattern, nil
	default:
		if customPath == nil {
			return "", 0, errors.CustomPathRequired()
		}
		return filepath.Join(root, filepath.FromSlash(customPath.String())), pattern, nil
	}
}

// ComposeCustomPath places the worktree inside dir. The directory "hotfix"
// and "hotfix/" both contain the worktree; an empty dir means the project
// root itself.
func ComposeCustomPath(dir validation.CustomPath, name validation.WorktreeName) validation.CustomPath {
	if dir.IsNameOnly() {
		return validation.CustomPath(name)
	}
	return validation.CustomPath(path.Join(dir.String(), name.String()))
}

// Chooser asks the user where the first worktree of a repository should go.
// It returns a location name and, for custom, the free-text directory.
type Chooser func(name validation.WorktreeName) (location, customDir string, err error)

// PlanOptions carries the inputs of PlanNewWorktree besides the repository.
type PlanOptions struct {
	// Location is an explicit location from the command line, or empty.
	Location string
	// CustomDir is the directory for the custom location, as typed.
	CustomDir string

	// DefaultLocation and DefaultCustomDir come from configuration.
	DefaultLocation  string
	DefaultCustomDir string

	// Choose is consulted for the first worktree when set.
	Choose Chooser
}

// Plan is the resolved target of a new worktree.
type Plan struct {
	Path    string
	Pattern LocationPattern
	// Detected is true when an existing layout was followed.
	Detected bool
}

// PlanNewWorktree decides where a new worktree goes. An explicit location
// wins. Otherwise the parent shared by the existing linked worktrees is
// reused. The first worktree is placed by Choose, or by the configured
// default when there is no chooser. A heterogeneous layout also falls back to
// the configured default.
func PlanNewWorktree(root string, name validation.WorktreeName, records []git.Worktree, opts PlanOptions) (Plan, error) {
	if opts.Location != "" || opts.CustomDir != "" {
		location := opts.Location
		if location == "" {
			location = LocationCustom
		}
		return resolve(root, name, location, opts.CustomDir)
	}

	if detected, ok := DetectPattern(root, records); ok {
		logger.Debug("Following existing %s layout in %s", detected.Pattern, detected.Parent)
		return Plan{
			Path:     filepath.Join(detected.Parent, name.String()),
			Pattern:  detected.Pattern,
			Detected: true,
		}, nil
	}

	if len(git.Linked(records)) == 0 && opts.Choose != nil {
		location, customDir, err := opts.Choose(name)
		if err != nil {
			return Plan{}, err
		}
		return resolve(root, name, location, customDir)
	}

	logger.Debug("No common worktree parent, using default location %s", opts.DefaultLocation)
	return resolve(root, name, opts.DefaultLocation, opts.DefaultCustomDir)
}

func resolve(root string, name validation.WorktreeName, location, customDir string) (Plan, error) {
	var custom *validation.CustomPath
	if location == LocationCustom && strings.TrimSpace(customDir) != "" {
		dir, err := validation.ParseCustomPath(customDir)
		if err != nil {
			return Plan{}, err
		}
		composed := ComposeCustomPath(dir, name)
		custom = &composed
	}

	p, pattern, err := DetermineWorktreePath(root, name, location, custom)
	if err != nil {
		return Plan{}, err
	}
	return Plan{Path: p, Pattern: pattern}, nil
}
