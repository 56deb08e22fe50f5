package workspace

import (
	"path/filepath"

	"github.com/sqve/wtm/internal/errors"
	"github.com/sqve/wtm/internal/fs"
	"github.com/sqve/wtm/internal/git"
)

// LocationPattern is the layout convention for linked worktrees.
type LocationPattern int

const (
	// SameLevel places worktrees next to the project directory.
	SameLevel LocationPattern = iota
	// Subdirectory places worktrees under <repo>/worktrees/.
	Subdirectory
	// Custom places worktrees at a user chosen path relative to the project.
	Custom
)

// Location names accepted on the command line and in configuration.
const (
	LocationSameLevel    = "same-level"
	LocationSubdirectory = "subdirectory"
	LocationCustom       = "custom"
)

func (p LocationPattern) String() string {
	switch p {
	case SameLevel:
		return LocationSameLevel
	case Subdirectory:
		return LocationSubdirectory
	case Custom:
		return LocationCustom
	default:
		return "unknown"
	}
}

// ParseLocation converts a location name into a LocationPattern.
func ParseLocation(location string) (LocationPattern, error) {
	switch location {
	case LocationSameLevel:
		return SameLevel, nil
	case LocationSubdirectory:
		return Subdirectory, nil
	case LocationCustom:
		return Custom, nil
	default:
		return 0, errors.LocationInvalid(location)
	}
}

// FindCommonParent returns the directory that contains every worktree in
// records. It reports false for an empty list or a heterogeneous layout.
func FindCommonParent(records []git.Worktree) (string, bool) {
	if len(records) == 0 {
		return "", false
	}

	parent := filepath.Dir(filepath.Clean(records[0].Path))
	for _, r := range records[1:] {
		if !fs.PathsEqual(filepath.Dir(filepath.Clean(r.Path)), parent) {
			return "", false
		}
	}
	return parent, true
}

// Detection is the established layout of a repository's linked worktrees.
type Detection struct {
	Pattern LocationPattern
	// Parent is the shared directory new worktrees should be created in.
	Parent string
}

// DetectPattern classifies the layout of the linked worktrees in records.
// The main worktree is ignored. It reports false when there are no linked
// worktrees or they do not share a parent directory.
func DetectPattern(root string, records []git.Worktree) (Detection, bool) {
	parent, ok := FindCommonParent(git.Linked(records))
	if !ok {
		return Detection{}, false
	}

	pattern := Custom
	switch {
	case fs.PathsEqual(parent, filepath.Dir(filepath.Clean(root))):
		pattern = SameLevel
	case fs.PathsEqual(parent, subdirectoryBase(root)):
		pattern = Subdirectory
	}

	return Detection{Pattern: pattern, Parent: parent}, true
}
