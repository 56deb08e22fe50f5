package validation

import (
	"regexp"
	"strings"

	"github.com/sqve/wtm/internal/errors"
)

var (
	// Git rejects branches with special characters that conflict with ref syntax.
	invalidCharsRegex = regexp.MustCompile(`[~^:?*\[\]\\]`)
	// Consecutive dots create ambiguous ref resolution in Git.
	consecutiveDotsRegex = regexp.MustCompile(`\.\.`)
	// Leading/trailing dots and slashes break Git's hierarchical ref structure.
	invalidStartEndRegex = regexp.MustCompile(`^[./]|[./]$`)
	controlCharsRegex    = regexp.MustCompile(`[\x00-\x1f\x7f]`)
)

// ValidateBranchName checks a branch name given to `wtm add --branch`.
func ValidateBranchName(name string) error {
	switch {
	case name == "":
		return errors.BranchInvalid(name, "cannot be empty")
	case strings.Contains(name, " "):
		return errors.BranchInvalid(name, "cannot contain spaces")
	case strings.HasPrefix(name, "-"):
		return errors.BranchInvalid(name, "cannot start with a dash")
	case invalidCharsRegex.MatchString(name):
		return errors.BranchInvalid(name, `contains invalid characters (~^:?*[]\)`)
	case consecutiveDotsRegex.MatchString(name):
		return errors.BranchInvalid(name, "cannot contain consecutive dots (..)")
	case invalidStartEndRegex.MatchString(name):
		return errors.BranchInvalid(name, "cannot start or end with dots or slashes")
	case controlCharsRegex.MatchString(name):
		return errors.BranchInvalid(name, "cannot contain control characters")
	case name == "HEAD" || name == "@":
		return errors.BranchInvalid(name, "cannot be 'HEAD' or '@'")
	case strings.HasSuffix(name, ".lock"):
		return errors.BranchInvalid(name, "cannot end with '.lock'")
	}
	return nil
}
