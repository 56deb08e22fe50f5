package validation

import (
	"strings"
	"unicode/utf8"

	"github.com/sqve/wtm/internal/errors"
)

// Characters Windows refuses in file names. Rejected on every platform so a
// layout created on one machine can be checked out on another.
const windowsReservedChars = `<>:"|?*`

// invalidPathChars is the worktree name set without backslash, which passes
// through for Windows style literal paths.
var invalidPathChars = strings.ReplaceAll(invalidNameChars, `\`, "")

// CustomPath is a relative directory that passed ValidateCustomPath. The empty
// CustomPath places the worktree directly under the project root.
type CustomPath string

func (p CustomPath) String() string {
	return string(p)
}

// IsNameOnly reports whether the worktree goes directly under the project root.
func (p CustomPath) IsNameOnly() bool {
	return p == ""
}

// ValidateCustomPath checks a user supplied relative path. The path is not
// transformed; ParseCustomPath is the entry point for free-text input.
//
// The path may climb at most one level above its starting point, so
// "../sibling" is accepted and "../../etc" is not.
func ValidateCustomPath(raw string) error {
	path := strings.TrimSpace(raw)

	if path == "" {
		return errors.PathEmpty()
	}

	if isAbsolute(path) {
		return errors.PathAbsolute(path)
	}

	if strings.HasSuffix(path, "/") || strings.HasSuffix(path, `\`) {
		return errors.PathTrailingSeparator(path)
	}

	depth := 0
	for _, component := range strings.Split(path, "/") {
		switch component {
		case "", ".":
			continue
		case "..":
			depth--
			if depth < -1 {
				return errors.PathExcessiveTraversal(path)
			}
			continue
		}

		depth++
		if err := validateComponent(path, component); err != nil {
			return err
		}
	}

	return nil
}

// ParseCustomPath normalizes free-text directory input and validates it.
// Surrounding whitespace and trailing slashes are dropped; ".", "./" and "/"
// mean the project root itself and yield the empty CustomPath.
func ParseCustomPath(raw string) (CustomPath, error) {
	path := strings.TrimSpace(raw)
	if path == "" {
		return "", errors.PathEmpty()
	}

	path = strings.TrimRight(path, "/")
	if path == "" || path == "." {
		return "", nil
	}

	if err := ValidateCustomPath(path); err != nil {
		return "", err
	}
	return CustomPath(path), nil
}

func isAbsolute(path string) bool {
	if strings.HasPrefix(path, "/") || strings.HasPrefix(path, `\\`) {
		return true
	}
	// Drive letter, as in C:\Windows or C:foo.
	return len(path) >= 2 && path[1] == ':'
}

func validateComponent(path, component string) error {
	if isReserved(component) {
		return errors.PathReservedComponent(path, component)
	}

	for _, c := range component {
		if c < 0x20 || c == 0x7f || strings.ContainsRune(invalidPathChars, c) {
			return errors.PathInvalidChar(path, component, c)
		}
	}

	if i := strings.IndexAny(component, windowsReservedChars); i >= 0 {
		c, _ := utf8.DecodeRuneInString(component[i:])
		return errors.PathWindowsReservedChar(path, component, c)
	}

	if utf8.RuneCountInString(component) > MaxNameLength {
		return errors.PathComponentTooLong(path, component, MaxNameLength)
	}

	return nil
}
