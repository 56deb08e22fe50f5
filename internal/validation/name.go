package validation

import (
	"strings"
	"unicode/utf8"

	"github.com/sqve/wtm/internal/errors"
)

// MaxNameLength is the longest worktree name or path component accepted.
// Most filesystems cap a single path element at 255 bytes.
const MaxNameLength = 255

// Names git uses inside its administrative directory. A worktree with one of
// these names would collide with repository internals.
var reservedNames = []string{"HEAD", "refs", "hooks", "info", "objects", "logs", ".git"}

// Characters rejected anywhere in a worktree name.
const invalidNameChars = "/\\:*?\"<>|\x00"

// WorktreeName is a worktree name that passed ValidateWorktreeName.
type WorktreeName string

func (n WorktreeName) String() string {
	return string(n)
}

// ValidateWorktreeName trims raw and checks it against the naming rules, in
// order: empty, too long, reserved, invalid character, hidden, non-ASCII.
// The first violated rule is returned.
func ValidateWorktreeName(raw string) (WorktreeName, error) {
	name := strings.TrimSpace(raw)

	if name == "" {
		return "", errors.NameEmpty()
	}

	if n := utf8.RuneCountInString(name); n > MaxNameLength {
		return "", errors.NameTooLong(name, n, MaxNameLength)
	}

	if isReserved(name) {
		return "", errors.NameReserved(name)
	}

	if i := strings.IndexAny(name, invalidNameChars); i >= 0 {
		c, _ := utf8.DecodeRuneInString(name[i:])
		return "", errors.NameInvalidChar(name, c)
	}

	if strings.HasPrefix(name, ".") {
		return "", errors.NameHidden(name)
	}

	if !isASCII(name) {
		return "", errors.NameNonASCII(name)
	}

	return WorktreeName(name), nil
}

func isReserved(name string) bool {
	for _, r := range reservedNames {
		if strings.EqualFold(name, r) {
			return true
		}
	}
	return false
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
