package errors

import (
	"errors"
	"fmt"
)

// Kind groups error codes by how a caller is expected to react.
type Kind int

const (
	// KindSystem covers filesystem and git failures outside the taxonomy below.
	KindSystem Kind = iota
	// KindValidation is a static rule violation; the user corrects the input.
	KindValidation
	// KindConflict means the target name or path is already taken.
	KindConflict
	// KindState means the operation is refused for the worktree's current state.
	KindState
	// KindPartialFailure means a multi-step mutation stopped half way.
	KindPartialFailure
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindState:
		return "state"
	case KindPartialFailure:
		return "partial-failure"
	default:
		return "system"
	}
}

// Error codes for programmatic handling
const (
	// Name validation
	CodeNameEmpty       = "NAME_EMPTY"
	CodeNameTooLong     = "NAME_TOO_LONG"
	CodeNameReserved    = "NAME_RESERVED"
	CodeNameInvalidChar = "NAME_INVALID_CHAR"
	CodeNameHidden      = "NAME_HIDDEN"
	CodeNameNonASCII    = "NAME_NON_ASCII"
	CodeSameName        = "SAME_NAME"
	CodeBranchInvalid   = "BRANCH_INVALID"

	// Custom path validation
	CodePathEmpty               = "PATH_EMPTY"
	CodePathAbsolute            = "PATH_ABSOLUTE"
	CodePathTrailingSeparator   = "PATH_TRAILING_SEPARATOR"
	CodePathExcessiveTraversal  = "PATH_EXCESSIVE_TRAVERSAL"
	CodePathReservedComponent   = "PATH_RESERVED_COMPONENT"
	CodePathInvalidChar         = "PATH_INVALID_CHAR"
	CodePathWindowsReservedChar = "PATH_WINDOWS_RESERVED_CHAR"
	CodePathComponentTooLong    = "PATH_COMPONENT_TOO_LONG"

	// Path resolution
	CodeLocationInvalid    = "LOCATION_INVALID"
	CodeCustomPathRequired = "CUSTOM_PATH_REQUIRED"

	// Conflicts
	CodeTargetExists     = "TARGET_EXISTS"
	CodeWorktreeNotFound = "WORKTREE_NOT_FOUND"
	CodeLockHeld         = "LOCK_HELD"

	// State
	CodeCannotRenameCurrent = "CANNOT_RENAME_CURRENT"
	CodeDetachedHead        = "DETACHED_HEAD"
	CodeWorktreeLocked      = "WORKTREE_LOCKED"
	CodeCannotRemoveCurrent = "CANNOT_REMOVE_CURRENT"
	CodeMainWorktree        = "MAIN_WORKTREE"
	CodeWorktreeDirty       = "WORKTREE_DIRTY"

	// Partial failure
	CodePartialRename = "PARTIAL_RENAME"

	// System
	CodeFileSystem    = "FILE_SYSTEM"
	CodeGitOperation  = "GIT_OPERATION"
	CodeConfigInvalid = "CONFIG_INVALID"
)

var codeKinds = map[string]Kind{
	CodeNameEmpty:               KindValidation,
	CodeNameTooLong:             KindValidation,
	CodeNameReserved:            KindValidation,
	CodeNameInvalidChar:         KindValidation,
	CodeNameHidden:              KindValidation,
	CodeNameNonASCII:            KindValidation,
	CodeSameName:                KindValidation,
	CodeBranchInvalid:           KindValidation,
	CodePathEmpty:               KindValidation,
	CodePathAbsolute:            KindValidation,
	CodePathTrailingSeparator:   KindValidation,
	CodePathExcessiveTraversal:  KindValidation,
	CodePathReservedComponent:   KindValidation,
	CodePathInvalidChar:         KindValidation,
	CodePathWindowsReservedChar: KindValidation,
	CodePathComponentTooLong:    KindValidation,
	CodeLocationInvalid:         KindValidation,
	CodeCustomPathRequired:      KindValidation,
	CodeTargetExists:            KindConflict,
	CodeWorktreeNotFound:        KindConflict,
	CodeLockHeld:                KindConflict,
	CodeCannotRenameCurrent:     KindState,
	CodeDetachedHead:            KindState,
	CodeWorktreeLocked:          KindState,
	CodeCannotRemoveCurrent:     KindState,
	CodeMainWorktree:            KindState,
	CodeWorktreeDirty:           KindState,
	CodePartialRename:           KindPartialFailure,
}

// Error is the structured error used across wtm.
//
//   - Code: standardized error code for programmatic handling
//   - Message: human-readable description naming the violated rule
//   - Cause: underlying error (optional)
//   - Context: additional key-value details
//   - Operation: the operation that failed (optional)
//
// Two errors compare equal under errors.Is when their codes match, so the
// sentinel values below can be used as targets:
//
//	if errors.Is(err, errors.ErrNameReserved) {
//	  // re-prompt
//	}
type Error struct {
	Code      string         // Standardized error code (see Code* constants)
	Message   string         // Human-readable error message
	Cause     error          // Underlying error that caused this error
	Context   map[string]any // Additional contextual information
	Operation string         // The operation that failed
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is checks if the error matches the target error code
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// Kind reports the taxonomy group of the error code.
func (e *Error) Kind() Kind {
	return codeKinds[e.Code]
}

// WithContext adds context information to the error
func (e *Error) WithContext(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// NewError creates a new standardized error
func NewError(code, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
		Context: make(map[string]any),
	}
}

// NewErrorf creates a new standardized error with formatted message
func NewErrorf(code string, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
		Context: make(map[string]any),
	}
}

func sentinel(code string) *Error {
	return &Error{Code: code, Message: code}
}

// Sentinels for errors.Is matching.
var (
	ErrNameEmpty       = sentinel(CodeNameEmpty)
	ErrNameTooLong     = sentinel(CodeNameTooLong)
	ErrNameReserved    = sentinel(CodeNameReserved)
	ErrNameInvalidChar = sentinel(CodeNameInvalidChar)
	ErrNameHidden      = sentinel(CodeNameHidden)
	ErrNameNonASCII    = sentinel(CodeNameNonASCII)
	ErrSameName        = sentinel(CodeSameName)
	ErrBranchInvalid   = sentinel(CodeBranchInvalid)

	ErrPathEmpty               = sentinel(CodePathEmpty)
	ErrPathAbsolute            = sentinel(CodePathAbsolute)
	ErrPathTrailingSeparator   = sentinel(CodePathTrailingSeparator)
	ErrPathExcessiveTraversal  = sentinel(CodePathExcessiveTraversal)
	ErrPathReservedComponent   = sentinel(CodePathReservedComponent)
	ErrPathInvalidChar         = sentinel(CodePathInvalidChar)
	ErrPathWindowsReservedChar = sentinel(CodePathWindowsReservedChar)
	ErrPathComponentTooLong    = sentinel(CodePathComponentTooLong)

	ErrLocationInvalid    = sentinel(CodeLocationInvalid)
	ErrCustomPathRequired = sentinel(CodeCustomPathRequired)

	ErrTargetExists     = sentinel(CodeTargetExists)
	ErrWorktreeNotFound = sentinel(CodeWorktreeNotFound)
	ErrLockHeld         = sentinel(CodeLockHeld)

	ErrCannotRenameCurrent = sentinel(CodeCannotRenameCurrent)
	ErrDetachedHead        = sentinel(CodeDetachedHead)
	ErrWorktreeLocked      = sentinel(CodeWorktreeLocked)
	ErrCannotRemoveCurrent = sentinel(CodeCannotRemoveCurrent)
	ErrMainWorktree        = sentinel(CodeMainWorktree)
	ErrWorktreeDirty       = sentinel(CodeWorktreeDirty)

	ErrPartialRename = sentinel(CodePartialRename)
)

// Name validation errors

func NameEmpty() *Error {
	return NewError(CodeNameEmpty, "worktree name cannot be empty", nil)
}

func NameTooLong(name string, length, limit int) *Error {
	return NewErrorf(CodeNameTooLong, nil, "worktree name is too long: %d characters (maximum %d)", length, limit).
		WithContext("name", name).
		WithContext("length", length)
}

func NameReserved(name string) *Error {
	return NewErrorf(CodeNameReserved, nil, "worktree name %q is reserved by git", name).
		WithContext("name", name)
}

func NameInvalidChar(name string, c rune) *Error {
	return NewErrorf(CodeNameInvalidChar, nil, "worktree name %q contains invalid character %q", name, c).
		WithContext("name", name).
		WithContext("char", string(c))
}

func NameHidden(name string) *Error {
	return NewErrorf(CodeNameHidden, nil, "worktree name %q cannot start with a dot", name).
		WithContext("name", name)
}

func NameNonASCII(name string) *Error {
	return NewErrorf(CodeNameNonASCII, nil, "worktree name %q contains non-ASCII characters", name).
		WithContext("name", name)
}

func SameName(name string) *Error {
	return NewErrorf(CodeSameName, nil, "source and destination are the same: %s", name).
		WithContext("name", name)
}

func BranchInvalid(name, reason string) *Error {
	return NewErrorf(CodeBranchInvalid, nil, "invalid branch name %q: %s", name, reason).
		WithContext("branch", name).
		WithContext("reason", reason)
}

// Custom path validation errors

func PathEmpty() *Error {
	return NewError(CodePathEmpty, "custom path cannot be empty", nil)
}

func PathAbsolute(path string) *Error {
	return NewErrorf(CodePathAbsolute, nil, "custom path %q must be relative", path).
		WithContext("path", path)
}

func PathTrailingSeparator(path string) *Error {
	return NewErrorf(CodePathTrailingSeparator, nil, "custom path %q cannot end with a path separator", path).
		WithContext("path", path)
}

func PathExcessiveTraversal(path string) *Error {
	return NewErrorf(CodePathExcessiveTraversal, nil, "custom path %q climbs more than one level above the project", path).
		WithContext("path", path)
}

func PathReservedComponent(path, component string) *Error {
	return NewErrorf(CodePathReservedComponent, nil, "custom path %q contains reserved name %q", path, component).
		WithContext("path", path).
		WithContext("component", component)
}

func PathInvalidChar(path, component string, c rune) *Error {
	return NewErrorf(CodePathInvalidChar, nil, "custom path component %q contains invalid character %q", component, c).
		WithContext("path", path).
		WithContext("component", component).
		WithContext("char", string(c))
}

func PathWindowsReservedChar(path, component string, c rune) *Error {
	return NewErrorf(CodePathWindowsReservedChar, nil, "custom path component %q contains character %q reserved on Windows", component, c).
		WithContext("path", path).
		WithContext("component", component).
		WithContext("char", string(c))
}

func PathComponentTooLong(path, component string, limit int) *Error {
	return NewErrorf(CodePathComponentTooLong, nil, "custom path component is longer than %d characters", limit).
		WithContext("path", path).
		WithContext("component", component)
}

// Path resolution errors

func LocationInvalid(location string) *Error {
	return NewErrorf(CodeLocationInvalid, nil, "invalid location %q: must be same-level, subdirectory or custom", location).
		WithContext("location", location)
}

func CustomPathRequired() *Error {
	return NewError(CodeCustomPathRequired, "custom location requires a path", nil)
}

// Conflict errors

func TargetExists(path string) *Error {
	return NewErrorf(CodeTargetExists, nil, "target already exists: %s", path).
		WithContext("path", path)
}

func WorktreeNotFound(name string) *Error {
	return NewErrorf(CodeWorktreeNotFound, nil, "worktree not found: %s", name).
		WithContext("name", name)
}

func LockHeld(lockFile, holder string) *Error {
	return NewErrorf(CodeLockHeld, nil, "another wtm operation%s is in progress; if this is wrong, remove %s", holder, lockFile).
		WithContext("lock_file", lockFile)
}

// State errors

func CannotRenameCurrent(name string) *Error {
	return NewErrorf(CodeCannotRenameCurrent, nil, "cannot rename current worktree %s; switch to a different worktree first", name).
		WithContext("name", name)
}

func DetachedHead(name string) *Error {
	return NewErrorf(CodeDetachedHead, nil, "worktree %s has a detached HEAD; check out a branch first", name).
		WithContext("name", name)
}

func WorktreeLocked(name string) *Error {
	return NewErrorf(CodeWorktreeLocked, nil, "worktree %s is locked; unlock it first", name).
		WithContext("name", name)
}

func CannotRemoveCurrent(name string) *Error {
	return NewErrorf(CodeCannotRemoveCurrent, nil, "cannot remove current worktree %s; switch to a different worktree first", name).
		WithContext("name", name)
}

// MainWorktree refuses an action that only applies to linked worktrees.
func MainWorktree(name, action string) *Error {
	return NewErrorf(CodeMainWorktree, nil, "cannot %s the main worktree %s", action, name).
		WithContext("name", name).
		WithContext("action", action)
}

func WorktreeDirty(name string) *Error {
	return NewErrorf(CodeWorktreeDirty, nil, "worktree %s has uncommitted changes; use --force to remove it anyway", name).
		WithContext("name", name)
}

// PartialRename reports a rename that stopped after the directory moved.
// completed lists the steps that succeeded, in order.
func PartialRename(step string, completed []string, cause error) *Error {
	return NewErrorf(CodePartialRename, cause, "rename stopped at step %q after completing %v; the worktree needs manual repair", step, completed).
		WithContext("step", step).
		WithContext("completed", completed)
}

// System errors

func FileSystem(operation string, cause error) *Error {
	return NewErrorf(CodeFileSystem, cause, "file system operation failed: %s", operation).
		WithContext("operation", operation)
}

func GitOperation(operation string, cause error) *Error {
	return NewErrorf(CodeGitOperation, cause, "git %s failed", operation).
		WithContext("operation", operation)
}

func ConfigInvalid(reason string, cause error) *Error {
	return NewErrorf(CodeConfigInvalid, cause, "invalid configuration: %s", reason).
		WithContext("reason", reason)
}

// IsCode reports whether any error in err's chain has the given code.
func IsCode(err error, code string) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetErrorCode returns the code of the first *Error in err's chain.
func GetErrorCode(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// GetKind returns the taxonomy group of err, KindSystem for foreign errors.
func GetKind(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind()
	}
	return KindSystem
}

// GetErrorContext returns the context map of the first *Error in err's chain.
func GetErrorContext(err error) map[string]any {
	var e *Error
	if errors.As(err, &e) {
		return e.Context
	}
	return nil
}
