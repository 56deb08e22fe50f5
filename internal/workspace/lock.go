package workspace

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gofrs/flock"

	"github.com/sqve/wtm/internal/errors"
	"github.com/sqve/wtm/internal/fs"
	"github.com/sqve/wtm/internal/logger"
)

// LockFileName is created inside the common git directory.
const LockFileName = "wtm.lock"

const lockRetryDelay = 50 * time.Millisecond

// Lock is a held advisory lock guarding worktree creation, removal and rename.
type Lock struct {
	flock   *flock.Flock
	pidFile string
}

// LockPath returns the lock file location for a repository.
func LockPath(commonDir string) string {
	return filepath.Join(commonDir, LockFileName)
}

// AcquireLock waits up to timeout for the lock at lockFile. The owning PID is
// recorded next to it so a blocked caller can name the holder.
func AcquireLock(ctx context.Context, lockFile string, timeout time.Duration) (*Lock, error) {
	if err := os.MkdirAll(filepath.Dir(lockFile), fs.DirGit); err != nil {
		return nil, errors.FileSystem("create lock directory", err)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	fl := flock.New(lockFile)
	locked, err := fl.TryLockContext(ctx, lockRetryDelay)
	if err != nil && !errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, context.Canceled) {
		return nil, errors.FileSystem("acquire lock", err)
	}
	if !locked {
		return nil, errors.LockHeld(lockFile, describeHolder(pidFilePath(lockFile)))
	}

	pidFile := pidFilePath(lockFile)
	if err := os.WriteFile(pidFile, []byte(strconv.Itoa(os.Getpid())), fs.FileStrict); err != nil {
		logger.Debug("Failed to record lock owner in %s: %v", pidFile, err)
	}

	logger.Debug("Acquired lock %s", lockFile)
	return &Lock{flock: fl, pidFile: pidFile}, nil
}

// Release drops the lock. It is safe to call on a nil Lock.
func (l *Lock) Release() error {
	if l == nil {
		return nil
	}
	_ = os.Remove(l.pidFile)
	return l.flock.Unlock()
}

func pidFilePath(lockFile string) string {
	return lockFile + ".pid"
}

// describeHolder returns " (PID n)" when the recorded owner is still alive.
func describeHolder(pidFile string) string {
	content, err := os.ReadFile(pidFile) //nolint:gosec // path derived from the git directory
	if err != nil {
		return ""
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(content)))
	if err != nil {
		logger.Debug("Lock owner file contains invalid PID %q", strings.TrimSpace(string(content)))
		return ""
	}

	if !isProcessRunning(pid) {
		logger.Debug("Lock owner PID %d is no longer running", pid)
		return ""
	}
	return fmt.Sprintf(" (PID %d)", pid)
}
