package rename

import (
	"context"
	"os"
	"runtime"

	"github.com/sqve/wtm/internal/errors"
	"github.com/sqve/wtm/internal/retry"
)

// moveDir renames a directory. On Windows a rename is retried while another
// process holds a handle inside the directory.
func moveDir(oldPath, newPath string) error {
	return retry.Do(context.Background(), retry.DefaultConfig(), isTransientMoveError, func() error {
		return os.Rename(oldPath, newPath)
	})
}

func isTransientMoveError(err error) bool {
	return runtime.GOOS == "windows" && errors.Is(err, os.ErrPermission)
}
