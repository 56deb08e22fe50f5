package hooks

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"

	"github.com/sqve/wtm/internal/errors"
	"github.com/sqve/wtm/internal/logger"
	"github.com/sqve/wtm/internal/styles"
)

// Lifecycle events. Values match the keys of the [hooks] config table.
const (
	EventPostCreate = "post_create"
	EventPreRemove  = "pre_remove"
	EventPostRemove = "post_remove"
	EventPostRename = "post_rename"
	EventPostSwitch = "post_switch"
)

// Env describes the worktree a hook runs for. It is exported to hook
// commands as WTM_* environment variables.
type Env struct {
	Event string
	Name  string
	Path  string

	// OldName is set for post_rename.
	OldName string
}

func (e Env) vars() []string {
	vars := []string{
		"WTM_EVENT=" + e.Event,
		"WTM_WORKTREE_NAME=" + e.Name,
		"WTM_WORKTREE_PATH=" + e.Path,
	}
	if e.OldName != "" {
		vars = append(vars, "WTM_OLD_NAME="+e.OldName)
	}
	return vars
}

type HookResult struct {
	Command  string
	ExitCode int
	Err      error
}

type RunResult struct {
	Succeeded []string
	Failed    *HookResult
}

// Run executes commands one at a time in workDir, streaming their output
// to output with a per-command prefix. It stops at the first failure.
func Run(workDir string, commands []string, env Env, output io.Writer) *RunResult {
	result := &RunResult{}
	if len(commands) == 0 {
		return result
	}

	logger.Debug("Running %d %s hooks in %s", len(commands), env.Event, workDir)
	output = &syncWriter{w: output}

	for _, cmdStr := range commands {
		logger.Debug("Executing hook: %s", cmdStr)

		cmd := shellCommand(cmdStr)
		cmd.Dir = workDir
		cmd.Env = append(os.Environ(), env.vars()...)

		prefix := styles.Render(&styles.Dimmed, fmt.Sprintf("  [%s]", cmdStr))
		stdout := NewPrefixWriter(prefix, output)
		stderr := NewPrefixWriter(prefix, output)
		cmd.Stdout = stdout
		cmd.Stderr = stderr

		err := cmd.Run()
		_ = stdout.Flush()
		_ = stderr.Flush()

		if err != nil {
			exitCode := -1
			var exitErr *exec.ExitError
			if errors.As(err, &exitErr) {
				exitCode = exitErr.ExitCode()
			}
			result.Failed = &HookResult{Command: cmdStr, ExitCode: exitCode, Err: err}
			logger.Debug("Hook failed with exit code %d: %s", exitCode, cmdStr)
			return result
		}

		result.Succeeded = append(result.Succeeded, cmdStr)
		logger.Debug("Hook succeeded: %s", cmdStr)
	}
	return result
}

func shellCommand(cmdStr string) *exec.Cmd {
	if runtime.GOOS == "windows" {
		return exec.Command("cmd", "/C", cmdStr) //nolint:gosec // User-configured hooks are intentionally executed
	}
	return exec.Command("sh", "-c", cmdStr) //nolint:gosec // User-configured hooks are intentionally executed
}
