package git

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/sqve/wtm/internal/errors"
	"github.com/sqve/wtm/internal/logger"
)

// DefaultTimeout bounds a single git invocation.
const DefaultTimeout = 60 * time.Second

// Commander abstracts Git command execution so tests can replace the git
// binary with a mock.
type Commander interface {
	// Run executes a Git command in workDir and returns stdout and stderr.
	Run(workDir string, args ...string) (stdout, stderr []byte, err error)

	// RunQuiet executes a Git command without logging failures. Use it for
	// probes where a non-zero exit is an expected answer.
	RunQuiet(workDir string, args ...string) error
}

// GitError describes a failed git invocation.
type GitError struct {
	Command  string
	Args     []string
	Stderr   string
	ExitCode int
}

func (e *GitError) Error() string {
	return fmt.Sprintf("git %s failed (exit %d): %s", strings.Join(e.Args, " "), e.ExitCode, strings.TrimSpace(e.Stderr))
}

// LiveGitCommander runs the git binary found on PATH.
type LiveGitCommander struct {
	Timeout time.Duration
}

// NewLiveGitCommander creates a new instance of LiveGitCommander.
func NewLiveGitCommander() *LiveGitCommander {
	return &LiveGitCommander{Timeout: DefaultTimeout}
}

func (c *LiveGitCommander) Run(workDir string, args ...string) (stdout, stderr []byte, err error) {
	start := time.Now()
	logger.Debug("Executing: git %s in %s", strings.Join(args, " "), displayDir(workDir))

	stdout, stderr, err = c.exec(workDir, args)
	if err != nil {
		logger.Debug("git %s failed after %s: %s", firstArg(args), time.Since(start).Round(time.Millisecond), strings.TrimSpace(string(stderr)))
		return stdout, stderr, err
	}

	logger.Debug("git %s succeeded in %s", firstArg(args), time.Since(start).Round(time.Millisecond))
	return stdout, nil, nil
}

func (c *LiveGitCommander) RunQuiet(workDir string, args ...string) error {
	logger.Debug("Executing: git %s in %s", strings.Join(args, " "), displayDir(workDir))
	_, _, err := c.exec(workDir, args)
	return err
}

func (c *LiveGitCommander) exec(workDir string, args []string) (stdout, stderr []byte, err error) {
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", args...) // nolint:gosec // Arguments come from validated input
	if workDir != "" {
		cmd.Dir = workDir
	}

	stdout, err = cmd.Output()
	if err == nil {
		return stdout, nil, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		stderr = exitErr.Stderr
	}

	exitCode := -1
	if cmd.ProcessState != nil {
		exitCode = cmd.ProcessState.ExitCode()
	}
	if ctx.Err() != nil {
		stderr = append(stderr, []byte(fmt.Sprintf("timed out after %s", timeout))...)
	}

	return stdout, stderr, &GitError{
		Command:  "git",
		Args:     args,
		Stderr:   string(stderr),
		ExitCode: exitCode,
	}
}

func displayDir(dir string) string {
	if dir == "" {
		return "."
	}
	return dir
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

// DefaultCommander provides a default instance of LiveGitCommander for production use.
var DefaultCommander Commander = NewLiveGitCommander()
