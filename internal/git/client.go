package git

import (
	"strings"

	"github.com/sqve/wtm/internal/errors"
)

// Client runs repository operations. Worktree mutations go through the git
// binary; branch and tag enumeration reads the object store directly.
type Client struct {
	cmd Commander
}

// NewClient returns a client backed by cmd, or DefaultCommander when cmd is nil.
func NewClient(cmd Commander) *Client {
	if cmd == nil {
		cmd = DefaultCommander
	}
	return &Client{cmd: cmd}
}

// output runs a git command and returns trimmed stdout, wrapping failures
// as GIT_OPERATION errors labelled with op.
func (c *Client) output(op, dir string, args ...string) (string, error) {
	stdout, _, err := c.cmd.Run(dir, args...)
	if err != nil {
		return "", errors.GitOperation(op, err)
	}
	return strings.TrimSpace(string(stdout)), nil
}
