// Package git wraps the local git CLI. Every mutating call changes on-disk
// repository state; nothing here is transactional, so callers re-derive state
// instead of assuming a failed sequence left the tree untouched.
package git

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"

	errs "github.com/lcgerke/gitflow/internal/errors"
)

// Client wraps git CLI operations
type Client struct {
	workdir string
	mu      sync.Mutex
}

// NewClient creates a new git CLI client
func NewClient(workdir string) *Client {
	return &Client{
		workdir: workdir,
	}
}

// Workdir returns the working directory the client operates on
func (c *Client) Workdir() string {
	return c.workdir
}

// run executes a git command
func (c *Client) run(args ...string) (string, error) {
	return c.runWithContext(context.Background(), args...)
}

// runWithContext executes a git command honoring the context deadline
func (c *Client) runWithContext(ctx context.Context, args ...string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	cmd := exec.CommandContext(ctx, "git", args...)
	if c.workdir != "" {
		cmd.Dir = c.workdir
	}
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0", "LC_ALL=C")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		return "", errs.GitCommand(args[0],
			fmt.Errorf("%w\nstderr: %s", err, strings.TrimSpace(stderr.String())))
	}

	return strings.TrimSpace(stdout.String()), nil
}

// probe executes a git command where a non-zero exit is an expected answer,
// not a failure. It returns the raw error for exit-code inspection.
func (c *Client) probe(args ...string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	cmd := exec.Command("git", args...)
	if c.workdir != "" {
		cmd.Dir = c.workdir
	}
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0", "LC_ALL=C")

	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = nil

	err := cmd.Run()
	return strings.TrimSpace(stdout.String()), err
}

// splitLines turns command output into a slice, empty output yielding nil
func splitLines(output string) []string {
	if output == "" {
		return nil
	}
	return strings.Split(output, "\n")
}

// CheckGitVersion verifies git is installed
func CheckGitVersion() error {
	cmd := exec.Command("git", "--version")
	output, err := cmd.Output()
	if err != nil {
		return fmt.Errorf("git is not installed or not in PATH: %w", err)
	}

	if !strings.Contains(string(output), "git version") {
		return fmt.Errorf("unexpected git version output: %s", output)
	}

	return nil
}
