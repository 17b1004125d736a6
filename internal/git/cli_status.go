package git

import (
	"context"
	"os/exec"
	"strconv"

	"github.com/lcgerke/gitflow/internal/constants"
)

// cli_status.go contains working-tree state operations: IsRepository, CurrentBranch,
// HasUncommittedChanges, HasConflicts, ConflictFiles, StashCount, ListTags

// IsRepository checks if the working directory is inside a git repository
func (c *Client) IsRepository() bool {
	_, err := c.probe("rev-parse", "--git-dir")
	return err == nil
}

// CurrentBranch returns the current branch name
func (c *Client) CurrentBranch() (string, error) {
	return c.run("rev-parse", "--abbrev-ref", "HEAD")
}

// HasUncommittedChanges reports whether the working tree is dirty.
// Untracked files count as changes: the commit phase stages everything.
func (c *Client) HasUncommittedChanges() (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), constants.QuickOperationTimeout)
	defer cancel()

	output, err := c.runWithContext(ctx, "status", "--porcelain")
	if err != nil {
		return false, err
	}
	return output != "", nil
}

// ConflictFiles returns files with unresolved merge conflicts
func (c *Client) ConflictFiles() ([]string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), constants.QuickOperationTimeout)
	defer cancel()

	output, err := c.runWithContext(ctx, "diff", "--name-only", "--diff-filter=U")
	if err != nil {
		return nil, err
	}
	return splitLines(output), nil
}

// HasConflicts reports whether any file is in a conflicted state
func (c *Client) HasConflicts() (bool, error) {
	files, err := c.ConflictFiles()
	if err != nil {
		return false, err
	}
	return len(files) > 0, nil
}

// StashCount returns the number of stash entries
func (c *Client) StashCount() (int, error) {
	// rev-list --count refs/stash exits non-zero when no stash exists
	output, err := c.probe("rev-list", "--count", "refs/stash")
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok && exitErr.ExitCode() != 0 {
			return 0, nil
		}
		return 0, err
	}

	count, err := strconv.Atoi(output)
	if err != nil {
		return 0, nil
	}
	return count, nil
}

// ListTags returns all tag names
func (c *Client) ListTags() ([]string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), constants.DefaultOperationTimeout)
	defer cancel()

	output, err := c.runWithContext(ctx, "tag", "--list")
	if err != nil {
		return nil, err
	}
	return splitLines(output), nil
}
