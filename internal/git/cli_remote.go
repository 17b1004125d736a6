package git

import (
	"context"

	"github.com/lcgerke/gitflow/internal/constants"
)

// cli_remote.go contains remote operations: AddRemote, GetRemoteURL, ListRemotes,
// Push, Pull, Fetch

// AddRemote adds a remote
func (c *Client) AddRemote(name, url string) error {
	_, err := c.run("remote", "add", name, url)
	return err
}

// GetRemoteURL gets the URL for a remote
func (c *Client) GetRemoteURL(remote string) (string, error) {
	return c.run("remote", "get-url", remote)
}

// ListRemotes lists all remotes
func (c *Client) ListRemotes() ([]string, error) {
	output, err := c.run("remote")
	if err != nil {
		return nil, err
	}
	return splitLines(output), nil
}

// HasRemote reports whether a remote with the given name is configured
func (c *Client) HasRemote(name string) bool {
	remotes, err := c.ListRemotes()
	if err != nil {
		return false
	}
	for _, remote := range remotes {
		if remote == name {
			return true
		}
	}
	return false
}

// PushOptions controls push behavior
type PushOptions struct {
	SetUpstream bool
	Force       bool
	Tags        bool
}

// Push pushes a branch (or everything, when branch is empty) to a remote
func (c *Client) Push(remote, branch string, opts PushOptions) error {
	ctx, cancel := context.WithTimeout(context.Background(), constants.DefaultFetchTimeout)
	defer cancel()

	args := []string{"push"}
	if opts.SetUpstream {
		args = append(args, "-u")
	}
	if opts.Force {
		args = append(args, "--force")
	}
	if opts.Tags {
		args = append(args, "--tags")
	}
	args = append(args, remote)
	if branch != "" {
		args = append(args, branch)
	}

	_, err := c.runWithContext(ctx, args...)
	return err
}

// PushTag pushes a single tag to a remote
func (c *Client) PushTag(remote, tag string) error {
	ctx, cancel := context.WithTimeout(context.Background(), constants.DefaultFetchTimeout)
	defer cancel()

	_, err := c.runWithContext(ctx, "push", remote, tag)
	return err
}

// Pull pulls a branch from a remote
func (c *Client) Pull(remote, branch string) error {
	ctx, cancel := context.WithTimeout(context.Background(), constants.DefaultFetchTimeout)
	defer cancel()

	args := []string{"pull", remote}
	if branch != "" {
		args = append(args, branch)
	}

	_, err := c.runWithContext(ctx, args...)
	return err
}

// Fetch fetches updates and tags from a remote
func (c *Client) Fetch(remote string) error {
	ctx, cancel := context.WithTimeout(context.Background(), constants.DefaultFetchTimeout)
	defer cancel()

	_, err := c.runWithContext(ctx, "fetch", remote, "--tags")
	return err
}
