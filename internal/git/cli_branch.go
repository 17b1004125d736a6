package git

import (
	"context"
	"fmt"
	"strings"

	"github.com/lcgerke/gitflow/internal/constants"
)

// cli_branch.go contains branch operations: ListBranches, Checkout, CheckoutNew,
// CheckoutTrackingRemote, Merge, AbortMerge, DeleteLocalBranch, DeleteRemoteBranch

// Branches holds local and remote branch names. Remote names are stripped of
// their "<remote>/" prefix so the two lists are comparable.
type Branches struct {
	Local  []string
	Remote []string
}

// All returns local and remote names merged, local first, without duplicates
func (b Branches) All() []string {
	seen := make(map[string]bool, len(b.Local)+len(b.Remote))
	var all []string
	for _, name := range append(append([]string{}, b.Local...), b.Remote...) {
		if !seen[name] {
			seen[name] = true
			all = append(all, name)
		}
	}
	return all
}

// ListBranches returns all local and remote branches
func (c *Client) ListBranches() (Branches, error) {
	ctx, cancel := context.WithTimeout(context.Background(), constants.DefaultOperationTimeout)
	defer cancel()

	var branches Branches

	localOut, err := c.runWithContext(ctx, "branch", "--format=%(refname:short)")
	if err != nil {
		return branches, err
	}
	branches.Local = splitLines(localOut)

	remoteOut, err := c.runWithContext(ctx, "branch", "-r", "--format=%(refname:short)")
	if err != nil {
		return branches, err
	}
	for _, name := range splitLines(remoteOut) {
		// Skip symbolic entries like "origin/HEAD"
		if strings.HasSuffix(name, "/HEAD") {
			continue
		}
		if idx := strings.Index(name, "/"); idx >= 0 {
			name = name[idx+1:]
		}
		branches.Remote = append(branches.Remote, name)
	}

	return branches, nil
}

// Checkout switches to an existing branch
func (c *Client) Checkout(name string) error {
	_, err := c.run("checkout", name)
	return err
}

// CheckoutNew creates a branch and switches to it
func (c *Client) CheckoutNew(name string) error {
	_, err := c.run("checkout", "-b", name)
	return err
}

// CheckoutTrackingRemote creates a local branch tracking a remote one
func (c *Client) CheckoutTrackingRemote(local, remote string) error {
	_, err := c.run("checkout", "-b", local, "--track", remote)
	return err
}

// MergeOptions controls merge behavior
type MergeOptions struct {
	NoFastForward bool
	Message       string
}

// Merge merges a branch into the current one
func (c *Client) Merge(branch string, opts MergeOptions) error {
	args := []string{"merge"}
	if opts.NoFastForward {
		args = append(args, "--no-ff")
	}
	if opts.Message != "" {
		args = append(args, "-m", opts.Message)
	}
	args = append(args, branch)

	_, err := c.run(args...)
	return err
}

// AbortMerge aborts an in-progress merge, restoring the pre-merge state
func (c *Client) AbortMerge() error {
	_, err := c.run("merge", "--abort")
	return err
}

// DeleteLocalBranch deletes a local branch
func (c *Client) DeleteLocalBranch(name string, force bool) error {
	flag := "-d"
	if force {
		flag = "-D"
	}
	_, err := c.run("branch", flag, name)
	return err
}

// DeleteRemoteBranch deletes a branch on the given remote
func (c *Client) DeleteRemoteBranch(name, remote string) error {
	ctx, cancel := context.WithTimeout(context.Background(), constants.DefaultFetchTimeout)
	defer cancel()

	_, err := c.runWithContext(ctx, "push", remote, "--delete", name)
	return err
}

// BranchExists reports whether a local branch exists
func (c *Client) BranchExists(name string) bool {
	_, err := c.probe("rev-parse", "--verify", fmt.Sprintf("refs/heads/%s", name))
	return err == nil
}

// RemoteBranchExists reports whether a branch exists in the remote-tracking refs
func (c *Client) RemoteBranchExists(remote, name string) bool {
	_, err := c.probe("rev-parse", "--verify", fmt.Sprintf("refs/remotes/%s/%s", remote, name))
	return err == nil
}
