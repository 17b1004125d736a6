package git

// cli_core.go contains basic repository operations: Init, StageAll, Commit, Tag

// Init initializes a git repository with the given initial branch
func (c *Client) Init(initialBranch string) error {
	args := []string{"init"}
	if initialBranch != "" {
		args = append(args, "--initial-branch", initialBranch)
	}

	_, err := c.run(args...)
	return err
}

// StageAll stages every change in the working tree, including untracked files
func (c *Client) StageAll() error {
	_, err := c.run("add", "-A")
	return err
}

// Add stages files
func (c *Client) Add(files ...string) error {
	args := append([]string{"add"}, files...)
	_, err := c.run(args...)
	return err
}

// Commit creates a commit
func (c *Client) Commit(message string) error {
	_, err := c.run("commit", "-m", message)
	return err
}

// ConfigGet reads a git config value, returning "" when the key is unset
func (c *Client) ConfigGet(key string) string {
	out, err := c.probe("config", "--get", key)
	if err != nil {
		return ""
	}
	return out
}

// ConfigSet writes a git config value for the repository
func (c *Client) ConfigSet(key, value string) error {
	_, err := c.run("config", key, value)
	return err
}

// Tag creates a tag, annotated when a message is given
func (c *Client) Tag(name, message string) error {
	args := []string{"tag"}
	if message != "" {
		args = append(args, "-a", name, "-m", message)
	} else {
		args = append(args, name)
	}

	_, err := c.run(args...)
	return err
}
