package git

import (
	"context"
	"fmt"
	"strings"

	"github.com/lcgerke/gitflow/internal/constants"
)

// Commit is one entry of the repository log
type Commit struct {
	Hash      string
	ShortHash string
	Subject   string
	Body      string
}

// Field and record separators for machine-readable log output
const (
	logFormat = "%H%x1f%h%x1f%s%x1f%b%x1e"
	fieldSep  = "\x1f"
	recordSep = "\x1e"
)

// Log returns commits in the range from..to, newest first. An empty from
// yields the full history up to "to"; an empty to means HEAD.
func (c *Client) Log(from, to string) ([]Commit, error) {
	ctx, cancel := context.WithTimeout(context.Background(), constants.DefaultOperationTimeout)
	defer cancel()

	if to == "" {
		to = "HEAD"
	}

	args := []string{"log", "--pretty=format:" + logFormat}
	if from != "" {
		args = append(args, fmt.Sprintf("%s..%s", from, to))
	} else {
		args = append(args, to)
	}

	output, err := c.runWithContext(ctx, args...)
	if err != nil {
		return nil, err
	}

	return parseLog(output), nil
}

// parseLog splits raw log output into commits
func parseLog(output string) []Commit {
	var commits []Commit
	for _, record := range strings.Split(output, recordSep) {
		record = strings.TrimLeft(record, "\n")
		if record == "" {
			continue
		}

		fields := strings.SplitN(record, fieldSep, 4)
		if len(fields) < 3 {
			continue
		}

		commit := Commit{
			Hash:      fields[0],
			ShortHash: fields[1],
			Subject:   strings.TrimSpace(fields[2]),
		}
		if len(fields) == 4 {
			commit.Body = strings.TrimSpace(fields[3])
		}
		commits = append(commits, commit)
	}
	return commits
}
