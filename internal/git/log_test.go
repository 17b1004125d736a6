package git

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLog(t *testing.T) {
	client := newTestRepo(t)

	writeFile(t, client.Workdir(), "a.txt", "a\n")
	require.NoError(t, client.StageAll())
	require.NoError(t, client.Commit("feat: add a"))

	writeFile(t, client.Workdir(), "b.txt", "b\n")
	require.NoError(t, client.StageAll())
	require.NoError(t, client.Commit("fix: correct b"))

	commits, err := client.Log("", "")
	require.NoError(t, err)
	require.Len(t, commits, 3)

	// Newest first
	assert.Equal(t, "fix: correct b", commits[0].Subject)
	assert.Equal(t, "feat: add a", commits[1].Subject)
	assert.Equal(t, "initial commit", commits[2].Subject)
	assert.NotEmpty(t, commits[0].Hash)
	assert.NotEmpty(t, commits[0].ShortHash)
	assert.True(t, len(commits[0].ShortHash) < len(commits[0].Hash))
}

func TestLogRange(t *testing.T) {
	client := newTestRepo(t)
	require.NoError(t, client.Tag("v1.0.0", ""))

	writeFile(t, client.Workdir(), "c.txt", "c\n")
	require.NoError(t, client.StageAll())
	require.NoError(t, client.Commit("chore: add c"))

	commits, err := client.Log("v1.0.0", "HEAD")
	require.NoError(t, err)
	require.Len(t, commits, 1)
	assert.Equal(t, "chore: add c", commits[0].Subject)
}

func TestLogCommitBody(t *testing.T) {
	client := newTestRepo(t)

	writeFile(t, client.Workdir(), "d.txt", "d\n")
	require.NoError(t, client.StageAll())
	require.NoError(t, client.Commit("feat: rework API\n\nBREAKING CHANGE: removes the old endpoint"))

	commits, err := client.Log("", "")
	require.NoError(t, err)
	assert.Equal(t, "feat: rework API", commits[0].Subject)
	assert.Contains(t, commits[0].Body, "BREAKING CHANGE")
}

func TestParseLogSkipsGarbage(t *testing.T) {
	commits := parseLog("")
	assert.Empty(t, commits)

	commits = parseLog("abc\x1f")
	assert.Empty(t, commits)
}
