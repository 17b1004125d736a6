package notes

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lcgerke/gitflow/internal/git"
)

func commit(subject string) git.Commit {
	return git.Commit{Subject: subject, ShortHash: "abc1234"}
}

func TestGenerateSectionsInOrder(t *testing.T) {
	commits := []git.Commit{
		commit("feat: add X"),
		commit("fix: correct Y"),
		commit("chore: bump deps"),
	}

	body := Generate(commits, DefaultConfig(), "")
	require.NotEmpty(t, body)

	features := strings.Index(body, "### New Features")
	fixes := strings.Index(body, "### Bug Fixes")
	chores := strings.Index(body, "### Chores")
	require.True(t, features >= 0 && fixes >= 0 && chores >= 0, "all three sections present:\n%s", body)
	assert.Less(t, features, fixes)
	assert.Less(t, fixes, chores)

	assert.Contains(t, body, "- add X (abc1234)")
	assert.Contains(t, body, "- correct Y (abc1234)")
	assert.Contains(t, body, "- bump deps (abc1234)")
}

func TestGenerateBreakingChanges(t *testing.T) {
	commits := []git.Commit{
		{Subject: "feat: rework API", Body: "BREAKING CHANGE: removes old endpoint", ShortHash: "aaa1111"},
		{Subject: "feat(auth)!: drop basic auth", ShortHash: "bbb2222"},
		commit("fix: correct Y"),
	}

	body := Generate(commits, DefaultConfig(), "")
	require.Contains(t, body, "### Breaking Changes")
	assert.Contains(t, body, "- rework API (aaa1111)")
	assert.Contains(t, body, "- drop basic auth (bbb2222)")

	// Breaking section comes before everything else
	assert.Less(t, strings.Index(body, "### Breaking Changes"), strings.Index(body, "### Bug Fixes"))
}

func TestGenerateScopedPrefix(t *testing.T) {
	commits := []git.Commit{
		commit("feat(login): add remember-me"),
		commit("docs(readme): document setup"),
	}

	body := Generate(commits, DefaultConfig(), "")
	assert.Contains(t, body, "- add remember-me (abc1234)")
	assert.Contains(t, body, "### Documentation")
	assert.Contains(t, body, "- document setup (abc1234)")
}

func TestGenerateBelowThresholdReturnsEmpty(t *testing.T) {
	commits := []git.Commit{
		commit("feat: only one conventional commit"),
		commit("random change"),
		commit("another random change"),
	}

	// Default threshold is 2 conventional commits
	body := Generate(commits, DefaultConfig(), "")
	assert.Empty(t, body, "below-threshold log must signal the platform fallback")
}

func TestGenerateSmartCategorization(t *testing.T) {
	commits := []git.Commit{
		commit("feat: add X"),
		commit("fix: correct Y"),
		commit("Fix crash when file is missing"),
		commit("completely unclassifiable"),
	}

	body := Generate(commits, DefaultConfig(), "")
	assert.Contains(t, body, "- Fix crash when file is missing (abc1234)")
	assert.Contains(t, body, "### Other Changes")
	assert.Contains(t, body, "- completely unclassifiable (abc1234)")

	// With smart categorization off, the keyword commit lands in Other
	cfg := DefaultConfig()
	cfg.SmartCategorize = false
	body = Generate(commits, cfg, "")
	fixes := body[strings.Index(body, "### Bug Fixes"):strings.Index(body, "### Other Changes")]
	assert.NotContains(t, fixes, "crash when file is missing")
}

func TestGenerateCompareLink(t *testing.T) {
	commits := []git.Commit{
		commit("feat: add X"),
		commit("fix: correct Y"),
	}

	body := Generate(commits, DefaultConfig(), "https://github.com/lcgerke/widget/compare/v1.0.0...v1.1.0")
	assert.Contains(t, body, "**Full Changelog**: https://github.com/lcgerke/widget/compare/v1.0.0...v1.1.0")

	body = Generate(commits, DefaultConfig(), "")
	assert.NotContains(t, body, "Full Changelog")
}

func TestGenerateEmptyLog(t *testing.T) {
	assert.Empty(t, Generate(nil, DefaultConfig(), ""))
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().MinConventional, cfg.MinConventional)
}

func TestWriteDefaultManifest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "release.yml")
	require.NoError(t, WriteDefaultManifest(path))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.True(t, cfg.SmartCategorize)
	assert.Equal(t, "New Features", cfg.title(CategoryFeature))

	// Never overwritten
	require.NoError(t, os.WriteFile(path, []byte("minimum_conventional_commits: 9\n"), 0644))
	require.NoError(t, WriteDefaultManifest(path))
	cfg, err = LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 9, cfg.MinConventional)
}
