package branch

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	errs "github.com/lcgerke/gitflow/internal/errors"
	"github.com/lcgerke/gitflow/internal/git"
)

// newTestManager creates a manager over a fresh repository with one commit
func newTestManager(t *testing.T) (*Manager, *git.Client) {
	t.Helper()

	dir := t.TempDir()
	client := git.NewClient(dir)
	require.NoError(t, client.Init("main"))

	cfg := exec.Command("git", "-C", dir, "config", "user.email", "test@example.com")
	require.NoError(t, cfg.Run())
	cfg = exec.Command("git", "-C", dir, "config", "user.name", "Test User")
	require.NoError(t, cfg.Run())

	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("# test\n"), 0644))
	require.NoError(t, client.StageAll())
	require.NoError(t, client.Commit("initial commit"))

	return NewManager(client, zap.NewNop(), "main", "develop"), client
}

func TestSlug(t *testing.T) {
	assert.Equal(t, "add-login-", Slug("Add Login!"))
	assert.Equal(t, "fix-bug-42", Slug("Fix Bug 42"))
	assert.Equal(t, "already-fine", Slug("already-fine"))
	assert.Equal(t, "---", Slug("!@#"))
}

func TestGenerateName(t *testing.T) {
	name, err := GenerateName(RoleFeature, "Add Login!", "")
	require.NoError(t, err)
	assert.Equal(t, "feature/add-login-", name)

	name, err = GenerateName(RoleBugfix, "Crash On Start", "")
	require.NoError(t, err)
	assert.Equal(t, "bugfix/crash-on-start", name)

	// Version wins over slug for hotfix and release
	name, err = GenerateName(RoleHotfix, "urgent", "1.2.4")
	require.NoError(t, err)
	assert.Equal(t, "hotfix/1.2.4", name)

	name, err = GenerateName(RoleRelease, "Spring Release", "")
	require.NoError(t, err)
	assert.Equal(t, "release/spring-release", name)

	_, err = GenerateName(RoleMain, "x", "")
	require.Error(t, err)
	assert.True(t, errs.IsValidation(err))
}

func TestClassify(t *testing.T) {
	m, _ := newTestManager(t)

	tests := map[string]Role{
		"main":              RoleMain,
		"develop":           RoleDevelop,
		"develop/1.2.0":     RoleDevelop,
		"feature/add-login": RoleFeature,
		"bugfix/crash":      RoleBugfix,
		"hotfix/1.0.1":      RoleHotfix,
		"release/1.1.0":     RoleRelease,
		"experiment":        RoleOther,
	}
	for name, want := range tests {
		assert.Equal(t, want, m.Classify(name), "branch %q", name)
	}
}

func TestCurrentRole(t *testing.T) {
	m, client := newTestManager(t)

	role, err := m.CurrentRole()
	require.NoError(t, err)
	assert.Equal(t, RoleMain, role)

	require.NoError(t, client.CheckoutNew("feature/shiny"))
	role, err = m.CurrentRole()
	require.NoError(t, err)
	assert.Equal(t, RoleFeature, role)
}

func TestCreateDevelopBranch(t *testing.T) {
	m, client := newTestManager(t)

	name, err := m.CreateDevelopBranch("", "")
	require.NoError(t, err)
	assert.Equal(t, "develop", name)

	current, err := client.CurrentBranch()
	require.NoError(t, err)
	assert.Equal(t, "develop", current)

	// Re-running while on develop is a no-op
	name, err = m.CreateDevelopBranch("", "")
	require.NoError(t, err)
	assert.Equal(t, "develop", name)
}

func TestCreateDevelopBranchReusesExisting(t *testing.T) {
	m, client := newTestManager(t)

	require.NoError(t, client.CheckoutNew("develop/1.2.0"))
	require.NoError(t, client.Checkout("main"))

	// Existing develop variant is checked out rather than a new one created
	name, err := m.CreateDevelopBranch("", "")
	require.NoError(t, err)
	assert.Equal(t, "develop/1.2.0", name)

	branches, err := client.ListBranches()
	require.NoError(t, err)
	assert.NotContains(t, branches.Local, "develop")
}

func TestCreateDevelopBranchVersioned(t *testing.T) {
	m, client := newTestManager(t)

	name, err := m.CreateDevelopBranch("", "2.0.0")
	require.NoError(t, err)
	assert.Equal(t, "develop/2.0.0", name)

	current, err := client.CurrentBranch()
	require.NoError(t, err)
	assert.Equal(t, "develop/2.0.0", current)
}

func TestFindDevelopBranch(t *testing.T) {
	m, client := newTestManager(t)

	// Nothing resembling develop exists
	_, err := m.FindDevelopBranch()
	require.Error(t, err)
	assert.True(t, errs.IsValidation(err))

	require.NoError(t, client.CheckoutNew("develop"))
	name, err := m.FindDevelopBranch()
	require.NoError(t, err)
	assert.Equal(t, "develop", name)

	// From main, the local develop branch is found and checked out
	require.NoError(t, client.Checkout("main"))
	name, err = m.FindDevelopBranch()
	require.NoError(t, err)
	assert.Equal(t, "develop", name)

	current, err := client.CurrentBranch()
	require.NoError(t, err)
	assert.Equal(t, "develop", current)
}

func TestMergeToMain(t *testing.T) {
	m, client := newTestManager(t)

	require.NoError(t, client.CheckoutNew("develop"))
	require.NoError(t, os.WriteFile(filepath.Join(client.Workdir(), "f.txt"), []byte("x\n"), 0644))
	require.NoError(t, client.StageAll())
	require.NoError(t, client.Commit("feat: add f"))

	err := m.MergeToMain("develop", git.MergeOptions{NoFastForward: true, Message: "merge develop"})
	require.NoError(t, err)

	current, err := client.CurrentBranch()
	require.NoError(t, err)
	assert.Equal(t, "main", current)
}

func TestDeleteBranch(t *testing.T) {
	m, client := newTestManager(t)

	require.NoError(t, client.CheckoutNew("develop"))
	require.NoError(t, client.Checkout("main"))

	result, err := m.DeleteBranch("develop", DeleteOptions{Local: true})
	require.NoError(t, err)
	assert.True(t, result.LocalDeleted)
	assert.Empty(t, result.Warnings)
	assert.False(t, client.BranchExists("develop"))
}

func TestDeleteBranchRefusesMain(t *testing.T) {
	m, _ := newTestManager(t)

	_, err := m.DeleteBranch("main", DeleteOptions{Local: true, Force: true})
	require.Error(t, err)
	assert.True(t, errs.IsValidation(err))
}

func TestDeleteBranchRemoteFailureIsWarning(t *testing.T) {
	m, client := newTestManager(t)

	require.NoError(t, client.CheckoutNew("develop"))
	require.NoError(t, client.Checkout("main"))

	// No origin remote configured: remote deletion fails, but only as a warning
	result, err := m.DeleteBranch("develop", DeleteOptions{Local: true, Remote: true})
	require.NoError(t, err)
	assert.True(t, result.LocalDeleted)
	assert.False(t, result.RemoteDeleted)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "develop")
}
