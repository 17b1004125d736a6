// Package branch encodes the branch-naming policy and lifecycle operations of
// the release workflow.
package branch

import (
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/lcgerke/gitflow/internal/constants"
	errs "github.com/lcgerke/gitflow/internal/errors"
	"github.com/lcgerke/gitflow/internal/git"
)

// Role classifies a branch by its position in the workflow
type Role string

const (
	RoleMain    Role = "main"
	RoleDevelop Role = "develop"
	RoleFeature Role = "feature"
	RoleBugfix  Role = "bugfix"
	RoleHotfix  Role = "hotfix"
	RoleRelease Role = "release"
	RoleOther   Role = "other"
)

var slugInvalidChars = regexp.MustCompile(`[^a-z0-9-]`)

// Slug normalizes a free-form name into branch-name-safe form: lower-cased,
// every character outside [a-z0-9-] replaced by a dash.
func Slug(name string) string {
	return slugInvalidChars.ReplaceAllString(strings.ToLower(name), "-")
}

// GenerateName applies the deterministic naming policy for a branch type.
// Hotfix and release branches prefer the version over the slug.
func GenerateName(role Role, name, version string) (string, error) {
	switch role {
	case RoleFeature, RoleBugfix:
		return fmt.Sprintf("%s/%s", role, Slug(name)), nil
	case RoleHotfix, RoleRelease:
		if version != "" {
			return fmt.Sprintf("%s/%s", role, version), nil
		}
		return fmt.Sprintf("%s/%s", role, Slug(name)), nil
	default:
		return "", errs.New(errs.KindValidation, fmt.Sprintf("cannot generate a name for branch role '%s'", role))
	}
}

// Manager performs branch lifecycle operations against one repository
type Manager struct {
	git     *git.Client
	logger  *zap.Logger
	main    string
	develop string
}

// NewManager creates a branch manager with the configured main and develop
// branch names (empty values fall back to the defaults).
func NewManager(gitClient *git.Client, logger *zap.Logger, main, develop string) *Manager {
	if main == "" {
		main = constants.DefaultMainBranch
	}
	if develop == "" {
		develop = constants.DefaultDevelopBranch
	}
	return &Manager{
		git:     gitClient,
		logger:  logger,
		main:    main,
		develop: develop,
	}
}

// MainBranch returns the configured main branch name
func (m *Manager) MainBranch() string {
	return m.main
}

// DevelopBranch returns the configured develop branch name
func (m *Manager) DevelopBranch() string {
	return m.develop
}

// Classify determines the role of a branch name
func (m *Manager) Classify(name string) Role {
	switch {
	case name == m.main:
		return RoleMain
	case name == m.develop || strings.HasPrefix(name, m.develop+"/"):
		return RoleDevelop
	case strings.HasPrefix(name, "feature/"):
		return RoleFeature
	case strings.HasPrefix(name, "bugfix/"):
		return RoleBugfix
	case strings.HasPrefix(name, "hotfix/"):
		return RoleHotfix
	case strings.HasPrefix(name, "release/"):
		return RoleRelease
	default:
		return RoleOther
	}
}

// CurrentRole classifies the active branch
func (m *Manager) CurrentRole() (Role, error) {
	current, err := m.git.CurrentBranch()
	if err != nil {
		return RoleOther, err
	}
	return m.Classify(current), nil
}

// developTarget resolves the develop branch name for an optional variant
func (m *Manager) developTarget(name, version string) string {
	switch {
	case version != "":
		return fmt.Sprintf("%s/%s", m.develop, version)
	case name != "":
		return fmt.Sprintf("%s/%s", m.develop, Slug(name))
	default:
		return m.develop
	}
}

// CreateDevelopBranch ensures a develop branch exists and is checked out.
// An existing local or remote develop branch is reused, never recreated.
func (m *Manager) CreateDevelopBranch(name, version string) (string, error) {
	target := m.developTarget(name, version)

	current, err := m.git.CurrentBranch()
	if err == nil && m.Classify(current) == RoleDevelop {
		return current, nil
	}

	branches, err := m.git.ListBranches()
	if err != nil {
		return "", err
	}

	// Exact target first, then any develop-role branch
	if local := m.pickDevelop(branches.Local, target); local != "" {
		if err := m.git.Checkout(local); err != nil {
			return "", err
		}
		return local, nil
	}
	if remote := m.pickDevelop(branches.Remote, target); remote != "" {
		trackRef := fmt.Sprintf("%s/%s", constants.DefaultRemote, remote)
		if err := m.git.CheckoutTrackingRemote(remote, trackRef); err != nil {
			return "", err
		}
		return remote, nil
	}

	if err := m.git.CheckoutNew(target); err != nil {
		return "", err
	}
	m.logger.Info("created develop branch", zap.String("branch", target))
	return target, nil
}

// pickDevelop returns the exact target when present, otherwise the first
// branch classified as develop, otherwise empty.
func (m *Manager) pickDevelop(names []string, target string) string {
	first := ""
	for _, name := range names {
		if name == target {
			return name
		}
		if first == "" && m.Classify(name) == RoleDevelop {
			first = name
		}
	}
	return first
}

// FindDevelopBranch locates the active develop branch for publishing: the
// current branch when it already has the develop role, otherwise the first
// matching local branch, otherwise the first matching remote branch checked
// out locally. Absence is a validation error.
func (m *Manager) FindDevelopBranch() (string, error) {
	current, err := m.git.CurrentBranch()
	if err == nil && m.Classify(current) == RoleDevelop {
		return current, nil
	}

	branches, err := m.git.ListBranches()
	if err != nil {
		return "", err
	}

	for _, name := range branches.Local {
		if m.Classify(name) == RoleDevelop {
			if err := m.git.Checkout(name); err != nil {
				return "", err
			}
			return name, nil
		}
	}

	for _, name := range branches.Remote {
		if m.Classify(name) == RoleDevelop {
			trackRef := fmt.Sprintf("%s/%s", constants.DefaultRemote, name)
			if err := m.git.CheckoutTrackingRemote(name, trackRef); err != nil {
				return "", err
			}
			return name, nil
		}
	}

	return "", errs.NoDevelopBranch(m.develop)
}

// CheckoutMain switches to the main branch
func (m *Manager) CheckoutMain() error {
	return m.git.Checkout(m.main)
}

// MergeToMain checks out main and merges the given branch into it
func (m *Manager) MergeToMain(name string, opts git.MergeOptions) error {
	if err := m.CheckoutMain(); err != nil {
		return err
	}
	return m.git.Merge(name, opts)
}

// MergeFromMain merges the main branch into the current one
func (m *Manager) MergeFromMain(opts git.MergeOptions) error {
	return m.git.Merge(m.main, opts)
}

// DeleteOptions selects where a branch is deleted
type DeleteOptions struct {
	Local  bool
	Remote bool
	Force  bool
}

// DeleteResult reports what a deletion achieved. Remote-deletion failures are
// recoverable (deleting the platform's current default branch is expected to
// fail) and surface here as warnings instead of errors.
type DeleteResult struct {
	LocalDeleted  bool
	RemoteDeleted bool
	Warnings      []string
}

// DeleteBranch deletes a branch locally and/or remotely. The main branch is
// never deleted.
func (m *Manager) DeleteBranch(name string, opts DeleteOptions) (DeleteResult, error) {
	var result DeleteResult

	if name == m.main {
		return result, errs.New(errs.KindValidation, fmt.Sprintf("refusing to delete the main branch '%s'", name))
	}

	if opts.Local {
		if err := m.git.DeleteLocalBranch(name, opts.Force); err != nil {
			return result, err
		}
		result.LocalDeleted = true
	}

	if opts.Remote {
		if err := m.git.DeleteRemoteBranch(name, constants.DefaultRemote); err != nil {
			warning := fmt.Sprintf("could not delete remote branch '%s': %v", name, err)
			m.logger.Warn("remote branch deletion failed",
				zap.String("branch", name),
				zap.Error(err))
			result.Warnings = append(result.Warnings, warning)
		} else {
			result.RemoteDeleted = true
		}
	}

	return result, nil
}
