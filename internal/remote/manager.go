// Package remote reconciles local repository state with the hosting platform.
// Push and pull are the only synchronization primitives; conflicts surface
// through merge's native behavior and are never resolved here.
package remote

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/lcgerke/gitflow/internal/constants"
	errs "github.com/lcgerke/gitflow/internal/errors"
	"github.com/lcgerke/gitflow/internal/git"
	"github.com/lcgerke/gitflow/internal/platform"
)

// Manager wires a local repository to its remote counterpart
type Manager struct {
	git      *git.Client
	platform platform.Client
	logger   *zap.Logger
}

// NewManager creates a remote manager
func NewManager(gitClient *git.Client, platformClient platform.Client, logger *zap.Logger) *Manager {
	return &Manager{
		git:      gitClient,
		platform: platformClient,
		logger:   logger,
	}
}

// Platform returns the platform client the manager operates against
func (m *Manager) Platform() platform.Client {
	return m.platform
}

// Bootstrap ensures the remote repository exists and the local origin remote
// points at it. An existing remote repository is reused, and an existing
// origin remote is never overwritten.
func (m *Manager) Bootstrap(ctx context.Context, name string, ownerKind platform.OwnerKind, owner string, opts platform.RepositoryOptions) (*platform.Repository, error) {
	exists, err := m.platform.RepositoryExists(ctx, owner, name)
	if err != nil {
		return nil, errs.Wrap(errs.KindPlatform, fmt.Sprintf("failed to check repository %s/%s", owner, name), err)
	}

	var repo *platform.Repository
	if exists {
		m.logger.Warn("remote repository already exists, reusing it",
			zap.String("repository", fmt.Sprintf("%s/%s", owner, name)))
		repo, err = m.platform.GetRepository(ctx, owner, name)
		if err != nil {
			return nil, errs.Wrap(errs.KindPlatform, fmt.Sprintf("failed to fetch repository %s/%s", owner, name), err)
		}
		if repo == nil {
			return nil, errs.New(errs.KindPlatform, fmt.Sprintf("repository %s/%s vanished between existence check and fetch", owner, name))
		}
	} else {
		opts.Name = name
		switch ownerKind {
		case platform.OwnerOrganization:
			repo, err = m.platform.CreateOrganizationRepository(ctx, owner, opts)
		default:
			repo, err = m.platform.CreateUserRepository(ctx, opts)
		}
		if err != nil {
			return nil, errs.Wrap(errs.KindPlatform, fmt.Sprintf("failed to create repository %s", name), err)
		}
		m.logger.Info("created remote repository",
			zap.String("repository", repo.FullName),
			zap.Bool("private", repo.Private))
	}

	if err := m.wireOrigin(repo); err != nil {
		return nil, err
	}

	return repo, nil
}

// wireOrigin adds the origin remote when missing. An already-configured
// origin stays untouched even when its URL differs.
func (m *Manager) wireOrigin(repo *platform.Repository) error {
	if m.git.HasRemote(constants.DefaultRemote) {
		current, err := m.git.GetRemoteURL(constants.DefaultRemote)
		if err == nil && current != repo.CloneURL && current != repo.SSHURL {
			m.logger.Warn("origin remote already configured with a different URL, keeping it",
				zap.String("configured", current),
				zap.String("platform", repo.CloneURL))
		}
		return nil
	}

	if err := m.git.AddRemote(constants.DefaultRemote, repo.CloneURL); err != nil {
		return err
	}
	m.logger.Info("configured origin remote", zap.String("url", repo.CloneURL))
	return nil
}

// Push pushes a branch to origin
func (m *Manager) Push(branch string) error {
	return m.git.Push(constants.DefaultRemote, branch, git.PushOptions{})
}

// PushWithUpstream pushes a branch and sets its upstream tracking ref
func (m *Manager) PushWithUpstream(branch string) error {
	return m.git.Push(constants.DefaultRemote, branch, git.PushOptions{SetUpstream: true})
}

// ForcePush force-pushes a branch. Explicit opt-in only.
func (m *Manager) ForcePush(branch string) error {
	m.logger.Warn("force pushing", zap.String("branch", branch))
	return m.git.Push(constants.DefaultRemote, branch, git.PushOptions{Force: true})
}

// Pull pulls a branch from origin
func (m *Manager) Pull(branch string) error {
	return m.git.Pull(constants.DefaultRemote, branch)
}

// Fetch fetches refs and tags from origin
func (m *Manager) Fetch() error {
	return m.git.Fetch(constants.DefaultRemote)
}

// CreateAndPushTag creates an annotated tag and pushes it. A tag that already
// exists fails here, which is what rejects re-publishing a version.
func (m *Manager) CreateAndPushTag(name, message string) error {
	if err := m.git.Tag(name, message); err != nil {
		return err
	}
	if err := m.git.PushTag(constants.DefaultRemote, name); err != nil {
		return err
	}
	m.logger.Info("created and pushed tag", zap.String("tag", name))
	return nil
}

// SyncBranch checks out a branch and pulls its latest state from origin
func (m *Manager) SyncBranch(name string) error {
	if err := m.git.Checkout(name); err != nil {
		return err
	}
	return m.git.Pull(constants.DefaultRemote, name)
}
