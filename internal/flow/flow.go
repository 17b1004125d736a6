// Package flow drives a repository through the three-phase release lifecycle:
// initialize, commit, publish. The orchestrator is strictly sequential and
// assumes exclusive ownership of one working tree per invocation; it never
// caches repository state, re-deriving it from the tree on every phase so a
// failed run can simply be re-run.
package flow

import (
	"strings"

	"go.uber.org/zap"

	"github.com/lcgerke/gitflow/internal/branch"
	"github.com/lcgerke/gitflow/internal/config"
	"github.com/lcgerke/gitflow/internal/constants"
	errs "github.com/lcgerke/gitflow/internal/errors"
	"github.com/lcgerke/gitflow/internal/git"
	"github.com/lcgerke/gitflow/internal/notes"
	"github.com/lcgerke/gitflow/internal/platform"
	"github.com/lcgerke/gitflow/internal/remote"
)

// State is the derived lifecycle position of a repository
type State string

const (
	StateUninitialized   State = "uninitialized"
	StateRepositoryReady State = "repository-ready"
	StateDevelopActive   State = "develop-active"
	StatePublished       State = "published"
)

// Orchestrator composes the workflow managers into the release lifecycle
type Orchestrator struct {
	git      *git.Client
	store    config.Store
	platform platform.Client
	branches *branch.Manager
	remote   *remote.Manager
	notes    notes.Config
	logger   *zap.Logger
}

// New creates an orchestrator over one working tree. The platform client may
// be nil when only the commit phase will run; init and publish require it.
func New(gitClient *git.Client, store config.Store, platformClient platform.Client, notesCfg notes.Config, logger *zap.Logger) *Orchestrator {
	return &Orchestrator{
		git:      gitClient,
		store:    store,
		platform: platformClient,
		branches: branch.NewManager(gitClient, logger, "", ""),
		remote:   remote.NewManager(gitClient, platformClient, logger),
		notes:    notesCfg,
		logger:   logger,
	}
}

// State derives the current lifecycle state from the working tree. It is
// informational; phases validate their own preconditions.
func (o *Orchestrator) State() State {
	if !o.git.IsRepository() {
		return StateUninitialized
	}
	if !o.git.HasRemote(constants.DefaultRemote) {
		return StateUninitialized
	}

	branches, err := o.git.ListBranches()
	if err != nil {
		return StateRepositoryReady
	}
	for _, name := range branches.All() {
		if o.branches.Classify(name) == branch.RoleDevelop {
			return StateDevelopActive
		}
	}

	if tags, err := o.git.ListTags(); err == nil && len(tags) > 0 {
		return StatePublished
	}
	return StateRepositoryReady
}

// CurrentRole classifies the active branch within the workflow
func (o *Orchestrator) CurrentRole() (branch.Role, error) {
	return o.branches.CurrentRole()
}

// requirePlatform guards the phases that talk to the hosting platform
func (o *Orchestrator) requirePlatform() error {
	if o.platform == nil {
		return errs.New(errs.KindConfig, "no platform client configured")
	}
	return nil
}

// repositoryName returns the remote repository name derived from the origin
// URL, so it never drifts from what the remote actually points at.
func (o *Orchestrator) repositoryName() (string, error) {
	url, err := o.git.GetRemoteURL(constants.DefaultRemote)
	if err != nil {
		return "", errs.Wrap(errs.KindRepository, "no origin remote configured", err)
	}

	name := repoNameFromURL(url)
	if name == "" {
		return "", errs.New(errs.KindRepository, "could not derive a repository name from the origin URL "+url)
	}
	return name, nil
}

// repoNameFromURL extracts the repository name from an HTTPS or SSH clone URL
func repoNameFromURL(url string) string {
	url = strings.TrimSuffix(strings.TrimSuffix(url, "/"), ".git")
	if idx := strings.LastIndexAny(url, "/:"); idx >= 0 {
		url = url[idx+1:]
	}
	return url
}

// owner reads the configured owner identity persisted by the init phase
func (o *Orchestrator) owner() (string, platform.OwnerKind, error) {
	owner, ok, err := o.store.Read(constants.ConfigKeyOwner)
	if err != nil {
		return "", "", err
	}
	if !ok || owner == "" {
		return "", "", errs.WithHint(
			errs.New(errs.KindConfig, "no repository owner configured"),
			"Run 'gitflow init' first.",
		)
	}

	kindValue, _, err := o.store.Read(constants.ConfigKeyOwnerKind)
	if err != nil {
		return "", "", err
	}
	kind := platform.OwnerKind(kindValue)
	if kind != platform.OwnerOrganization {
		kind = platform.OwnerUser
	}
	return owner, kind, nil
}
