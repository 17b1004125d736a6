package main

import (
	"context"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/lcgerke/gitflow/internal/config"
	"github.com/lcgerke/gitflow/internal/constants"
	errs "github.com/lcgerke/gitflow/internal/errors"
	"github.com/lcgerke/gitflow/internal/flow"
	"github.com/lcgerke/gitflow/internal/git"
	"github.com/lcgerke/gitflow/internal/notes"
	"github.com/lcgerke/gitflow/internal/platform"
)

// env bundles the wiring every command shares
type env struct {
	git    *git.Client
	store  config.Store
	logger *zap.Logger
}

// newEnv wires the git client, config store and logger for the working
// directory the command runs in.
func newEnv() (*env, error) {
	workdir, err := os.Getwd()
	if err != nil {
		return nil, errs.Wrap(errs.KindConfig, "could not determine the working directory", err)
	}

	return &env{
		git:    git.NewClient(workdir),
		store:  config.NewFileStore(config.RepositoryPath(workdir)),
		logger: newLogger(),
	}, nil
}

// platformClient resolves a credential for the platform kind and constructs
// the adapter. baseURL is only set for enterprise deployments.
func (e *env) platformClient(ctx context.Context, kind platform.Kind, baseURL string) (platform.Client, error) {
	resolver := config.NewCredentialResolver(e.git, e.logger)
	cred, err := resolver.Resolve(ctx, kind)
	if err != nil {
		return nil, err
	}
	cred.BaseURL = baseURL

	return platform.NewClient(cred)
}

// configuredKind reads the platform selection persisted by init
func (e *env) configuredKind() (platform.Kind, error) {
	value, ok, err := e.store.Read(constants.ConfigKeyPlatform)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", errs.WithHint(
			errs.New(errs.KindConfig, "no platform configured for this repository"),
			"Run 'gitflow init' first.",
		)
	}
	return platform.Kind(value), nil
}

// notesConfig loads the release-notes manifest from the working tree
func (e *env) notesConfig() (notes.Config, error) {
	return notes.LoadConfig(filepath.Join(e.git.Workdir(), constants.ReleaseManifestName))
}

// orchestrator assembles the workflow engine. The platform client may be nil
// for phases that never leave the local repository.
func (e *env) orchestrator(client platform.Client) (*flow.Orchestrator, error) {
	notesCfg, err := e.notesConfig()
	if err != nil {
		return nil, err
	}
	return flow.New(e.git, e.store, client, notesCfg, e.logger), nil
}
