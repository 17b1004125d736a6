package flow

import (
	"context"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/lcgerke/gitflow/internal/constants"
	errs "github.com/lcgerke/gitflow/internal/errors"
	"github.com/lcgerke/gitflow/internal/notes"
	"github.com/lcgerke/gitflow/internal/platform"
)

// InitOptions are the inputs to the initialize phase
type InitOptions struct {
	RepoName    string
	OwnerKind   platform.OwnerKind
	Owner       string
	Description string
	Private     bool
}

// InitResult reports what the initialize phase produced
type InitResult struct {
	Repository *platform.Repository
	Warnings   []string
}

// ignoreTemplate is the default ignore-file written into fresh repositories
const ignoreTemplate = `# Dependencies
node_modules/
vendor/

# Build output
dist/
build/
bin/
*.exe

# IDE
.idea/
.vscode/
*.swp

# Logs
*.log
logs/

# Coverage
coverage/
*.out

# Temporary files
*.tmp
.DS_Store
`

// Init bootstraps the repository: local tree, remote repository, origin
// remote, and the generated artifacts. It is idempotent; re-running against a
// configured repository only warns and reuses what exists.
func (o *Orchestrator) Init(ctx context.Context, opts InitOptions) (*InitResult, error) {
	if err := o.requirePlatform(); err != nil {
		return nil, err
	}
	if opts.RepoName == "" {
		return nil, errs.New(errs.KindValidation, "a repository name is required")
	}
	if opts.Owner == "" {
		return nil, errs.New(errs.KindValidation, "a repository owner is required")
	}

	result := &InitResult{}

	if o.git.IsRepository() {
		if o.git.HasRemote(constants.DefaultRemote) {
			warning := "directory is already an initialized repository with an origin remote, reusing it"
			o.logger.Warn(warning)
			result.Warnings = append(result.Warnings, warning)
		}
	} else {
		if err := o.git.Init(o.branches.MainBranch()); err != nil {
			return nil, err
		}
		o.logger.Info("initialized repository", zap.String("branch", o.branches.MainBranch()))
	}

	if err := o.persistSelection(opts); err != nil {
		return nil, err
	}

	repo, err := o.remote.Bootstrap(ctx, opts.RepoName, opts.OwnerKind, opts.Owner, platform.RepositoryOptions{
		Description: opts.Description,
		Private:     opts.Private,
	})
	if err != nil {
		return nil, err
	}
	result.Repository = repo

	if err := o.writeIgnoreFile(); err != nil {
		return nil, err
	}
	if err := notes.WriteDefaultManifest(filepath.Join(o.git.Workdir(), constants.ReleaseManifestName)); err != nil {
		return nil, err
	}

	return result, nil
}

// persistSelection records the platform and owner choice for later phases
func (o *Orchestrator) persistSelection(opts InitOptions) error {
	if err := o.store.Write(constants.ConfigKeyPlatform, string(o.platform.Kind())); err != nil {
		return err
	}
	if err := o.store.Write(constants.ConfigKeyOwnerKind, string(opts.OwnerKind)); err != nil {
		return err
	}
	return o.store.Write(constants.ConfigKeyOwner, opts.Owner)
}

// writeIgnoreFile writes the default ignore-file unless one already exists
func (o *Orchestrator) writeIgnoreFile() error {
	path := filepath.Join(o.git.Workdir(), constants.IgnoreFileName)
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	if err := os.WriteFile(path, []byte(ignoreTemplate), 0644); err != nil {
		return errs.ConfigWrite(path, err)
	}
	o.logger.Info("wrote default ignore file")
	return nil
}
