package flow

import (
	"fmt"

	"go.uber.org/zap"

	errs "github.com/lcgerke/gitflow/internal/errors"
	"github.com/lcgerke/gitflow/internal/git"
)

// DefaultCommitMessage is used when the caller supplies none
const DefaultCommitMessage = "chore: update project"

// CommitOptions are the inputs to the commit phase
type CommitOptions struct {
	Message string
	// BranchName and Version select a develop branch variant
	// (develop/<slug> or develop/<version>) instead of plain develop.
	BranchName string
	Version    string
}

// CommitResult reports what the commit phase produced
type CommitResult struct {
	Branch    string
	Committed bool
	Warnings  []string
}

// Commit records pending work on a develop branch and pushes it. Version
// state is never touched here; the phase is repeatable any number of times.
func (o *Orchestrator) Commit(opts CommitOptions) (*CommitResult, error) {
	if !o.git.IsRepository() {
		return nil, errs.NotARepository(o.git.Workdir())
	}

	// Fail fast before anything is staged
	conflicts, err := o.git.ConflictFiles()
	if err != nil {
		return nil, err
	}
	if len(conflicts) > 0 {
		return nil, errs.ConflictsExist(len(conflicts))
	}

	result := &CommitResult{}

	dirty, err := o.git.HasUncommittedChanges()
	if err != nil {
		return nil, err
	}
	if dirty {
		message := opts.Message
		if message == "" {
			message = DefaultCommitMessage
		}
		if err := o.git.StageAll(); err != nil {
			return nil, err
		}
		if err := o.git.Commit(message); err != nil {
			return nil, err
		}
		result.Committed = true
		o.logger.Info("committed changes", zap.String("message", message))
	}

	developBranch, err := o.branches.CreateDevelopBranch(opts.BranchName, opts.Version)
	if err != nil {
		return nil, err
	}
	result.Branch = developBranch

	o.syncWithMain(result)

	if err := o.remote.PushWithUpstream(developBranch); err != nil {
		return nil, err
	}
	o.logger.Info("pushed develop branch", zap.String("branch", developBranch))

	return result, nil
}

// syncWithMain best-effort merges the latest main into the develop branch.
// Failure here is expected on a first-ever commit (main may not exist yet or
// may conflict) and only produces a warning; a conflicted merge is aborted so
// the tree stays clean.
func (o *Orchestrator) syncWithMain(result *CommitResult) {
	if !o.git.BranchExists(o.branches.MainBranch()) {
		return
	}

	err := o.branches.MergeFromMain(git.MergeOptions{})
	if err == nil {
		return
	}

	if conflicted, cerr := o.git.HasConflicts(); cerr == nil && conflicted {
		if aerr := o.git.AbortMerge(); aerr != nil {
			o.logger.Warn("failed to abort conflicted merge", zap.Error(aerr))
		}
	}

	warning := fmt.Sprintf("could not merge '%s' into '%s', continuing without the sync: %v",
		o.branches.MainBranch(), result.Branch, err)
	o.logger.Warn("main sync skipped",
		zap.String("branch", result.Branch),
		zap.Error(err))
	result.Warnings = append(result.Warnings, warning)
}
