package flow

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/lcgerke/gitflow/internal/branch"
	"github.com/lcgerke/gitflow/internal/git"
	"github.com/lcgerke/gitflow/internal/notes"
	"github.com/lcgerke/gitflow/internal/platform"
	"github.com/lcgerke/gitflow/internal/version"
)

// PublishOptions are the inputs to the publish phase
type PublishOptions struct {
	// Version is an explicit version to tag. When empty, Increment is
	// applied to the latest valid tag instead.
	Version   string
	Increment version.IncrementKind
	// Title names the platform release; defaults to the tag
	Title string
	// StrictRelease turns a failed release creation into a phase failure.
	// By default it is best-effort: a missing platform release must not
	// block a successful tag and merge.
	StrictRelease bool
	Draft         bool
	Prerelease    bool
}

// PublishResult reports what the publish phase produced
type PublishResult struct {
	Version  version.Version
	Tag      string
	Branch   string
	Release  *platform.Release
	Warnings []string
}

// Publish merges the develop branch into main, tags the release version, and
// creates the platform release. Cleanup steps (release creation unless strict,
// default-branch update, remote branch deletion) are best-effort; everything
// before them aborts the phase on failure.
func (o *Orchestrator) Publish(ctx context.Context, opts PublishOptions) (*PublishResult, error) {
	if err := o.requirePlatform(); err != nil {
		return nil, err
	}

	releaseVersion, previousTag, err := o.resolveVersion(opts)
	if err != nil {
		return nil, err
	}

	developBranch, err := o.branches.FindDevelopBranch()
	if err != nil {
		return nil, err
	}

	result := &PublishResult{
		Version: releaseVersion,
		Tag:     version.NewManager().Tag(releaseVersion),
		Branch:  developBranch,
	}

	mergeMessage := fmt.Sprintf("Merge branch '%s' for release %s", developBranch, result.Tag)
	if err := o.branches.MergeToMain(developBranch, git.MergeOptions{
		NoFastForward: true,
		Message:       mergeMessage,
	}); err != nil {
		return nil, err
	}
	o.logger.Info("merged develop into main",
		zap.String("branch", developBranch),
		zap.String("version", releaseVersion.String()))

	// A tag that already exists fails here, rejecting a re-publish
	if err := o.remote.CreateAndPushTag(result.Tag, "Release "+result.Tag); err != nil {
		return nil, err
	}
	if err := o.remote.Push(o.branches.MainBranch()); err != nil {
		return nil, err
	}

	if err := o.createRelease(ctx, opts, previousTag, result); err != nil {
		return nil, err
	}
	o.promoteDefaultBranch(ctx, result)
	o.cleanupDevelop(developBranch, result)

	return result, nil
}

// resolveVersion determines the version to tag and the previous tag, if any.
// The new version must exceed the latest valid tag.
func (o *Orchestrator) resolveVersion(opts PublishOptions) (version.Version, string, error) {
	tags, err := o.git.ListTags()
	if err != nil {
		return version.Version{}, "", err
	}

	manager := version.NewManager()
	previousTag := ""
	if latest, found := version.LatestFromTags(tags); found {
		if _, err := manager.SetCurrent(latest.String()); err != nil {
			return version.Version{}, "", err
		}
		previousTag = manager.Tag(latest)
	}

	if opts.Version != "" {
		resolved, err := manager.SetCurrent(opts.Version)
		return resolved, previousTag, err
	}

	kind := opts.Increment
	if kind == "" {
		kind = version.IncrementPatch
	}
	resolved, err := manager.Increment(kind)
	return resolved, previousTag, err
}

// createRelease synthesizes release notes and creates the platform release.
// Unless StrictRelease is set, failure only produces a warning.
func (o *Orchestrator) createRelease(ctx context.Context, opts PublishOptions, previousTag string, result *PublishResult) error {
	repoName, owner, err := o.releaseTarget()
	if err != nil {
		return o.releaseFailure(opts, result, err)
	}

	compareURL := ""
	if previousTag != "" {
		compareURL = o.platform.CompareURL(owner, repoName, previousTag, result.Tag)
	}

	body := ""
	generator := notes.NewGenerator(o.git, o.notes)
	if generated, err := generator.ForRange(previousTag, result.Tag, compareURL); err != nil {
		o.logger.Warn("release notes generation failed, deferring to the platform", zap.Error(err))
	} else {
		body = generated
	}

	title := opts.Title
	if title == "" {
		title = result.Tag
	}

	release, err := o.platform.CreateRelease(ctx, owner, repoName, platform.ReleaseOptions{
		TagName:         result.Tag,
		Name:            title,
		Body:            body,
		TargetCommitish: o.branches.MainBranch(),
		Draft:           opts.Draft,
		Prerelease:      opts.Prerelease,
		GenerateNotes:   body == "",
	})
	if err != nil {
		return o.releaseFailure(opts, result, err)
	}

	result.Release = release
	o.logger.Info("created platform release", zap.String("tag", result.Tag))
	return nil
}

// releaseFailure applies the skip-on-error policy to a failed release
// creation: strict mode propagates the error, otherwise it becomes a warning.
func (o *Orchestrator) releaseFailure(opts PublishOptions, result *PublishResult, err error) error {
	if opts.StrictRelease {
		return err
	}

	warning := fmt.Sprintf("platform release was not created: %v", err)
	o.logger.Warn("release creation failed",
		zap.String("tag", result.Tag),
		zap.Error(err))
	result.Warnings = append(result.Warnings, warning)
	return nil
}

// promoteDefaultBranch best-effort sets main as the platform default branch
func (o *Orchestrator) promoteDefaultBranch(ctx context.Context, result *PublishResult) {
	repoName, owner, err := o.releaseTarget()
	if err == nil {
		err = o.platform.UpdateDefaultBranch(ctx, owner, repoName, o.branches.MainBranch())
	}
	if err != nil {
		warning := fmt.Sprintf("could not set '%s' as the default branch: %v", o.branches.MainBranch(), err)
		o.logger.Warn("default branch update failed", zap.Error(err))
		result.Warnings = append(result.Warnings, warning)
	}
}

// cleanupDevelop deletes the now-merged develop branch locally and remotely.
// Both deletions are cleanup, not correctness: failures become warnings.
func (o *Orchestrator) cleanupDevelop(developBranch string, result *PublishResult) {
	deleted, err := o.branches.DeleteBranch(developBranch, branch.DeleteOptions{
		Local:  true,
		Remote: true,
	})
	if err != nil {
		warning := fmt.Sprintf("could not delete develop branch '%s': %v", developBranch, err)
		o.logger.Warn("develop branch cleanup failed", zap.Error(err))
		result.Warnings = append(result.Warnings, warning)
		return
	}
	result.Warnings = append(result.Warnings, deleted.Warnings...)
}

// releaseTarget resolves the remote coordinates for platform calls
func (o *Orchestrator) releaseTarget() (string, string, error) {
	repoName, err := o.repositoryName()
	if err != nil {
		return "", "", err
	}
	owner, _, err := o.owner()
	if err != nil {
		return "", "", err
	}
	return repoName, owner, nil
}
