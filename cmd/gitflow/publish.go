package main

import (
	"github.com/spf13/cobra"

	"github.com/lcgerke/gitflow/internal/flow"
	"github.com/lcgerke/gitflow/internal/version"
)

var (
	publishVersion   string
	publishIncrement string
	publishTitle     string
	publishDraft     bool
	publishPre       bool
	publishStrict    bool
)

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Merge develop into main, tag a version, and cut a release",
	Long: `Merges the develop branch into main with an explicit merge commit, creates
and pushes the version tag, pushes main, creates a platform release with
generated notes, promotes main to the platform's default branch, and deletes
the develop branch.

The version is either given explicitly or derived by incrementing the latest
tag (patch by default). Release creation is best-effort unless
--strict-release is set.`,
	Args: cobra.NoArgs,
	RunE: runPublish,
}

func init() {
	publishCmd.Flags().StringVar(&publishVersion, "version", "", "Explicit version to tag (e.g. 1.2.0)")
	publishCmd.Flags().StringVar(&publishIncrement, "increment", "patch", "Version component to bump (major|minor|patch)")
	publishCmd.Flags().StringVar(&publishTitle, "title", "", "Release title (default: the tag)")
	publishCmd.Flags().BoolVar(&publishDraft, "draft", false, "Create the release as a draft")
	publishCmd.Flags().BoolVar(&publishPre, "prerelease", false, "Mark the release as a prerelease")
	publishCmd.Flags().BoolVar(&publishStrict, "strict-release", false, "Fail the phase when release creation fails")
}

func runPublish(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := newOutput()

	e, err := newEnv()
	if err != nil {
		return err
	}

	kind, err := e.configuredKind()
	if err != nil {
		return err
	}
	client, err := e.platformClient(ctx, kind, "")
	if err != nil {
		return err
	}

	orchestrator, err := e.orchestrator(client)
	if err != nil {
		return err
	}

	result, err := orchestrator.Publish(ctx, flow.PublishOptions{
		Version:       publishVersion,
		Increment:     version.IncrementKind(publishIncrement),
		Title:         publishTitle,
		Draft:         publishDraft,
		Prerelease:    publishPre,
		StrictRelease: publishStrict,
	})
	if err != nil {
		return err
	}

	out.Warnings(result.Warnings)
	out.Successf("Published %s from branch '%s'", result.Tag, result.Branch)
	if result.Release != nil {
		out.Successf("Release '%s' created", result.Release.Name)
	} else {
		out.Warning("No platform release was created")
	}
	return nil
}
