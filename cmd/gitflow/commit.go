package main

import (
	"github.com/spf13/cobra"

	"github.com/lcgerke/gitflow/internal/flow"
)

var (
	commitMessage string
	commitName    string
	commitVersion string
)

var commitCmd = &cobra.Command{
	Use:   "commit",
	Short: "Record pending work on the develop branch",
	Long: `Stages and commits pending changes, ensures a develop branch exists (creating
it when necessary), merges the latest main into it when possible, and pushes
the branch with upstream tracking.

Repeatable any number of times; the version is never touched here.`,
	Args: cobra.NoArgs,
	RunE: runCommit,
}

func init() {
	commitCmd.Flags().StringVarP(&commitMessage, "message", "m", "", "Commit message (default: \""+flow.DefaultCommitMessage+"\")")
	commitCmd.Flags().StringVar(&commitName, "name", "", "Name a develop branch variant (develop/<slug>)")
	commitCmd.Flags().StringVar(&commitVersion, "target-version", "", "Version a develop branch variant (develop/<version>)")
}

func runCommit(cmd *cobra.Command, args []string) error {
	out := newOutput()

	e, err := newEnv()
	if err != nil {
		return err
	}

	// The commit phase never talks to the hosting platform
	orchestrator, err := e.orchestrator(nil)
	if err != nil {
		return err
	}

	result, err := orchestrator.Commit(flow.CommitOptions{
		Message:    commitMessage,
		BranchName: commitName,
		Version:    commitVersion,
	})
	if err != nil {
		return err
	}

	out.Warnings(result.Warnings)
	if result.Committed {
		out.Success("Changes committed")
	} else {
		out.Info("Working tree clean, nothing to commit")
	}
	out.Successf("Branch '%s' pushed", result.Branch)
	return nil
}
