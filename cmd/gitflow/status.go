package main

import (
	"github.com/spf13/cobra"

	errs "github.com/lcgerke/gitflow/internal/errors"
	"github.com/lcgerke/gitflow/internal/version"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show where the repository is in the release lifecycle",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	out := newOutput()

	e, err := newEnv()
	if err != nil {
		return err
	}
	if !e.git.IsRepository() {
		return errs.NotARepository(e.git.Workdir())
	}

	orchestrator, err := e.orchestrator(nil)
	if err != nil {
		return err
	}

	out.Header("Repository status")
	out.Infof("Lifecycle state: %s", orchestrator.State())

	current, err := e.git.CurrentBranch()
	if err != nil {
		return err
	}
	role, err := orchestrator.CurrentRole()
	if err != nil {
		return err
	}
	out.Infof("Current branch:  %s (%s)", current, role)

	dirty, err := e.git.HasUncommittedChanges()
	if err != nil {
		return err
	}
	if dirty {
		out.Warning("Working tree has uncommitted changes")
	} else {
		out.Success("Working tree clean")
	}

	tags, err := e.git.ListTags()
	if err != nil {
		return err
	}
	if latest, found := version.LatestFromTags(tags); found {
		out.Infof("Latest version:  v%s", latest)
	} else {
		out.Info("Latest version:  none")
	}

	return nil
}
