package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lcgerke/gitflow/internal/flow"
	"github.com/lcgerke/gitflow/internal/platform"
)

var (
	initPlatform    string
	initOrg         string
	initDescription string
	initPrivate     bool
	initBaseURL     string
)

var initCmd = &cobra.Command{
	Use:   "init <name>",
	Short: "Initialize the repository and its remote counterpart",
	Long: `Initializes the working directory as a git repository, creates the remote
repository on the hosting platform (reusing it when it already exists), wires
the origin remote, and writes the default ignore file and release-notes
manifest.

Safe to re-run: an already-initialized repository is reused, never reset.`,
	Args: cobra.ExactArgs(1),
	RunE: runInit,
}

func init() {
	initCmd.Flags().StringVar(&initPlatform, "platform", "github", "Hosting platform (github|gitee)")
	initCmd.Flags().StringVar(&initOrg, "org", "", "Create under this organization instead of the user account")
	initCmd.Flags().StringVar(&initDescription, "description", "", "Repository description")
	initCmd.Flags().BoolVar(&initPrivate, "private", false, "Create a private repository")
	initCmd.Flags().StringVar(&initBaseURL, "base-url", "", "API base URL for enterprise deployments")
}

func runInit(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	repoName := args[0]
	out := newOutput()

	e, err := newEnv()
	if err != nil {
		return err
	}

	kind := platform.Kind(initPlatform)
	client, err := e.platformClient(ctx, kind, initBaseURL)
	if err != nil {
		return err
	}

	opts := flow.InitOptions{
		RepoName:    repoName,
		OwnerKind:   platform.OwnerUser,
		Owner:       initOrg,
		Description: initDescription,
		Private:     initPrivate,
	}
	if initOrg != "" {
		opts.OwnerKind = platform.OwnerOrganization
	} else {
		user, err := client.GetCurrentUser(ctx)
		if err != nil {
			return err
		}
		opts.Owner = user.Login
	}

	out.Header(fmt.Sprintf("Initializing %s/%s on %s", opts.Owner, repoName, kind))

	orchestrator, err := e.orchestrator(client)
	if err != nil {
		return err
	}
	result, err := orchestrator.Init(ctx, opts)
	if err != nil {
		return err
	}

	out.Warnings(result.Warnings)
	out.Successf("Repository ready: %s", result.Repository.FullName)
	out.Infof("Clone URL: %s", result.Repository.CloneURL)
	return nil
}
