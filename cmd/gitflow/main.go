package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lcgerke/gitflow/internal/git"
	"github.com/lcgerke/gitflow/internal/ui"
)

var (
	// Global flags
	noColor bool
	verbose bool

	rootCmd = &cobra.Command{
		Use:   "gitflow",
		Short: "Release workflow automation for GitHub and Gitee",
		Long: `Gitflow drives a repository through a three-phase release lifecycle:

  init     bootstrap the local repository and its remote counterpart
  commit   record work on a transient develop branch
  publish  merge develop into main, tag a version, and cut a release`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := git.CheckGitVersion(); err != nil {
				return fmt.Errorf("git check failed: %w", err)
			}
			return nil
		},
	}
)

func init() {
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(commitCmd)
	rootCmd.AddCommand(publishCmd)
	rootCmd.AddCommand(statusCmd)
}

// newOutput builds the terminal renderer honoring the global flags
func newOutput() *ui.Output {
	out := ui.NewOutput(os.Stdout)
	if noColor {
		out.SetColorEnabled(false)
	}
	return out
}

// newLogger builds the structured logger. Internals log through zap; only
// verbose runs surface it on stderr.
func newLogger() *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.OutputPaths = []string{"stderr"}
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

func main() {
	ctx := context.Background()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		newOutput().Error(err)
		os.Exit(1)
	}
}
