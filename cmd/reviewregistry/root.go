package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/ericfisherdev/reviewregistry/internal/config"
)

// cli carries state shared by all subcommands of one invocation.
type cli struct {
	cfg *config.Config
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:   "reviewregistry",
		Short: "Build the NeurodeskEDU review registry from GitHub issues",
		Long: `reviewregistry turns review issues of a GitHub repository into the
reviews.json registry read by the documentation site's review badges.
Without a subcommand it runs generate.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cmd.Flags())
			if err != nil {
				return err
			}
			setupLogging(cfg.LogLevel)
			c.cfg = cfg
			return nil
		},
		RunE: c.runGenerate,
	}

	root.PersistentFlags().String("log-level", "", "log level: debug, info, warn or error (env ND_LOG_LEVEL)")
	addGenerateFlags(root.Flags())

	root.AddCommand(
		c.newGenerateCmd(),
		c.newWatchCmd(),
		c.newServeCmd(),
		newBlockCmd(),
		newPageMetaCmd(),
		newLaunchButtonsCmd(),
	)

	return root
}

func addGenerateFlags(fs *pflag.FlagSet) {
	fs.String("reviews-repo", "", "repository holding review issues (env ND_REVIEWS_REPO, default "+config.DefaultReviewsRepo+")")
	fs.String("out", "", "registry output path (env ND_REVIEWS_OUT, default "+config.DefaultOutPath+")")
	fs.String("fixture", "", "load issues from this JSON file instead of the GitHub API")
	fs.String("repo-dir", "", "site checkout used for staleness detection (env ND_REPO_DIR)")
	fs.String("docs-root", "", "book directory inside the checkout (env ND_DOCS_ROOT, default "+config.DefaultDocsRoot+")")
	fs.String("history-db", "", "SQLite file recording each run's review states (env ND_HISTORY_DB)")
}
