package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ericfisherdev/reviewregistry/internal/adapter/driven/fixture"
	"github.com/ericfisherdev/reviewregistry/internal/adapter/driven/git"
	githubadapter "github.com/ericfisherdev/reviewregistry/internal/adapter/driven/github"
	"github.com/ericfisherdev/reviewregistry/internal/adapter/driven/registryfile"
	sqliteadapter "github.com/ericfisherdev/reviewregistry/internal/adapter/driven/sqlite"
	"github.com/ericfisherdev/reviewregistry/internal/application"
	"github.com/ericfisherdev/reviewregistry/internal/config"
	"github.com/ericfisherdev/reviewregistry/internal/domain/port/driven"
)

func (c *cli) newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Fetch review issues and write the registry",
		Args:  cobra.NoArgs,
		RunE:  c.runGenerate,
	}
	addGenerateFlags(cmd.Flags())
	return cmd
}

func (c *cli) runGenerate(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	svc, cleanup, err := buildGenerateService(ctx, c.cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	result, err := svc.Generate(ctx, c.cfg.ReviewsRepo)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), summaryLine(c.cfg.OutPath, result))
	return nil
}

// buildGenerateService wires the adapters selected by cfg. The returned
// cleanup closes the history database when one was opened.
func buildGenerateService(ctx context.Context, cfg *config.Config) (*application.GenerateService, func(), error) {
	var source driven.IssueSource
	if cfg.FixturePath != "" {
		source = fixture.NewSource(cfg.FixturePath)
		slog.Debug("using fixture issue source", "path", cfg.FixturePath)
	} else {
		source = githubadapter.NewClient(cfg.GitHubToken, cfg.FetchTimeout)
		if !cfg.HasGitHubToken() {
			slog.Info("no github token configured, using unauthenticated search")
		}
	}

	var staleness *application.StalenessService
	if cfg.StalenessEnabled() {
		lookup := git.NewCommitLookup(cfg.RepoDir, cfg.GitTimeout)
		staleness = application.NewStalenessService(lookup, cfg.DocsRoot)
	}

	cleanup := func() {}
	var history driven.RunStore
	if cfg.HistoryDB != "" {
		db, err := sqliteadapter.Open(ctx, cfg.HistoryDB)
		if err != nil {
			return nil, nil, fmt.Errorf("opening history db: %w", err)
		}
		runs := sqliteadapter.NewRunRepo(db)
		if n, err := runs.CountRuns(ctx, cfg.ReviewsRepo); err != nil {
			slog.Warn("failed to count recorded runs", "repo", cfg.ReviewsRepo, "error", err)
		} else {
			slog.Info("run history loaded", "path", cfg.HistoryDB, "previous_runs", n)
		}
		history = runs
		cleanup = func() {
			if err := db.Close(); err != nil {
				slog.Error("error closing history db", "error", err)
			}
		}
	}

	svc := application.NewGenerateService(source, registryfile.NewStore(cfg.OutPath), staleness, history)
	return svc, cleanup, nil
}

// summaryLine is the one-line report printed after a successful run.
func summaryLine(out string, result *application.GenerateResult) string {
	msg := fmt.Sprintf("Wrote %s — %d review(s)", out, result.Registry.Reviews.Len())
	if result.StaleCount > 0 {
		msg += fmt.Sprintf(", %d marked stale", result.StaleCount)
	}
	return msg
}
