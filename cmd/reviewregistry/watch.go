package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ericfisherdev/reviewregistry/internal/adapter/driving/watch"
)

func (c *cli) newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Regenerate the registry whenever the fixture file changes",
		Args:  cobra.NoArgs,
		RunE:  c.runWatch,
	}
	addGenerateFlags(cmd.Flags())
	cmd.Flags().Duration("debounce", watch.DefaultDebounce, "quiet period before regenerating")
	return cmd
}

func (c *cli) runWatch(cmd *cobra.Command, _ []string) error {
	if c.cfg.FixturePath == "" {
		return errors.New("watch requires --fixture or ND_FIXTURE")
	}
	debounce, err := cmd.Flags().GetDuration("debounce")
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	svc, cleanup, err := buildGenerateService(ctx, c.cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	w, err := watch.New(c.cfg.FixturePath, debounce)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	regenerate := func(ctx context.Context) {
		result, err := svc.Generate(ctx, c.cfg.ReviewsRepo)
		if err != nil {
			slog.Error("registry generation failed", "fixture", c.cfg.FixturePath, "error", err)
			return
		}
		fmt.Fprintln(out, summaryLine(c.cfg.OutPath, result))
	}

	regenerate(ctx)
	slog.Info("watching fixture", "path", c.cfg.FixturePath)

	return w.Run(ctx, regenerate)
}
