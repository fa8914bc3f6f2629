package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	httphandler "github.com/ericfisherdev/reviewregistry/internal/adapter/driving/http"
)

func (c *cli) newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the registry for local badge development",
		Long: `Serve reviews.json and a small JSON API over it. POST /api/v1/regenerate
rebuilds the registry with the same settings as generate.`,
		Args: cobra.NoArgs,
		RunE: c.runServe,
	}
	addGenerateFlags(cmd.Flags())
	cmd.Flags().String("listen", "", "listen address (env ND_LISTEN_ADDR, default 127.0.0.1:8080)")
	return cmd
}

func (c *cli) runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	svc, cleanup, err := buildGenerateService(ctx, c.cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	h := httphandler.NewHandler(c.cfg.OutPath, c.cfg.ReviewsRepo, svc, slog.Default())
	srv := &http.Server{
		Addr:              c.cfg.ListenAddr,
		Handler:           httphandler.NewServeMux(h, slog.Default()),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      c.cfg.FetchTimeout + 30*time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server starting", "addr", c.cfg.ListenAddr, "registry", c.cfg.OutPath)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http server shutdown error", "error", err)
	}
	return nil
}
