package cli

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/campusgrid/orgcanvas/internal/server"
	"github.com/campusgrid/orgcanvas/pkg/config"
)

// newServeCmd creates the serve command for running the HTTP API.
func newServeCmd() *cobra.Command {
	var configPath, addr, fixture string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the organization chart API over HTTP",
		Long: `Serve the chart and branch administration API.

The server reads its store, cache, and authorization settings from the
configuration file. --addr overrides the configured listen address; --fixture
swaps the store for a memory store seeded from a YAML file, which is useful
for demos and local development.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), configPath, addr, fixture)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "configuration file")
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	cmd.Flags().StringVar(&fixture, "fixture", "", "YAML fixture file to serve instead of the configured store")

	return cmd
}

func runServe(ctx context.Context, configPath, addr, fixture string) error {
	logger := loggerFromContext(ctx)

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if addr != "" {
		cfg.Server.Addr = addr
	}

	svc, err := newService(ctx, cfg, fixture, logger)
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close(ctx) }()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := server.New(svc, cfg.Server, logger)
	if err := srv.ListenAndServe(ctx); err != nil {
		return err
	}
	logger.Info("shut down cleanly")
	return nil
}
