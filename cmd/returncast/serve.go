package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/heliacal/returncast/pkg/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Serve the return-chart API over HTTP: POST /api/returns/solar,
/lunar and /combined, with /healthz and Prometheus /metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		p, err := newPipeline(ctx)
		if err != nil {
			return err
		}
		defer p.Close()

		handler := server.NewHandler(p.oracle, p.solver, log, server.WithBodies(cfg.Bodies()))
		srv := server.New(handler, cfg.Server, log)

		errCh := make(chan error, 1)
		go func() {
			errCh <- srv.Start()
		}()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		return srv.Shutdown(context.Background())
	},
}
