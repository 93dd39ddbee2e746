package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spektr-org/hrpulse/metrics"
	"github.com/spektr-org/hrpulse/server"
)

func newServeCmd(a *app) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard page and report API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("port") {
				a.cfg.Server.Port = port
			}

			var m *metrics.Metrics
			if a.cfg.Metrics.Enabled {
				m = metrics.NewMetrics(nil)
			}
			gen, err := a.generator(m)
			if err != nil {
				return err
			}

			srv := server.NewServer(a.cfg, gen, m, a.logger)
			srv.SetupRoutes()

			errCh := make(chan error, 1)
			go func() {
				errCh <- srv.Start()
			}()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			defer signal.Stop(sigCh)

			select {
			case err := <-errCh:
				return err
			case sig := <-sigCh:
				a.logger.Info("Received shutdown signal", zap.String("signal", sig.String()))
			}

			ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil {
				a.logger.Error("Error during shutdown", zap.Error(err))
				return err
			}
			a.logger.Info("Server stopped")
			return nil
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 8501, "HTTP port (overrides server.port)")
	return cmd
}
