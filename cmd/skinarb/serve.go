package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/skinarb/skinarb/internal/apperrors"
	"github.com/skinarb/skinarb/internal/orchestrator"
	"github.com/skinarb/skinarb/internal/paths"
	"github.com/skinarb/skinarb/internal/profit"
	"github.com/skinarb/skinarb/internal/telemetry"
)

func newServeCmd() *cobra.Command {
	var host string
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Expose the read-only operator HTTP surface (/healthz, /metrics, /opportunities)",
		Long: `Starts a local-only HTTP server for monitoring a long-running deployment:
liveness, Prometheus metrics, and the current opportunity archive. Does not
itself run any scraping — pair it with a scheduled 'skinarb run'.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), host, port)
		},
	}

	cmd.Flags().StringVar(&host, "host", "127.0.0.1", "Bind host for the operator HTTP surface")
	cmd.Flags().IntVar(&port, "port", 8090, "Bind port for the operator HTTP surface")

	return cmd
}

func runServe(parentCtx context.Context, host string, port int) error {
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, cancel := signal.NotifyContext(parentCtx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	p := paths.New()
	tel := telemetry.NewRegistry()
	archiveLoad := func() (*profit.Archive, error) {
		return profit.NewArchiveStore(p.ProfitabilityFile()).Load()
	}

	cfg := orchestrator.ServerConfig{Host: host, Port: port}
	srv, err := orchestrator.NewServer(cfg, tel, archiveLoad)
	if err != nil {
		return apperrors.New(apperrors.KindConfig, "", "failed to start operator http server", err)
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("host", host).Int("port", port).Msg("operator http surface listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		log.Info().Msg("shutting down operator http surface")
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err != nil {
			return apperrors.New(apperrors.KindNetwork, "", "operator http server failed", err)
		}
		return nil
	}
}
