package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/aretw0/parley/internal/metrics"
	httpAdapter "github.com/aretw0/parley/pkg/adapters/http"
	"github.com/aretw0/parley/pkg/player"
	"github.com/aretw0/parley/pkg/session"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve [file]",
	Short: "Start the HTTP playback server",
	Long: `Serves playback sessions over a dialogue as a JSON API, with server-sent
events per session and Prometheus metrics at /metrics.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		addr := cfg.Server.Addr
		if cmd.Flags().Changed("addr") {
			addr, _ = cmd.Flags().GetString("addr")
		}

		b, err := openBackends(cmd, cfg)
		if err != nil {
			return err
		}
		defer b.Close()

		g, err := loadGraph(ctx, b.Graphs, cfg.Graph, false)
		if err != nil {
			return err
		}

		collector := metrics.New()
		manager := newManager(b, player.WithHooks(collector.Hooks()))
		handler := httpAdapter.NewHandler(g, manager,
			httpAdapter.WithStartNode(cfg.StartNode),
			httpAdapter.WithMetrics(collector),
			httpAdapter.WithLogger(logger),
		)

		srv := &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)
		go func() {
			logger.Info("Starting Parley Server", "address", addr, "graph", cfg.Graph, "nodes", g.Len())
			serverErrors <- srv.ListenAndServe()
		}()

		select {
		case err := <-serverErrors:
			return fmt.Errorf("server error: %w", err)

		case <-ctx.Done():
			logger.Info("Shutdown signal received, shutting down server")

			// Give outstanding requests a deadline for completion.
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("Graceful shutdown did not complete", "timeout", 5*time.Second, "err", err)
				if err := srv.Close(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("error killing server: %w", err)
				}
			}
			logger.Info("Parley Server stopped gracefully")
			return nil
		}
	},
}

// newManager builds the session manager shared by the network hosts.
func newManager(b *backends, extra ...player.EngineOption) *session.Manager {
	engineOpts := append([]player.EngineOption{
		player.WithLogger(logger),
		player.WithContinueHint(cfg.ContinueHint),
	}, extra...)

	opts := []session.Option{
		session.WithLogger(logger),
		session.WithEngineOptions(engineOpts...),
	}
	if b.Locker != nil {
		opts = append(opts, session.WithLocker(b.Locker))
	}
	return session.NewManager(b.Sessions, opts...)
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("addr", "a", ":8080", "Address to listen on")
}
