package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/deppfellow/peopledb/internal/handler"
	"github.com/deppfellow/peopledb/internal/router"
	"github.com/spf13/cobra"
)

// shutdownTimeout bounds how long in-flight requests may run after a
// termination signal.
const shutdownTimeout = 30 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long: `Start the HTTP API on PEOPLEDB_SERVER.PORT.

Routes:
  /api/v1/people        create, query and bulk delete
  /api/v1/people/:id    load and delete
  /status               health check
  /metrics              Prometheus metrics
  /docs                 API documentation

The server stops gracefully on SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.loggerService.Shutdown()

	srv := a.server
	if err := srv.Config.ValidateServer(); err != nil {
		_ = srv.Close()
		return err
	}

	r := router.NewRouter(srv, handler.NewHandlers(srv, a.services))
	srv.SetupHTTPServer(r)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			_ = srv.Close()
			return err
		}
	case <-ctx.Done():
		srv.Logger.Info().Msg("shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	srv.Logger.Info().Msg("server stopped")
	return nil
}
