package main

import (
	"fmt"

	"github.com/deppfellow/peopledb/internal/config"
	"github.com/deppfellow/peopledb/internal/logger"
	"github.com/deppfellow/peopledb/internal/repository"
	"github.com/deppfellow/peopledb/internal/server"
	"github.com/deppfellow/peopledb/internal/service"
	"github.com/spf13/cobra"
)

// app is the wired application a command runs against.
type app struct {
	server        *server.Server
	services      *service.Services
	loggerService *logger.LoggerService
}

// openApp loads the config and opens the store. Logs go to the command's
// stderr. The caller must close the returned app.
func openApp(cmd *cobra.Command) (*app, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	loggerService := logger.NewLoggerService(cfg.Observability)
	log := logger.NewLoggerTo(cfg.Observability, loggerService, cmd.ErrOrStderr())

	srv, err := server.New(cfg, &log, loggerService)
	if err != nil {
		loggerService.Shutdown()
		return nil, err
	}

	services, err := service.NewService(srv, repository.NewRepositories(srv))
	if err != nil {
		_ = srv.Close()
		loggerService.Shutdown()
		return nil, fmt.Errorf("could not create services: %w", err)
	}

	return &app{
		server:        srv,
		services:      services,
		loggerService: loggerService,
	}, nil
}

func (a *app) close() {
	if err := a.server.Close(); err != nil {
		a.server.Logger.Error().Err(err).Msg("failed to close store")
	}
	a.loggerService.Shutdown()
}
