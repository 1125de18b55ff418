package database

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/deppfellow/peopledb/internal/config"
	loggerConfig "github.com/deppfellow/peopledb/internal/logger"
	"github.com/rs/zerolog"
)

// Schema is the DDL of the people table. Both drivers accept it.
//
//go:embed schema.sql
var Schema string

// Row is one result row keyed by column name.
type Row map[string]any

// Store executes exactly one statement per call.
//
// Implementations acquire a connection, run the statement and release the
// connection before returning, on every path. Statements that modify rows
// use RETURNING so every call yields rows.
type Store interface {
	Execute(ctx context.Context, query string, args ...any) ([]Row, error)

	// Placeholder returns the bind marker for the n-th (1-based) argument.
	Placeholder(n int) string

	Ping(ctx context.Context) error
	Close() error
}

// DatabasePingTimeout defines the number of seconds to wait for a ping
// before considering the database "unreachable".
const DatabasePingTimeout = 10

// New opens the store selected by cfg.Database.Driver.
func New(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerConfig.LoggerService) (Store, error) {
	switch cfg.Database.Driver {
	case config.DriverPostgres:
		return NewPostgres(cfg, logger, loggerService)
	case config.DriverSQLite:
		return NewSQLite(context.Background(), cfg.Database.Path, logger)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
}
