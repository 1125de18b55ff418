package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/deppfellow/peopledb/internal/config"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite" // SQLite driver
)

// SQLite is a Store over a single SQLite database file.
type SQLite struct {
	db   *sql.DB
	path string
	log  *zerolog.Logger
}

// NewSQLite opens (or creates) the database at path and bootstraps the
// people table. Use ":memory:" for a throwaway store.
func NewSQLite(ctx context.Context, path string, logger *zerolog.Logger) (*SQLite, error) {
	if path == "" {
		return nil, fmt.Errorf("db path cannot be empty")
	}

	dsn := path
	if path != ":memory:" {
		dsn = path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports a single writer, and every connection to
	// ":memory:" would otherwise see its own empty database.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if _, err := db.ExecContext(ctx, Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	logger.Info().Str("driver", config.DriverSQLite).Str("path", path).Msg("connected to the database")

	return &SQLite{db: db, path: path, log: logger}, nil
}

// Execute runs one statement on a dedicated connection that is returned to
// the pool before Execute returns.
func (s *SQLite) Execute(ctx context.Context, query string, args ...any) ([]Row, error) {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	rows, err := conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var out []Row
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}

		row := make(Row, len(columns))
		for i, col := range columns {
			// TEXT may come back as []byte depending on how it was bound.
			if b, ok := values[i].([]byte); ok {
				row[strings.ToLower(col)] = string(b)
				continue
			}
			row[strings.ToLower(col)] = values[i]
		}
		out = append(out, row)
	}

	return out, rows.Err()
}

// Placeholder returns "?"; SQLite binds positionally.
func (s *SQLite) Placeholder(int) string {
	return "?"
}

func (s *SQLite) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLite) Close() error {
	s.log.Info().Str("path", s.path).Msg("closing database")
	return s.db.Close()
}
