// Package storage opens the configured persistence backend and hands out the
// repositories built on it.
package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "modernc.org/sqlite"

	"github.com/portcullis-auth/portcullis/internal/application"
	"github.com/portcullis-auth/portcullis/internal/config"
	"github.com/portcullis-auth/portcullis/internal/user"
)

// Store bundles the repositories for one backend together with its lifecycle.
type Store struct {
	Users user.Repository
	Apps  application.Repository

	pool *pgxpool.Pool
	db   *sql.DB
}

// Open connects the backend selected by cfg.DBAdapter. The postgres adapter
// expects migrations to have been applied already; sqlite initializes its own
// schema; memory needs nothing.
func Open(ctx context.Context, cfg *config.Config) (*Store, error) {
	switch cfg.DBAdapter {
	case "postgres":
		return openPostgres(ctx, cfg.DatabaseURL)
	case "sqlite":
		return openSQLite(ctx, cfg.SQLitePath)
	case "memory":
		return &Store{
			Users: user.NewMemoryRepository(),
			Apps:  application.NewMemoryRepository(),
		}, nil
	default:
		return nil, fmt.Errorf("unknown db adapter %q", cfg.DBAdapter)
	}
}

func openPostgres(ctx context.Context, databaseURL string) (*Store, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required for the postgres adapter")
	}

	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return &Store{
		Users: user.NewPostgresRepository(pool),
		Apps:  application.NewPostgresRepository(pool),
		pool:  pool,
	}, nil
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS users (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	email_address TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	role TEXT NOT NULL,
	status TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS applications (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	homepage TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	client_id TEXT NOT NULL UNIQUE,
	client_secret TEXT NOT NULL,
	client_credentials_updated_at TIMESTAMP NOT NULL,
	status TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL
);
`

func openSQLite(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}
	// modernc sqlite is single-writer.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing sqlite schema: %w", err)
	}

	return &Store{
		Users: user.NewSQLiteRepository(db),
		Apps:  application.NewSQLiteRepository(db),
		db:    db,
	}, nil
}

// Ping verifies the backend is reachable. The memory adapter is always ready.
func (s *Store) Ping(ctx context.Context) error {
	switch {
	case s.pool != nil:
		return s.pool.Ping(ctx)
	case s.db != nil:
		return s.db.PingContext(ctx)
	}
	return nil
}

// Close releases the backend's resources.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
	if s.db != nil {
		s.db.Close()
	}
}
