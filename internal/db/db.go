// Package db owns the Postgres connection and schema migrations.
package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"

	"github.com/vaughan-dsouza/AcadGo/internal/config"
)

// Connect opens a pooled sqlx handle over the pgx stdlib adapter,
// verifies connectivity and applies pending migrations.
func Connect(ctx context.Context, cfg config.Database) (*sqlx.DB, error) {
	pgCfg, err := pgx.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("db: failed to parse DSN: %w", err)
	}

	// Fail fast on startup if PG is unreachable
	pgCfg.ConnectTimeout = 5 * time.Second

	sqlDB := stdlib.OpenDB(*pgCfg)

	// Wrap in sqlx for struct scanning
	conn := sqlx.NewDb(sqlDB, "pgx")

	conn.SetMaxOpenConns(cfg.MaxOpen)
	conn.SetMaxIdleConns(cfg.MaxIdle)
	conn.SetConnMaxLifetime(cfg.MaxLifetime)

	if err := conn.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("db: failed to connect to Postgres: %w", err)
	}

	if err := Migrate(ctx, conn.DB); err != nil {
		return nil, fmt.Errorf("db: %w", err)
	}

	return conn, nil
}

// IsUniqueViolation reports whether err is a Postgres unique
// constraint violation (SQLSTATE 23505).
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// IsForeignKeyViolation reports whether err is a Postgres foreign key
// constraint violation (SQLSTATE 23503).
func IsForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}
