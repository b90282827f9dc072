// Package db provides PostgreSQL storage for the tracker: domain row reads,
// the completion ledger and the schema migration.
package db

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jonathan/career-tracker/internal/types"
)

//go:embed schema.sql
var schemaSQL string

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// Migrate creates every table and index that does not exist yet.
func (db *DB) Migrate(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// Schema returns the embedded DDL applied by Migrate.
func Schema() string {
	return schemaSQL
}

// dateArg converts a civil date to the value pgx binds to a DATE column.
func dateArg(d types.Date) time.Time {
	return d.Time
}

// nullableDate converts a zero date to NULL.
func nullableDate(d types.Date) *time.Time {
	if d.IsZero() {
		return nil
	}
	t := d.Time
	return &t
}

// dateFromNullable converts a scanned nullable DATE back to a civil date.
func dateFromNullable(t *time.Time) types.Date {
	if t == nil {
		return types.Date{}
	}
	return types.DateOf(*t)
}
