// Package postgres stores collection values in a single kv_store table.
package postgres

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"github.com/bansalKrishna311/tryo/pkg/database"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

const (
	selectValue = `SELECT value FROM kv_store WHERE key = $1`
	upsertValue = `INSERT INTO kv_store (key, value, updated_at) VALUES ($1, $2, NOW())
ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`
	deleteValue = `DELETE FROM kv_store WHERE key = $1`
)

// Migrations returns the schema files for the kv_store table.
func Migrations() fs.FS {
	sub, err := fs.Sub(migrationFS, "migrations")
	if err != nil {
		panic(err)
	}
	return sub
}

// Store implements store.Store on PostgreSQL.
type Store struct {
	db database.DBTX
}

// New creates a Postgres-backed store.
func New(db database.DBTX) *Store {
	return &Store{db: db}
}

// Migrate creates the kv_store table if needed.
func (s *Store) Migrate(ctx context.Context, logger *slog.Logger) error {
	return database.RunMigrations(ctx, s.db, Migrations(), logger)
}

// Get returns the value stored under key.
func (s *Store) Get(ctx context.Context, key string) (value string, ok bool, err error) {
	ctx, end := database.TraceQuery(ctx, database.SystemPostgres, "kv.get", selectValue)
	defer func() { end(err) }()

	err = s.db.QueryRow(ctx, selectValue, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("select kv %s: %w", key, err)
	}
	return value, true, nil
}

// Set upserts value under key.
func (s *Store) Set(ctx context.Context, key, value string) (err error) {
	ctx, end := database.TraceQuery(ctx, database.SystemPostgres, "kv.set", upsertValue)
	defer func() { end(err) }()

	if _, err = s.db.Exec(ctx, upsertValue, key, value); err != nil {
		return fmt.Errorf("upsert kv %s: %w", key, err)
	}
	return nil
}

// Remove deletes key. Zero affected rows is not an error.
func (s *Store) Remove(ctx context.Context, key string) (err error) {
	ctx, end := database.TraceQuery(ctx, database.SystemPostgres, "kv.remove", deleteValue)
	defer func() { end(err) }()

	if _, err = s.db.Exec(ctx, deleteValue, key); err != nil {
		return fmt.Errorf("delete kv %s: %w", key, err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}
