// Package postgres provides a PostgreSQL-backed snapshot store.
//
// Schema:
//
//	CREATE TABLE IF NOT EXISTS snapshots (
//	    key        TEXT PRIMARY KEY,
//	    data       JSONB NOT NULL,
//	    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
//	);
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/velora/storefront/internal/storage"
	apperrors "github.com/velora/storefront/pkg/errors"
)

// DB is the subset of pgxpool.Pool the store needs. Declared as an interface
// so tests can substitute pgxmock.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store implements storage.Store on top of a snapshots table.
type Store struct {
	db DB
}

// NewStore creates a new PostgreSQL-backed snapshot store.
func NewStore(db DB) *Store {
	return &Store{db: db}
}

// Load retrieves a snapshot by key.
func (s *Store) Load(ctx context.Context, key string) ([]byte, error) {
	query := `SELECT data FROM snapshots WHERE key = $1`

	var data []byte
	if err := s.db.QueryRow(ctx, query, key).Scan(&data); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			nfErr := apperrors.NotFound("snapshot", key)
			storage.ObserveOperation("postgres", "load", nfErr)
			return nil, nfErr
		}
		storage.ObserveOperation("postgres", "load", err)
		return nil, fmt.Errorf("load snapshot: %w", err)
	}

	storage.ObserveOperation("postgres", "load", nil)
	return data, nil
}

// Save upserts a snapshot under key.
func (s *Store) Save(ctx context.Context, key string, data []byte) error {
	query := `
		INSERT INTO snapshots (key, data, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET data = EXCLUDED.data, updated_at = now()`

	if _, err := s.db.Exec(ctx, query, key, data); err != nil {
		storage.ObserveOperation("postgres", "save", err)
		return fmt.Errorf("save snapshot: %w", err)
	}

	storage.ObserveOperation("postgres", "save", nil)
	return nil
}

// Delete removes a snapshot by key.
func (s *Store) Delete(ctx context.Context, key string) error {
	query := `DELETE FROM snapshots WHERE key = $1`

	if _, err := s.db.Exec(ctx, query, key); err != nil {
		storage.ObserveOperation("postgres", "delete", err)
		return fmt.Errorf("delete snapshot: %w", err)
	}

	storage.ObserveOperation("postgres", "delete", nil)
	return nil
}
