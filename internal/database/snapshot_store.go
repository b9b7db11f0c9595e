package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"avin-home/internal/storage"
)

type snapshotStore struct {
	db *sql.DB
}

// NewSnapshotStore creates a storage.KeyValueStore over the snapshots table
func NewSnapshotStore(db *sql.DB) storage.KeyValueStore {
	return &snapshotStore{db: db}
}

// Get reads the snapshot stored under key
func (s *snapshotStore) Get(ctx context.Context, key string) ([]byte, error) {
	query := `SELECT value FROM snapshots WHERE key = $1`

	var value []byte
	err := s.db.QueryRowContext(ctx, query, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrKeyNotFound
		}
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}

	return value, nil
}

// Set upserts the snapshot under key
func (s *snapshotStore) Set(ctx context.Context, key string, value []byte) error {
	query := `
		INSERT INTO snapshots (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
	`

	if _, err := s.db.ExecContext(ctx, query, key, string(value)); err != nil {
		return fmt.Errorf("failed to set snapshot: %w", err)
	}

	return nil
}

// Delete removes the snapshot under key. Missing keys are not an error.
func (s *snapshotStore) Delete(ctx context.Context, key string) error {
	query := `DELETE FROM snapshots WHERE key = $1`

	if _, err := s.db.ExecContext(ctx, query, key); err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}

	return nil
}
