package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// Snapshot reads and writes one JSON-encoded value under a key
type Snapshot[T any] struct {
	store  KeyValueStore
	key    string
	logger *zap.Logger
}

// NewSnapshot binds a value type to a key of store
func NewSnapshot[T any](store KeyValueStore, key string, logger *zap.Logger) *Snapshot[T] {
	return &Snapshot[T]{store: store, key: key, logger: logger}
}

// Key returns the storage key of the snapshot
func (s *Snapshot[T]) Key() string {
	return s.key
}

// Load returns the stored value. found is false when nothing is stored or the
// stored value cannot be decoded; a malformed value is logged and treated as
// absent. Errors are returned only when the store itself fails.
func (s *Snapshot[T]) Load(ctx context.Context) (value T, found bool, err error) {
	data, err := s.store.Get(ctx, s.key)
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return value, false, nil
		}
		return value, false, fmt.Errorf("failed to read snapshot %s: %w", s.key, err)
	}

	if err := json.Unmarshal(data, &value); err != nil {
		s.logger.Warn("Discarding malformed snapshot",
			zap.String("key", s.key),
			zap.Error(err),
		)
		var zero T
		return zero, false, nil
	}

	return value, true, nil
}

// Save encodes value and writes it under the snapshot key
func (s *Snapshot[T]) Save(ctx context.Context, value T) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot %s: %w", s.key, err)
	}
	if err := s.store.Set(ctx, s.key, data); err != nil {
		return fmt.Errorf("failed to write snapshot %s: %w", s.key, err)
	}
	return nil
}

// Delete removes the snapshot
func (s *Snapshot[T]) Delete(ctx context.Context) error {
	if err := s.store.Delete(ctx, s.key); err != nil {
		return fmt.Errorf("failed to delete snapshot %s: %w", s.key, err)
	}
	return nil
}
