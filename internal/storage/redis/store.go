// Package redis provides a Redis-backed snapshot store.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/velora/storefront/internal/storage"
	apperrors "github.com/velora/storefront/pkg/errors"
)

// Store implements storage.Store using Redis. A TTL of zero keeps snapshots
// until they are explicitly deleted.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStore creates a new Redis-backed snapshot store.
func NewStore(client *redis.Client, ttl time.Duration) *Store {
	return &Store{
		client: client,
		ttl:    ttl,
	}
}

// Load retrieves a snapshot by key from Redis.
func (s *Store) Load(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			nfErr := apperrors.NotFound("snapshot", key)
			storage.ObserveOperation("redis", "load", nfErr)
			return nil, nfErr
		}
		storage.ObserveOperation("redis", "load", err)
		return nil, fmt.Errorf("redis get snapshot: %w", err)
	}

	storage.ObserveOperation("redis", "load", nil)
	return data, nil
}

// Save persists a snapshot to Redis with the configured TTL.
func (s *Store) Save(ctx context.Context, key string, data []byte) error {
	if err := s.client.Set(ctx, key, data, s.ttl).Err(); err != nil {
		storage.ObserveOperation("redis", "save", err)
		return fmt.Errorf("redis set snapshot: %w", err)
	}

	storage.ObserveOperation("redis", "save", nil)
	return nil
}

// Delete removes a snapshot from Redis by key.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		storage.ObserveOperation("redis", "delete", err)
		return fmt.Errorf("redis del snapshot: %w", err)
	}

	storage.ObserveOperation("redis", "delete", nil)
	return nil
}
