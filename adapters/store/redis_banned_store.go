package store

import (
	"context"
	"fmt"
	"time"

	"github.com/layer-3/warden/ports"
	"github.com/redis/go-redis/v9"
)

// RedisBannedTokenStore is a Redis implementation of the BannedTokenStore
// interface. Entries carry a TTL so the revocation set garbage-collects
// itself once the banned token would have expired anyway.
type RedisBannedTokenStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisBannedTokenStore creates a new Redis banned token store. ttl should
// be at least the session token lifetime.
func NewRedisBannedTokenStore(client *redis.Client, ttl time.Duration) ports.BannedTokenStore {
	return &RedisBannedTokenStore{
		client: client,
		prefix: "warden:banned:",
		ttl:    ttl,
	}
}

// Add inserts a token into the revocation set. Re-adding is a no-op.
func (s *RedisBannedTokenStore) Add(ctx context.Context, token string) error {
	key := s.prefix + token

	if err := s.client.Set(ctx, key, "1", s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to ban token: %w", err)
	}

	return nil
}

// IsBanned checks if a token is in the revocation set
func (s *RedisBannedTokenStore) IsBanned(ctx context.Context, token string) (bool, error) {
	key := s.prefix + token

	val, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check token ban: %w", err)
	}

	return val > 0, nil
}
