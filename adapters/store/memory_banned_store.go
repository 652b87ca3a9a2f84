package store

import (
	"context"
	"sync"

	"github.com/layer-3/warden/ports"
)

// MemoryBannedTokenStore is an in-memory implementation of the
// BannedTokenStore interface
type MemoryBannedTokenStore struct {
	tokens map[string]struct{}
	mu     sync.RWMutex
}

// NewMemoryBannedTokenStore creates a new in-memory banned token store
func NewMemoryBannedTokenStore() ports.BannedTokenStore {
	return &MemoryBannedTokenStore{
		tokens: make(map[string]struct{}),
	}
}

// Add inserts a token into the revocation set. Re-adding is a no-op.
func (s *MemoryBannedTokenStore) Add(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tokens[token] = struct{}{}

	return nil
}

// IsBanned checks if a token is in the revocation set
func (s *MemoryBannedTokenStore) IsBanned(ctx context.Context, token string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, banned := s.tokens[token]

	return banned, nil
}
