package store

import (
	"context"
	"sync"

	"github.com/layer-3/warden/core"
	"github.com/layer-3/warden/ports"
)

// MemoryChallengeStore is an in-memory implementation of the ChallengeStore
// interface
type MemoryChallengeStore struct {
	challenges map[string]core.Challenge
	mu         sync.RWMutex
}

// NewMemoryChallengeStore creates a new in-memory challenge store
func NewMemoryChallengeStore() ports.ChallengeStore {
	return &MemoryChallengeStore{
		challenges: make(map[string]core.Challenge),
	}
}

// Upsert replaces any existing challenge for the email
func (s *MemoryChallengeStore) Upsert(ctx context.Context, email core.Email, challenge core.Challenge) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.challenges[email.String()] = challenge

	return nil
}

// Get returns the active challenge for the email
func (s *MemoryChallengeStore) Get(ctx context.Context, email core.Email) (core.Challenge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	challenge, exists := s.challenges[email.String()]
	if !exists {
		return core.Challenge{}, core.ErrChallengeNotFound
	}

	return challenge, nil
}

// Remove deletes the active challenge for the email
func (s *MemoryChallengeStore) Remove(ctx context.Context, email core.Email) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := email.String()
	if _, exists := s.challenges[key]; !exists {
		return core.ErrChallengeNotFound
	}
	delete(s.challenges, key)

	return nil
}

// Redeem compares and removes the challenge under a single lock acquisition
// so two concurrent redemptions cannot both observe the same challenge.
func (s *MemoryChallengeStore) Redeem(ctx context.Context, email core.Email, attemptID core.AttemptID, code core.Code) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := email.String()
	challenge, exists := s.challenges[key]
	if !exists {
		return core.ErrChallengeNotFound
	}
	if challenge.AttemptID != attemptID || challenge.Code != code {
		// Left in place so the client can retry with the correct values.
		return core.ErrChallengeMismatch
	}
	delete(s.challenges, key)

	return nil
}
