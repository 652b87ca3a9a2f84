package store

import (
	"context"
	"sync"

	"github.com/layer-3/warden/core"
	"github.com/layer-3/warden/ports"
)

// MemoryUserStore is an in-memory implementation of the UserStore interface
type MemoryUserStore struct {
	users map[string]core.User
	mu    sync.RWMutex
}

// NewMemoryUserStore creates a new in-memory user store
func NewMemoryUserStore() ports.UserStore {
	return &MemoryUserStore{
		users: make(map[string]core.User),
	}
}

// Add inserts a user, refusing to overwrite an existing email
func (s *MemoryUserStore) Add(ctx context.Context, user core.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := user.Email.String()
	if _, exists := s.users[key]; exists {
		return core.ErrUserAlreadyExists
	}
	s.users[key] = user

	return nil
}

// Get returns the user for the email
func (s *MemoryUserStore) Get(ctx context.Context, email core.Email) (core.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, exists := s.users[email.String()]
	if !exists {
		return core.User{}, core.ErrUserNotFound
	}

	return user, nil
}

// Validate checks the password against the stored credential hash
func (s *MemoryUserStore) Validate(ctx context.Context, email core.Email, password core.Password) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, exists := s.users[email.String()]
	if !exists {
		return core.ErrUserNotFound
	}
	if !password.Matches(user.PasswordHash) {
		return core.ErrInvalidCredentials
	}

	return nil
}
