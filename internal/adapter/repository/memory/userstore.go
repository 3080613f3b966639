// Package memory provides an in-memory implementation of the user store.
package memory

import (
	"context"
	"sync"

	"github.com/strogmv/userstore/internal/domain"
	"github.com/strogmv/userstore/internal/port"
)

type UserStore struct {
	mu    sync.RWMutex
	data  domain.Users
	saves int

	// LoadErr and SaveErr, when set, are returned instead of touching data.
	LoadErr error
	SaveErr error
}

func NewUserStore(seed ...domain.User) *UserStore {
	return &UserStore{data: domain.Users(seed).Clone()}
}

var _ port.UserStore = (*UserStore)(nil)

func (s *UserStore) Load(ctx context.Context) (domain.Users, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.LoadErr != nil {
		return nil, s.LoadErr
	}
	return s.data.Clone(), nil
}

func (s *UserStore) Save(ctx context.Context, users domain.Users) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.SaveErr != nil {
		return s.SaveErr
	}
	s.data = users.Clone()
	s.saves++
	return nil
}

// Snapshot returns the stored users without going through Load.
func (s *UserStore) Snapshot() domain.Users {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.Clone()
}

// Saves reports how many successful saves happened.
func (s *UserStore) Saves() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saves
}
