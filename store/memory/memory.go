// Package memory provides an in-memory store for tests and development.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/warp/wage-engine/auth"
	"github.com/warp/wage-engine/contract"
)

// =============================================================================
// MEMORY STORE - Implements contract.Store and auth.UserStore
// =============================================================================

type Store struct {
	mu           sync.RWMutex
	users        map[string]auth.User
	userIDByMail map[string]string
	contracts    map[string]contract.Contract
	musicians    map[string][]contract.SideMusician
}

func New() *Store {
	return &Store{
		users:        make(map[string]auth.User),
		userIDByMail: make(map[string]string),
		contracts:    make(map[string]contract.Contract),
		musicians:    make(map[string][]contract.SideMusician),
	}
}

// =============================================================================
// USERS
// =============================================================================

func (s *Store) CreateUser(_ context.Context, u *auth.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.userIDByMail[u.Email]; exists {
		return auth.ErrEmailTaken
	}
	s.users[u.ID] = *u
	s.userIDByMail[u.Email] = u.ID
	return nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (*auth.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.userIDByMail[email]
	if !ok {
		return nil, auth.ErrUserNotFound
	}
	u := s.users[id]
	return &u, nil
}

func (s *Store) GetUserByID(_ context.Context, id string) (*auth.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, auth.ErrUserNotFound
	}
	return &u, nil
}

// =============================================================================
// CONTRACTS
// =============================================================================

func (s *Store) CreateContract(_ context.Context, c *contract.Contract) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.contracts[c.ID] = *c
	return nil
}

func (s *Store) GetContract(_ context.Context, id string) (*contract.Contract, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.contracts[id]
	if !ok {
		return nil, contract.ErrNotFound
	}
	return &c, nil
}

func (s *Store) ListContracts(_ context.Context, userID string) ([]*contract.Contract, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*contract.Contract
	for id := range s.contracts {
		c := s.contracts[id]
		if c.UserID == userID {
			result = append(result, &c)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].LastSavedAt.Equal(result[j].LastSavedAt) {
			return result[i].LastSavedAt.After(result[j].LastSavedAt)
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func (s *Store) UpdateContract(_ context.Context, c *contract.Contract) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.contracts[c.ID]; !ok {
		return contract.ErrNotFound
	}
	s.contracts[c.ID] = *c
	return nil
}

func (s *Store) DeleteContract(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.contracts[id]; !ok {
		return contract.ErrNotFound
	}
	delete(s.contracts, id)
	delete(s.musicians, id)
	return nil
}

// =============================================================================
// ROSTERS
// =============================================================================

func (s *Store) ReplaceMusicians(_ context.Context, contractID string, musicians []contract.SideMusician) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.contracts[contractID]; !ok {
		return contract.ErrNotFound
	}
	replacement := make([]contract.SideMusician, len(musicians))
	copy(replacement, musicians)
	s.musicians[contractID] = replacement
	return nil
}

func (s *Store) ListMusicians(_ context.Context, contractID string) ([]contract.SideMusician, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := s.musicians[contractID]
	result := make([]contract.SideMusician, len(stored))
	copy(result, stored)
	sort.Slice(result, func(i, j int) bool { return result[i].Position < result[j].Position })
	return result, nil
}
