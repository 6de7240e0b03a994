// Package memory implements UserStore with an in-process map.
// The directory is deliberately volatile: a restart clears it and users
// simply re-authenticate.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rgeddes/folio/internal/common"
	"github.com/rgeddes/folio/internal/models"
)

// UserStore implements interfaces.UserStore over a mutex-guarded map.
type UserStore struct {
	mu     sync.RWMutex
	users  map[string]*models.User
	logger *common.Logger
}

// NewUserStore creates an empty in-memory user store.
func NewUserStore(logger *common.Logger) *UserStore {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &UserStore{
		users:  make(map[string]*models.User),
		logger: logger,
	}
}

// PutUser inserts or replaces a user record keyed by ID. Re-login keeps the
// original CreatedAt and stamps LastLogin.
func (s *UserStore) PutUser(_ context.Context, user *models.User) error {
	if user == nil || user.ID == "" {
		return fmt.Errorf("user ID is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	stored := *user
	if existing, ok := s.users[user.ID]; ok {
		stored.CreatedAt = existing.CreatedAt
	} else if stored.CreatedAt.IsZero() {
		stored.CreatedAt = now
	}
	stored.LastLogin = now
	s.users[user.ID] = &stored

	s.logger.Debug().Str("user_id", user.ID).Msg("User saved")
	return nil
}

// GetUser retrieves a user by ID. Returns nil, nil when absent.
func (s *UserStore) GetUser(_ context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	copied := *user
	return &copied, nil
}

// CountUsers returns the number of stored users.
func (s *UserStore) CountUsers(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.users), nil
}

// DeleteUser removes a user by ID. Deleting an absent user is not an error.
func (s *UserStore) DeleteUser(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.users, id)
	s.logger.Debug().Str("user_id", id).Msg("User deleted")
	return nil
}
