package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rgeddes/folio/internal/common"
)

// stateTTL bounds how long a login flow may stay open.
const stateTTL = 10 * time.Minute

type stateEntry struct {
	state   string
	created time.Time
}

// StateStore implements interfaces.StateStore over a mutex-guarded map.
// Like the user directory it is deliberately volatile; an interrupted login
// flow simply restarts.
type StateStore struct {
	mu      sync.Mutex
	entries map[string]stateEntry
	logger  *common.Logger
	now     func() time.Time
}

// NewStateStore creates an empty in-memory login-state store.
func NewStateStore(logger *common.Logger) *StateStore {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &StateStore{
		entries: make(map[string]stateEntry),
		logger:  logger,
		now:     time.Now,
	}
}

// PutState stores the state value for a login flow, replacing any earlier
// state for the same flow. Expired flows are pruned on the way through.
func (s *StateStore) PutState(_ context.Context, flowID, state string) error {
	if flowID == "" {
		return fmt.Errorf("flow ID is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for id, e := range s.entries {
		if now.Sub(e.created) > stateTTL {
			delete(s.entries, id)
		}
	}
	s.entries[flowID] = stateEntry{state: state, created: now}

	s.logger.Debug().Str("flow_id", flowID).Msg("Login state stored")
	return nil
}

// TakeState retrieves and removes the state for a flow. Returns "" when the
// flow is unknown or expired.
func (s *StateStore) TakeState(_ context.Context, flowID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[flowID]
	if !ok {
		return "", nil
	}
	delete(s.entries, flowID)

	if s.now().Sub(e.created) > stateTTL {
		return "", nil
	}
	return e.state, nil
}
