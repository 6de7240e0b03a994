package interfaces

import (
	"context"

	"github.com/rgeddes/folio/internal/models"
)

// UserStore manages the authenticated user directory.
type UserStore interface {
	// PutUser inserts or replaces a user record keyed by ID
	PutUser(ctx context.Context, user *models.User) error

	// GetUser retrieves a user by ID. Returns nil, nil when absent.
	GetUser(ctx context.Context, id string) (*models.User, error)

	// DeleteUser removes a user by ID. Deleting an absent user is not an error.
	DeleteUser(ctx context.Context, id string) error

	// CountUsers returns the number of stored users
	CountUsers(ctx context.Context) (int, error)
}

// StateStore holds transient anti-forgery state for in-flight login flows,
// keyed by a per-flow ID carried in a browser cookie.
type StateStore interface {
	// PutState stores the state value for a login flow
	PutState(ctx context.Context, flowID, state string) error

	// TakeState retrieves and removes the state for a flow. Returns "" when
	// the flow is unknown or expired; a state is usable at most once.
	TakeState(ctx context.Context, flowID string) (string, error)
}
