package models

import "time"

// User is an identity materialized from the OAuth provider's profile.
// Users live only in the in-process directory; a re-login overwrites the
// record by ID, preserving CreatedAt. All timestamps are UTC.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Picture   string    `json:"picture,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	LastLogin time.Time `json:"last_login"`
}
