package domain

import (
	"time"

	"github.com/google/uuid"
)

// UserProfile is the public shape of a user as seen by channel rosters.
// Credentials never leave the user repository.
type UserProfile struct {
	ID        uuid.UUID
	Email     string
	Nickname  string
	CreatedAt time.Time
}
