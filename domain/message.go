package domain

import (
	"time"

	"github.com/google/uuid"
)

// Message represents an immutable chat event. It belongs to exactly one
// channel and one sender, and is ordered by creation time.
type Message struct {
	ID        uuid.UUID // unique identifier
	ChannelID uuid.UUID
	SenderID  uuid.UUID
	Content   string
	CreatedAt time.Time
}
