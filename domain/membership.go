package domain

import (
	"time"

	"github.com/google/uuid"
)

// Role is the privilege tier of a membership. Roles form the order
// owner > admin > member for privilege decisions, but evaluator checks
// compare by equality.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// Membership binds one user to one channel. At most one row may exist
// per (UserID, ChannelID) pair; the store enforces this under concurrency.
// A ban revokes visibility and posting, a mute revokes posting only.
type Membership struct {
	UserID    uuid.UUID
	ChannelID uuid.UUID
	Role      Role
	IsBanned  bool
	IsMuted   bool
	JoinedAt  time.Time
}
