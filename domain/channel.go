// Package domain contains core concepts of the chat system.
// Entities here carry state and invariants only; no storage,
// network, or UI logic should be added to this package.
package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ChannelKind discriminates how a channel is joined and listed.
type ChannelKind string

const (
	KindPublic    ChannelKind = "public"
	KindProtected ChannelKind = "protected"
	KindPrivate   ChannelKind = "private"
	KindDM        ChannelKind = "dm"
)

// Channel is a named addressable conversation space.
// PasswordHash and Salt are set iff Kind is KindProtected.
type Channel struct {
	ID           uuid.UUID
	Name         string
	Kind         ChannelKind
	IsPublic     bool
	PasswordHash []byte
	Salt         []byte
	CreatedAt    time.Time
}

// IsGroup reports whether the channel belongs to the group directory.
// DM channels never appear in group listings.
func (c Channel) IsGroup() bool {
	return c.Kind != KindDM
}

// DmChannelName builds the deterministic name of a direct-message channel.
// The pair is logically unordered: lookups must try both orderings.
func DmChannelName(senderID, receiverID uuid.UUID) string {
	return fmt.Sprintf("user%s:user%s", senderID, receiverID)
}
