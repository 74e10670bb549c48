package services

import (
	"log/slog"
	"time"

	"chathub/domain"
	"chathub/repositories"

	"github.com/google/uuid"
)

// IMembershipService owns creation and deletion of membership rows and every
// mutation of their role/ban/mute state. It performs no privilege checks:
// policy belongs to callers, which compose IAccessService before invoking
// these mutations.
type IMembershipService interface {
	CreateMembership(userID, channelID uuid.UUID, role domain.Role) (domain.Membership, error)
	DeleteMembership(userID, channelID uuid.UUID) error
	ChangeRole(userID, channelID uuid.UUID, newRole domain.Role) (domain.Membership, error)
	SetBanStatus(userID, channelID uuid.UUID, banned bool) (domain.Membership, error)
	SetMuteStatus(userID, channelID uuid.UUID, muted bool) (domain.Membership, error)
	DeleteChannelIfEmpty(channelID uuid.UUID) error
}

type MembershipService struct {
	memberships repositories.IMembershipRepository
	channels    repositories.IChannelRepository
	log         *slog.Logger
}

func NewMembershipService(
	memberships repositories.IMembershipRepository,
	channels repositories.IChannelRepository,
	log *slog.Logger,
) IMembershipService {
	return &MembershipService{memberships: memberships, channels: channels, log: log}
}

// CreateMembership inserts the (user, channel) bridge row. The store rejects
// a second row for the same pair with ErrDuplicateMembership; callers should
// treat that as "already joined", not as a fault.
func (s *MembershipService) CreateMembership(userID, channelID uuid.UUID, role domain.Role) (domain.Membership, error) {
	membership := domain.Membership{
		UserID:    userID,
		ChannelID: channelID,
		Role:      role,
		JoinedAt:  time.Now().UTC(),
	}
	if err := s.memberships.Create(membership); err != nil {
		return domain.Membership{}, err
	}
	s.log.Info("membership created", "user_id", userID, "channel_id", channelID, "role", role)
	return membership, nil
}

// DeleteMembership removes the bridge row. ErrMembershipNotFound is
// propagated but non-fatal; callers may ignore it.
func (s *MembershipService) DeleteMembership(userID, channelID uuid.UUID) error {
	if err := s.memberships.Delete(userID, channelID); err != nil {
		return err
	}
	s.log.Info("membership deleted", "user_id", userID, "channel_id", channelID)
	return nil
}

func (s *MembershipService) ChangeRole(userID, channelID uuid.UUID, newRole domain.Role) (domain.Membership, error) {
	membership, err := s.memberships.Get(userID, channelID)
	if err != nil {
		return domain.Membership{}, err
	}
	membership.Role = newRole
	if err = s.memberships.Save(membership); err != nil {
		return domain.Membership{}, err
	}
	s.log.Info("role changed", "user_id", userID, "channel_id", channelID, "role", newRole)
	return membership, nil
}

func (s *MembershipService) SetBanStatus(userID, channelID uuid.UUID, banned bool) (domain.Membership, error) {
	membership, err := s.memberships.Get(userID, channelID)
	if err != nil {
		return domain.Membership{}, err
	}
	membership.IsBanned = banned
	if err = s.memberships.Save(membership); err != nil {
		return domain.Membership{}, err
	}
	s.log.Info("ban status updated", "user_id", userID, "channel_id", channelID, "banned", banned)
	return membership, nil
}

// SetMuteStatus updates the mute flag only. Ban and mute are independent:
// this must never touch IsBanned.
func (s *MembershipService) SetMuteStatus(userID, channelID uuid.UUID, muted bool) (domain.Membership, error) {
	membership, err := s.memberships.Get(userID, channelID)
	if err != nil {
		return domain.Membership{}, err
	}
	membership.IsMuted = muted
	if err = s.memberships.Save(membership); err != nil {
		return domain.Membership{}, err
	}
	s.log.Info("mute status updated", "user_id", userID, "channel_id", channelID, "muted", muted)
	return membership, nil
}

// DeleteChannelIfEmpty reclaims a channel once at most one membership row
// remains, whether the caller runs it just before or just after removing the
// final membership. Any leftover row goes with the channel, since
// memberships cannot outlive it.
func (s *MembershipService) DeleteChannelIfEmpty(channelID uuid.UUID) error {
	count, err := s.memberships.CountByChannel(channelID)
	if err != nil {
		return err
	}
	if count > 1 {
		return nil
	}

	remaining, err := s.memberships.ListByChannel(channelID)
	if err != nil {
		return err
	}
	for _, membership := range remaining {
		if err = s.memberships.Delete(membership.UserID, membership.ChannelID); err != nil {
			return err
		}
	}

	if err = s.channels.Delete(channelID); err != nil {
		return err
	}
	s.log.Info("empty channel deleted", "channel_id", channelID)
	return nil
}
