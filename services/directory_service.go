package services

import (
	"chathub/domain"
	"chathub/errors"
	"chathub/repositories"

	"github.com/google/uuid"
)

// IDirectoryService builds caller-visible channel listings by combining
// channel enumeration with access filtering.
type IDirectoryService interface {
	ListVisibleChannels(userID uuid.UUID) ([]domain.Channel, error)
	ListJoinedGroupChannels(userID uuid.UUID) ([]domain.Channel, error)
	ListJoinedDmChannels(userID uuid.UUID) ([]domain.Channel, error)
	ResolveDmChannel(userAID, userBID uuid.UUID) (domain.Channel, error)
}

type DirectoryService struct {
	channels    repositories.IChannelRepository
	memberships repositories.IMembershipRepository
	access      IAccessService
}

func NewDirectoryService(
	channels repositories.IChannelRepository,
	memberships repositories.IMembershipRepository,
	access IAccessService,
) IDirectoryService {
	return &DirectoryService{channels: channels, memberships: memberships, access: access}
}

// ListVisibleChannels enumerates group channels in store order and removes
// non-public channels the caller does not belong to, and public channels the
// caller is banned from. DM channels never appear here.
func (s *DirectoryService) ListVisibleChannels(userID uuid.UUID) ([]domain.Channel, error) {
	all, err := s.channels.List()
	if err != nil {
		return nil, err
	}

	visible := make([]domain.Channel, 0, len(all))
	for _, channel := range all {
		if !channel.IsGroup() {
			continue
		}
		if channel.IsPublic {
			banned, err := s.access.IsBanned(userID, channel.ID)
			if err != nil {
				return nil, err
			}
			if banned {
				continue
			}
		} else {
			member, err := s.access.IsMember(userID, channel.ID)
			if err != nil {
				return nil, err
			}
			if !member {
				continue
			}
		}
		visible = append(visible, channel)
	}
	return visible, nil
}

// ListJoinedGroupChannels returns the public and protected channels where
// the caller holds a non-banned membership.
func (s *DirectoryService) ListJoinedGroupChannels(userID uuid.UUID) ([]domain.Channel, error) {
	memberships, err := s.memberships.ListByUser(userID)
	if err != nil {
		return nil, err
	}

	joined := make([]domain.Channel, 0, len(memberships))
	for _, membership := range memberships {
		if membership.IsBanned {
			continue
		}
		channel, err := s.channels.GetByID(membership.ChannelID)
		if err != nil {
			return nil, err
		}
		if channel.Kind == domain.KindPublic || channel.Kind == domain.KindProtected {
			joined = append(joined, channel)
		}
	}
	return joined, nil
}

// ListJoinedDmChannels returns the DM channels the caller belongs to.
func (s *DirectoryService) ListJoinedDmChannels(userID uuid.UUID) ([]domain.Channel, error) {
	memberships, err := s.memberships.ListByUser(userID)
	if err != nil {
		return nil, err
	}

	joined := make([]domain.Channel, 0, len(memberships))
	for _, membership := range memberships {
		channel, err := s.channels.GetByID(membership.ChannelID)
		if err != nil {
			return nil, err
		}
		if channel.Kind == domain.KindDM {
			joined = append(joined, channel)
		}
	}
	return joined, nil
}

// ResolveDmChannel finds the DM channel of an unordered user pair. The name
// is stored as an ordered string, so both orderings are tried.
func (s *DirectoryService) ResolveDmChannel(userAID, userBID uuid.UUID) (domain.Channel, error) {
	channel, err := s.channels.GetByName(domain.DmChannelName(userAID, userBID))
	if err == nil {
		return channel, nil
	}
	if err != errors.ErrChannelNotFound {
		return domain.Channel{}, err
	}
	return s.channels.GetByName(domain.DmChannelName(userBID, userAID))
}
