package services

import (
	"fmt"
	"log/slog"
	"time"

	"chathub/auth"
	"chathub/domain"
	"chathub/errors"
	"chathub/repositories"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var validate = validator.New()

// CreateGroupChannelRequest carries the caller's channel-creation input.
// A non-empty password makes the channel protected.
type CreateGroupChannelRequest struct {
	Name     string `validate:"required,min=1,max=80"`
	IsPublic bool
	Password string `validate:"omitempty,min=4,max=72"`
}

// MemberInfo is one roster entry: the member's public profile plus the
// membership state attached to this channel.
type MemberInfo struct {
	Member   domain.UserProfile
	Role     domain.Role
	IsBanned bool
	IsMuted  bool
}

// IChannelService owns channel lifecycle and the message pass-through.
// Access policy for mutations (who may ban, who may change roles) is
// composed by callers from IAccessService; this service only enforces the
// structural invariants of creation.
type IChannelService interface {
	CreateGroupChannel(creatorID uuid.UUID, req CreateGroupChannelRequest) (domain.Channel, error)
	CreatePrivateChannel(creatorID uuid.UUID, name string) (domain.Channel, error)
	CreateDmChannel(senderID, receiverID uuid.UUID) (domain.Channel, error)
	GetChannelByID(id uuid.UUID) (domain.Channel, error)
	GetChannelByName(name string) (domain.Channel, error)
	GetMembersByChannelID(channelID, userID uuid.UUID) ([]MemberInfo, error)
	CreateMessage(senderID, channelID uuid.UUID, content string) (domain.Message, error)
	GetMessagesByChannelID(channelID, userID uuid.UUID, cursor *string) ([]domain.Message, *string, error)
}

type ChannelService struct {
	channels    repositories.IChannelRepository
	memberships repositories.IMembershipRepository
	messages    repositories.IMessageRepository
	users       repositories.IUserRepository
	access      IAccessService
	log         *slog.Logger
}

func NewChannelService(
	channels repositories.IChannelRepository,
	memberships repositories.IMembershipRepository,
	messages repositories.IMessageRepository,
	users repositories.IUserRepository,
	access IAccessService,
	log *slog.Logger,
) IChannelService {
	return &ChannelService{
		channels:    channels,
		memberships: memberships,
		messages:    messages,
		users:       users,
		access:      access,
		log:         log,
	}
}

// CreateGroupChannel creates a public, protected, or private group channel
// and makes the creator its sole owner.
func (s *ChannelService) CreateGroupChannel(creatorID uuid.UUID, req CreateGroupChannelRequest) (domain.Channel, error) {
	if err := validate.Struct(req); err != nil {
		return domain.Channel{}, fmt.Errorf("%w: %v", errors.ErrInvalidChannelName, err)
	}

	channel := domain.Channel{
		ID:        uuid.New(),
		Name:      req.Name,
		Kind:      domain.KindPublic,
		IsPublic:  req.IsPublic,
		CreatedAt: time.Now().UTC(),
	}
	switch {
	case req.Password != "":
		salt, err := auth.GenSalt()
		if err != nil {
			return domain.Channel{}, err
		}
		channel.Kind = domain.KindProtected
		channel.IsPublic = false
		channel.Salt = salt
		channel.PasswordHash = auth.HashSecret(req.Password, salt)
	case !req.IsPublic:
		channel.Kind = domain.KindPrivate
	}

	return s.createWithOwner(channel, creatorID)
}

// CreatePrivateChannel creates an invitation-only channel: never listed
// publicly, no password gate, joined through CreateMembership directly.
func (s *ChannelService) CreatePrivateChannel(creatorID uuid.UUID, name string) (domain.Channel, error) {
	channel := domain.Channel{
		ID:        uuid.New(),
		Name:      name,
		Kind:      domain.KindPrivate,
		IsPublic:  false,
		CreatedAt: time.Now().UTC(),
	}
	return s.createWithOwner(channel, creatorID)
}

func (s *ChannelService) createWithOwner(channel domain.Channel, creatorID uuid.UUID) (domain.Channel, error) {
	if err := s.channels.Create(channel); err != nil {
		return domain.Channel{}, err
	}
	err := s.memberships.Create(domain.Membership{
		UserID:    creatorID,
		ChannelID: channel.ID,
		Role:      domain.RoleOwner,
		JoinedAt:  time.Now().UTC(),
	})
	if err != nil {
		return domain.Channel{}, err
	}
	s.log.Info("channel created", "channel_id", channel.ID, "name", channel.Name, "kind", channel.Kind)
	return channel, nil
}

// CreateDmChannel creates the two-party channel with its deterministic name
// and one MEMBER row per participant. The receiver must exist in the user
// directory.
func (s *ChannelService) CreateDmChannel(senderID, receiverID uuid.UUID) (domain.Channel, error) {
	receiver, err := s.users.GetProfileByUserID(receiverID)
	if err != nil {
		return domain.Channel{}, err
	}

	channel := domain.Channel{
		ID:        uuid.New(),
		Name:      domain.DmChannelName(senderID, receiverID),
		Kind:      domain.KindDM,
		IsPublic:  false,
		CreatedAt: time.Now().UTC(),
	}
	if err = s.channels.Create(channel); err != nil {
		return domain.Channel{}, err
	}

	for _, userID := range []uuid.UUID{senderID, receiver.ID} {
		err = s.memberships.Create(domain.Membership{
			UserID:    userID,
			ChannelID: channel.ID,
			Role:      domain.RoleMember,
			JoinedAt:  time.Now().UTC(),
		})
		if err != nil {
			return domain.Channel{}, err
		}
	}
	s.log.Info("dm channel created", "channel_id", channel.ID, "name", channel.Name)
	return channel, nil
}

func (s *ChannelService) GetChannelByID(id uuid.UUID) (domain.Channel, error) {
	return s.channels.GetByID(id)
}

func (s *ChannelService) GetChannelByName(name string) (domain.Channel, error) {
	return s.channels.GetByName(name)
}

// GetMembersByChannelID returns the channel roster with profiles. A caller
// without a membership gets an empty roster, not an error.
func (s *ChannelService) GetMembersByChannelID(channelID, userID uuid.UUID) ([]MemberInfo, error) {
	member, err := s.access.IsMember(userID, channelID)
	if err != nil {
		return nil, err
	}
	if !member {
		return []MemberInfo{}, nil
	}

	memberships, err := s.memberships.ListByChannel(channelID)
	if err != nil {
		return nil, err
	}

	roster := make([]MemberInfo, 0, len(memberships))
	for _, membership := range memberships {
		profile, err := s.users.GetProfileByUserID(membership.UserID)
		if err != nil {
			return nil, err
		}
		roster = append(roster, MemberInfo{
			Member:   profile,
			Role:     membership.Role,
			IsBanned: membership.IsBanned,
			IsMuted:  membership.IsMuted,
		})
	}
	return roster, nil
}

// CreateMessage persists a message in the channel. Access policy
// (IsMember && !IsBanned && !IsMuted) is the caller's to compose before
// invoking this pass-through.
func (s *ChannelService) CreateMessage(senderID, channelID uuid.UUID, content string) (domain.Message, error) {
	message := domain.Message{
		ID:        uuid.New(),
		ChannelID: channelID,
		SenderID:  senderID,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.messages.StoreMessage(message); err != nil {
		return domain.Message{}, err
	}
	return message, nil
}

// GetMessagesByChannelID returns one page of channel history. Non-members
// get an empty sequence, not an error.
func (s *ChannelService) GetMessagesByChannelID(channelID, userID uuid.UUID, cursor *string) ([]domain.Message, *string, error) {
	member, err := s.access.IsMember(userID, channelID)
	if err != nil {
		return nil, nil, err
	}
	if !member {
		return []domain.Message{}, nil, nil
	}
	return s.messages.GetMessages(channelID, cursor)
}
