package services

import (
	"chathub/domain"
	"chathub/errors"
	"chathub/repositories"

	"github.com/google/uuid"
)

// IAccessService answers yes/no authorization questions from a single
// membership lookup. It never mutates state. Callers compose exactly the
// predicates relevant to each action, e.g. posting requires
// IsMember && !IsBanned && !IsMuted at the sender's own membership.
type IAccessService interface {
	IsMember(userID, channelID uuid.UUID) (bool, error)
	IsBanned(userID, channelID uuid.UUID) (bool, error)
	IsOwner(userID, channelID uuid.UUID) (bool, error)
	IsAdmin(userID, channelID uuid.UUID) (bool, error)
}

type AccessService struct {
	memberships repositories.IMembershipRepository
}

func NewAccessService(memberships repositories.IMembershipRepository) IAccessService {
	return &AccessService{memberships: memberships}
}

// IsMember reports whether a membership row exists, regardless of its
// ban or mute state.
func (s *AccessService) IsMember(userID, channelID uuid.UUID) (bool, error) {
	_, err := s.memberships.Get(userID, channelID)
	if err == errors.ErrMembershipNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// IsBanned is false, not an error, when the user never joined the channel.
func (s *AccessService) IsBanned(userID, channelID uuid.UUID) (bool, error) {
	membership, err := s.memberships.Get(userID, channelID)
	if err == errors.ErrMembershipNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return membership.IsBanned, nil
}

// IsOwner fails with ErrMembershipNotFound when the user never joined;
// distinguishing "never joined" from "joined but wrong role" is the
// caller's responsibility.
func (s *AccessService) IsOwner(userID, channelID uuid.UUID) (bool, error) {
	membership, err := s.memberships.Get(userID, channelID)
	if err != nil {
		return false, err
	}
	return membership.Role == domain.RoleOwner, nil
}

// IsAdmin compares the role by equality: an owner does not satisfy it.
func (s *AccessService) IsAdmin(userID, channelID uuid.UUID) (bool, error) {
	membership, err := s.memberships.Get(userID, channelID)
	if err != nil {
		return false, err
	}
	return membership.Role == domain.RoleAdmin, nil
}
