package services

import (
	"log/slog"

	"chathub/auth"
	"chathub/domain"
	"chathub/repositories"

	"github.com/google/uuid"
)

// IPasswordService gates access to protected channels. A wrong secret is a
// boolean false, never an error.
type IPasswordService interface {
	VerifyChannelPassword(channel domain.Channel, secret string) bool
	SetChannelPassword(channelID uuid.UUID, secret string) (domain.Channel, error)
	UpdatePassword(channelID uuid.UUID, secret string) (domain.Channel, error)
}

type PasswordService struct {
	channels repositories.IChannelRepository
	log      *slog.Logger
}

func NewPasswordService(channels repositories.IChannelRepository, log *slog.Logger) IPasswordService {
	return &PasswordService{channels: channels, log: log}
}

// VerifyChannelPassword checks the supplied secret against the channel's
// stored hash under its stored salt.
func (s *PasswordService) VerifyChannelPassword(channel domain.Channel, secret string) bool {
	return auth.CompareSecret(secret, channel.Salt, channel.PasswordHash)
}

// SetChannelPassword hashes the secret under a fresh salt and flips the
// channel to protected, non-public visibility. Fails with ErrChannelNotFound
// for an unknown channel id.
func (s *PasswordService) SetChannelPassword(channelID uuid.UUID, secret string) (domain.Channel, error) {
	channel, err := s.channels.GetByID(channelID)
	if err != nil {
		return domain.Channel{}, err
	}

	if channel, err = s.rehash(channel, secret); err != nil {
		return domain.Channel{}, err
	}
	channel.IsPublic = false
	channel.Kind = domain.KindProtected

	if err = s.channels.Save(channel); err != nil {
		return domain.Channel{}, err
	}
	s.log.Info("channel password set", "channel_id", channelID)
	return channel, nil
}

// UpdatePassword re-hashes the secret on an existing channel without
// touching its visibility state.
func (s *PasswordService) UpdatePassword(channelID uuid.UUID, secret string) (domain.Channel, error) {
	channel, err := s.channels.GetByID(channelID)
	if err != nil {
		return domain.Channel{}, err
	}

	if channel, err = s.rehash(channel, secret); err != nil {
		return domain.Channel{}, err
	}

	if err = s.channels.Save(channel); err != nil {
		return domain.Channel{}, err
	}
	s.log.Info("channel password updated", "channel_id", channelID)
	return channel, nil
}

func (s *PasswordService) rehash(channel domain.Channel, secret string) (domain.Channel, error) {
	salt, err := auth.GenSalt()
	if err != nil {
		return domain.Channel{}, err
	}
	channel.Salt = salt
	channel.PasswordHash = auth.HashSecret(secret, salt)
	return channel, nil
}
