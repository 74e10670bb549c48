package services

import (
	"testing"

	"chathub/domain"
	"chathub/errors"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

func TestChannelService_CreateGroupChannel(t *testing.T) {
	env := newTestEnv(t)

	t.Run("should make the creator the sole owner", func(t *testing.T) {
		req := require.New(t)
		owner := env.registerUser(t, "owner@example.com", "owner")
		channel := env.createPublicChannel(t, owner, "general")

		req.Equal(domain.KindPublic, channel.Kind)
		req.True(channel.IsPublic)

		roster, err := env.channelSvc.GetMembersByChannelID(channel.ID, owner)
		req.NoError(err)
		req.Len(roster, 1)
		req.Equal(domain.RoleOwner, roster[0].Role)
		req.Equal("owner", roster[0].Member.Nickname)
	})

	t.Run("a password makes the channel protected", func(t *testing.T) {
		req := require.New(t)
		owner := env.registerUser(t, "keeper@example.com", "keeper")
		channel, err := env.channelSvc.CreateGroupChannel(owner, CreateGroupChannelRequest{
			Name:     "vault",
			IsPublic: true,
			Password: "hunter2!",
		})
		req.NoError(err)
		req.Equal(domain.KindProtected, channel.Kind)
		req.False(channel.IsPublic)
		req.True(env.passwords.VerifyChannelPassword(channel, "hunter2!"))
	})

	t.Run("should reject an empty name", func(t *testing.T) {
		req := require.New(t)
		_, err := env.channelSvc.CreateGroupChannel(uuid.New(), CreateGroupChannelRequest{Name: ""})
		req.ErrorIs(err, errors.ErrInvalidChannelName)
	})

	t.Run("should reject a taken name", func(t *testing.T) {
		req := require.New(t)
		owner := env.registerUser(t, "late@example.com", "late")
		_, err := env.channelSvc.CreateGroupChannel(owner, CreateGroupChannelRequest{Name: "general", IsPublic: true})
		req.ErrorIs(err, errors.ErrDuplicateChannel)
	})
}

func TestChannelService_CreateDmChannel(t *testing.T) {
	env := newTestEnv(t)
	req := require.New(t)

	alice := env.registerUser(t, "alice@example.com", "alice")
	bob := env.registerUser(t, "bob@example.com", "bob")

	t.Run("should fail when the receiver does not exist", func(t *testing.T) {
		req := require.New(t)
		_, err := env.channelSvc.CreateDmChannel(alice, uuid.New())
		req.ErrorIs(err, errors.ErrUserNotFound)
	})

	channel, err := env.channelSvc.CreateDmChannel(alice, bob)
	req.NoError(err)
	req.Equal(domain.KindDM, channel.Kind)
	req.Equal(domain.DmChannelName(alice, bob), channel.Name)

	t.Run("both participants are plain members", func(t *testing.T) {
		req := require.New(t)
		roster, err := env.channelSvc.GetMembersByChannelID(channel.ID, alice)
		req.NoError(err)
		req.Len(roster, 2)
		for _, entry := range roster {
			req.Equal(domain.RoleMember, entry.Role)
		}
	})
}

func TestChannelService_RosterGating(t *testing.T) {
	env := newTestEnv(t)
	req := require.New(t)

	owner := env.registerUser(t, "owner@example.com", "owner")
	outsider := env.registerUser(t, "outsider@example.com", "outsider")
	channel := env.createPublicChannel(t, owner, "general")

	// Non-members get an empty roster rather than an error
	roster, err := env.channelSvc.GetMembersByChannelID(channel.ID, outsider)
	req.NoError(err)
	req.Empty(roster)
}

func TestChannelService_Messages(t *testing.T) {
	env := newTestEnv(t)
	req := require.New(t)

	owner := env.registerUser(t, "owner@example.com", "owner")
	outsider := env.registerUser(t, "outsider@example.com", "outsider")
	channel := env.createPublicChannel(t, owner, "general")

	for _, content := range []string{"first", "second", "third"} {
		_, err := env.channelSvc.CreateMessage(owner, channel.ID, content)
		req.NoError(err)
	}

	t.Run("members read history in creation order", func(t *testing.T) {
		req := require.New(t)
		messages, cursor, err := env.channelSvc.GetMessagesByChannelID(channel.ID, owner, nil)
		req.NoError(err)
		req.Equal([]string{"first", "second", "third"}, lo.Map(messages, func(item domain.Message, _ int) string {
			return item.Content
		}))
		req.NotNil(cursor)
	})

	t.Run("non-members get an empty page", func(t *testing.T) {
		req := require.New(t)
		messages, cursor, err := env.channelSvc.GetMessagesByChannelID(channel.ID, outsider, nil)
		req.NoError(err)
		req.Empty(messages)
		req.Nil(cursor)
	})
}
