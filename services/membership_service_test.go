package services

import (
	"testing"

	"chathub/domain"
	"chathub/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestMembershipService_CreateMembership(t *testing.T) {
	env := newTestEnv(t)

	t.Run("should make the user a member", func(t *testing.T) {
		req := require.New(t)
		userID, channelID := uuid.New(), uuid.New()

		_, err := env.membership.CreateMembership(userID, channelID, domain.RoleMember)
		req.NoError(err)

		member, err := env.access.IsMember(userID, channelID)
		req.NoError(err)
		req.True(member)
	})

	t.Run("should fail on the second membership for the same pair", func(t *testing.T) {
		req := require.New(t)
		userID, channelID := uuid.New(), uuid.New()

		_, err := env.membership.CreateMembership(userID, channelID, domain.RoleMember)
		req.NoError(err)

		_, err = env.membership.CreateMembership(userID, channelID, domain.RoleAdmin)
		req.ErrorIs(err, errors.ErrDuplicateMembership)
	})
}

func TestMembershipService_ChangeRole(t *testing.T) {
	env := newTestEnv(t)

	t.Run("should overwrite the role", func(t *testing.T) {
		req := require.New(t)
		userID, channelID := uuid.New(), uuid.New()
		_, err := env.membership.CreateMembership(userID, channelID, domain.RoleMember)
		req.NoError(err)

		updated, err := env.membership.ChangeRole(userID, channelID, domain.RoleAdmin)
		req.NoError(err)
		req.Equal(domain.RoleAdmin, updated.Role)
	})

	t.Run("should fail when the user never joined", func(t *testing.T) {
		req := require.New(t)
		_, err := env.membership.ChangeRole(uuid.New(), uuid.New(), domain.RoleAdmin)
		req.ErrorIs(err, errors.ErrMembershipNotFound)
	})
}

func TestMembershipService_BanAndMute(t *testing.T) {
	env := newTestEnv(t)

	t.Run("should update the ban flag", func(t *testing.T) {
		req := require.New(t)
		userID, channelID := uuid.New(), uuid.New()
		_, err := env.membership.CreateMembership(userID, channelID, domain.RoleMember)
		req.NoError(err)

		updated, err := env.membership.SetBanStatus(userID, channelID, true)
		req.NoError(err)
		req.True(updated.IsBanned)
		req.False(updated.IsMuted)
	})

	t.Run("mute must not alter the ban flag", func(t *testing.T) {
		req := require.New(t)
		userID, channelID := uuid.New(), uuid.New()
		_, err := env.membership.CreateMembership(userID, channelID, domain.RoleMember)
		req.NoError(err)

		_, err = env.membership.SetBanStatus(userID, channelID, true)
		req.NoError(err)

		updated, err := env.membership.SetMuteStatus(userID, channelID, true)
		req.NoError(err)
		req.True(updated.IsMuted)
		req.True(updated.IsBanned)

		updated, err = env.membership.SetMuteStatus(userID, channelID, false)
		req.NoError(err)
		req.False(updated.IsMuted)
		req.True(updated.IsBanned)
	})

	t.Run("should fail when the user never joined", func(t *testing.T) {
		req := require.New(t)
		_, err := env.membership.SetBanStatus(uuid.New(), uuid.New(), true)
		req.ErrorIs(err, errors.ErrMembershipNotFound)

		_, err = env.membership.SetMuteStatus(uuid.New(), uuid.New(), true)
		req.ErrorIs(err, errors.ErrMembershipNotFound)
	})
}

func TestMembershipService_DeleteChannelIfEmpty(t *testing.T) {
	t.Run("should delete the channel after the last member left", func(t *testing.T) {
		req := require.New(t)
		env := newTestEnv(t)
		owner := env.registerUser(t, "owner@example.com", "owner")
		channel := env.createPublicChannel(t, owner, "doomed")

		req.NoError(env.membership.DeleteMembership(owner, channel.ID))
		req.NoError(env.membership.DeleteChannelIfEmpty(channel.ID))

		_, err := env.channelSvc.GetChannelByID(channel.ID)
		req.ErrorIs(err, errors.ErrChannelNotFound)
		_, err = env.channelSvc.GetChannelByName("doomed")
		req.ErrorIs(err, errors.ErrChannelNotFound)
	})

	t.Run("should delete the channel while the last row still exists", func(t *testing.T) {
		req := require.New(t)
		env := newTestEnv(t)
		owner := env.registerUser(t, "owner@example.com", "owner")
		channel := env.createPublicChannel(t, owner, "doomed-too")

		req.NoError(env.membership.DeleteChannelIfEmpty(channel.ID))

		_, err := env.channelSvc.GetChannelByID(channel.ID)
		req.ErrorIs(err, errors.ErrChannelNotFound)

		// The leftover row goes with the channel
		member, err := env.access.IsMember(owner, channel.ID)
		req.NoError(err)
		req.False(member)
	})

	t.Run("should keep a channel that still has members", func(t *testing.T) {
		req := require.New(t)
		env := newTestEnv(t)
		owner := env.registerUser(t, "owner@example.com", "owner")
		other := env.registerUser(t, "other@example.com", "other")
		channel := env.createPublicChannel(t, owner, "alive")
		_, err := env.membership.CreateMembership(other, channel.ID, domain.RoleMember)
		req.NoError(err)

		req.NoError(env.membership.DeleteChannelIfEmpty(channel.ID))

		fetched, err := env.channelSvc.GetChannelByID(channel.ID)
		req.NoError(err)
		req.Equal("alive", fetched.Name)
	})
}
