package services

import (
	"log/slog"
	"testing"

	"chathub/domain"
	"chathub/repositories"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// testEnv wires the full service stack over a throwaway badger store,
// the same way cmd/main.go wires it in production.
type testEnv struct {
	channels    repositories.IChannelRepository
	memberships repositories.IMembershipRepository
	messages    repositories.IMessageRepository
	users       repositories.IUserRepository

	access     IAccessService
	membership IMembershipService
	directory  IDirectoryService
	passwords  IPasswordService
	channelSvc IChannelService
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	log := slog.Default()
	env := testEnv{
		channels:    repositories.NewChannelRepository(db),
		memberships: repositories.NewMembershipRepository(db),
		messages:    repositories.NewMessageRepository(db, log, nil),
		users:       repositories.NewUserRepository(db),
	}
	env.access = NewAccessService(env.memberships)
	env.membership = NewMembershipService(env.memberships, env.channels, log)
	env.directory = NewDirectoryService(env.channels, env.memberships, env.access)
	env.passwords = NewPasswordService(env.channels, log)
	env.channelSvc = NewChannelService(env.channels, env.memberships, env.messages, env.users, env.access, log)
	return env
}

func (e testEnv) registerUser(t *testing.T, email, nickname string) uuid.UUID {
	t.Helper()
	id, err := e.users.CreateUser(email, nickname, "irrelevant-hash")
	require.NoError(t, err)
	return id
}

func (e testEnv) createPublicChannel(t *testing.T, owner uuid.UUID, name string) domain.Channel {
	t.Helper()
	channel, err := e.channelSvc.CreateGroupChannel(owner, CreateGroupChannelRequest{Name: name, IsPublic: true})
	require.NoError(t, err)
	return channel
}
