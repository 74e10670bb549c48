package repositories

import (
	"log/slog"
	"testing"
	"time"

	"chathub/domain"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

func Test_Record_Multiple_Messages(t *testing.T) {
	req := require.New(t)
	db := openTestDB(t)

	repository := NewMessageRepository(db, slog.Default(), nil)
	channelID := uuid.New()
	sender := uuid.New()
	content := "this message will self destruct in 5 seconds"
	at := time.Now().UTC()
	messages := []domain.Message{
		{ID: uuid.New(), ChannelID: channelID, SenderID: sender, Content: content, CreatedAt: at},
		{ID: uuid.New(), ChannelID: channelID, SenderID: sender, Content: content, CreatedAt: at.Add(1 * time.Minute)},
		{ID: uuid.New(), ChannelID: channelID, SenderID: sender, Content: content, CreatedAt: at.Add(2 * time.Minute)},
	}
	for _, message := range messages {
		req.NoError(repository.StoreMessage(message))
	}

	fetched, _, err := repository.GetMessages(channelID, nil)
	req.NoError(err)
	req.Len(fetched, len(messages))
	req.Equal(messages, fetched)
}

func Test_Record_Multiple_Messages_And_Limit(t *testing.T) {
	req := require.New(t)
	db := openTestDB(t)

	limit := 2
	repository := NewMessageRepository(db, slog.Default(), &limit)
	channelID := uuid.New()
	sender := uuid.New()
	at := time.Now().UTC()
	messages := []domain.Message{
		{ID: uuid.New(), ChannelID: channelID, SenderID: sender, Content: "first", CreatedAt: at},
		{ID: uuid.New(), ChannelID: channelID, SenderID: sender, Content: "second", CreatedAt: at.Add(1 * time.Minute)},
		{ID: uuid.New(), ChannelID: channelID, SenderID: sender, Content: "third", CreatedAt: at.Add(2 * time.Minute)},
	}
	for _, message := range messages {
		req.NoError(repository.StoreMessage(message))
	}

	// First page: the two most recent messages, in creation order
	fetched, cursor, err := repository.GetMessages(channelID, nil)
	req.NoError(err)
	req.Len(fetched, limit)
	req.Equal([]string{"second", "third"}, contents(fetched))

	// Next page resumes past the cursor
	fetched, _, err = repository.GetMessages(channelID, cursor)
	req.NoError(err)
	req.Equal([]string{"first"}, contents(fetched))
}

func Test_Messages_Are_Scoped_Per_Channel(t *testing.T) {
	req := require.New(t)
	db := openTestDB(t)

	repository := NewMessageRepository(db, slog.Default(), nil)
	channelA, channelB := uuid.New(), uuid.New()
	sender := uuid.New()
	at := time.Now().UTC()

	req.NoError(repository.StoreMessage(domain.Message{ID: uuid.New(), ChannelID: channelA, SenderID: sender, Content: "in A", CreatedAt: at}))
	req.NoError(repository.StoreMessage(domain.Message{ID: uuid.New(), ChannelID: channelB, SenderID: sender, Content: "in B", CreatedAt: at}))

	fetched, _, err := repository.GetMessages(channelA, nil)
	req.NoError(err)
	req.Equal([]string{"in A"}, contents(fetched))
}

func contents(messages []domain.Message) []string {
	return lo.Map(messages, func(item domain.Message, _ int) string {
		return item.Content
	})
}
