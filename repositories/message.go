//go:generate go run go.uber.org/mock/mockgen -source=message.go -destination=../mocks/mock_message_repository.go -package=mocks
package repositories

import (
	"fmt"
	"log/slog"
	"time"

	"chathub/domain"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

type IMessageRepository interface {
	StoreMessage(message domain.Message) error
	GetMessages(channelID uuid.UUID, cursor *string) ([]domain.Message, *string, error)
}

type MessageRepository struct {
	db            *badger.DB
	log           *slog.Logger
	limitMessages *int
}

func NewMessageRepository(db *badger.DB, log *slog.Logger, limitMessages *int) IMessageRepository {
	return &MessageRepository{db: db, log: log, limitMessages: limitMessages}
}

// diskMessage is the stored representation of a message row.
type diskMessage struct {
	ID        string `json:"id"`
	ChannelID string `json:"channel_id"`
	SenderID  string `json:"sender_id"`
	Content   string `json:"content"`
	At        int64  `json:"at"`
}

// StoreMessage persists a message.
// The key is formatted as "msg:{channel_id}:{timestamp_padded}:{uuid}" to:
//  1. Ensure chronological sorting using 19-digit zero padding (lexicographical order).
//  2. Prevent data loss by using UUID as a collision disconnector if two messages
//     arrive at the same nanosecond.
func (m MessageRepository) StoreMessage(message domain.Message) error {
	key := fmt.Sprintf("msg:%s:%019d:%s",
		message.ChannelID,
		message.CreatedAt.UnixNano(),
		message.ID,
	)
	data, err := json.Marshal(fromMessage(message))
	if err != nil {
		return err
	}
	return m.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
}

// GetMessages retrieves one page of a channel's history using a reverse
// prefix scan: the page holds the most recent limitMessages rows before the
// cursor. The returned cursor resumes further into the past; the page itself
// is returned in creation order.
func (m MessageRepository) GetMessages(channelID uuid.UUID, cursor *string) ([]domain.Message, *string, error) {
	var rows []diskMessage
	var lastKey string
	err := m.db.View(func(txn *badger.Txn) error {
		prefixStr := fmt.Sprintf("msg:%s:", channelID)
		prefix := []byte(prefixStr)
		prefixLen := len(prefixStr)
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		it := txn.NewIterator(options)
		defer it.Close()

		var seekKey []byte
		switch cursor {
		case nil:
			// Seek past the newest possible timestamp, then walk backwards.
			seekKey = append(prefix, []byte("9999999999999999999")...)
		default:
			seekKey = append(prefix, []byte(*cursor)...)
		}

		it.Seek(seekKey)

		if cursor != nil && it.ValidForPrefix(prefix) {
			it.Next()
		}

		for ; it.ValidForPrefix(prefix); it.Next() {
			if m.limitMessages != nil && len(rows) == *m.limitMessages {
				m.log.Debug(fmt.Sprintf("Maximum of %d message reached", *m.limitMessages))
				break
			}
			item := it.Item()
			// Memorize cursor part of the actual key
			lastKey = string(item.Key()[prefixLen:])
			var stored diskMessage
			err := item.Value(func(value []byte) error {
				return json.Unmarshal(value, &stored)
			})
			if err != nil {
				return err
			}
			rows = append(rows, stored)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	messages := make([]domain.Message, 0, len(rows))
	for _, row := range rows {
		message, err := toMessage(row)
		if err != nil {
			return nil, nil, err
		}
		messages = append(messages, message)
	}
	return lo.Reverse(messages), &lastKey, nil
}

func fromMessage(message domain.Message) diskMessage {
	return diskMessage{
		ID:        message.ID.String(),
		ChannelID: message.ChannelID.String(),
		SenderID:  message.SenderID.String(),
		Content:   message.Content,
		At:        message.CreatedAt.UnixNano(),
	}
}

func toMessage(stored diskMessage) (domain.Message, error) {
	id, err := uuid.Parse(stored.ID)
	if err != nil {
		return domain.Message{}, err
	}
	channelID, err := uuid.Parse(stored.ChannelID)
	if err != nil {
		return domain.Message{}, err
	}
	senderID, err := uuid.Parse(stored.SenderID)
	if err != nil {
		return domain.Message{}, err
	}
	return domain.Message{
		ID:        id,
		ChannelID: channelID,
		SenderID:  senderID,
		Content:   stored.Content,
		CreatedAt: time.Unix(0, stored.At).UTC(),
	}, nil
}
