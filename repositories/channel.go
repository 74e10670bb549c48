//go:generate go run go.uber.org/mock/mockgen -source=channel.go -destination=../mocks/mock_channel_repository.go -package=mocks
package repositories

import (
	"fmt"
	"time"

	"chathub/domain"
	"chathub/errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

type IChannelRepository interface {
	Create(channel domain.Channel) error
	GetByID(id uuid.UUID) (domain.Channel, error)
	GetByName(name string) (domain.Channel, error)
	Save(channel domain.Channel) error
	Delete(id uuid.UUID) error
	List() ([]domain.Channel, error)
}

type ChannelRepository struct {
	db *badger.DB
}

func NewChannelRepository(db *badger.DB) IChannelRepository {
	return &ChannelRepository{db: db}
}

// diskChannel is the stored representation of a channel row.
type diskChannel struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Kind         string `json:"kind"`
	IsPublic     bool   `json:"is_public"`
	PasswordHash []byte `json:"password_hash,omitempty"`
	Salt         []byte `json:"salt,omitempty"`
	CreatedAt    int64  `json:"created_at"`
}

func channelKey(id uuid.UUID) []byte {
	return []byte("channel:" + id.String())
}

func channelNameKey(name string) []byte {
	return []byte("idx:chname:" + name)
}

// Create persists the channel row and its name index in one transaction.
// The name index doubles as the uniqueness constraint: two concurrent
// creations of the same name race on the same key inside the transaction
// and the loser surfaces ErrDuplicateChannel.
func (c ChannelRepository) Create(channel domain.Channel) error {
	data, err := json.Marshal(fromChannel(channel))
	if err != nil {
		return fmt.Errorf("marshal failed: %w", err)
	}
	return c.db.Update(func(txn *badger.Txn) error {
		nameKey := channelNameKey(channel.Name)
		if _, err := txn.Get(nameKey); err == nil {
			return errors.ErrDuplicateChannel
		}
		if err := txn.Set(nameKey, []byte(channel.ID.String())); err != nil {
			return err
		}
		return txn.Set(channelKey(channel.ID), data)
	})
}

func (c ChannelRepository) GetByID(id uuid.UUID) (domain.Channel, error) {
	var stored diskChannel
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(channelKey(id))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &stored)
		})
	})
	if err == badger.ErrKeyNotFound {
		return domain.Channel{}, errors.ErrChannelNotFound
	}
	if err != nil {
		return domain.Channel{}, err
	}
	return toChannel(stored)
}

func (c ChannelRepository) GetByName(name string) (domain.Channel, error) {
	var stored diskChannel
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(channelNameKey(name))
		if err != nil {
			return err
		}
		var id []byte
		if id, err = item.ValueCopy(nil); err != nil {
			return err
		}
		parsed, err := uuid.Parse(string(id))
		if err != nil {
			return fmt.Errorf("corrupt name index for %q: %w", name, err)
		}
		item, err = txn.Get(channelKey(parsed))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &stored)
		})
	})
	if err == badger.ErrKeyNotFound {
		return domain.Channel{}, errors.ErrChannelNotFound
	}
	if err != nil {
		return domain.Channel{}, err
	}
	return toChannel(stored)
}

// Save overwrites an existing channel row. The name is immutable, so the
// name index is left untouched.
func (c ChannelRepository) Save(channel domain.Channel) error {
	data, err := json.Marshal(fromChannel(channel))
	if err != nil {
		return fmt.Errorf("marshal failed: %w", err)
	}
	return c.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(channelKey(channel.ID)); err == badger.ErrKeyNotFound {
			return errors.ErrChannelNotFound
		} else if err != nil {
			return err
		}
		return txn.Set(channelKey(channel.ID), data)
	})
}

func (c ChannelRepository) Delete(id uuid.UUID) error {
	return c.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(channelKey(id))
		if err == badger.ErrKeyNotFound {
			return errors.ErrChannelNotFound
		}
		if err != nil {
			return err
		}
		var stored diskChannel
		if err = item.Value(func(val []byte) error {
			return json.Unmarshal(val, &stored)
		}); err != nil {
			return err
		}
		if err = txn.Delete(channelNameKey(stored.Name)); err != nil {
			return err
		}
		return txn.Delete(channelKey(id))
	})
}

// List returns every channel in store (key) order.
func (c ChannelRepository) List() ([]domain.Channel, error) {
	var rows []diskChannel
	err := c.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte("channel:")
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var stored diskChannel
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &stored)
			})
			if err != nil {
				return err
			}
			rows = append(rows, stored)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	channels := make([]domain.Channel, 0, len(rows))
	for _, row := range rows {
		channel, err := toChannel(row)
		if err != nil {
			return nil, err
		}
		channels = append(channels, channel)
	}
	return channels, nil
}

func fromChannel(channel domain.Channel) diskChannel {
	return diskChannel{
		ID:           channel.ID.String(),
		Name:         channel.Name,
		Kind:         string(channel.Kind),
		IsPublic:     channel.IsPublic,
		PasswordHash: channel.PasswordHash,
		Salt:         channel.Salt,
		CreatedAt:    channel.CreatedAt.UnixNano(),
	}
}

func toChannel(stored diskChannel) (domain.Channel, error) {
	id, err := uuid.Parse(stored.ID)
	if err != nil {
		return domain.Channel{}, err
	}
	return domain.Channel{
		ID:           id,
		Name:         stored.Name,
		Kind:         domain.ChannelKind(stored.Kind),
		IsPublic:     stored.IsPublic,
		PasswordHash: stored.PasswordHash,
		Salt:         stored.Salt,
		CreatedAt:    time.Unix(0, stored.CreatedAt).UTC(),
	}, nil
}
