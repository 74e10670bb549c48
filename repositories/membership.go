//go:generate go run go.uber.org/mock/mockgen -source=membership.go -destination=../mocks/mock_membership_repository.go -package=mocks
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

type IMembershipRepository interface {
	Create(membership domain.Membership) error
	Get(userID, channelID uuid.UUID) (domain.Membership, error)
	Save(membership domain.Membership) error
	Delete(userID, channelID uuid.UUID) error
	ListByUser(userID uuid.UUID) ([]domain.Membership, error)
	ListByChannel(channelID uuid.UUID) ([]domain.Membership, error)
	CountByChannel(channelID uuid.UUID) (int, error)
}

// MembershipRepository persists the user/channel bridge rows.
// Each row is written twice in the same transaction: once under the
// user-first key and once under the channel-first index key, so both
// scan directions are a plain prefix iteration.
type MembershipRepository struct {
	db *badger.DB
}

func NewMembershipRepository(db *badger.DB) IMembershipRepository {
	return &MembershipRepository{db: db}
}

// diskMembership is the stored representation of a bridge row.
type diskMembership struct {
	UserID    string `json:"user_id"`
	ChannelID string `json:"channel_id"`
	Role      string `json:"role"`
	IsBanned  bool   `json:"is_banned"`
	IsMuted   bool   `json:"is_muted"`
	JoinedAt  int64  `json:"joined_at"`
}

func membershipKey(userID, channelID uuid.UUID) []byte {
	return []byte(fmt.Sprintf("ucb:%s:%s", userID, channelID))
}

func membershipChannelKey(channelID, userID uuid.UUID) []byte {
	return []byte(fmt.Sprintf("idx:ucb:%s:%s", channelID, userID))
}

// Create inserts the bridge row, failing with ErrDuplicateMembership if
// the (user, channel) pair already exists. The existence check and the
// writes share one transaction: of two concurrent creations for the same
// pair, exactly one commits.
func (m MembershipRepository) Create(membership domain.Membership) error {
	data, err := json.Marshal(fromMembership(membership))
	if err != nil {
		return fmt.Errorf("marshal failed: %w", err)
	}
	return m.db.Update(func(txn *badger.Txn) error {
		key := membershipKey(membership.UserID, membership.ChannelID)
		if _, err := txn.Get(key); err == nil {
			return errors.ErrDuplicateMembership
		}
		if err := txn.Set(key, data); err != nil {
			return err
		}
		return txn.Set(membershipChannelKey(membership.ChannelID, membership.UserID), data)
	})
}

func (m MembershipRepository) Get(userID, channelID uuid.UUID) (domain.Membership, error) {
	var stored diskMembership
	err := m.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(membershipKey(userID, channelID))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &stored)
		})
	})
	if err == badger.ErrKeyNotFound {
		return domain.Membership{}, errors.ErrMembershipNotFound
	}
	if err != nil {
		return domain.Membership{}, err
	}
	return toMembership(stored)
}

// Save overwrites an existing bridge row under both keys.
func (m MembershipRepository) Save(membership domain.Membership) error {
	data, err := json.Marshal(fromMembership(membership))
	if err != nil {
		return fmt.Errorf("marshal failed: %w", err)
	}
	return m.db.Update(func(txn *badger.Txn) error {
		key := membershipKey(membership.UserID, membership.ChannelID)
		if _, err := txn.Get(key); err == badger.ErrKeyNotFound {
			return errors.ErrMembershipNotFound
		} else if err != nil {
			return err
		}
		if err := txn.Set(key, data); err != nil {
			return err
		}
		return txn.Set(membershipChannelKey(membership.ChannelID, membership.UserID), data)
	})
}

func (m MembershipRepository) Delete(userID, channelID uuid.UUID) error {
	return m.db.Update(func(txn *badger.Txn) error {
		key := membershipKey(userID, channelID)
		if _, err := txn.Get(key); err == badger.ErrKeyNotFound {
			return errors.ErrMembershipNotFound
		} else if err != nil {
			return err
		}
		if err := txn.Delete(key); err != nil {
			return err
		}
		return txn.Delete(membershipChannelKey(channelID, userID))
	})
}

// ListByUser returns every membership of a user, in store order.
func (m MembershipRepository) ListByUser(userID uuid.UUID) ([]domain.Membership, error) {
	return m.scan([]byte(fmt.Sprintf("ucb:%s:", userID)))
}

// ListByChannel returns every membership of a channel, in store order.
func (m MembershipRepository) ListByChannel(channelID uuid.UUID) ([]domain.Membership, error) {
	return m.scan([]byte(fmt.Sprintf("idx:ucb:%s:", channelID)))
}

// CountByChannel counts bridge rows without materializing values.
func (m MembershipRepository) CountByChannel(channelID uuid.UUID) (int, error) {
	count := 0
	err := m.db.View(func(txn *badger.Txn) error {
		options := badger.DefaultIteratorOptions
		options.PrefetchValues = false
		it := txn.NewIterator(options)
		defer it.Close()

		prefix := []byte(fmt.Sprintf("idx:ucb:%s:", channelID))
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			count++
		}
		return nil
	})
	return count, err
}

func (m MembershipRepository) scan(prefix []byte) ([]domain.Membership, error) {
	var rows []diskMembership
	err := m.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var stored diskMembership
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

	memberships := make([]domain.Membership, 0, len(rows))
	for _, row := range rows {
		membership, err := toMembership(row)
		if err != nil {
			return nil, err
		}
		memberships = append(memberships, membership)
	}
	return memberships, nil
}

func fromMembership(membership domain.Membership) diskMembership {
	return diskMembership{
		UserID:    membership.UserID.String(),
		ChannelID: membership.ChannelID.String(),
		Role:      string(membership.Role),
		IsBanned:  membership.IsBanned,
		IsMuted:   membership.IsMuted,
		JoinedAt:  membership.JoinedAt.UnixNano(),
	}
}

func toMembership(stored diskMembership) (domain.Membership, error) {
	userID, err := uuid.Parse(stored.UserID)
	if err != nil {
		return domain.Membership{}, err
	}
	channelID, err := uuid.Parse(stored.ChannelID)
	if err != nil {
		return domain.Membership{}, err
	}
	return domain.Membership{
		UserID:    userID,
		ChannelID: channelID,
		Role:      domain.Role(stored.Role),
		IsBanned:  stored.IsBanned,
		IsMuted:   stored.IsMuted,
		JoinedAt:  time.Unix(0, stored.JoinedAt).UTC(),
	}, nil
}
