//go:generate go run go.uber.org/mock/mockgen -source=user.go -destination=../mocks/mock_user_repository.go -package=mocks
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

type IUserRepository interface {
	CreateUser(email, nickname, hashedPassword string) (uuid.UUID, error)
	GetUserByEmail(email string) (User, error)
	GetProfileByUserID(id uuid.UUID) (domain.UserProfile, error)
}

type UserRepository struct {
	db *badger.DB
}

func NewUserRepository(db *badger.DB) IUserRepository {
	return &UserRepository{db: db}
}

// User is the credential-bearing representation used by the auth flow.
// Rosters and directories only ever see domain.UserProfile.
type User struct {
	ID           uuid.UUID
	Email        string
	Nickname     string
	PasswordHash string
	CreatedAt    time.Time
}

type diskUser struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	Nickname     string `json:"nickname"`
	PasswordHash string `json:"password_hash"`
	CreatedAt    int64  `json:"created_at"`
}

func userEmailKey(email string) []byte {
	return []byte("user:" + email)
}

func userIDKey(id uuid.UUID) []byte {
	return []byte("idx:user:" + id.String())
}

// CreateUser persists the user under the email key plus an id index,
// failing with ErrUserAlreadyExists if the email is taken.
func (u UserRepository) CreateUser(email, nickname, hashedPassword string) (uuid.UUID, error) {
	newID := uuid.New()
	data, err := json.Marshal(diskUser{
		ID:           newID.String(),
		Email:        email,
		Nickname:     nickname,
		PasswordHash: hashedPassword,
		CreatedAt:    time.Now().UnixNano(),
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("marshal failed: %w", err)
	}

	err = u.db.Update(func(txn *badger.Txn) error {
		key := userEmailKey(email)
		if _, err = txn.Get(key); err == nil {
			return errors.ErrUserAlreadyExists
		}
		if err := txn.Set(key, data); err != nil {
			return err
		}
		return txn.Set(userIDKey(newID), data)
	})
	if err != nil {
		return uuid.Nil, err
	}
	return newID, nil
}

func (u UserRepository) GetUserByEmail(email string) (User, error) {
	var stored diskUser
	err := u.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(userEmailKey(email))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &stored)
		})
	})
	if err == badger.ErrKeyNotFound {
		return User{}, errors.ErrUserNotFound
	}
	if err != nil {
		return User{}, err
	}
	return toUser(stored)
}

// GetProfileByUserID is the user-directory lookup consumed by rosters and
// DM channel creation.
func (u UserRepository) GetProfileByUserID(id uuid.UUID) (domain.UserProfile, error) {
	var stored diskUser
	err := u.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(userIDKey(id))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &stored)
		})
	})
	if err == badger.ErrKeyNotFound {
		return domain.UserProfile{}, errors.ErrUserNotFound
	}
	if err != nil {
		return domain.UserProfile{}, err
	}
	user, err := toUser(stored)
	if err != nil {
		return domain.UserProfile{}, err
	}
	return domain.UserProfile{
		ID:        user.ID,
		Email:     user.Email,
		Nickname:  user.Nickname,
		CreatedAt: user.CreatedAt,
	}, nil
}

func toUser(stored diskUser) (User, error) {
	id, err := uuid.Parse(stored.ID)
	if err != nil {
		return User{}, err
	}
	return User{
		ID:           id,
		Email:        stored.Email,
		Nickname:     stored.Nickname,
		PasswordHash: stored.PasswordHash,
		CreatedAt:    time.Unix(0, stored.CreatedAt).UTC(),
	}, nil
}
