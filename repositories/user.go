//go:generate go run go.uber.org/mock/mockgen -source=user.go -destination=../mocks/mock_user_repository.go -package=mocks
package repositories

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"chatter/domain"
	"chatter/errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

type IUserRepository interface {
	CreateUser(name, email, hashedPassword string) (domain.User, error)
	GetUserByEmail(email string) (User, error)
	GetUserByID(id string) (domain.User, error)
	ListOthers(selfID string) ([]domain.User, error)
}

type UserRepository struct {
	db *badger.DB
}

func NewUserRepository(db *badger.DB) IUserRepository {
	return &UserRepository{db: db}
}

// User is the repository-level representation of an account, including
// the credential hash which never leaves the auth flow.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
}

func (u User) toDomain() domain.User {
	return domain.User{
		ID:          u.ID,
		DisplayName: u.Name,
		Email:       u.Email,
		CreatedAt:   u.CreatedAt,
	}
}

// CreateUser persists a new account. The email owns a dedicated index
// key so uniqueness is enforced inside a single transaction.
func (u UserRepository) CreateUser(name, email, hashedPassword string) (domain.User, error) {
	record := User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: hashedPassword,
		CreatedAt:    time.Now().UTC(),
	}

	data, err := json.Marshal(record)
	if err != nil {
		return domain.User{}, fmt.Errorf("marshal failed: %w", err)
	}

	err = u.db.Update(func(txn *badger.Txn) error {
		emailKey := []byte("user_email:" + email)
		if _, err := txn.Get(emailKey); err == nil {
			return errors.ErrUserAlreadyExists
		}
		if err := txn.Set(emailKey, []byte(record.ID)); err != nil {
			return err
		}
		return txn.Set([]byte("user:"+record.ID), data)
	})
	if err != nil {
		return domain.User{}, err
	}

	return record.toDomain(), nil
}

// GetUserByEmail resolves the email index, then loads the full record.
func (u UserRepository) GetUserByEmail(email string) (User, error) {
	var record User

	err := u.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte("user_email:" + email))
		if err != nil {
			return err
		}

		var id []byte
		if id, err = item.ValueCopy(nil); err != nil {
			return err
		}

		item, err = txn.Get([]byte("user:" + string(id)))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &record)
		})
	})
	if err != nil {
		return User{}, mapBadgerError(err)
	}

	return record, nil
}

func (u UserRepository) GetUserByID(id string) (domain.User, error) {
	var record User

	err := u.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte("user:" + id))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &record)
		})
	})
	if err != nil {
		return domain.User{}, mapBadgerError(err)
	}

	return record.toDomain(), nil
}

// ListOthers returns every registered user except the caller, matching
// the directory listing the client sidebar is built from.
func (u UserRepository) ListOthers(selfID string) ([]domain.User, error) {
	var records []User

	err := u.db.View(func(txn *badger.Txn) error {
		options := badger.DefaultIteratorOptions
		prefix := []byte("user:")
		it := txn.NewIterator(options)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var record User
				if err := json.Unmarshal(val, &record); err != nil {
					return err
				}
				records = append(records, record)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, mapBadgerError(err)
	}

	others := lo.Filter(records, func(r User, _ int) bool {
		return r.ID != selfID
	})
	return lo.Map(others, func(r User, _ int) domain.User {
		return r.toDomain()
	}), nil
}

// mapBadgerError normalizes store errors into the domain taxonomy:
// a missing key is an absence, everything else means the store itself
// failed.
func mapBadgerError(err error) error {
	if err == nil {
		return nil
	}
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return errors.ErrNotFound
	}
	return fmt.Errorf("%w: %v", errors.ErrPersistence, err)
}
