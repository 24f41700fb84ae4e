//go:generate go run go.uber.org/mock/mockgen -source=group.go -destination=../mocks/mock_group_repository.go -package=mocks
package repositories

import (
	"encoding/json"
	"fmt"
	"time"

	"chatter/domain"
	"chatter/errors"

	"github.com/dgraph-io/badger/v4"
)

type IGroupRepository interface {
	CreateGroup(group domain.Group) error
	GetGroup(id string) (domain.Group, error)
	ListGroupsByMember(userID string) ([]domain.Group, error)
}

type GroupRepository struct {
	db *badger.DB
}

func NewGroupRepository(db *badger.DB) IGroupRepository {
	return &GroupRepository{db: db}
}

// DiskGroup is the stored shape of a group record.
type DiskGroup struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Members   []string  `json:"members"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateGroup persists the group record together with one membership
// index key per member ("group_member:{userID}:{groupID}"), so listing
// the groups of a user is a prefix scan instead of a full scan.
func (g GroupRepository) CreateGroup(group domain.Group) error {
	data, err := json.Marshal(fromDomainGroup(group))
	if err != nil {
		return fmt.Errorf("marshal failed: %w", err)
	}

	err = g.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte("group:"+group.ID), data); err != nil {
			return err
		}
		for _, member := range group.Members {
			key := []byte(fmt.Sprintf("group_member:%s:%s", member, group.ID))
			if err := txn.Set(key, []byte(group.ID)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", errors.ErrPersistence, err)
	}
	return nil
}

func (g GroupRepository) GetGroup(id string) (domain.Group, error) {
	var record DiskGroup

	err := g.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte("group:" + id))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &record)
		})
	})
	if err != nil {
		return domain.Group{}, mapBadgerError(err)
	}

	return toDomainGroup(record), nil
}

// ListGroupsByMember scans the membership index of one user and loads
// each referenced group record.
func (g GroupRepository) ListGroupsByMember(userID string) ([]domain.Group, error) {
	var groups []domain.Group

	err := g.db.View(func(txn *badger.Txn) error {
		prefix := []byte(fmt.Sprintf("group_member:%s:", userID))
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			groupID, err := it.Item().ValueCopy(nil)
			if err != nil {
				return err
			}

			item, err := txn.Get([]byte("group:" + string(groupID)))
			if err != nil {
				return err
			}
			err = item.Value(func(val []byte) error {
				var record DiskGroup
				if err := json.Unmarshal(val, &record); err != nil {
					return err
				}
				groups = append(groups, toDomainGroup(record))
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

	return groups, nil
}

func fromDomainGroup(group domain.Group) DiskGroup {
	return DiskGroup{
		ID:        group.ID,
		Name:      group.Name,
		Members:   group.Members,
		CreatedBy: group.CreatedBy,
		CreatedAt: group.CreatedAt.UTC(),
	}
}

func toDomainGroup(record DiskGroup) domain.Group {
	return domain.Group{
		ID:        record.ID,
		Name:      record.Name,
		Members:   record.Members,
		CreatedBy: record.CreatedBy,
		CreatedAt: record.CreatedAt.UTC(),
	}
}
