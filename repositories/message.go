//go:generate go run go.uber.org/mock/mockgen -source=message.go -destination=../mocks/mock_message_repository.go -package=mocks
package repositories

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"chatter/domain"
	"chatter/errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

type IMessageRepository interface {
	StoreMessage(message domain.Message) error
	History(conversation domain.Conversation) ([]domain.Message, error)
}

type MessageRepository struct {
	db            *badger.DB
	log           *slog.Logger
	limitMessages *int
}

func NewMessageRepository(db *badger.DB, log *slog.Logger, limitMessages *int) MessageRepository {
	return MessageRepository{db: db, log: log, limitMessages: limitMessages}
}

// DiskMessage is the stored shape of a message record.
type DiskMessage struct {
	ID      string    `json:"id"`
	From    string    `json:"from"`
	To      string    `json:"to,omitempty"`
	Group   string    `json:"group,omitempty"`
	Content string    `json:"content"`
	Lang    string    `json:"lang,omitempty"`
	At      time.Time `json:"at"`
}

// StoreMessage persists a message in BadgerDB.
// The key is formatted as "msg:{conversation}:{timestamp_padded}:{uuid}" to:
//  1. Ensure chronological sorting using 19-digit zero padding (lexicographical order).
//  2. Prevent data loss by using UUID as a collision disconnector if two messages
//     arrive at the same nanosecond.
func (m MessageRepository) StoreMessage(message domain.Message) error {
	key := fmt.Sprintf("msg:%s:%019d:%s",
		message.Conversation(),
		message.CreatedAt.UnixNano(),
		message.ID,
	)
	bytes, err := json.Marshal(fromDomainMessage(message))
	if err != nil {
		return err
	}
	err = m.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), bytes)
	})
	if err != nil {
		return fmt.Errorf("%w: %v", errors.ErrPersistence, err)
	}
	return nil
}

// History retrieves the messages of a conversation using a prefix scan.
// Thanks to the padded timestamp in the key, records come back already
// sorted by creation time, oldest first. Collection stops once the
// configured limitMessages is reached.
func (m MessageRepository) History(conversation domain.Conversation) ([]domain.Message, error) {
	var diskMessages []DiskMessage

	err := m.db.View(func(txn *badger.Txn) error {
		prefix := []byte(fmt.Sprintf("msg:%s:", conversation))
		options := badger.DefaultIteratorOptions
		it := txn.NewIterator(options)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if m.limitMessages != nil && len(diskMessages) == *m.limitMessages {
				m.log.Debug(fmt.Sprintf("Maximum of %d messages reached", *m.limitMessages))
				break
			}
			err := it.Item().Value(func(value []byte) error {
				var dm DiskMessage
				if err := json.Unmarshal(value, &dm); err != nil {
					return err
				}
				diskMessages = append(diskMessages, dm)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrPersistence, err)
	}

	return toDomainMessages(diskMessages)
}

func fromDomainMessage(message domain.Message) DiskMessage {
	return DiskMessage{
		ID:      message.ID.String(),
		From:    message.From,
		To:      message.To,
		Group:   message.Group,
		Content: message.Content,
		Lang:    message.Lang,
		At:      message.CreatedAt.UTC(),
	}
}

func toDomainMessages(diskMessages []DiskMessage) ([]domain.Message, error) {
	messages := make([]domain.Message, 0, len(diskMessages))
	for _, dm := range diskMessages {
		parsedID, err := uuid.Parse(dm.ID)
		if err != nil {
			return nil, err
		}
		messages = append(messages, domain.Message{
			ID:        parsedID,
			From:      dm.From,
			To:        dm.To,
			Group:     dm.Group,
			Content:   dm.Content,
			Lang:      dm.Lang,
			CreatedAt: dm.At.UTC(),
		})
	}
	return messages, nil
}
