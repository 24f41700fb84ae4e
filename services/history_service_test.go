package services

import (
	"testing"
	"time"

	"chatter/domain"
	"chatter/errors"
	"chatter/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type historyFixture struct {
	users    *mocks.MockIUserRepository
	groups   *mocks.MockIGroupRepository
	messages *mocks.MockIMessageRepository
	svc      *HistoryService
}

func newHistoryFixture(t *testing.T) historyFixture {
	ctrl := gomock.NewController(t)
	users := mocks.NewMockIUserRepository(ctrl)
	groups := mocks.NewMockIGroupRepository(ctrl)
	messages := mocks.NewMockIMessageRepository(ctrl)
	return historyFixture{
		users:    users,
		groups:   groups,
		messages: messages,
		svc:      NewHistoryService(users, groups, messages),
	}
}

func TestHistoryService_DirectHistory(t *testing.T) {
	t.Run("resolves each distinct sender once", func(t *testing.T) {
		req := require.New(t)
		f := newHistoryFixture(t)

		alice := uuid.NewString()
		bob := uuid.NewString()
		at := time.Now().UTC()
		stored := []domain.Message{
			{ID: uuid.New(), From: alice, To: bob, Content: "hi", CreatedAt: at},
			{ID: uuid.New(), From: bob, To: alice, Content: "hey", CreatedAt: at.Add(time.Second)},
			{ID: uuid.New(), From: alice, To: bob, Content: "lunch?", CreatedAt: at.Add(2 * time.Second)},
		}

		f.messages.EXPECT().
			History(domain.DirectConversation(alice, bob)).
			Return(stored, nil).
			Times(1)
		// Two distinct senders, two lookups, no matter how many messages
		f.users.EXPECT().GetUserByID(alice).
			Return(domain.User{ID: alice, DisplayName: "Alice"}, nil).Times(1)
		f.users.EXPECT().GetUserByID(bob).
			Return(domain.User{ID: bob, DisplayName: "Bob"}, nil).Times(1)

		resolved, err := f.svc.DirectHistory(alice, bob)
		req.NoError(err)
		req.Len(resolved, 3)
		req.Equal("Alice", resolved[0].Sender.DisplayName)
		req.Equal("Bob", resolved[1].Sender.DisplayName)
		req.Equal("Alice", resolved[2].Sender.DisplayName)
	})

	t.Run("falls back to the raw id when a sender no longer resolves", func(t *testing.T) {
		req := require.New(t)
		f := newHistoryFixture(t)

		alice := uuid.NewString()
		ghost := uuid.NewString()
		stored := []domain.Message{
			{ID: uuid.New(), From: ghost, To: alice, Content: "from the past", CreatedAt: time.Now().UTC()},
		}

		f.messages.EXPECT().History(gomock.Any()).Return(stored, nil).Times(1)
		f.users.EXPECT().GetUserByID(ghost).
			Return(domain.User{}, errors.ErrNotFound).Times(1)

		resolved, err := f.svc.DirectHistory(alice, ghost)
		req.NoError(err)
		req.Len(resolved, 1)
		req.Equal(ghost, resolved[0].Sender.DisplayName)
	})

	t.Run("rejects a missing conversation partner", func(t *testing.T) {
		req := require.New(t)
		f := newHistoryFixture(t)

		f.messages.EXPECT().History(gomock.Any()).Times(0)

		_, err := f.svc.DirectHistory(uuid.NewString(), "")
		req.ErrorIs(err, errors.ErrValidation)
	})
}

func TestHistoryService_GroupHistory(t *testing.T) {
	t.Run("returns the resolved thread of an existing group", func(t *testing.T) {
		req := require.New(t)
		f := newHistoryFixture(t)

		alice := uuid.NewString()
		groupID := uuid.NewString()
		stored := []domain.Message{
			{ID: uuid.New(), From: alice, Group: groupID, Content: "hello all", CreatedAt: time.Now().UTC()},
		}

		f.groups.EXPECT().GetGroup(groupID).
			Return(domain.Group{ID: groupID, Name: "team"}, nil).Times(1)
		f.messages.EXPECT().
			History(domain.GroupConversation(groupID)).
			Return(stored, nil).
			Times(1)
		f.users.EXPECT().GetUserByID(alice).
			Return(domain.User{ID: alice, DisplayName: "Alice"}, nil).Times(1)

		resolved, err := f.svc.GroupHistory(groupID)
		req.NoError(err)
		req.Len(resolved, 1)
		req.Equal("Alice", resolved[0].Sender.DisplayName)
	})

	t.Run("fails on an unknown group", func(t *testing.T) {
		req := require.New(t)
		f := newHistoryFixture(t)

		groupID := uuid.NewString()
		f.groups.EXPECT().GetGroup(groupID).
			Return(domain.Group{}, errors.ErrNotFound).Times(1)
		f.messages.EXPECT().History(gomock.Any()).Times(0)

		_, err := f.svc.GroupHistory(groupID)
		req.ErrorIs(err, errors.ErrNotFound)
	})
}

func TestHistoryService_Listings(t *testing.T) {
	req := require.New(t)
	f := newHistoryFixture(t)

	selfID := uuid.NewString()

	f.groups.EXPECT().ListGroupsByMember(selfID).
		Return([]domain.Group{{ID: uuid.NewString(), Name: "team"}}, nil).Times(1)
	f.users.EXPECT().ListOthers(selfID).
		Return([]domain.User{{ID: uuid.NewString(), DisplayName: "Bob"}}, nil).Times(1)

	groups, err := f.svc.ListGroups(selfID)
	req.NoError(err)
	req.Len(groups, 1)

	users, err := f.svc.ListUsers(selfID)
	req.NoError(err)
	req.Len(users, 1)
}
