//go:generate go run go.uber.org/mock/mockgen -source=history_service.go -destination=../mocks/mock_history_service.go -package=mocks
package services

import (
	"fmt"

	"chatter/domain"
	"chatter/errors"
	"chatter/repositories"

	"github.com/samber/lo"
)

type IHistoryService interface {
	DirectHistory(selfID, otherID string) ([]ResolvedMessage, error)
	GroupHistory(groupID string) ([]ResolvedMessage, error)
	ListGroups(selfID string) ([]domain.Group, error)
	ListUsers(selfID string) ([]domain.User, error)
}

// ResolvedMessage is a stored message with the sender identity resolved
// to {userId, displayName}, the shape every history query answers with.
type ResolvedMessage struct {
	Message domain.Message
	Sender  domain.Identity
}

// HistoryService answers the request/response query interface: direct
// and group conversation history (oldest first) and the user/group
// directory listings.
type HistoryService struct {
	users    repositories.IUserRepository
	groups   repositories.IGroupRepository
	messages repositories.IMessageRepository
}

func NewHistoryService(users repositories.IUserRepository,
	groups repositories.IGroupRepository,
	messages repositories.IMessageRepository) *HistoryService {
	return &HistoryService{users: users, groups: groups, messages: messages}
}

// DirectHistory returns the two-party thread between self and other.
// The conversation key is symmetric, so either participant gets the
// same records.
func (s *HistoryService) DirectHistory(selfID, otherID string) ([]ResolvedMessage, error) {
	if otherID == "" {
		return nil, fmt.Errorf("%w: missing conversation partner", errors.ErrValidation)
	}

	messages, err := s.messages.History(domain.DirectConversation(selfID, otherID))
	if err != nil {
		return nil, err
	}
	return s.resolveSenders(messages)
}

func (s *HistoryService) GroupHistory(groupID string) ([]ResolvedMessage, error) {
	if _, err := s.groups.GetGroup(groupID); err != nil {
		return nil, fmt.Errorf("group %s: %w", groupID, err)
	}

	messages, err := s.messages.History(domain.GroupConversation(groupID))
	if err != nil {
		return nil, err
	}
	return s.resolveSenders(messages)
}

func (s *HistoryService) ListGroups(selfID string) ([]domain.Group, error) {
	return s.groups.ListGroupsByMember(selfID)
}

func (s *HistoryService) ListUsers(selfID string) ([]domain.User, error) {
	return s.users.ListOthers(selfID)
}

// resolveSenders looks up each distinct sender once and attaches the
// display name. A sender that no longer resolves keeps its raw id as
// the display name instead of failing the whole query.
func (s *HistoryService) resolveSenders(messages []domain.Message) ([]ResolvedMessage, error) {
	senderIDs := lo.Uniq(lo.Map(messages, func(m domain.Message, _ int) string {
		return m.From
	}))

	identities := make(map[string]domain.Identity, len(senderIDs))
	for _, id := range senderIDs {
		user, err := s.users.GetUserByID(id)
		if err != nil {
			identities[id] = domain.Identity{UserID: id, DisplayName: id}
			continue
		}
		identities[id] = user.Identity()
	}

	return lo.Map(messages, func(m domain.Message, _ int) ResolvedMessage {
		return ResolvedMessage{Message: m, Sender: identities[m.From]}
	}), nil
}
