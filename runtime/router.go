package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"chatter/contract"
	"chatter/domain"
	"chatter/domain/event"
	"chatter/errors"
	"chatter/moderation"
	"chatter/repositories"

	"github.com/abadojack/whatlanggo"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

// Router persists outbound message intents and fans them out to every
// reachable session. The ordering rule is persist-then-deliver: a
// message is never pushed to a live connection unless it has been
// durably recorded first. Delivery itself is best-effort; a miss is
// recovered later through history queries.
type Router struct {
	log              *slog.Logger
	registry         contract.IRegistry
	users            repositories.IUserRepository
	groups           repositories.IGroupRepository
	messages         repositories.IMessageRepository
	moderator        *moderation.Moderator
	maxContentLength int
}

func NewRouter(log *slog.Logger, registry contract.IRegistry,
	users repositories.IUserRepository, groups repositories.IGroupRepository,
	messages repositories.IMessageRepository, moderator *moderation.Moderator,
	maxContentLength int) *Router {
	return &Router{
		log:              log,
		registry:         registry,
		users:            users,
		groups:           groups,
		messages:         messages,
		moderator:        moderator,
		maxContentLength: maxContentLength,
	}
}

// SendDirect records a direct message and notifies the recipient if a
// session is currently bound to them. The persisted message is returned
// to the sender as the synchronous acknowledgment; the sender's own
// live channel is not notified, the client already has the content.
func (r *Router) SendDirect(ctx context.Context, cmd domain.SendDirectCommand) (domain.Message, error) {
	if err := r.validateContent(cmd.Content); err != nil {
		return domain.Message{}, err
	}
	if cmd.To == "" {
		return domain.Message{}, fmt.Errorf("%w: missing recipient", errors.ErrValidation)
	}

	sender, err := r.users.GetUserByID(cmd.From)
	if err != nil {
		return domain.Message{}, fmt.Errorf("sender %s: %w", cmd.From, err)
	}

	message := r.buildMessage(cmd.From, cmd.Content, cmd.CreatedAt)
	message.To = cmd.To

	if err := r.messages.StoreMessage(message); err != nil {
		return domain.Message{}, err
	}

	recipient, ok := r.registry.Lookup(cmd.To)
	if !ok {
		// Normal offline outcome, the recipient catches up via history
		r.log.Debug("Recipient not reachable", "to", cmd.To)
		return message, nil
	}

	r.deliver(ctx, recipient, event.MessageReceived{
		Message: message,
		Sender:  sender.Identity(),
	})
	return message, nil
}

// SendGroup records a group message and delivers it once per session
// subscribed to the group's delivery channel. Membership is enforced at
// subscription time, not re-validated at fan-out time.
func (r *Router) SendGroup(ctx context.Context, cmd domain.SendGroupCommand) (domain.Message, error) {
	if err := r.validateContent(cmd.Content); err != nil {
		return domain.Message{}, err
	}

	if _, err := r.groups.GetGroup(cmd.Group); err != nil {
		return domain.Message{}, fmt.Errorf("group %s: %w", cmd.Group, err)
	}

	sender, err := r.users.GetUserByID(cmd.From)
	if err != nil {
		return domain.Message{}, fmt.Errorf("sender %s: %w", cmd.From, err)
	}

	message := r.buildMessage(cmd.From, cmd.Content, cmd.CreatedAt)
	message.Group = cmd.Group

	if err := r.messages.StoreMessage(message); err != nil {
		return domain.Message{}, err
	}

	notification := event.GroupMessageReceived{
		Message: message,
		Sender:  sender.Identity(),
	}
	for _, s := range r.registry.SessionsForGroup(cmd.Group) {
		r.deliver(ctx, s, notification)
	}
	return message, nil
}

// CreateGroup validates and persists a new group, then notifies every
// currently reachable member so their client can update its group list
// without re-polling. Unreachable members discover the group on their
// next listing query.
func (r *Router) CreateGroup(ctx context.Context, cmd domain.CreateGroupCommand) (domain.Group, error) {
	if strings.TrimSpace(cmd.Name) == "" {
		return domain.Group{}, fmt.Errorf("%w: missing group name", errors.ErrValidation)
	}

	// The creator is implicitly a member
	members := lo.Uniq(append(append([]string{}, cmd.Members...), cmd.CreatedBy))
	if len(members) < 2 {
		return domain.Group{}, fmt.Errorf("%w: a group needs at least two distinct members", errors.ErrValidation)
	}

	group := domain.Group{
		ID:        uuid.NewString(),
		Name:      cmd.Name,
		Members:   members,
		CreatedBy: cmd.CreatedBy,
		CreatedAt: time.Now().UTC(),
	}

	if err := r.groups.CreateGroup(group); err != nil {
		return domain.Group{}, err
	}

	for _, member := range members {
		if s, ok := r.registry.Lookup(member); ok {
			r.deliver(ctx, s, event.GroupCreated{Group: group})
		}
	}
	return group, nil
}

// deliver pushes an event to one session. A failed or dropped delivery
// is absorbed here: it must never surface as an overall send failure
// nor stall delivery to other sessions.
func (r *Router) deliver(ctx context.Context, s contract.Session, e event.DomainEvent) {
	if err := s.Consume(ctx, e); err != nil {
		r.log.Warn("Delivery miss",
			"event", e.EventName(),
			"session", s.ID(),
			"error", err)
	}
}

func (r *Router) validateContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("%w: empty content", errors.ErrValidation)
	}
	if r.maxContentLength > 0 && len(content) > r.maxContentLength {
		return fmt.Errorf("%w: content exceeds %d bytes", errors.ErrValidation, r.maxContentLength)
	}
	return nil
}

// buildMessage assembles the immutable record: content is censored and
// language-tagged before it ever reaches the store.
func (r *Router) buildMessage(from, content string, createdAt time.Time) domain.Message {
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	sanitized := content
	if r.moderator != nil {
		sanitized = r.moderator.Censor(content)
	}

	info := whatlanggo.Detect(content)

	return domain.Message{
		ID:        uuid.New(),
		From:      from,
		Content:   sanitized,
		Lang:      info.Lang.Iso6391(),
		CreatedAt: createdAt.UTC(),
	}
}
