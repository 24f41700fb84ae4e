// Package ws implements the persistent-connection transport: the wire
// protocol frames, the per-connection pumps and the connection
// lifecycle manager that feeds the session registry and the router.
package ws

import (
	"encoding/json"
	"fmt"
	"time"

	"chatter/domain"
	"chatter/domain/event"
	"chatter/errors"

	"github.com/go-playground/validator/v10"
)

// Inbound signal names.
const (
	EventRegister   = "register"
	EventJoinGroup  = "join-group"
	EventSendDirect = "send-direct"
	EventSendGroup  = "send-group"
)

// Outbound notification names. The receive/new-group ones mirror the
// DomainEvent variants; ack and error answer a send intent.
const (
	EventAck   = "ack"
	EventError = "error"
)

// Frame is the envelope of every message on the socket, both ways.
// Payloads are a closed set of typed variants validated at the
// boundary before anything reaches the router.
type Frame struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type RegisterPayload struct {
	UserID string `json:"userId" validate:"required"`
}

type JoinGroupPayload struct {
	GroupID string `json:"groupId" validate:"required"`
}

type SendDirectPayload struct {
	To      string `json:"to" validate:"required"`
	Content string `json:"content" validate:"required"`
}

type SendGroupPayload struct {
	Group   string `json:"group" validate:"required"`
	Content string `json:"content" validate:"required"`
}

type IdentityPayload struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
}

type MessagePayload struct {
	ID        string          `json:"id"`
	From      IdentityPayload `json:"from"`
	To        string          `json:"to,omitempty"`
	Group     string          `json:"group,omitempty"`
	Content   string          `json:"content"`
	Lang      string          `json:"lang,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
}

type GroupPayload struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Members   []string  `json:"members"`
	CreatedBy string    `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

// AckPayload is the synchronous acknowledgment of a send intent: the
// persisted record, without sender resolution since the sender's own
// client already has that context.
type AckPayload struct {
	ID        string    `json:"id"`
	To        string    `json:"to,omitempty"`
	Group     string    `json:"group,omitempty"`
	Content   string    `json:"content"`
	Lang      string    `json:"lang,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func toAckPayload(m domain.Message) AckPayload {
	return AckPayload{
		ID:        m.ID.String(),
		To:        m.To,
		Group:     m.Group,
		Content:   m.Content,
		Lang:      m.Lang,
		CreatedAt: m.CreatedAt,
	}
}

var validate = validator.New()

// decodePayload unmarshals and validates one inbound payload variant.
func decodePayload[T any](raw json.RawMessage) (T, error) {
	var payload T
	if err := json.Unmarshal(raw, &payload); err != nil {
		return payload, fmt.Errorf("%w: %v", errors.ErrValidation, err)
	}
	if err := validate.Struct(payload); err != nil {
		return payload, fmt.Errorf("%w: %v", errors.ErrValidation, err)
	}
	return payload, nil
}

// encodeFrame serializes an outbound frame.
func encodeFrame(eventName string, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Frame{Event: eventName, Payload: raw})
}

func toMessagePayload(m domain.Message, sender domain.Identity) MessagePayload {
	return MessagePayload{
		ID:        m.ID.String(),
		From:      IdentityPayload{UserID: sender.UserID, DisplayName: sender.DisplayName},
		To:        m.To,
		Group:     m.Group,
		Content:   m.Content,
		Lang:      m.Lang,
		CreatedAt: m.CreatedAt,
	}
}

func toGroupPayload(g domain.Group) GroupPayload {
	return GroupPayload{
		ID:        g.ID,
		Name:      g.Name,
		Members:   g.Members,
		CreatedBy: g.CreatedBy,
		CreatedAt: g.CreatedAt,
	}
}

// encodeDomainEvent turns a fan-out event into its wire frame.
func encodeDomainEvent(e event.DomainEvent) ([]byte, error) {
	switch evt := e.(type) {
	case event.MessageReceived:
		return encodeFrame(evt.EventName(), toMessagePayload(evt.Message, evt.Sender))
	case event.GroupMessageReceived:
		return encodeFrame(evt.EventName(), toMessagePayload(evt.Message, evt.Sender))
	case event.GroupCreated:
		return encodeFrame(evt.EventName(), toGroupPayload(evt.Group))
	default:
		return nil, fmt.Errorf("unknown domain event %T", e)
	}
}
