// Package event defines the closed set of domain events delivered to
// live sessions. Every variant maps to one outbound wire notification.
package event

import "chatter/domain"

type DomainEvent interface {
	// EventName is the wire-level event identifier.
	EventName() string
}

// MessageReceived is delivered to the recipient of a direct message.
// Sender carries the resolved display name so clients never re-query it.
type MessageReceived struct {
	Message domain.Message
	Sender  domain.Identity
}

func (MessageReceived) EventName() string { return "receive-message" }

// GroupMessageReceived is delivered to every session subscribed to the
// group's delivery channel.
type GroupMessageReceived struct {
	Message domain.Message
	Sender  domain.Identity
}

func (GroupMessageReceived) EventName() string { return "receive-group-message" }

// GroupCreated is delivered to every reachable member when a group is
// created, so clients can update their group list without re-polling.
type GroupCreated struct {
	Group domain.Group
}

func (GroupCreated) EventName() string { return "new-group" }
