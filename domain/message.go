// Package domain contains core concepts of the relay system.
// This file defines Message events and related rules.
// Messages are immutable and validated at the boundary.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Message represents an immutable chat event. Exactly one of To/Group
// is set: To for a direct message, Group for a group message.
type Message struct {
	ID        uuid.UUID
	From      string
	To        string
	Group     string
	Content   string
	Lang      string
	CreatedAt time.Time
}

// IsDirect reports whether the message belongs to a two-party thread.
func (m Message) IsDirect() bool {
	return m.To != ""
}

// Conversation returns the thread key the message is recorded under.
func (m Message) Conversation() Conversation {
	if m.IsDirect() {
		return DirectConversation(m.From, m.To)
	}
	return GroupConversation(m.Group)
}
