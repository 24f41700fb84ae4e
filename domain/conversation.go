package domain

import "fmt"

// Conversation identifies a message thread. Direct threads are keyed by
// the unordered pair of participant ids, so (A,B) and (B,A) resolve to
// the same key. Group threads are keyed by the group id.
type Conversation string

func DirectConversation(a, b string) Conversation {
	if b < a {
		a, b = b, a
	}
	return Conversation(fmt.Sprintf("d:%s:%s", a, b))
}

func GroupConversation(groupID string) Conversation {
	return Conversation(fmt.Sprintf("g:%s", groupID))
}
