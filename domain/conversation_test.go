package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestDirectConversation_Is_Order_Independent(t *testing.T) {
	req := require.New(t)
	alice := uuid.NewString()
	bob := uuid.NewString()

	req.Equal(DirectConversation(alice, bob), DirectConversation(bob, alice))
	req.NotEqual(DirectConversation(alice, bob), DirectConversation(alice, uuid.NewString()))
}

func TestMessage_Conversation(t *testing.T) {
	req := require.New(t)

	direct := Message{From: "alice", To: "bob", Content: "hi"}
	req.True(direct.IsDirect())
	req.Equal(DirectConversation("alice", "bob"), direct.Conversation())

	group := Message{From: "alice", Group: "g-1", Content: "hi all"}
	req.False(group.IsDirect())
	req.Equal(GroupConversation("g-1"), group.Conversation())
}
