package runtime

import (
	"context"
	"testing"

	"chatter/domain/event"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type stubSession struct {
	id string
}

func (s stubSession) ID() string { return s.id }

func (s stubSession) Consume(ctx context.Context, e event.DomainEvent) error {
	return nil
}

func newStubSession() stubSession {
	return stubSession{id: uuid.NewString()}
}

func TestRegistry_Register_And_Lookup(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	userID := uuid.NewString()
	session := newStubSession()

	// Given no user is bound
	_, ok := registry.Lookup(userID)
	req.False(ok)

	// When the user registers
	registry.Register(userID, session)

	// Then the binding resolves to that session
	bound, ok := registry.Lookup(userID)
	req.True(ok)
	req.Equal(session.ID(), bound.ID())
}

func TestRegistry_Register_Last_Wins(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	userID := uuid.NewString()
	first := newStubSession()
	second := newStubSession()

	// Given the user is bound on a first connection
	registry.Register(userID, first)

	// When the same user registers on a second connection
	registry.Register(userID, second)

	// Then only the most recent binding resolves
	bound, ok := registry.Lookup(userID)
	req.True(ok)
	req.Equal(second.ID(), bound.ID())
}

func TestRegistry_Register_Same_Session_Twice_Is_Idempotent(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	userID := uuid.NewString()
	session := newStubSession()

	registry.Register(userID, session)
	registry.Register(userID, session)

	bound, ok := registry.Lookup(userID)
	req.True(ok)
	req.Equal(session.ID(), bound.ID())
	req.Len(registry.sessions, 1)
	req.Len(registry.owners, 1)
}

func TestRegistry_Register_Session_Switches_User(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	alice := uuid.NewString()
	bob := uuid.NewString()
	session := newStubSession()

	// Given a session bound to alice
	registry.Register(alice, session)

	// When the same session registers as bob
	registry.Register(bob, session)

	// Then alice is no longer reachable over it
	_, ok := registry.Lookup(alice)
	req.False(ok)

	bound, ok := registry.Lookup(bob)
	req.True(ok)
	req.Equal(session.ID(), bound.ID())
}

func TestRegistry_Unbind_Removes_User_Binding(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	userID := uuid.NewString()
	session := newStubSession()

	registry.Register(userID, session)

	// When the session disconnects
	registry.Unbind(session)

	// Then the user is offline and no state is left behind
	_, ok := registry.Lookup(userID)
	req.False(ok)
	req.Empty(registry.sessions)
	req.Empty(registry.owners)
}

func TestRegistry_Unbind_Of_Superseded_Session_Keeps_New_Binding(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	userID := uuid.NewString()
	first := newStubSession()
	second := newStubSession()

	// Given the user re-registered on a second connection
	registry.Register(userID, first)
	registry.Register(userID, second)

	// When the stale first connection finally disconnects
	registry.Unbind(first)

	// Then the fresh binding survives
	bound, ok := registry.Lookup(userID)
	req.True(ok)
	req.Equal(second.ID(), bound.ID())
}

func TestRegistry_JoinGroup_And_Fanout_Set(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	groupID := uuid.NewString()
	session1 := newStubSession()
	session2 := newStubSession()

	// Given nobody joined yet
	req.Nil(registry.SessionsForGroup(groupID))

	// When two sessions join, one of them twice
	registry.JoinGroup(session1, groupID)
	registry.JoinGroup(session1, groupID)
	registry.JoinGroup(session2, groupID)

	// Then the fan-out set holds each session exactly once
	sessions := registry.SessionsForGroup(groupID)
	req.Len(sessions, 2)
}

func TestRegistry_Unbind_Clears_Group_Subscriptions(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	userID := uuid.NewString()
	groupA := uuid.NewString()
	groupB := uuid.NewString()
	session := newStubSession()
	other := newStubSession()

	registry.Register(userID, session)
	registry.JoinGroup(session, groupA)
	registry.JoinGroup(session, groupB)
	registry.JoinGroup(other, groupA)

	// When the session disconnects
	registry.Unbind(session)

	// Then its subscriptions are gone but other sessions keep theirs
	req.Len(registry.SessionsForGroup(groupA), 1)
	req.Nil(registry.SessionsForGroup(groupB))
	req.Empty(registry.sessionGroups[session.ID()])
}
