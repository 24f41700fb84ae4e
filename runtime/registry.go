// Package runtime hosts the session registry and the message router:
// the shared state and the fan-out logic of the relay. It contains no
// transport or UI concerns.
package runtime

import (
	"sync"

	"chatter/contract"
)

type Set map[string]struct{}

// Registry is the single source of truth for which user is currently
// reachable over which session. It also tracks the per-session group
// subscription sets used at fan-out time. All maps are guarded by one
// mutex; nothing outside the registry mutates them.
type Registry struct {
	mu sync.RWMutex
	// userID -> live session (at most one per user, last register wins)
	sessions map[string]contract.Session
	// session ID -> userID currently bound to it
	owners map[string]string
	// groupID -> session ID -> session
	groupSubs map[string]map[string]contract.Session
	// session ID -> groupIDs it subscribed to
	sessionGroups map[string]Set
}

func NewRegistry() *Registry {
	return &Registry{
		sessions:      make(map[string]contract.Session),
		owners:        make(map[string]string),
		groupSubs:     make(map[string]map[string]contract.Session),
		sessionGroups: make(map[string]Set),
	}
}

// Register binds userID to the session, replacing any prior binding for
// that user unconditionally. A session that re-registers under a
// different user id loses its old binding first: one connection, one
// user.
func (r *Registry) Register(userID string, s contract.Session) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if prevUser, ok := r.owners[s.ID()]; ok && prevUser != userID {
		if cur, exists := r.sessions[prevUser]; exists && cur.ID() == s.ID() {
			delete(r.sessions, prevUser)
		}
	}

	// Last register wins: a superseded session keeps running until its
	// own disconnect, but no longer receives direct deliveries.
	if old, ok := r.sessions[userID]; ok && old.ID() != s.ID() {
		delete(r.owners, old.ID())
	}

	r.sessions[userID] = s
	r.owners[s.ID()] = userID
}

// Lookup returns the current binding for a user. Absence is the normal
// outcome for an offline recipient, not an error.
func (r *Registry) Lookup(userID string) (contract.Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[userID]
	return s, ok
}

// Unbind removes every binding held by this session: the user binding
// (only if it still points at this session) and all of its group
// subscriptions. Called exactly once, from the disconnect path.
func (r *Registry) Unbind(s contract.Session) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if userID, ok := r.owners[s.ID()]; ok {
		if cur, exists := r.sessions[userID]; exists && cur.ID() == s.ID() {
			delete(r.sessions, userID)
		}
		delete(r.owners, s.ID())
	}

	for groupID := range r.sessionGroups[s.ID()] {
		if subs, ok := r.groupSubs[groupID]; ok {
			delete(subs, s.ID())
			// No empty sets left behind to avoid leaking over time
			if len(subs) == 0 {
				delete(r.groupSubs, groupID)
			}
		}
	}
	delete(r.sessionGroups, s.ID())
}

// JoinGroup subscribes the session to a group's delivery channel.
// Joining twice has no additional effect. Membership is enforced at
// subscription time by the caller, never re-validated here.
func (r *Registry) JoinGroup(s contract.Session, groupID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.groupSubs[groupID]; !ok {
		r.groupSubs[groupID] = make(map[string]contract.Session)
	}
	r.groupSubs[groupID][s.ID()] = s

	if _, ok := r.sessionGroups[s.ID()]; !ok {
		r.sessionGroups[s.ID()] = make(Set)
	}
	r.sessionGroups[s.ID()][groupID] = struct{}{}
}

// SessionsForGroup retrieves all sessions subscribed to a group's
// delivery channel. Returns nil if nobody joined.
func (r *Registry) SessionsForGroup(groupID string) []contract.Session {
	r.mu.RLock()
	defer r.mu.RUnlock()

	subs, ok := r.groupSubs[groupID]
	if !ok {
		return nil
	}
	sessions := make([]contract.Session, 0, len(subs))
	for _, s := range subs {
		sessions = append(sessions, s)
	}
	return sessions
}
