//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"chatter/domain"
	"chatter/domain/event"
	"context"
	"reflect"
)

// EventSink receives domain events for one consumer. Implementations
// must not block: a slow consumer drops events instead of stalling the
// caller.
type EventSink interface {
	Consume(ctx context.Context, e event.DomainEvent) error
}

// Session is a live transport connection. The lifecycle manager owns it
// from accept to disconnect; the registry only holds a non-owning
// reference indexed by user id.
type Session interface {
	EventSink
	// ID is a per-connection token, never reused after disconnect.
	ID() string
}

// IRegistry is the single source of truth for "is this user currently
// reachable, and how". Only the registry mutates its internal maps.
type IRegistry interface {
	Register(userID string, s Session)
	Lookup(userID string) (Session, bool)
	Unbind(s Session)
	JoinGroup(s Session, groupID string)
	SessionsForGroup(groupID string) []Session
}

// IRouter persists outbound intents and fans them out to every
// reachable session. Persistence always precedes delivery.
type IRouter interface {
	SendDirect(ctx context.Context, cmd domain.SendDirectCommand) (domain.Message, error)
	SendGroup(ctx context.Context, cmd domain.SendGroupCommand) (domain.Message, error)
	CreateGroup(ctx context.Context, cmd domain.CreateGroupCommand) (domain.Group, error)
}

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// Used for logging and supervision, avoiding manual naming in the
// Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}
