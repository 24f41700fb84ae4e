// Package sink provides the per-connection event buffer between the
// router's fan-out and the transport write loop.
package sink

import (
	"context"

	"chatter/domain/event"
)

// SessionSink decouples delivery from the connection's write pump. The
// router pushes into the buffered channel and never blocks; the
// transport owner drains Events and serializes frames onto the wire.
type SessionSink struct {
	Events chan event.DomainEvent
}

func NewSessionSink(bufferSize int) *SessionSink {
	return &SessionSink{Events: make(chan event.DomainEvent, bufferSize)}
}

// Consume is called by the router at fan-out time.
// A full buffer means the connection is too slow to keep up: the event
// is dropped there rather than stalling delivery to other sessions.
func (s *SessionSink) Consume(ctx context.Context, e event.DomainEvent) error {
	select {
	case s.Events <- e:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}
