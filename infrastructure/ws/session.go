package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"chatter/contract"
	"chatter/domain"
	"chatter/domain/event"
	"chatter/sink"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait    = 10 * time.Second
	pongWait     = 60 * time.Second
	pingPeriod   = (pongWait * 9) / 10
	maxFrameSize = 8192
)

// Session owns one WebSocket connection from accept to disconnect and
// walks it through the lifecycle: Connected (anonymous) -> Registered
// -> zero or more JoinedGroup -> Disconnected. The registry only ever
// holds a non-owning reference to it.
//
// A new connection by the same user is an entirely new Session that
// must re-register; there are no resume semantics.
type Session struct {
	id        string
	conn      *websocket.Conn
	events    *sink.SessionSink
	out       chan []byte
	done      chan struct{}
	closeOnce sync.Once

	mu     sync.RWMutex
	userID string

	log      *slog.Logger
	registry contract.IRegistry
	router   contract.IRouter
}

func NewSession(log *slog.Logger, conn *websocket.Conn,
	registry contract.IRegistry, router contract.IRouter,
	bufferSize int) *Session {
	return &Session{
		id:       uuid.NewString(),
		conn:     conn,
		events:   sink.NewSessionSink(bufferSize),
		out:      make(chan []byte, bufferSize),
		done:     make(chan struct{}),
		log:      log,
		registry: registry,
		router:   router,
	}
}

// ID is the per-connection token. Never reused after disconnect.
func (s *Session) ID() string { return s.id }

// Consume implements contract.Session: the router hands events to the
// buffered sink, the write pump drains them onto the wire.
func (s *Session) Consume(ctx context.Context, e event.DomainEvent) error {
	return s.events.Consume(ctx, e)
}

func (s *Session) setUserID(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userID = userID
}

func (s *Session) currentUserID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userID
}

// ReadPump processes inbound frames until the connection dies. It runs
// on the handler goroutine; the deferred close is the one and only
// disconnect path, so registry cleanup happens exactly once.
func (s *Session) ReadPump() {
	defer s.Close()

	s.conn.SetReadLimit(maxFrameSize)
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseNormalClosure,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure) {
				s.log.Warn("Unexpected close", "session", s.id, "error", err)
			}
			return
		}
		s.handleFrame(context.Background(), raw)
	}
}

func (s *Session) handleFrame(ctx context.Context, raw []byte) {
	var frame Frame
	if err := json.Unmarshal(raw, &frame); err != nil {
		s.sendError("malformed frame")
		return
	}

	switch frame.Event {
	case EventRegister:
		payload, err := decodePayload[RegisterPayload](frame.Payload)
		if err != nil {
			s.sendError(err.Error())
			return
		}
		s.setUserID(payload.UserID)
		s.registry.Register(payload.UserID, s)
		s.log.Debug("Session registered", "session", s.id, "user", payload.UserID)

	case EventJoinGroup:
		payload, err := decodePayload[JoinGroupPayload](frame.Payload)
		if err != nil {
			s.sendError(err.Error())
			return
		}
		s.registry.JoinGroup(s, payload.GroupID)
		s.log.Debug("Session joined group", "session", s.id, "group", payload.GroupID)

	case EventSendDirect:
		from := s.currentUserID()
		if from == "" {
			s.sendError("register before sending")
			return
		}
		payload, err := decodePayload[SendDirectPayload](frame.Payload)
		if err != nil {
			s.sendError(err.Error())
			return
		}
		message, err := s.router.SendDirect(ctx, domain.SendDirectCommand{
			From:      from,
			To:        payload.To,
			Content:   payload.Content,
			CreatedAt: time.Now().UTC(),
		})
		if err != nil {
			s.sendError(err.Error())
			return
		}
		s.sendAck(message)

	case EventSendGroup:
		from := s.currentUserID()
		if from == "" {
			s.sendError("register before sending")
			return
		}
		payload, err := decodePayload[SendGroupPayload](frame.Payload)
		if err != nil {
			s.sendError(err.Error())
			return
		}
		message, err := s.router.SendGroup(ctx, domain.SendGroupCommand{
			From:      from,
			Group:     payload.Group,
			Content:   payload.Content,
			CreatedAt: time.Now().UTC(),
		})
		if err != nil {
			s.sendError(err.Error())
			return
		}
		s.sendAck(message)

	default:
		s.sendError("unknown event " + frame.Event)
	}
}

// WritePump is the single writer of the connection. It serializes
// fan-out events, acks, errors and pings onto the wire.
func (s *Session) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.Close()
	}()

	for {
		select {
		case <-s.done:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = s.conn.WriteMessage(websocket.CloseMessage, nil)
			return
		case e := <-s.events.Events:
			data, err := encodeDomainEvent(e)
			if err != nil {
				s.log.Error("Failed to encode event", "session", s.id, "error", err)
				continue
			}
			if !s.write(data) {
				return
			}
		case data := <-s.out:
			if !s.write(data) {
				return
			}
		case <-ticker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (s *Session) write(data []byte) bool {
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		s.log.Debug("Write failed", "session", s.id, "error", err)
		return false
	}
	return true
}

// Close tears the session down: unbind from the registry, then close
// the transport. Safe to call from both pumps; only the first call
// does the work.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.registry.Unbind(s)
		close(s.done)
		_ = s.conn.Close()
		s.log.Debug("Session closed", "session", s.id, "user", s.currentUserID())
	})
}

func (s *Session) sendAck(m domain.Message) {
	s.push(EventAck, toAckPayload(m))
}

func (s *Session) sendError(message string) {
	s.push(EventError, ErrorPayload{Message: message})
}

// push queues a frame for the write pump without ever blocking the
// read loop. A full outbound buffer drops the frame.
func (s *Session) push(eventName string, payload any) {
	data, err := encodeFrame(eventName, payload)
	if err != nil {
		s.log.Error("Failed to encode frame", "event", eventName, "error", err)
		return
	}
	select {
	case s.out <- data:
	default:
		s.log.Warn("Outbound buffer full, dropping frame", "session", s.id, "event", eventName)
	}
}
