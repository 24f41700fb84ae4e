package ws

import (
	"log/slog"
	"net/http"

	"chatter/contract"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Browser clients are served from a different origin, as in the
	// permissive CORS policy of the REST side.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handler upgrades HTTP requests to WebSocket connections and starts
// the session pumps. One Session per upgrade, discarded on disconnect.
type Handler struct {
	log                  *slog.Logger
	registry             contract.IRegistry
	router               contract.IRouter
	connectionBufferSize int
}

func NewHandler(log *slog.Logger, registry contract.IRegistry,
	router contract.IRouter, connectionBufferSize int) *Handler {
	return &Handler{
		log:                  log,
		registry:             registry,
		router:               router,
		connectionBufferSize: connectionBufferSize,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "WebSocket endpoint only accepts GET requests", http.StatusMethodNotAllowed)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("WebSocket upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}

	session := NewSession(h.log, conn, h.registry, h.router, h.connectionBufferSize)
	h.log.Debug("Connection accepted", "session", session.ID(), "remote", r.RemoteAddr)

	go session.WritePump()
	session.ReadPump()
}
