// Package rest exposes the request/response query interface: account
// signup and login, the user directory, group management and
// conversation history. Real-time traffic lives on the WebSocket side.
package rest

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"chatter/auth"
	"chatter/contract"
	"chatter/errors"
	"chatter/services"
)

type Server struct {
	log     *slog.Logger
	auth    services.IAuthService
	history services.IHistoryService
	router  contract.IRouter
}

func NewServer(log *slog.Logger, authService services.IAuthService,
	history services.IHistoryService, router contract.IRouter) *Server {
	return &Server{log: log, auth: authService, history: history, router: router}
}

// Routes assembles the full HTTP surface. Everything under /api plus
// /home requires a Bearer token; signup, login and the WebSocket
// upgrade endpoint are public (the socket authenticates through its
// own register signal).
func (s *Server) Routes(wsHandler http.Handler) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /signup", s.handleSignup)
	mux.HandleFunc("POST /login", s.handleLogin)

	mux.Handle("GET /home", auth.Middleware(http.HandlerFunc(s.handleHome)))
	mux.Handle("GET /api/users", auth.Middleware(http.HandlerFunc(s.handleListUsers)))
	mux.Handle("GET /api/messages", auth.Middleware(http.HandlerFunc(s.handleDirectHistory)))
	mux.Handle("GET /api/groups", auth.Middleware(http.HandlerFunc(s.handleListGroups)))
	mux.Handle("POST /api/groups", auth.Middleware(http.HandlerFunc(s.handleCreateGroup)))
	mux.Handle("GET /api/groups/{id}/messages", auth.Middleware(http.HandlerFunc(s.handleGroupHistory)))

	mux.Handle("/ws", wsHandler)

	return withCORS(mux)
}

// withCORS mirrors the permissive policy of the original deployment
// where the browser client is served from another origin.
func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.log.Error("Failed to encode response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	s.writeJSON(w, errors.MapToHTTPStatus(err), map[string]string{"message": err.Error()})
}
