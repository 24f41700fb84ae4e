package rest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"chatter/auth"
	"chatter/domain"
	"chatter/errors"
	"chatter/services"

	"github.com/samber/lo"
)

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type identityResponse struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
}

type messageResponse struct {
	ID        string           `json:"id"`
	From      identityResponse `json:"from"`
	To        string           `json:"to,omitempty"`
	Group     string           `json:"group,omitempty"`
	Content   string           `json:"content"`
	Lang      string           `json:"lang,omitempty"`
	CreatedAt time.Time        `json:"createdAt"`
}

type groupResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Members   []string  `json:"members"`
	CreatedBy string    `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
}

type createGroupRequest struct {
	Name    string   `json:"name"`
	Members []string `json:"members"`
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, fmt.Errorf("%w: %v", errors.ErrValidation, err))
		return
	}

	if err := s.auth.Signup(req.Name, req.Email, req.Password); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, map[string]string{"message": "User registered successfully"})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, fmt.Errorf("%w: %v", errors.ErrValidation, err))
		return
	}

	token, name, err := s.auth.Login(req.Email, req.Password)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"token": string(token), "name": name})
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		s.writeError(w, errors.ErrAuthentication)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{
		"message": "Welcome to the home page!",
		"name":    identity.DisplayName,
	})
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		s.writeError(w, errors.ErrAuthentication)
		return
	}

	users, err := s.history.ListUsers(identity.UserID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, lo.Map(users, func(u domain.User, _ int) userResponse {
		return userResponse{ID: u.ID, Name: u.DisplayName}
	}))
}

// handleDirectHistory answers GET /api/messages?with=<userId> with the
// two-party thread, oldest first, senders resolved.
func (s *Server) handleDirectHistory(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		s.writeError(w, errors.ErrAuthentication)
		return
	}

	messages, err := s.history.DirectHistory(identity.UserID, r.URL.Query().Get("with"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toMessageResponses(messages))
}

func (s *Server) handleGroupHistory(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.IdentityFromContext(r.Context()); !ok {
		s.writeError(w, errors.ErrAuthentication)
		return
	}

	messages, err := s.history.GroupHistory(r.PathValue("id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toMessageResponses(messages))
}

func (s *Server) handleListGroups(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		s.writeError(w, errors.ErrAuthentication)
		return
	}

	groups, err := s.history.ListGroups(identity.UserID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, lo.Map(groups, func(g domain.Group, _ int) groupResponse {
		return toGroupResponse(g)
	}))
}

// handleCreateGroup triggers the router's group creation: persistence
// first, then best-effort new-group notification of reachable members.
func (s *Server) handleCreateGroup(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		s.writeError(w, errors.ErrAuthentication)
		return
	}

	var req createGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, fmt.Errorf("%w: %v", errors.ErrValidation, err))
		return
	}

	group, err := s.router.CreateGroup(r.Context(), domain.CreateGroupCommand{
		Name:      req.Name,
		Members:   req.Members,
		CreatedBy: identity.UserID,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, toGroupResponse(group))
}

func toMessageResponses(messages []services.ResolvedMessage) []messageResponse {
	return lo.Map(messages, func(m services.ResolvedMessage, _ int) messageResponse {
		return messageResponse{
			ID: m.Message.ID.String(),
			From: identityResponse{
				UserID:      m.Sender.UserID,
				DisplayName: m.Sender.DisplayName,
			},
			To:        m.Message.To,
			Group:     m.Message.Group,
			Content:   m.Message.Content,
			Lang:      m.Message.Lang,
			CreatedAt: m.Message.CreatedAt,
		}
	})
}

func toGroupResponse(g domain.Group) groupResponse {
	return groupResponse{
		ID:        g.ID,
		Name:      g.Name,
		Members:   g.Members,
		CreatedBy: g.CreatedBy,
		CreatedAt: g.CreatedAt,
	}
}
