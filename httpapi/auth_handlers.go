package httpapi

import (
	"net/http"
	"time"

	"giggen/auth"
)

type userResponse struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	FullName   string    `json:"full_name"`
	Phone      *string   `json:"phone,omitempty"`
	Instrument *string   `json:"instrument,omitempty"`
	City       *string   `json:"city,omitempty"`
	Genres     []string  `json:"genres,omitempty"`
	Role       auth.Role `json:"role"`
	CreatedAt  time.Time `json:"created_at"`
}

func toUserResponse(u auth.User) userResponse {
	return userResponse{
		ID:         u.ID,
		Email:      u.Email,
		FullName:   u.FullName,
		Phone:      u.Phone,
		Instrument: u.Instrument,
		City:       u.City,
		Genres:     u.Genres,
		Role:       u.Role,
		CreatedAt:  u.CreatedAt,
	}
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req auth.RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		badRequest(w, "malformed request body")
		return
	}

	user, err := s.auth.Register(r.Context(), req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toUserResponse(*user))
}

type loginResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req auth.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		badRequest(w, "malformed request body")
		return
	}

	result, err := s.auth.Login(r.Context(), req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{Token: result.Token, User: toUserResponse(result.User)})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	user, err := s.auth.GetUserByID(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(*user))
}
