package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"giggen/band"
)

type bandResponse struct {
	ID          string    `json:"id"`
	OwnerUserID string    `json:"owner_user_id"`
	Name        string    `json:"name"`
	Genre       string    `json:"genre,omitempty"`
	City        string    `json:"city,omitempty"`
	Bio         string    `json:"bio,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func toBandResponse(p band.Profile) bandResponse {
	return bandResponse{
		ID:          p.ID,
		OwnerUserID: p.OwnerUserID,
		Name:        p.Name,
		Genre:       p.Genre,
		City:        p.City,
		Bio:         p.Bio,
		CreatedAt:   p.CreatedAt,
	}
}

type createBandRequest struct {
	Name  string `json:"name"`
	Genre string `json:"genre"`
	City  string `json:"city"`
	Bio   string `json:"bio"`
}

func (s *Server) handleCreateBand(w http.ResponseWriter, r *http.Request) {
	var req createBandRequest
	if err := decodeJSON(w, r, &req); err != nil {
		badRequest(w, "malformed request body")
		return
	}

	profile, err := s.bands.Create(r.Context(), userIDFrom(r.Context()), req.Name, req.Genre, req.City, req.Bio)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toBandResponse(profile))
}

func (s *Server) handleListBands(w http.ResponseWriter, r *http.Request) {
	profiles, err := s.bands.List(r.Context(), queryInt(r, "limit", 50))
	if err != nil {
		s.writeError(w, err)
		return
	}

	out := make([]bandResponse, len(profiles))
	for i, p := range profiles {
		out[i] = toBandResponse(p)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetBand(w http.ResponseWriter, r *http.Request) {
	profile, err := s.bands.GetByID(r.Context(), chi.URLParam(r, "bandID"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toBandResponse(profile))
}
