package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"giggen/concept"
	"giggen/wizard"
)

type conceptResponse struct {
	ID          string         `json:"id"`
	OwnerUserID string         `json:"owner_user_id"`
	Kind        concept.Kind   `json:"kind"`
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	City        string         `json:"city,omitempty"`
	Genres      []string       `json:"genres,omitempty"`
	Price       int64          `json:"price"`
	ByAgreement bool           `json:"by_agreement"`

	LessonFormat     string   `json:"lesson_format,omitempty"`
	StudentLevel     string   `json:"student_level,omitempty"`
	Instruments      []string `json:"instruments,omitempty"`
	TravelDistanceKM int      `json:"travel_distance_km,omitempty"`
	MinAudience      int      `json:"min_audience,omitempty"`
	MaxAudience      int      `json:"max_audience,omitempty"`

	ImageFileID    *string `json:"image_file_id,omitempty"`
	TechSpecFileID *string `json:"tech_spec_file_id,omitempty"`
	RiderFileID    *string `json:"rider_file_id,omitempty"`

	Status    concept.Status `json:"status"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func toConceptResponse(c concept.Concept) conceptResponse {
	return conceptResponse{
		ID:               c.ID,
		OwnerUserID:      c.OwnerUserID,
		Kind:             c.Kind,
		Title:            c.Title,
		Description:      c.Description,
		City:             c.City,
		Genres:           c.Genres,
		Price:            c.Price,
		ByAgreement:      c.ByAgreement,
		LessonFormat:     c.LessonFormat,
		StudentLevel:     c.StudentLevel,
		Instruments:      c.Instruments,
		TravelDistanceKM: c.TravelDistanceKM,
		MinAudience:      c.MinAudience,
		MaxAudience:      c.MaxAudience,
		ImageFileID:      c.ImageFileID,
		TechSpecFileID:   c.TechSpecFileID,
		RiderFileID:      c.RiderFileID,
		Status:           c.Status,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	}
}

// conceptForm carries wizard field values in one request. The REST surface
// runs the whole wizard per request; Publish selects the terminal action.
type conceptForm struct {
	Kind    concept.Kind `json:"kind"`
	Publish bool         `json:"publish"`

	Title       string   `json:"title"`
	Description string   `json:"description"`
	City        string   `json:"city"`
	Genres      []string `json:"genres"`
	Price       int64    `json:"price"`
	ByAgreement bool     `json:"by_agreement"`

	LessonFormat     string   `json:"lesson_format"`
	StudentLevel     string   `json:"student_level"`
	Instruments      []string `json:"instruments"`
	TravelDistanceKM int      `json:"travel_distance_km"`
	MinAudience      int      `json:"min_audience"`
	MaxAudience      int      `json:"max_audience"`

	ImageFileID    *string `json:"image_file_id"`
	TechSpecFileID *string `json:"tech_spec_file_id"`
	RiderFileID    *string `json:"rider_file_id"`
}

func (f conceptForm) apply(c *concept.Concept) {
	c.Title = f.Title
	c.Description = f.Description
	c.City = f.City
	c.Genres = f.Genres
	c.Price = f.Price
	c.ByAgreement = f.ByAgreement
	c.LessonFormat = f.LessonFormat
	c.StudentLevel = f.StudentLevel
	c.Instruments = f.Instruments
	c.TravelDistanceKM = f.TravelDistanceKM
	c.MinAudience = f.MinAudience
	c.MaxAudience = f.MaxAudience
	c.ImageFileID = f.ImageFileID
	c.TechSpecFileID = f.TechSpecFileID
	c.RiderFileID = f.RiderFileID
}

func (s *Server) runConceptWizard(ctx context.Context, engine *wizard.Engine[concept.Concept], form conceptForm) (concept.Concept, error) {
	engine.Update(func(c *concept.Concept) { form.apply(c) })
	if form.Publish {
		if err := engine.Publish(ctx); err != nil {
			return concept.Concept{}, err
		}
	} else {
		if err := engine.SaveDraft(ctx); err != nil {
			return concept.Concept{}, err
		}
	}
	return s.concepts.Get(ctx, engine.Data().ID)
}

func (s *Server) handleCreateConcept(w http.ResponseWriter, r *http.Request) {
	var form conceptForm
	if err := decodeJSON(w, r, &form); err != nil {
		badRequest(w, "malformed request body")
		return
	}

	engine, err := s.concepts.NewWizard(userIDFrom(r.Context()), form.Kind)
	if err != nil {
		if !concept.IsValidKind(form.Kind) {
			badRequest(w, "unknown concept kind")
			return
		}
		s.writeError(w, err)
		return
	}

	saved, err := s.runConceptWizard(r.Context(), engine, form)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toConceptResponse(saved))
}

func (s *Server) handleUpdateConcept(w http.ResponseWriter, r *http.Request) {
	var form conceptForm
	if err := decodeJSON(w, r, &form); err != nil {
		badRequest(w, "malformed request body")
		return
	}

	engine, err := s.concepts.EditWizard(r.Context(), userIDFrom(r.Context()), chi.URLParam(r, "conceptID"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	saved, err := s.runConceptWizard(r.Context(), engine, form)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toConceptResponse(saved))
}

func (s *Server) handleListMyConcepts(w http.ResponseWriter, r *http.Request) {
	concepts, err := s.concepts.ListMine(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toConceptResponses(concepts))
}

func (s *Server) handleBrowseConcepts(w http.ResponseWriter, r *http.Request) {
	kind := concept.Kind(r.URL.Query().Get("kind"))
	if !concept.IsValidKind(kind) {
		badRequest(w, "unknown concept kind")
		return
	}

	concepts, err := s.concepts.Browse(r.Context(), kind, queryInt(r, "limit", 50))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toConceptResponses(concepts))
}

func (s *Server) handleGetConcept(w http.ResponseWriter, r *http.Request) {
	c, err := s.concepts.Get(r.Context(), chi.URLParam(r, "conceptID"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	// Drafts are visible to their owner only.
	if c.Status != concept.StatusPublished && c.OwnerUserID != userIDFrom(r.Context()) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
		return
	}
	writeJSON(w, http.StatusOK, toConceptResponse(c))
}

func toConceptResponses(concepts []concept.Concept) []conceptResponse {
	out := make([]conceptResponse, len(concepts))
	for i, c := range concepts {
		out[i] = toConceptResponse(c)
	}
	return out
}
