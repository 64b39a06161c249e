package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"giggen/event"
	"giggen/wizard"
)

type eventResponse struct {
	ID          string       `json:"id"`
	OrganizerID string       `json:"organizer_id"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Venue       string       `json:"venue,omitempty"`
	Address     string       `json:"address,omitempty"`
	EventDate   time.Time    `json:"event_date"`
	StartTime   string       `json:"start_time,omitempty"`
	TicketPrice int64        `json:"ticket_price"`
	Capacity    int          `json:"capacity"`
	ImageFileID *string      `json:"image_file_id,omitempty"`
	Status      event.Status `json:"status"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

func toEventResponse(e event.Event) eventResponse {
	return eventResponse{
		ID:          e.ID,
		OrganizerID: e.OrganizerID,
		Title:       e.Title,
		Description: e.Description,
		Venue:       e.Venue,
		Address:     e.Address,
		EventDate:   e.EventDate,
		StartTime:   e.StartTime,
		TicketPrice: e.TicketPrice,
		Capacity:    e.Capacity,
		ImageFileID: e.ImageFileID,
		Status:      e.Status,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

type eventForm struct {
	Publish bool `json:"publish"`

	Title       string    `json:"title"`
	Description string    `json:"description"`
	Venue       string    `json:"venue"`
	Address     string    `json:"address"`
	EventDate   time.Time `json:"event_date"`
	StartTime   string    `json:"start_time"`
	TicketPrice int64     `json:"ticket_price"`
	Capacity    int       `json:"capacity"`
	ImageFileID *string   `json:"image_file_id"`
}

func (f eventForm) apply(e *event.Event) {
	e.Title = f.Title
	e.Description = f.Description
	e.Venue = f.Venue
	e.Address = f.Address
	e.EventDate = f.EventDate
	e.StartTime = f.StartTime
	e.TicketPrice = f.TicketPrice
	e.Capacity = f.Capacity
	e.ImageFileID = f.ImageFileID
}

func (s *Server) runEventWizard(ctx context.Context, engine *wizard.Engine[event.Event], form eventForm) (event.Event, error) {
	engine.Update(func(e *event.Event) { form.apply(e) })
	if form.Publish {
		if err := engine.Publish(ctx); err != nil {
			return event.Event{}, err
		}
	} else {
		if err := engine.SaveDraft(ctx); err != nil {
			return event.Event{}, err
		}
	}
	return s.events.Get(ctx, engine.Data().ID)
}

func (s *Server) handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	var form eventForm
	if err := decodeJSON(w, r, &form); err != nil {
		badRequest(w, "malformed request body")
		return
	}

	engine, err := s.events.NewWizard(userIDFrom(r.Context()))
	if err != nil {
		s.writeError(w, err)
		return
	}

	saved, err := s.runEventWizard(r.Context(), engine, form)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toEventResponse(saved))
}

func (s *Server) handleUpdateEvent(w http.ResponseWriter, r *http.Request) {
	var form eventForm
	if err := decodeJSON(w, r, &form); err != nil {
		badRequest(w, "malformed request body")
		return
	}

	engine, err := s.events.EditWizard(r.Context(), userIDFrom(r.Context()), chi.URLParam(r, "eventID"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	saved, err := s.runEventWizard(r.Context(), engine, form)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toEventResponse(saved))
}

func (s *Server) handleCancelEvent(w http.ResponseWriter, r *http.Request) {
	cancelled, err := s.events.Cancel(r.Context(), userIDFrom(r.Context()), chi.URLParam(r, "eventID"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toEventResponse(cancelled))
}

func (s *Server) handleListMyEvents(w http.ResponseWriter, r *http.Request) {
	events, err := s.events.ListMine(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toEventResponses(events))
}

func (s *Server) handleListUpcomingEvents(w http.ResponseWriter, r *http.Request) {
	events, err := s.events.ListUpcoming(r.Context(), queryInt(r, "limit", 50))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toEventResponses(events))
}

func (s *Server) handleGetEvent(w http.ResponseWriter, r *http.Request) {
	e, err := s.events.Get(r.Context(), chi.URLParam(r, "eventID"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	// Drafts are visible to their organizer only.
	if e.Status == event.StatusDraft && e.OrganizerID != userIDFrom(r.Context()) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
		return
	}
	writeJSON(w, http.StatusOK, toEventResponse(e))
}

func toEventResponses(events []event.Event) []eventResponse {
	out := make([]eventResponse, len(events))
	for i, e := range events {
		out[i] = toEventResponse(e)
	}
	return out
}
