// Package httpapi exposes the REST surface over chi: authentication, the
// booking approval protocol, concept and event wizards, band profiles and
// the file bank.
package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"giggen/auth"
	"giggen/band"
	"giggen/booking"
	"giggen/concept"
	"giggen/event"
	"giggen/filebank"
	"giggen/logger"
)

type Server struct {
	log       *logger.Logger
	auth      *auth.Service
	bookings  *booking.Service
	approvals *booking.ApprovalService
	reviews   booking.BookingGetter
	concepts  *concept.Service
	events    *event.Service
	bands     *band.Service
	files     *filebank.Service
}

// Deps enumerates everything the HTTP layer is wired with.
type Deps struct {
	Log       *logger.Logger
	Auth      *auth.Service
	Bookings  *booking.Service
	Approvals *booking.ApprovalService
	Reviews   booking.BookingGetter
	Concepts  *concept.Service
	Events    *event.Service
	Bands     *band.Service
	Files     *filebank.Service
}

func NewServer(deps Deps) *Server {
	return &Server{
		log:       deps.Log,
		auth:      deps.Auth,
		bookings:  deps.Bookings,
		approvals: deps.Approvals,
		reviews:   deps.Reviews,
		concepts:  deps.Concepts,
		events:    deps.Events,
		bands:     deps.Bands,
		files:     deps.Files,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/api/auth/register", s.handleRegister)
	r.Post("/api/auth/login", s.handleLogin)

	r.Group(func(r chi.Router) {
		r.Use(s.requireAuth)

		r.Get("/api/me", s.handleMe)

		r.Route("/api/bookings", func(r chi.Router) {
			r.Post("/", s.handleSendBooking)
			r.Get("/", s.handleListBookings)
			r.Get("/{bookingID}", s.handleGetBooking)
			r.Patch("/{bookingID}", s.handleEditBooking)
			r.Get("/{bookingID}/review", s.handleStartReview)
			r.Post("/{bookingID}/approve", s.handleApprove)
			r.Post("/{bookingID}/cancel", s.handleCancelBooking)
		})

		r.Route("/api/concepts", func(r chi.Router) {
			r.Post("/", s.handleCreateConcept)
			r.Put("/{conceptID}", s.handleUpdateConcept)
			r.Get("/mine", s.handleListMyConcepts)
			r.Get("/browse", s.handleBrowseConcepts)
			r.Get("/{conceptID}", s.handleGetConcept)
		})

		r.Route("/api/events", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(s.requireRole(auth.RoleOrganizer))
				r.Post("/", s.handleCreateEvent)
				r.Put("/{eventID}", s.handleUpdateEvent)
				r.Post("/{eventID}/cancel", s.handleCancelEvent)
			})
			r.Get("/mine", s.handleListMyEvents)
			r.Get("/upcoming", s.handleListUpcomingEvents)
			r.Get("/{eventID}", s.handleGetEvent)
		})

		r.Route("/api/bands", func(r chi.Router) {
			r.Post("/", s.handleCreateBand)
			r.Get("/", s.handleListBands)
			r.Get("/{bandID}", s.handleGetBand)
		})

		r.Route("/api/files", func(r chi.Router) {
			r.Post("/", s.handleRegisterFile)
			r.Get("/", s.handleListFiles)
			r.Get("/{fileID}", s.handleGetFile)
		})
	})

	return r
}
