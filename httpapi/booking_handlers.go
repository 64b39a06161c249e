package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"giggen/booking"
)

type bookingResponse struct {
	ID         string `json:"id"`
	SenderID   string `json:"sender_id"`
	ReceiverID string `json:"receiver_id"`

	Title            string          `json:"title"`
	Description      string          `json:"description,omitempty"`
	Venue            string          `json:"venue,omitempty"`
	Address          string          `json:"address,omitempty"`
	EventDate        time.Time       `json:"event_date"`
	StartTime        string          `json:"start_time,omitempty"`
	PersonalMessage  string          `json:"personal_message,omitempty"`
	TicketPrice      int64           `json:"ticket_price"`
	AudienceEstimate int             `json:"audience_estimate,omitempty"`
	ArtistFee        int64           `json:"artist_fee"`
	DoorDeal         bool            `json:"door_deal"`
	DoorPercentage   float64         `json:"door_percentage,omitempty"`
	ByAgreement      bool            `json:"by_agreement"`
	SenderContact    json.RawMessage `json:"sender_contact,omitempty"`
	ReceiverContact  json.RawMessage `json:"receiver_contact,omitempty"`

	ApprovedBySender   bool           `json:"approved_by_sender"`
	ApprovedByReceiver bool           `json:"approved_by_receiver"`
	SenderApprovedAt   *time.Time     `json:"sender_approved_at,omitempty"`
	ReceiverApprovedAt *time.Time     `json:"receiver_approved_at,omitempty"`
	LastModifiedAt     time.Time      `json:"last_modified_at"`
	Status             booking.Status `json:"status"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
}

func toBookingResponse(b booking.Booking) bookingResponse {
	return bookingResponse{
		ID:                 b.ID,
		SenderID:           b.SenderID,
		ReceiverID:         b.ReceiverID,
		Title:              b.Title,
		Description:        b.Description,
		Venue:              b.Venue,
		Address:            b.Address,
		EventDate:          b.EventDate,
		StartTime:          b.StartTime,
		PersonalMessage:    b.PersonalMessage,
		TicketPrice:        b.TicketPrice,
		AudienceEstimate:   b.AudienceEstimate,
		ArtistFee:          b.ArtistFee,
		DoorDeal:           b.DoorDeal,
		DoorPercentage:     b.DoorPercentage,
		ByAgreement:        b.ByAgreement,
		SenderContact:      json.RawMessage(b.SenderContact),
		ReceiverContact:    json.RawMessage(b.ReceiverContact),
		ApprovedBySender:   b.ApprovedBySender,
		ApprovedByReceiver: b.ApprovedByReceiver,
		SenderApprovedAt:   b.SenderApprovedAt,
		ReceiverApprovedAt: b.ReceiverApprovedAt,
		LastModifiedAt:     b.LastModifiedAt,
		Status:             b.Status,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}
}

type sendBookingRequest struct {
	ReceiverID       string          `json:"receiver_id"`
	Title            string          `json:"title"`
	Description      string          `json:"description"`
	Venue            string          `json:"venue"`
	Address          string          `json:"address"`
	EventDate        time.Time       `json:"event_date"`
	StartTime        string          `json:"start_time"`
	PersonalMessage  string          `json:"personal_message"`
	TicketPrice      int64           `json:"ticket_price"`
	AudienceEstimate int             `json:"audience_estimate"`
	ArtistFee        int64           `json:"artist_fee"`
	DoorDeal         bool            `json:"door_deal"`
	DoorPercentage   float64         `json:"door_percentage"`
	ByAgreement      bool            `json:"by_agreement"`
	SenderContact    json.RawMessage `json:"sender_contact"`
	ReceiverContact  json.RawMessage `json:"receiver_contact"`
}

func (s *Server) handleSendBooking(w http.ResponseWriter, r *http.Request) {
	var req sendBookingRequest
	if err := decodeJSON(w, r, &req); err != nil {
		badRequest(w, "malformed request body")
		return
	}

	created, err := s.bookings.SendRequest(r.Context(), booking.SendRequestParams{
		SenderID:         userIDFrom(r.Context()),
		ReceiverID:       req.ReceiverID,
		Title:            req.Title,
		Description:      req.Description,
		Venue:            req.Venue,
		Address:          req.Address,
		EventDate:        req.EventDate,
		StartTime:        req.StartTime,
		PersonalMessage:  req.PersonalMessage,
		TicketPrice:      req.TicketPrice,
		AudienceEstimate: req.AudienceEstimate,
		ArtistFee:        req.ArtistFee,
		DoorDeal:         req.DoorDeal,
		DoorPercentage:   req.DoorPercentage,
		ByAgreement:      req.ByAgreement,
		SenderContact:    req.SenderContact,
		ReceiverContact:  req.ReceiverContact,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toBookingResponse(created))
}

type bookingListResponse struct {
	Bookings []bookingResponse `json:"bookings"`
	Total    int               `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
}

func (s *Server) handleListBookings(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	pageSize := queryInt(r, "page_size", 20)

	bookings, total, err := s.bookings.ListForUser(r.Context(), userIDFrom(r.Context()), page, pageSize)
	if err != nil {
		s.writeError(w, err)
		return
	}

	out := make([]bookingResponse, len(bookings))
	for i, b := range bookings {
		out[i] = toBookingResponse(b)
	}
	writeJSON(w, http.StatusOK, bookingListResponse{Bookings: out, Total: total, Page: page, PageSize: pageSize})
}

func (s *Server) handleGetBooking(w http.ResponseWriter, r *http.Request) {
	b, err := s.bookings.Get(r.Context(), chi.URLParam(r, "bookingID"), userIDFrom(r.Context()))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toBookingResponse(b))
}

type editBookingRequest struct {
	Title            *string  `json:"title"`
	Description      *string  `json:"description"`
	Venue            *string  `json:"venue"`
	Address          *string  `json:"address"`
	StartTime        *string  `json:"start_time"`
	PersonalMessage  *string  `json:"personal_message"`
	TicketPrice      *int64   `json:"ticket_price"`
	AudienceEstimate *int     `json:"audience_estimate"`
	ArtistFee        *int64   `json:"artist_fee"`
	DoorDeal         *bool    `json:"door_deal"`
	DoorPercentage   *float64 `json:"door_percentage"`
	ByAgreement      *bool    `json:"by_agreement"`
}

func (s *Server) handleEditBooking(w http.ResponseWriter, r *http.Request) {
	var req editBookingRequest
	if err := decodeJSON(w, r, &req); err != nil {
		badRequest(w, "malformed request body")
		return
	}

	updated, err := s.bookings.EditContent(r.Context(), booking.EditContentParams{
		BookingID: chi.URLParam(r, "bookingID"),
		ActorID:   userIDFrom(r.Context()),
		Patch: booking.ContentPatch{
			Title:            req.Title,
			Description:      req.Description,
			Venue:            req.Venue,
			Address:          req.Address,
			StartTime:        req.StartTime,
			PersonalMessage:  req.PersonalMessage,
			TicketPrice:      req.TicketPrice,
			AudienceEstimate: req.AudienceEstimate,
			ArtistFee:        req.ArtistFee,
			DoorDeal:         req.DoorDeal,
			DoorPercentage:   req.DoorPercentage,
			ByAgreement:      req.ByAgreement,
		},
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toBookingResponse(updated))
}

type reviewResponse struct {
	Booking              bookingResponse   `json:"booking"`
	Party                booking.Party     `json:"party"`
	MyApproved           bool              `json:"my_approved"`
	TheirApproved        bool              `json:"their_approved"`
	TheirApprovalStale   bool              `json:"their_approval_stale"`
	ChangedSinceApproval bool              `json:"changed_since_approval"`
	Sections             []booking.Section `json:"sections"`
}

func (s *Server) handleStartReview(w http.ResponseWriter, r *http.Request) {
	state, err := booking.StartReview(r.Context(), s.reviews, chi.URLParam(r, "bookingID"), userIDFrom(r.Context()))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reviewResponse{
		Booking:              toBookingResponse(state.Booking),
		Party:                state.View.Party,
		MyApproved:           state.View.MyApproved,
		TheirApproved:        state.View.TheirApproved,
		TheirApprovalStale:   state.TheirStale,
		ChangedSinceApproval: state.Changed,
		Sections:             state.Sections,
	})
}

type approveRequest struct {
	AcknowledgedSections []booking.Section `json:"acknowledged_sections"`
}

type approveResponse struct {
	Party               booking.Party `json:"party"`
	RevokedCounterparty bool          `json:"revoked_counterparty"`
	Confirmed           bool          `json:"confirmed"`
}

// handleApprove replays the client's acknowledged sections through a fresh
// review session, so the section gate is enforced server-side rather than
// trusted from a boolean.
func (s *Server) handleApprove(w http.ResponseWriter, r *http.Request) {
	var req approveRequest
	if err := decodeJSON(w, r, &req); err != nil {
		badRequest(w, "malformed request body")
		return
	}

	session := booking.NewReviewSession()
	for _, section := range req.AcknowledgedSections {
		if session.Current() != section {
			badRequest(w, "sections must be acknowledged in review order")
			return
		}
		session.Acknowledge()
		if err := session.Next(); err != nil {
			s.writeError(w, err)
			return
		}
	}

	result, err := s.approvals.Approve(r.Context(), booking.ApproveParams{
		BookingID: chi.URLParam(r, "bookingID"),
		ViewerID:  userIDFrom(r.Context()),
		Review:    session,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, approveResponse{
		Party:               result.Party,
		RevokedCounterparty: result.RevokedCounterparty,
		Confirmed:           result.Confirmed,
	})
}

type cancelBookingRequest struct {
	Reason string `json:"reason"`
}

func (s *Server) handleCancelBooking(w http.ResponseWriter, r *http.Request) {
	var req cancelBookingRequest
	if r.ContentLength > 0 {
		if err := decodeJSON(w, r, &req); err != nil {
			badRequest(w, "malformed request body")
			return
		}
	}

	cancelled, err := s.bookings.Cancel(r.Context(), booking.CancelParams{
		BookingID: chi.URLParam(r, "bookingID"),
		ActorID:   userIDFrom(r.Context()),
		Reason:    req.Reason,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toBookingResponse(cancelled))
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return fallback
	}
	return v
}
