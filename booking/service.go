package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrCancelInvalidState signals the booking is past the point of cancelling.
	ErrCancelInvalidState = errors.New("booking: cancel invalid state")
	// ErrEditInvalidState signals content edits on a finished booking.
	ErrEditInvalidState = errors.New("booking: edit invalid state")
)

// Service owns the booking request lifecycle around the approval protocol:
// sending requests, content edits (which advance the mutation marker), and
// cancellation.
type Service struct {
	pool        TxBeginner
	repo        Repository
	idGenerator func() string
}

// NewService builds the lifecycle service over the given store.
func NewService(pool TxBeginner, repo Repository) *Service {
	return &Service{
		pool:        pool,
		repo:        repo,
		idGenerator: func() string { return uuid.NewString() },
	}
}

// WithIDGenerator overrides id generation, mainly for tests.
func (s *Service) WithIDGenerator(gen func() string) *Service {
	s.idGenerator = gen
	return s
}

// SendRequestParams carries the initial agreement content of a new booking
// request from sender to receiver.
type SendRequestParams struct {
	SenderID         string
	ReceiverID       string
	Title            string
	Description      string
	Venue            string
	Address          string
	EventDate        time.Time
	StartTime        string
	PersonalMessage  string
	TicketPrice      int64
	AudienceEstimate int
	ArtistFee        int64
	DoorDeal         bool
	DoorPercentage   float64
	ByAgreement      bool
	SenderContact    []byte
	ReceiverContact  []byte
}

// SendRequest creates a pending booking, appends the request timeline event
// and stages the notification, all in one transaction.
func (s *Service) SendRequest(ctx context.Context, params SendRequestParams) (Booking, error) {
	if params.SenderID == "" || params.ReceiverID == "" {
		return Booking{}, fmt.Errorf("booking: request requires both parties")
	}
	if params.SenderID == params.ReceiverID {
		return Booking{}, fmt.Errorf("booking: sender and receiver must differ")
	}
	if params.Title == "" {
		return Booking{}, fmt.Errorf("booking: title required")
	}
	if params.EventDate.IsZero() {
		return Booking{}, fmt.Errorf("booking: event date required")
	}
	if params.DoorDeal && (params.DoorPercentage <= 0 || params.DoorPercentage > 100) {
		return Booking{}, fmt.Errorf("booking: invalid door percentage")
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return Booking{}, fmt.Errorf("booking: begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	created, err := s.repo.Create(ctx, tx, Booking{
		ID:               s.idGenerator(),
		SenderID:         params.SenderID,
		ReceiverID:       params.ReceiverID,
		Title:            params.Title,
		Description:      params.Description,
		Venue:            params.Venue,
		Address:          params.Address,
		EventDate:        params.EventDate,
		StartTime:        params.StartTime,
		PersonalMessage:  params.PersonalMessage,
		TicketPrice:      params.TicketPrice,
		AudienceEstimate: params.AudienceEstimate,
		ArtistFee:        params.ArtistFee,
		DoorDeal:         params.DoorDeal,
		DoorPercentage:   params.DoorPercentage,
		ByAgreement:      params.ByAgreement,
		SenderContact:    params.SenderContact,
		ReceiverContact:  params.ReceiverContact,
	})
	if err != nil {
		return Booking{}, err
	}

	if err := s.repo.AppendTimeline(ctx, tx, created.ID, "BOOKING_REQUESTED", &params.SenderID, map[string]any{
		"receiver_id": params.ReceiverID,
		"title":       created.Title,
		"event_date":  created.EventDate,
	}); err != nil {
		return Booking{}, err
	}

	if err := s.repo.EnqueueOutbox(ctx, tx, OutboxTopicRequested, map[string]any{
		"booking_id":  created.ID,
		"sender_id":   params.SenderID,
		"receiver_id": params.ReceiverID,
	}); err != nil {
		return Booking{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Booking{}, fmt.Errorf("booking: commit request: %w", err)
	}

	return created, nil
}

// Get returns the booking if the viewer is one of its parties.
func (s *Service) Get(ctx context.Context, bookingID, viewerID string) (Booking, error) {
	b, err := s.repo.Get(ctx, bookingID)
	if err != nil {
		return Booking{}, err
	}
	if _, err := ViewFor(b, viewerID); err != nil {
		return Booking{}, err
	}
	return b, nil
}

// ListForUser returns the user's bookings on either side, with totals.
func (s *Service) ListForUser(ctx context.Context, userID string, page, pageSize int) ([]Booking, int, error) {
	return s.repo.ListForUser(ctx, userID, page, pageSize)
}

// CancelParams identifies the booking and the party cancelling it.
type CancelParams struct {
	BookingID string
	ActorID   string
	Reason    string
}

// Cancel moves a pending or upcoming booking to cancelled. Either party may
// cancel at any point before completion.
func (s *Service) Cancel(ctx context.Context, params CancelParams) (Booking, error) {
	if params.BookingID == "" || params.ActorID == "" {
		return Booking{}, fmt.Errorf("booking: cancel missing ids")
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return Booking{}, fmt.Errorf("booking: begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	b, err := s.repo.GetForUpdate(ctx, tx, params.BookingID)
	if err != nil {
		return Booking{}, err
	}
	if _, err := ViewFor(b, params.ActorID); err != nil {
		return Booking{}, err
	}
	if b.Status != StatusPending && b.Status != StatusUpcoming {
		return Booking{}, ErrCancelInvalidState
	}

	if err := s.repo.UpdateStatus(ctx, tx, params.BookingID, StatusCancelled); err != nil {
		return Booking{}, err
	}

	payload := map[string]any{"previous_status": b.Status}
	if params.Reason != "" {
		payload["reason"] = params.Reason
	}
	if err := s.repo.AppendTimeline(ctx, tx, params.BookingID, "BOOKING_CANCELLED", &params.ActorID, payload); err != nil {
		return Booking{}, err
	}
	if err := s.repo.EnqueueOutbox(ctx, tx, OutboxTopicCancelled, map[string]any{
		"booking_id": params.BookingID,
		"actor_id":   params.ActorID,
	}); err != nil {
		return Booking{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Booking{}, fmt.Errorf("booking: commit cancel: %w", err)
	}

	b.Status = StatusCancelled
	return b, nil
}

// EditContentParams carries a partial content edit from one party's form.
type EditContentParams struct {
	BookingID string
	ActorID   string
	Patch     ContentPatch
}

// EditContent applies the patch under the row lock. Advancing
// last_modified_at is what marks both parties' prior approvals stale; the
// revocation itself happens on the next approval attempt.
func (s *Service) EditContent(ctx context.Context, params EditContentParams) (Booking, error) {
	if params.BookingID == "" || params.ActorID == "" {
		return Booking{}, fmt.Errorf("booking: edit missing ids")
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return Booking{}, fmt.Errorf("booking: begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	b, err := s.repo.GetForUpdate(ctx, tx, params.BookingID)
	if err != nil {
		return Booking{}, err
	}
	if _, err := ViewFor(b, params.ActorID); err != nil {
		return Booking{}, err
	}
	if b.Status != StatusPending && b.Status != StatusUpcoming {
		return Booking{}, ErrEditInvalidState
	}

	updated, err := s.repo.UpdateContent(ctx, tx, params.BookingID, params.Patch)
	if err != nil {
		return Booking{}, err
	}

	if err := s.repo.AppendTimeline(ctx, tx, params.BookingID, "BOOKING_EDITED", &params.ActorID, map[string]any{
		"last_modified_at": updated.LastModifiedAt.UTC(),
	}); err != nil {
		return Booking{}, err
	}
	if err := s.repo.EnqueueOutbox(ctx, tx, OutboxTopicEdited, map[string]any{
		"booking_id": params.BookingID,
		"actor_id":   params.ActorID,
	}); err != nil {
		return Booking{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Booking{}, fmt.Errorf("booking: commit edit: %w", err)
	}

	return updated, nil
}
