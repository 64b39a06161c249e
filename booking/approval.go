package booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// ErrReviewIncomplete signals an approval attempt before the section-gated
// review reached its ready state. No writes are performed.
var ErrReviewIncomplete = errors.New("booking: review incomplete")

// ErrNotApprovable signals the booking is not in a state that accepts
// approvals (cancelled or completed).
var ErrNotApprovable = errors.New("booking: status does not accept approvals")

// TxBeginner abstracts pgxpool.Pool for testability.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// ApprovalStore is the slice of Repository the approval transaction needs.
type ApprovalStore interface {
	GetForUpdate(ctx context.Context, tx pgx.Tx, id string) (Booking, error)
	ApplyApproval(ctx context.Context, tx pgx.Tx, params ApplyApprovalParams) error
	AppendTimeline(ctx context.Context, tx pgx.Tx, bookingID, eventType string, actorID *string, payload map[string]any) error
	EnqueueOutbox(ctx context.Context, tx pgx.Tx, topic string, payload map[string]any) error
}

// ApprovalService commits one party's sign-off on a booking agreement,
// applying the cascading-revocation rule when the content changed after the
// counterparty approved.
type ApprovalService struct {
	pool TxBeginner
	repo ApprovalStore
}

// NewApprovalService builds the service. A nil repo is not substituted here
// because the store requires a pool; callers wire NewRepository themselves.
func NewApprovalService(pool TxBeginner, repo ApprovalStore) *ApprovalService {
	return &ApprovalService{pool: pool, repo: repo}
}

// ApproveParams identifies the approving viewer and carries their completed
// review session as proof the section gate was traversed.
type ApproveParams struct {
	BookingID string
	ViewerID  string
	Review    *ReviewSession
}

// ApproveResult reports what the transition did so callers can present the
// revocation notice and confirmation state.
type ApproveResult struct {
	Party               Party
	RevokedCounterparty bool
	Confirmed           bool
}

// Approve locks the booking row, re-evaluates staleness against the fresh
// row, writes the caller's approval and, when a later edit invalidated the
// counterparty's sign-off, resets their flag and timestamp. Re-reading under
// the row lock closes the window where two parties approving near
// simultaneously could both act on pre-edit reads.
//
// The handler only ever revokes the counterparty's approval, never grants it.
// Revoking on an already-confirmed booking also drops the status back to
// pending, so upcoming always implies two valid approvals.
func (s *ApprovalService) Approve(ctx context.Context, params ApproveParams) (ApproveResult, error) {
	if params.BookingID == "" {
		return ApproveResult{}, fmt.Errorf("booking: approve missing booking id")
	}
	if params.ViewerID == "" {
		return ApproveResult{}, fmt.Errorf("booking: approve missing viewer id")
	}
	if params.Review == nil || !params.Review.Ready() {
		return ApproveResult{}, ErrReviewIncomplete
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return ApproveResult{}, fmt.Errorf("booking: begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	b, err := s.repo.GetForUpdate(ctx, tx, params.BookingID)
	if err != nil {
		return ApproveResult{}, err
	}
	if b.Status != StatusPending && b.Status != StatusUpcoming {
		return ApproveResult{}, ErrNotApprovable
	}

	view, err := ViewFor(b, params.ViewerID)
	if err != nil {
		return ApproveResult{}, err
	}

	changed := view.ChangedSinceApproval(b.LastModifiedAt)
	revoke := changed && view.TheirApproved
	confirmed := view.TheirApproved && !revoke

	if err := s.repo.ApplyApproval(ctx, tx, ApplyApprovalParams{
		BookingID:          params.BookingID,
		Party:              view.Party,
		RevokeCounterparty: revoke,
		Confirm:            confirmed,
	}); err != nil {
		return ApproveResult{}, err
	}

	timelinePayload := map[string]any{
		"party":                view.Party,
		"revoked_counterparty": revoke,
		"confirmed":            confirmed,
	}
	if err := s.repo.AppendTimeline(ctx, tx, params.BookingID, "BOOKING_APPROVED", &params.ViewerID, timelinePayload); err != nil {
		return ApproveResult{}, err
	}

	outboxPayload := map[string]any{
		"booking_id": params.BookingID,
		"party":      view.Party,
		"actor_id":   params.ViewerID,
	}
	if err := s.repo.EnqueueOutbox(ctx, tx, OutboxTopicApproved, outboxPayload); err != nil {
		return ApproveResult{}, err
	}
	if revoke {
		if err := s.repo.EnqueueOutbox(ctx, tx, OutboxTopicApprovalRevoked, map[string]any{
			"booking_id":    params.BookingID,
			"revoked_party": counterpartyOf(view.Party),
		}); err != nil {
			return ApproveResult{}, err
		}
	}
	if confirmed {
		if err := s.repo.EnqueueOutbox(ctx, tx, OutboxTopicConfirmed, map[string]any{
			"booking_id": params.BookingID,
		}); err != nil {
			return ApproveResult{}, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return ApproveResult{}, fmt.Errorf("booking: commit approval: %w", err)
	}

	return ApproveResult{
		Party:               view.Party,
		RevokedCounterparty: revoke,
		Confirmed:           confirmed,
	}, nil
}

// ReviewState is what the review page needs on load: the fresh row, the
// viewer's side, whether the changed-since-approval banner must show, and
// whether the counterparty's approval badge renders as stale.
type ReviewState struct {
	Booking    Booking
	View       PartyView
	Changed    bool
	TheirStale bool
	Sections   []Section
}

// BookingGetter is the read access StartReview needs.
type BookingGetter interface {
	Get(ctx context.Context, id string) (Booking, error)
}

// StartReview fetches a fresh booking row and evaluates the staleness banner
// for the viewer. The caller creates the ReviewSession from Sections.
func StartReview(ctx context.Context, store BookingGetter, bookingID, viewerID string) (ReviewState, error) {
	b, err := store.Get(ctx, bookingID)
	if err != nil {
		return ReviewState{}, err
	}
	view, err := ViewFor(b, viewerID)
	if err != nil {
		return ReviewState{}, err
	}
	return ReviewState{
		Booking:    b,
		View:       view,
		Changed:    view.ChangedSinceApproval(b.LastModifiedAt),
		TheirStale: view.TheirApprovalStale(b.LastModifiedAt),
		Sections:   DefaultSections,
	}, nil
}

func counterpartyOf(p Party) Party {
	if p == PartySender {
		return PartyReceiver
	}
	return PartySender
}
