package booking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when no booking row exists for the provided id.
var ErrNotFound = errors.New("booking: not found")

const bookingColumns = `
	id, sender_id, receiver_id,
	title, description, venue, address, event_date, start_time, personal_message,
	ticket_price, audience_estimate, artist_fee, door_deal, door_percentage, by_agreement,
	sender_contact, receiver_contact,
	approved_by_sender, approved_by_receiver, sender_approved_at, receiver_approved_at,
	last_modified_at, status, created_at, updated_at`

// Repository defines the data access the booking services need. The split
// between pool-level reads and tx-level writes mirrors how the approval
// transaction serializes on the locked row.
type Repository interface {
	Get(ctx context.Context, id string) (Booking, error)
	GetForUpdate(ctx context.Context, tx pgx.Tx, id string) (Booking, error)
	Create(ctx context.Context, tx pgx.Tx, b Booking) (Booking, error)
	ListForUser(ctx context.Context, userID string, page, pageSize int) ([]Booking, int, error)
	UpdateContent(ctx context.Context, tx pgx.Tx, id string, patch ContentPatch) (Booking, error)
	ApplyApproval(ctx context.Context, tx pgx.Tx, params ApplyApprovalParams) error
	UpdateStatus(ctx context.Context, tx pgx.Tx, id string, status Status) error
	AppendTimeline(ctx context.Context, tx pgx.Tx, bookingID, eventType string, actorID *string, payload map[string]any) error
	EnqueueOutbox(ctx context.Context, tx pgx.Tx, topic string, payload map[string]any) error
}

// ApplyApprovalParams enumerates the single approval write. The counterparty
// columns are only touched when RevokeCounterparty is set.
type ApplyApprovalParams struct {
	BookingID          string
	Party              Party
	RevokeCounterparty bool
	Confirm            bool
}

// ContentPatch carries the agreement content fields an edit form may change.
// Nil fields are left untouched; any applied patch advances last_modified_at.
type ContentPatch struct {
	Title            *string
	Description      *string
	Venue            *string
	Address          *string
	StartTime        *string
	PersonalMessage  *string
	TicketPrice      *int64
	AudienceEstimate *int
	ArtistFee        *int64
	DoorDeal         *bool
	DoorPercentage   *float64
	ByAgreement      *bool
}

// PGRepository implements Repository backed by PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository wires a pgxpool-backed repository implementation.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// Get fetches a full booking row by id.
func (r *PGRepository) Get(ctx context.Context, id string) (Booking, error) {
	query := `SELECT` + bookingColumns + ` FROM bookings WHERE id = $1`
	b, err := scanBooking(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Booking{}, ErrNotFound
		}
		return Booking{}, fmt.Errorf("booking: get: %w", err)
	}
	return b, nil
}

// GetForUpdate fetches a booking inside the caller's transaction, taking a row
// lock so concurrent approvals and edits serialize.
func (r *PGRepository) GetForUpdate(ctx context.Context, tx pgx.Tx, id string) (Booking, error) {
	query := `SELECT` + bookingColumns + ` FROM bookings WHERE id = $1 FOR UPDATE`
	b, err := scanBooking(tx.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Booking{}, ErrNotFound
		}
		return Booking{}, fmt.Errorf("booking: get for update: %w", err)
	}
	return b, nil
}

// Create inserts a new booking request inside the caller's transaction.
func (r *PGRepository) Create(ctx context.Context, tx pgx.Tx, b Booking) (Booking, error) {
	query := `
		INSERT INTO bookings (
			id, sender_id, receiver_id,
			title, description, venue, address, event_date, start_time, personal_message,
			ticket_price, audience_estimate, artist_fee, door_deal, door_percentage, by_agreement,
			sender_contact, receiver_contact, status
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19)
		RETURNING` + bookingColumns

	created, err := scanBooking(tx.QueryRow(ctx, query,
		b.ID, b.SenderID, b.ReceiverID,
		b.Title, b.Description, b.Venue, b.Address, b.EventDate, b.StartTime, b.PersonalMessage,
		b.TicketPrice, b.AudienceEstimate, b.ArtistFee, b.DoorDeal, b.DoorPercentage, b.ByAgreement,
		contactJSON(b.SenderContact), contactJSON(b.ReceiverContact), StatusPending,
	))
	if err != nil {
		return Booking{}, fmt.Errorf("booking: insert: %w", err)
	}
	return created, nil
}

// ListForUser returns bookings where the user is either party, newest first.
func (r *PGRepository) ListForUser(ctx context.Context, userID string, page, pageSize int) ([]Booking, int, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}

	query := `SELECT` + bookingColumns + `
		FROM bookings
		WHERE sender_id = $1 OR receiver_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, userID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("booking: list: %w", err)
	}
	defer rows.Close()

	bookings := make([]Booking, 0, pageSize)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("booking: scan: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("booking: iterate: %w", err)
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM bookings WHERE sender_id = $1 OR receiver_id = $1`, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("booking: count: %w", err)
	}

	return bookings, total, nil
}

// UpdateContent applies a partial content edit. The mutation marker
// last_modified_at always advances, which is the contract the staleness
// evaluator depends on.
func (r *PGRepository) UpdateContent(ctx context.Context, tx pgx.Tx, id string, patch ContentPatch) (Booking, error) {
	sets := make([]string, 0, 13)
	args := make([]any, 0, 14)

	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Title != nil {
		add("title", *patch.Title)
	}
	if patch.Description != nil {
		add("description", *patch.Description)
	}
	if patch.Venue != nil {
		add("venue", *patch.Venue)
	}
	if patch.Address != nil {
		add("address", *patch.Address)
	}
	if patch.StartTime != nil {
		add("start_time", *patch.StartTime)
	}
	if patch.PersonalMessage != nil {
		add("personal_message", *patch.PersonalMessage)
	}
	if patch.TicketPrice != nil {
		add("ticket_price", *patch.TicketPrice)
	}
	if patch.AudienceEstimate != nil {
		add("audience_estimate", *patch.AudienceEstimate)
	}
	if patch.ArtistFee != nil {
		add("artist_fee", *patch.ArtistFee)
	}
	if patch.DoorDeal != nil {
		add("door_deal", *patch.DoorDeal)
	}
	if patch.DoorPercentage != nil {
		add("door_percentage", *patch.DoorPercentage)
	}
	if patch.ByAgreement != nil {
		add("by_agreement", *patch.ByAgreement)
	}

	sets = append(sets, "last_modified_at = now()", "updated_at = now()")

	args = append(args, id)
	query := fmt.Sprintf(
		"UPDATE bookings SET %s WHERE id = $%d RETURNING%s",
		strings.Join(sets, ", "), len(args), bookingColumns,
	)

	b, err := scanBooking(tx.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Booking{}, ErrNotFound
		}
		return Booking{}, fmt.Errorf("booking: update content: %w", err)
	}
	return b, nil
}

// ApplyApproval performs the single approval write. The counterparty's
// columns change only on the cascading-revocation branch; this handler never
// grants the other side's approval. Confirmation advances the booking to
// upcoming; revocation drops a confirmed booking back to pending, since
// upcoming means both parties hold valid approvals.
func (r *PGRepository) ApplyApproval(ctx context.Context, tx pgx.Tx, params ApplyApprovalParams) error {
	var query string
	switch params.Party {
	case PartySender:
		query = `
			UPDATE bookings
			SET approved_by_sender = TRUE,
			    sender_approved_at = now(),
			    approved_by_receiver = CASE WHEN $2 THEN FALSE ELSE approved_by_receiver END,
			    receiver_approved_at = CASE WHEN $2 THEN NULL ELSE receiver_approved_at END,
			    status = CASE WHEN $3 THEN 'upcoming' WHEN $2 THEN 'pending' ELSE status END,
			    updated_at = now()
			WHERE id = $1`
	case PartyReceiver:
		query = `
			UPDATE bookings
			SET approved_by_receiver = TRUE,
			    receiver_approved_at = now(),
			    approved_by_sender = CASE WHEN $2 THEN FALSE ELSE approved_by_sender END,
			    sender_approved_at = CASE WHEN $2 THEN NULL ELSE sender_approved_at END,
			    status = CASE WHEN $3 THEN 'upcoming' WHEN $2 THEN 'pending' ELSE status END,
			    updated_at = now()
			WHERE id = $1`
	default:
		return fmt.Errorf("booking: unknown party %q", params.Party)
	}

	tag, err := tx.Exec(ctx, query, params.BookingID, params.RevokeCounterparty, params.Confirm)
	if err != nil {
		return fmt.Errorf("booking: apply approval: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateStatus moves the booking to the given lifecycle status.
func (r *PGRepository) UpdateStatus(ctx context.Context, tx pgx.Tx, id string, status Status) error {
	tag, err := tx.Exec(ctx, `UPDATE bookings SET status = $1, updated_at = now() WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("booking: update status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// AppendTimeline records an immutable business event for the booking.
func (r *PGRepository) AppendTimeline(ctx context.Context, tx pgx.Tx, bookingID, eventType string, actorID *string, payload map[string]any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("booking: marshal timeline payload: %w", err)
	}
	var actor any
	if actorID != nil && *actorID != "" {
		actor = *actorID
	}
	const query = `
		INSERT INTO timeline_events (booking_id, type, payload, actor_id)
		VALUES ($1, $2, $3::jsonb, $4::uuid)`
	if _, err := tx.Exec(ctx, query, bookingID, eventType, body, actor); err != nil {
		return fmt.Errorf("booking: insert timeline event: %w", err)
	}
	return nil
}

// EnqueueOutbox stages a notification for the dispatcher inside the same
// transaction as the state change it describes.
func (r *PGRepository) EnqueueOutbox(ctx context.Context, tx pgx.Tx, topic string, payload map[string]any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("booking: marshal outbox payload: %w", err)
	}
	if _, err := tx.Exec(ctx, `INSERT INTO outbox (topic, payload) VALUES ($1, $2::jsonb)`, topic, body); err != nil {
		return fmt.Errorf("booking: enqueue outbox: %w", err)
	}
	return nil
}

func contactJSON(raw []byte) []byte {
	if len(raw) == 0 {
		return []byte(`{}`)
	}
	return raw
}

func scanBooking(row pgx.Row) (Booking, error) {
	var b Booking
	err := row.Scan(
		&b.ID, &b.SenderID, &b.ReceiverID,
		&b.Title, &b.Description, &b.Venue, &b.Address, &b.EventDate, &b.StartTime, &b.PersonalMessage,
		&b.TicketPrice, &b.AudienceEstimate, &b.ArtistFee, &b.DoorDeal, &b.DoorPercentage, &b.ByAgreement,
		&b.SenderContact, &b.ReceiverContact,
		&b.ApprovedBySender, &b.ApprovedByReceiver, &b.SenderApprovedAt, &b.ReceiverApprovedAt,
		&b.LastModifiedAt, &b.Status, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return Booking{}, err
	}
	return b, nil
}
