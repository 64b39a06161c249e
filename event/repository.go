package event

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when no event row exists for the provided id.
var ErrNotFound = errors.New("event: not found")

const eventColumns = `
	id, organizer_id, title, description, venue, address, event_date, start_time,
	ticket_price, capacity, image_file_id, status, created_at, updated_at`

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Upsert inserts or updates an event by id, deriving status from the
// published flag. Cancelled events stay cancelled.
func (r *Repository) Upsert(ctx context.Context, e Event, published bool) (Event, error) {
	status := StatusDraft
	if published {
		status = StatusPublished
	}

	query := `
		INSERT INTO events (
			id, organizer_id, title, description, venue, address, event_date, start_time,
			ticket_price, capacity, image_file_id, status
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			venue = EXCLUDED.venue,
			address = EXCLUDED.address,
			event_date = EXCLUDED.event_date,
			start_time = EXCLUDED.start_time,
			ticket_price = EXCLUDED.ticket_price,
			capacity = EXCLUDED.capacity,
			image_file_id = EXCLUDED.image_file_id,
			status = CASE WHEN events.status = 'cancelled' THEN events.status ELSE EXCLUDED.status END,
			updated_at = now()
		RETURNING` + eventColumns

	saved, err := scanEvent(r.pool.QueryRow(ctx, query,
		e.ID, e.OrganizerID, e.Title, e.Description, e.Venue, e.Address, e.EventDate, e.StartTime,
		e.TicketPrice, e.Capacity, e.ImageFileID, status,
	))
	if err != nil {
		return Event{}, fmt.Errorf("event: upsert: %w", err)
	}
	return saved, nil
}

// Get fetches an event by id.
func (r *Repository) Get(ctx context.Context, id string) (Event, error) {
	query := `SELECT` + eventColumns + ` FROM events WHERE id = $1`
	e, err := scanEvent(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Event{}, ErrNotFound
		}
		return Event{}, fmt.Errorf("event: get: %w", err)
	}
	return e, nil
}

// ListByOrganizer returns the organizer's events, drafts included.
func (r *Repository) ListByOrganizer(ctx context.Context, organizerID string) ([]Event, error) {
	query := `SELECT` + eventColumns + ` FROM events WHERE organizer_id = $1 ORDER BY event_date ASC`

	rows, err := r.pool.Query(ctx, query, organizerID)
	if err != nil {
		return nil, fmt.Errorf("event: list by organizer: %w", err)
	}
	defer rows.Close()

	return collectEvents(rows)
}

// ListUpcoming returns published events with a future date.
func (r *Repository) ListUpcoming(ctx context.Context, limit int) ([]Event, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	query := `SELECT` + eventColumns + `
		FROM events
		WHERE status = $1 AND event_date >= now()
		ORDER BY event_date ASC
		LIMIT $2`

	rows, err := r.pool.Query(ctx, query, StatusPublished, limit)
	if err != nil {
		return nil, fmt.Errorf("event: list upcoming: %w", err)
	}
	defer rows.Close()

	return collectEvents(rows)
}

// Cancel marks the organizer's event cancelled.
func (r *Repository) Cancel(ctx context.Context, organizerID, eventID string) (Event, error) {
	query := `
		UPDATE events
		SET status = 'cancelled', updated_at = now()
		WHERE id = $1 AND organizer_id = $2
		RETURNING` + eventColumns

	e, err := scanEvent(r.pool.QueryRow(ctx, query, eventID, organizerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Event{}, ErrNotFound
		}
		return Event{}, fmt.Errorf("event: cancel: %w", err)
	}
	return e, nil
}

func collectEvents(rows pgx.Rows) ([]Event, error) {
	out := make([]Event, 0, 8)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("event: scan: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("event: iterate: %w", err)
	}
	return out, nil
}

func scanEvent(row pgx.Row) (Event, error) {
	var e Event
	err := row.Scan(
		&e.ID, &e.OrganizerID, &e.Title, &e.Description, &e.Venue, &e.Address, &e.EventDate, &e.StartTime,
		&e.TicketPrice, &e.Capacity, &e.ImageFileID, &e.Status, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return Event{}, err
	}
	return e, nil
}
