package concept

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when no concept row exists for the provided id.
var ErrNotFound = errors.New("concept: not found")

const conceptColumns = `
	id, owner_user_id, kind, title, description, city, genres, price, by_agreement,
	lesson_format, student_level, instruments, travel_distance_km,
	min_audience, max_audience,
	image_file_id, tech_spec_file_id, rider_file_id,
	status, created_at, updated_at`

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Upsert inserts a new concept or updates an existing one by id, setting the
// status from the published flag. This is the save function the wizard engine
// delegates to for both draft and publish.
func (r *Repository) Upsert(ctx context.Context, c Concept, published bool) (Concept, error) {
	status := StatusDraft
	if published {
		status = StatusPublished
	}

	query := `
		INSERT INTO concepts (
			id, owner_user_id, kind, title, description, city, genres, price, by_agreement,
			lesson_format, student_level, instruments, travel_distance_km,
			min_audience, max_audience,
			image_file_id, tech_spec_file_id, rider_file_id, status
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			city = EXCLUDED.city,
			genres = EXCLUDED.genres,
			price = EXCLUDED.price,
			by_agreement = EXCLUDED.by_agreement,
			lesson_format = EXCLUDED.lesson_format,
			student_level = EXCLUDED.student_level,
			instruments = EXCLUDED.instruments,
			travel_distance_km = EXCLUDED.travel_distance_km,
			min_audience = EXCLUDED.min_audience,
			max_audience = EXCLUDED.max_audience,
			image_file_id = EXCLUDED.image_file_id,
			tech_spec_file_id = EXCLUDED.tech_spec_file_id,
			rider_file_id = EXCLUDED.rider_file_id,
			status = EXCLUDED.status,
			updated_at = now()
		RETURNING` + conceptColumns

	saved, err := scanConcept(r.pool.QueryRow(ctx, query,
		c.ID, c.OwnerUserID, c.Kind, c.Title, c.Description, c.City, c.Genres, c.Price, c.ByAgreement,
		c.LessonFormat, c.StudentLevel, c.Instruments, c.TravelDistanceKM,
		c.MinAudience, c.MaxAudience,
		c.ImageFileID, c.TechSpecFileID, c.RiderFileID, status,
	))
	if err != nil {
		return Concept{}, fmt.Errorf("concept: upsert: %w", err)
	}
	return saved, nil
}

// Get fetches a concept by id for wizard pre-population.
func (r *Repository) Get(ctx context.Context, id string) (Concept, error) {
	query := `SELECT` + conceptColumns + ` FROM concepts WHERE id = $1`
	c, err := scanConcept(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Concept{}, ErrNotFound
		}
		return Concept{}, fmt.Errorf("concept: get: %w", err)
	}
	return c, nil
}

// ListByOwner returns the owner's concepts, drafts included, newest first.
func (r *Repository) ListByOwner(ctx context.Context, ownerUserID string) ([]Concept, error) {
	query := `SELECT` + conceptColumns + ` FROM concepts WHERE owner_user_id = $1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, ownerUserID)
	if err != nil {
		return nil, fmt.Errorf("concept: list by owner: %w", err)
	}
	defer rows.Close()

	out := make([]Concept, 0, 8)
	for rows.Next() {
		c, err := scanConcept(rows)
		if err != nil {
			return nil, fmt.Errorf("concept: scan: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("concept: iterate: %w", err)
	}
	return out, nil
}

// ListPublished returns published concepts of a kind for browsing.
func (r *Repository) ListPublished(ctx context.Context, kind Kind, limit int) ([]Concept, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	query := `SELECT` + conceptColumns + `
		FROM concepts
		WHERE kind = $1 AND status = $2
		ORDER BY created_at DESC
		LIMIT $3`

	rows, err := r.pool.Query(ctx, query, kind, StatusPublished, limit)
	if err != nil {
		return nil, fmt.Errorf("concept: list published: %w", err)
	}
	defer rows.Close()

	out := make([]Concept, 0, limit)
	for rows.Next() {
		c, err := scanConcept(rows)
		if err != nil {
			return nil, fmt.Errorf("concept: scan: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("concept: iterate: %w", err)
	}
	return out, nil
}

func scanConcept(row pgx.Row) (Concept, error) {
	var c Concept
	err := row.Scan(
		&c.ID, &c.OwnerUserID, &c.Kind, &c.Title, &c.Description, &c.City, &c.Genres, &c.Price, &c.ByAgreement,
		&c.LessonFormat, &c.StudentLevel, &c.Instruments, &c.TravelDistanceKM,
		&c.MinAudience, &c.MaxAudience,
		&c.ImageFileID, &c.TechSpecFileID, &c.RiderFileID,
		&c.Status, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return Concept{}, err
	}
	return c, nil
}
