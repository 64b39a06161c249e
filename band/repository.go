package band

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrNotFound signals the requested band does not exist.
	ErrNotFound = errors.New("band: not found")
	// ErrDuplicateName signals a band name collision for the same owner.
	ErrDuplicateName = errors.New("band: name already taken")
)

// Repository provides access to band profiles.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository wires a pgxpool-backed repository implementation.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a new band profile owned by the given user.
func (r *Repository) Create(ctx context.Context, ownerUserID, name, genre, city, bio string) (Profile, error) {
	const query = `
		INSERT INTO bands (owner_user_id, name, genre, city, bio)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, owner_user_id, name, genre, city, bio, created_at
	`

	var profile Profile
	err := r.pool.QueryRow(ctx, query, ownerUserID, name, genre, city, bio).Scan(
		&profile.ID,
		&profile.OwnerUserID,
		&profile.Name,
		&profile.Genre,
		&profile.City,
		&profile.Bio,
		&profile.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Profile{}, ErrDuplicateName
		}
		return Profile{}, fmt.Errorf("band: insert: %w", err)
	}

	return profile, nil
}

// GetByID fetches a band profile by its primary key.
func (r *Repository) GetByID(ctx context.Context, id string) (Profile, error) {
	const query = `
		SELECT id, owner_user_id, name, genre, city, bio, created_at
		FROM bands
		WHERE id = $1
	`

	var profile Profile
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&profile.ID,
		&profile.OwnerUserID,
		&profile.Name,
		&profile.Genre,
		&profile.City,
		&profile.Bio,
		&profile.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Profile{}, ErrNotFound
		}
		return Profile{}, fmt.Errorf("band: query by id: %w", err)
	}

	return profile, nil
}

// List fetches up to limit band profiles ordered by name.
func (r *Repository) List(ctx context.Context, limit int) ([]Profile, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}

	const query = `
		SELECT id, owner_user_id, name, genre, city, bio, created_at
		FROM bands
		ORDER BY name ASC
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("band: list: %w", err)
	}
	defer rows.Close()

	profiles := make([]Profile, 0, limit)
	for rows.Next() {
		var profile Profile
		if err := rows.Scan(&profile.ID, &profile.OwnerUserID, &profile.Name, &profile.Genre, &profile.City, &profile.Bio, &profile.CreatedAt); err != nil {
			return nil, fmt.Errorf("band: scan profile: %w", err)
		}
		profiles = append(profiles, profile)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("band: iterate profiles: %w", err)
	}

	return profiles, nil
}
