package filebank

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrNotFound signals the file does not exist or belongs to someone else.
	ErrNotFound = errors.New("filebank: not found")
	// ErrInvalidKind signals an unrecognized file classification.
	ErrInvalidKind = errors.New("filebank: invalid kind")
)

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Register records a file reference after the client uploaded it to the
// storage bucket.
func (r *Repository) Register(ctx context.Context, ownerUserID string, kind Kind, name, bucketPath string, sizeBytes int64) (File, error) {
	if !isValidKind(kind) {
		return File{}, ErrInvalidKind
	}

	const query = `
		INSERT INTO files (owner_user_id, kind, name, bucket_path, size_bytes)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, owner_user_id, kind, name, bucket_path, size_bytes, created_at
	`

	var f File
	err := r.pool.QueryRow(ctx, query, ownerUserID, kind, name, bucketPath, sizeBytes).
		Scan(&f.ID, &f.OwnerUserID, &f.Kind, &f.Name, &f.BucketPath, &f.SizeBytes, &f.CreatedAt)
	if err != nil {
		return File{}, fmt.Errorf("filebank: register: %w", err)
	}
	return f, nil
}

// List returns the owner's files, optionally filtered by kind.
func (r *Repository) List(ctx context.Context, ownerUserID string, kind *Kind) ([]File, error) {
	query := `
		SELECT id, owner_user_id, kind, name, bucket_path, size_bytes, created_at
		FROM files
		WHERE owner_user_id = $1
	`
	args := []any{ownerUserID}
	if kind != nil {
		query += " AND kind = $2"
		args = append(args, *kind)
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("filebank: list: %w", err)
	}
	defer rows.Close()

	out := make([]File, 0, 8)
	for rows.Next() {
		var f File
		if err := rows.Scan(&f.ID, &f.OwnerUserID, &f.Kind, &f.Name, &f.BucketPath, &f.SizeBytes, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("filebank: scan: %w", err)
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("filebank: iterate: %w", err)
	}
	return out, nil
}

// Get fetches one file, enforcing ownership.
func (r *Repository) Get(ctx context.Context, ownerUserID, fileID string) (File, error) {
	const query = `
		SELECT id, owner_user_id, kind, name, bucket_path, size_bytes, created_at
		FROM files
		WHERE id = $1 AND owner_user_id = $2
	`

	var f File
	err := r.pool.QueryRow(ctx, query, fileID, ownerUserID).
		Scan(&f.ID, &f.OwnerUserID, &f.Kind, &f.Name, &f.BucketPath, &f.SizeBytes, &f.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return File{}, ErrNotFound
		}
		return File{}, fmt.Errorf("filebank: get: %w", err)
	}
	return f, nil
}

func isValidKind(kind Kind) bool {
	switch kind {
	case KindImage, KindTechSpec, KindRider:
		return true
	default:
		return false
	}
}
