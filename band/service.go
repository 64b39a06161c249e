package band

import (
	"context"
	"fmt"
	"strings"
)

// ProfileStore abstracts repository operations for the service.
type ProfileStore interface {
	Create(ctx context.Context, ownerUserID, name, genre, city, bio string) (Profile, error)
	GetByID(ctx context.Context, id string) (Profile, error)
	List(ctx context.Context, limit int) ([]Profile, error)
}

// Service exposes business-level band operations.
type Service struct {
	repo ProfileStore
}

// NewService builds a Service using the provided repository.
func NewService(repo ProfileStore) *Service {
	return &Service{repo: repo}
}

// Create registers a new band profile for the owner.
func (s *Service) Create(ctx context.Context, ownerUserID, name, genre, city, bio string) (Profile, error) {
	name = strings.TrimSpace(name)
	if ownerUserID == "" {
		return Profile{}, fmt.Errorf("band: owner required")
	}
	if name == "" {
		return Profile{}, fmt.Errorf("band: name required")
	}
	return s.repo.Create(ctx, ownerUserID, name, genre, city, bio)
}

// GetByID returns the band profile for the given identifier.
func (s *Service) GetByID(ctx context.Context, id string) (Profile, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns up to limit band profiles.
func (s *Service) List(ctx context.Context, limit int) ([]Profile, error) {
	return s.repo.List(ctx, limit)
}
