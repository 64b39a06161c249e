package concept

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"giggen/wizard"
)

// ErrNotOwner signals a wizard opened on someone else's concept.
var ErrNotOwner = errors.New("concept: not owned by user")

// Store abstracts the repository for testability.
type Store interface {
	Upsert(ctx context.Context, c Concept, published bool) (Concept, error)
	Get(ctx context.Context, id string) (Concept, error)
	ListByOwner(ctx context.Context, ownerUserID string) ([]Concept, error)
	ListPublished(ctx context.Context, kind Kind, limit int) ([]Concept, error)
}

type Service struct {
	repo        Store
	idGenerator func() string
}

func NewService(repo Store) *Service {
	return &Service{
		repo:        repo,
		idGenerator: func() string { return uuid.NewString() },
	}
}

// WithIDGenerator overrides id generation, mainly for tests.
func (s *Service) WithIDGenerator(gen func() string) *Service {
	s.idGenerator = gen
	return s
}

// NewWizard builds a wizard engine for creating a concept of the given kind.
// The engine's save function persists through the repository with the
// draft/published status derived from which terminal action ran.
func (s *Service) NewWizard(ownerUserID string, kind Kind) (*wizard.Engine[Concept], error) {
	if ownerUserID == "" {
		return nil, fmt.Errorf("concept: owner required")
	}
	if !IsValidKind(kind) {
		return nil, fmt.Errorf("concept: invalid kind %q", kind)
	}

	seed := Concept{
		ID:          s.idGenerator(),
		OwnerUserID: ownerUserID,
		Kind:        kind,
		Status:      StatusDraft,
	}
	return wizard.New(Steps(kind), seed, s.saveFunc())
}

// EditWizard builds a wizard engine pre-populated from an existing concept or
// draft. Only the owner may edit.
func (s *Service) EditWizard(ctx context.Context, ownerUserID, conceptID string) (*wizard.Engine[Concept], error) {
	existing, err := s.repo.Get(ctx, conceptID)
	if err != nil {
		return nil, err
	}
	if existing.OwnerUserID != ownerUserID {
		return nil, ErrNotOwner
	}
	return wizard.New(Steps(existing.Kind), existing, s.saveFunc())
}

func (s *Service) saveFunc() wizard.SaveFunc[Concept] {
	return func(ctx context.Context, data Concept, published bool) error {
		_, err := s.repo.Upsert(ctx, data, published)
		return err
	}
}

// Get returns a concept by id.
func (s *Service) Get(ctx context.Context, id string) (Concept, error) {
	return s.repo.Get(ctx, id)
}

// ListMine returns the user's concepts, drafts included.
func (s *Service) ListMine(ctx context.Context, ownerUserID string) ([]Concept, error) {
	return s.repo.ListByOwner(ctx, ownerUserID)
}

// Browse returns published concepts of a kind.
func (s *Service) Browse(ctx context.Context, kind Kind, limit int) ([]Concept, error) {
	if !IsValidKind(kind) {
		return nil, fmt.Errorf("concept: invalid kind %q", kind)
	}
	return s.repo.ListPublished(ctx, kind, limit)
}
