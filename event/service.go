package event

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"giggen/wizard"
)

// ErrNotOrganizer signals a wizard opened on someone else's event.
var ErrNotOrganizer = errors.New("event: not owned by organizer")

// Store abstracts the repository for testability.
type Store interface {
	Upsert(ctx context.Context, e Event, published bool) (Event, error)
	Get(ctx context.Context, id string) (Event, error)
	ListByOrganizer(ctx context.Context, organizerID string) ([]Event, error)
	ListUpcoming(ctx context.Context, limit int) ([]Event, error)
	Cancel(ctx context.Context, organizerID, eventID string) (Event, error)
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

// NewWizard builds the event creation wizard for an organizer.
func (s *Service) NewWizard(organizerID string) (*wizard.Engine[Event], error) {
	if organizerID == "" {
		return nil, fmt.Errorf("event: organizer required")
	}

	seed := Event{
		ID:          s.idGenerator(),
		OrganizerID: organizerID,
		Status:      StatusDraft,
	}
	return wizard.New(Steps(), seed, s.saveFunc())
}

// EditWizard builds a wizard pre-populated from an existing event or draft.
func (s *Service) EditWizard(ctx context.Context, organizerID, eventID string) (*wizard.Engine[Event], error) {
	existing, err := s.repo.Get(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if existing.OrganizerID != organizerID {
		return nil, ErrNotOrganizer
	}
	return wizard.New(Steps(), existing, s.saveFunc())
}

func (s *Service) saveFunc() wizard.SaveFunc[Event] {
	return func(ctx context.Context, data Event, published bool) error {
		_, err := s.repo.Upsert(ctx, data, published)
		return err
	}
}

// Get returns an event by id.
func (s *Service) Get(ctx context.Context, id string) (Event, error) {
	return s.repo.Get(ctx, id)
}

// ListMine returns the organizer's events, drafts included.
func (s *Service) ListMine(ctx context.Context, organizerID string) ([]Event, error) {
	return s.repo.ListByOrganizer(ctx, organizerID)
}

// ListUpcoming returns published future events for browsing.
func (s *Service) ListUpcoming(ctx context.Context, limit int) ([]Event, error) {
	return s.repo.ListUpcoming(ctx, limit)
}

// Cancel marks the organizer's event cancelled.
func (s *Service) Cancel(ctx context.Context, organizerID, eventID string) (Event, error) {
	if organizerID == "" || eventID == "" {
		return Event{}, fmt.Errorf("event: cancel missing ids")
	}
	return s.repo.Cancel(ctx, organizerID, eventID)
}
