package concept

import (
	"context"
	"errors"
	"testing"

	"giggen/wizard"
)

type fakeStore struct {
	saved     map[string]Concept
	upsertErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{saved: make(map[string]Concept)}
}

func (f *fakeStore) Upsert(ctx context.Context, c Concept, published bool) (Concept, error) {
	if f.upsertErr != nil {
		return Concept{}, f.upsertErr
	}
	c.Status = StatusDraft
	if published {
		c.Status = StatusPublished
	}
	f.saved[c.ID] = c
	return c, nil
}

func (f *fakeStore) Get(ctx context.Context, id string) (Concept, error) {
	c, ok := f.saved[id]
	if !ok {
		return Concept{}, ErrNotFound
	}
	return c, nil
}

func (f *fakeStore) ListByOwner(ctx context.Context, ownerUserID string) ([]Concept, error) {
	out := []Concept{}
	for _, c := range f.saved {
		if c.OwnerUserID == ownerUserID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeStore) ListPublished(ctx context.Context, kind Kind, limit int) ([]Concept, error) {
	out := []Concept{}
	for _, c := range f.saved {
		if c.Kind == kind && c.Status == StatusPublished {
			out = append(out, c)
		}
	}
	return out, nil
}

func TestNewWizard_RejectsUnknownKind(t *testing.T) {
	svc := NewService(newFakeStore())
	if _, err := svc.NewWizard("user-1", "residency"); err == nil {
		t.Fatal("expected invalid kind error")
	}
}

func TestTeachingWizard_PublishRequiresAllSteps(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store).WithIDGenerator(func() string { return "concept-1" })

	engine, err := svc.NewWizard("user-1", KindTeaching)
	if err != nil {
		t.Fatal(err)
	}

	engine.Update(func(c *Concept) {
		c.Title = "Guitar lessons"
		c.Description = "One to one electric guitar tuition"
		c.Price = 600
	})

	// The teaching details step is still empty, so publish must jump there.
	err = engine.Publish(context.Background())
	var stepErr *wizard.StepError
	if !errors.As(err, &stepErr) {
		t.Fatalf("expected StepError, got %v", err)
	}
	if stepErr.Name != "details" {
		t.Errorf("expected details step to block, got %q", stepErr.Name)
	}
	if len(store.saved) != 0 {
		t.Errorf("expected zero saves, got %d", len(store.saved))
	}

	engine.Update(func(c *Concept) {
		c.LessonFormat = "weekly"
		c.StudentLevel = "beginner"
	})
	if err := engine.Publish(context.Background()); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	saved, ok := store.saved["concept-1"]
	if !ok {
		t.Fatal("expected saved concept")
	}
	if saved.Status != StatusPublished {
		t.Errorf("expected published status, got %s", saved.Status)
	}
}

func TestWizard_DraftSavesInvalidData(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store).WithIDGenerator(func() string { return "concept-2" })

	engine, err := svc.NewWizard("user-1", KindSessionMusician)
	if err != nil {
		t.Fatal(err)
	}
	engine.Update(func(c *Concept) { c.Title = "Bass for hire" })

	if err := engine.SaveDraft(context.Background()); err != nil {
		t.Fatalf("SaveDraft: %v", err)
	}
	saved := store.saved["concept-2"]
	if saved.Status != StatusDraft {
		t.Errorf("expected draft status, got %s", saved.Status)
	}
	if saved.Kind != KindSessionMusician {
		t.Errorf("expected kind retained, got %s", saved.Kind)
	}
}

func TestEditWizard_LoadsExistingDraftAndEnforcesOwner(t *testing.T) {
	store := newFakeStore()
	store.saved["concept-3"] = Concept{
		ID:          "concept-3",
		OwnerUserID: "user-1",
		Kind:        KindArrangerOffer,
		Title:       "Full club night",
		Description: "Band plus DJ package",
		MinAudience: 50,
		MaxAudience: 300,
		ByAgreement: true,
		Status:      StatusDraft,
	}
	svc := NewService(store)

	if _, err := svc.EditWizard(context.Background(), "user-2", "concept-3"); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}

	engine, err := svc.EditWizard(context.Background(), "user-1", "concept-3")
	if err != nil {
		t.Fatalf("EditWizard: %v", err)
	}
	if engine.Data().Title != "Full club night" {
		t.Errorf("expected pre-populated record, got %+v", engine.Data())
	}

	// All arranger steps are already valid, so publish goes straight through.
	if err := engine.Publish(context.Background()); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if store.saved["concept-3"].Status != StatusPublished {
		t.Error("expected draft promoted to published")
	}
}

func TestDetailsPredicates(t *testing.T) {
	tests := []struct {
		name string
		kind Kind
		c    Concept
		want bool
	}{
		{"teaching incomplete", KindTeaching, Concept{LessonFormat: "weekly"}, false},
		{"teaching complete", KindTeaching, Concept{LessonFormat: "weekly", StudentLevel: "advanced"}, true},
		{"session needs instruments", KindSessionMusician, Concept{}, false},
		{"session with instruments", KindSessionMusician, Concept{Instruments: []string{"bass"}}, true},
		{"arranger inverted audience", KindArrangerOffer, Concept{MinAudience: 500, MaxAudience: 100}, false},
		{"arranger valid audience", KindArrangerOffer, Concept{MinAudience: 50, MaxAudience: 300}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := detailsPredicate(tt.kind)(tt.c); got != tt.want {
				t.Errorf("detailsPredicate(%s) = %v, want %v", tt.kind, got, tt.want)
			}
		})
	}
}
