package wizard

import (
	"context"
	"errors"
	"testing"
)

type offerForm struct {
	Title string
	Price int64
	Notes string
}

func offerSteps() []Step[offerForm] {
	return []Step[offerForm]{
		{Name: "basics", Valid: func(d offerForm) bool { return d.Title != "" }},
		{Name: "pricing", Valid: func(d offerForm) bool { return d.Price > 0 }},
		{Name: "extras"}, // no predicate, always valid
	}
}

type recordingSave struct {
	calls     int
	published []bool
	data      []offerForm
	err       error
}

func (r *recordingSave) fn(ctx context.Context, data offerForm, published bool) error {
	if r.err != nil {
		return r.err
	}
	r.calls++
	r.published = append(r.published, published)
	r.data = append(r.data, data)
	return nil
}

func TestNew_RequiresSteps(t *testing.T) {
	if _, err := New[offerForm](nil, offerForm{}, nil); !errors.Is(err, ErrNoSteps) {
		t.Fatalf("expected ErrNoSteps, got %v", err)
	}
}

func TestNext_GatesOnStepValidation(t *testing.T) {
	e, err := New(offerSteps(), offerForm{}, nil)
	if err != nil {
		t.Fatal(err)
	}

	err = e.Next()
	var stepErr *StepError
	if !errors.As(err, &stepErr) {
		t.Fatalf("expected StepError, got %v", err)
	}
	if stepErr.Name != "basics" || e.StepIndex() != 0 {
		t.Errorf("expected to stay on basics, got %q index %d", stepErr.Name, e.StepIndex())
	}

	e.Update(func(d *offerForm) { d.Title = "Jazz trio for hire" })
	if err := e.Next(); err != nil {
		t.Fatalf("Next after filling title: %v", err)
	}
	if e.StepIndex() != 1 {
		t.Errorf("expected index 1, got %d", e.StepIndex())
	}
}

func TestNext_NoOpAtLastStep(t *testing.T) {
	e, _ := New(offerSteps(), offerForm{Title: "t", Price: 100}, nil)
	for i := 0; i < 5; i++ {
		if err := e.Next(); err != nil {
			t.Fatal(err)
		}
	}
	if e.StepIndex() != 2 {
		t.Errorf("expected to rest at last step, got %d", e.StepIndex())
	}
}

func TestPrev_NeverValidates(t *testing.T) {
	e, _ := New(offerSteps(), offerForm{Title: "t"}, nil)
	if err := e.Next(); err != nil {
		t.Fatal(err)
	}

	// Invalidate the step behind us, then walk backward freely.
	e.Update(func(d *offerForm) { d.Title = "" })
	e.Prev()
	if e.StepIndex() != 0 {
		t.Errorf("expected index 0, got %d", e.StepIndex())
	}
	e.Prev()
	if e.StepIndex() != 0 {
		t.Errorf("Prev at first step must be a no-op, got %d", e.StepIndex())
	}
}

func TestPublish_JumpsToFirstInvalidStep(t *testing.T) {
	save := &recordingSave{}
	e, _ := New(offerSteps(), offerForm{Title: "t"}, save.fn)

	// Walk to the last step, then break the pricing step behind us.
	e.Update(func(d *offerForm) { d.Price = 250 })
	_ = e.Next()
	_ = e.Next()
	e.Update(func(d *offerForm) { d.Price = 0 })

	err := e.Publish(context.Background())
	var stepErr *StepError
	if !errors.As(err, &stepErr) {
		t.Fatalf("expected StepError, got %v", err)
	}
	if stepErr.Name != "pricing" {
		t.Errorf("expected pricing step to block, got %q", stepErr.Name)
	}
	if e.StepIndex() != 1 {
		t.Errorf("publish must jump to the failing step, index = %d", e.StepIndex())
	}
	if save.calls != 0 {
		t.Errorf("expected zero save calls, got %d", save.calls)
	}
}

func TestPublish_SavesOnceWithPublishedFlag(t *testing.T) {
	save := &recordingSave{}
	e, _ := New(offerSteps(), offerForm{Title: "t", Price: 100}, save.fn)

	if err := e.Publish(context.Background()); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if save.calls != 1 {
		t.Fatalf("expected exactly one save call, got %d", save.calls)
	}
	if !save.published[0] {
		t.Error("expected published=true")
	}
}

func TestSaveDraft_BypassesValidation(t *testing.T) {
	save := &recordingSave{}
	e, _ := New(offerSteps(), offerForm{}, save.fn)

	if err := e.SaveDraft(context.Background()); err != nil {
		t.Fatalf("SaveDraft: %v", err)
	}
	if save.calls != 1 {
		t.Fatalf("expected one save call, got %d", save.calls)
	}
	if save.published[0] {
		t.Error("expected published=false")
	}
	if e.StepIndex() != 0 {
		t.Errorf("draft save must not move the step index, got %d", e.StepIndex())
	}
}

func TestSaveFailure_KeepsStateForRetry(t *testing.T) {
	boom := errors.New("store unavailable")
	save := &recordingSave{err: boom}
	e, _ := New(offerSteps(), offerForm{Title: "t", Price: 100}, save.fn)
	_ = e.Next()

	if err := e.Publish(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected save error surfaced, got %v", err)
	}
	if e.StepIndex() != 1 {
		t.Errorf("failed save must leave the index intact, got %d", e.StepIndex())
	}
	if e.Data().Title != "t" || e.Data().Price != 100 {
		t.Errorf("failed save must leave the record intact, got %+v", e.Data())
	}

	// Retry succeeds without data loss.
	save.err = nil
	if err := e.Publish(context.Background()); err != nil {
		t.Fatalf("retry: %v", err)
	}
	if save.calls != 1 || !save.published[0] {
		t.Errorf("expected successful published save on retry")
	}
}

func TestDataPersistsAcrossNavigation(t *testing.T) {
	e, _ := New(offerSteps(), offerForm{Title: "seeded", Notes: "default rider"}, nil)
	e.Update(func(d *offerForm) { d.Price = 300 })
	_ = e.Next()
	e.Prev()
	_ = e.Next()

	got := e.Data()
	if got.Title != "seeded" || got.Price != 300 || got.Notes != "default rider" {
		t.Errorf("record lost values across navigation: %+v", got)
	}
}
