// Package wizard drives an ordered sequence of form steps over a typed record,
// gating forward progress per step and final publish on every step.
package wizard

import (
	"context"
	"errors"
	"fmt"
)

// ErrNoSteps signals an engine built without any step definitions.
var ErrNoSteps = errors.New("wizard: at least one step required")

// StepError reports which step blocked an advance or publish attempt.
type StepError struct {
	Index int
	Name  string
}

func (e *StepError) Error() string {
	return fmt.Sprintf("wizard: required fields missing for step %q", e.Name)
}

// Step describes one form page. A nil Valid predicate means the step is
// always considered valid.
type Step[D any] struct {
	Name  string
	Valid func(D) bool
}

// SaveFunc persists the accumulated record. The published flag distinguishes
// a draft save from a full publish; the store decides what the flag maps to.
type SaveFunc[D any] func(ctx context.Context, data D, published bool) error

// Engine accumulates field values across an ordered step sequence. The record
// is never reset between steps; defaults and previously entered values
// persist across forward and backward navigation.
type Engine[D any] struct {
	steps []Step[D]
	data  D
	index int
	save  SaveFunc[D]
}

// New builds an engine over the given steps, seeded with defaults or an
// existing record being edited.
func New[D any](steps []Step[D], initial D, save SaveFunc[D]) (*Engine[D], error) {
	if len(steps) == 0 {
		return nil, ErrNoSteps
	}
	return &Engine[D]{steps: steps, data: initial, save: save}, nil
}

// Data returns a copy of the accumulated record.
func (e *Engine[D]) Data() D {
	return e.data
}

// StepIndex returns the active step position.
func (e *Engine[D]) StepIndex() int {
	return e.index
}

// StepName returns the active step's name.
func (e *Engine[D]) StepName() string {
	return e.steps[e.index].Name
}

// Update merges one form change into the record. Pure mutation, no
// validation.
func (e *Engine[D]) Update(mutate func(*D)) {
	if mutate == nil {
		return
	}
	mutate(&e.data)
}

// Next validates the active step against the current record and advances.
// At the last step the index stays put.
func (e *Engine[D]) Next() error {
	if !e.stepValid(e.index) {
		return &StepError{Index: e.index, Name: e.steps[e.index].Name}
	}
	if e.index < len(e.steps)-1 {
		e.index++
	}
	return nil
}

// Prev moves back one step. Going backward never requires validation.
func (e *Engine[D]) Prev() {
	if e.index > 0 {
		e.index--
	}
}

// SaveDraft persists the record as-is, skipping step validation entirely.
// The step index is unchanged so the user resumes where they left off.
func (e *Engine[D]) SaveDraft(ctx context.Context) error {
	return e.save(ctx, e.data, false)
}

// Publish scans every step in order; the first invalid one becomes the
// active step and the publish is refused. Otherwise the save function is
// invoked exactly once with the published flag set. A failed save leaves the
// index and record intact for retry.
func (e *Engine[D]) Publish(ctx context.Context) error {
	for i := range e.steps {
		if !e.stepValid(i) {
			e.index = i
			return &StepError{Index: i, Name: e.steps[i].Name}
		}
	}
	return e.save(ctx, e.data, true)
}

func (e *Engine[D]) stepValid(i int) bool {
	if e.steps[i].Valid == nil {
		return true
	}
	return e.steps[i].Valid(e.data)
}
