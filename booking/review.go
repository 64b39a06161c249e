package booking

import "errors"

// Section identifies one content category a party must read during review.
type Section string

const (
	SectionBasicInfo Section = "basic_info"
	SectionPricing   Section = "pricing"
	SectionContact   Section = "contact"
)

// DefaultSections is the review order shown on the booking review page.
var DefaultSections = []Section{SectionBasicInfo, SectionPricing, SectionContact}

var (
	// ErrSectionNotAcknowledged signals Next was attempted before the active
	// section was marked as read.
	ErrSectionNotAcknowledged = errors.New("booking: current section not acknowledged")
	// ErrAtFirstSection signals Back was attempted at the first section.
	ErrAtFirstSection = errors.New("booking: already at first section")
)

// ReviewSession forces sequential, acknowledged traversal of every content
// section before the approval action unlocks. It lives in memory only; an
// interrupted review starts over from scratch.
type ReviewSession struct {
	sections     []Section
	index        int
	acknowledged bool
	completed    map[Section]struct{}
}

// NewReviewSession starts a fresh session over the given sections, or
// DefaultSections when none are provided.
func NewReviewSession(sections ...Section) *ReviewSession {
	if len(sections) == 0 {
		sections = DefaultSections
	}
	return &ReviewSession{
		sections:  sections,
		completed: make(map[Section]struct{}, len(sections)),
	}
}

// Sections returns the session's traversal order.
func (s *ReviewSession) Sections() []Section {
	return s.sections
}

// Current returns the active section.
func (s *ReviewSession) Current() Section {
	return s.sections[s.index]
}

// Index returns the active section position.
func (s *ReviewSession) Index() int {
	return s.index
}

// Acknowledged reports whether the active section has been marked as read.
func (s *ReviewSession) Acknowledged() bool {
	return s.acknowledged
}

// Acknowledge marks the active section as read, unlocking Next for it.
func (s *ReviewSession) Acknowledge() {
	s.acknowledged = true
}

// Next records the active section as completed and advances. Moving to a new
// section clears the acknowledgment flag; at the last section the index stays
// put and the flag is kept, which is what makes Ready reachable.
func (s *ReviewSession) Next() error {
	if !s.acknowledged {
		return ErrSectionNotAcknowledged
	}
	s.completed[s.Current()] = struct{}{}
	if s.index < len(s.sections)-1 {
		s.index++
		s.acknowledged = false
	}
	return nil
}

// Back returns to the previous section. Revisiting always requires
// re-acknowledging before Next counts again; prior completed-set membership
// is retained.
func (s *ReviewSession) Back() error {
	if s.index == 0 {
		return ErrAtFirstSection
	}
	s.index--
	s.acknowledged = false
	return nil
}

// Ready reports whether the approval action may be enabled: every section has
// been completed at least once and the active (last) section is acknowledged.
func (s *ReviewSession) Ready() bool {
	return len(s.completed) == len(s.sections) && s.acknowledged
}
