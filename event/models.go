package event

import "time"

// Status is the publish state of an event.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
	StatusCancelled Status = "cancelled"
)

// Event is the typed record the creation wizard accumulates for an
// organizer's ticketed event.
type Event struct {
	ID          string
	OrganizerID string

	Title       string
	Description string
	Venue       string
	Address     string
	EventDate   time.Time
	StartTime   string
	TicketPrice int64
	Capacity    int
	ImageFileID *string

	Status    Status
	CreatedAt time.Time
	UpdatedAt time.Time
}
