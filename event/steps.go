package event

import "giggen/wizard"

// Steps is the event creation wizard sequence. Free events are allowed, so
// the tickets step only validates capacity and non-negative pricing.
func Steps() []wizard.Step[Event] {
	return []wizard.Step[Event]{
		{
			Name: "basics",
			Valid: func(e Event) bool {
				return e.Title != "" && e.Venue != ""
			},
		},
		{
			Name: "schedule",
			Valid: func(e Event) bool {
				return !e.EventDate.IsZero()
			},
		},
		{
			Name: "tickets",
			Valid: func(e Event) bool {
				return e.TicketPrice >= 0 && e.Capacity > 0
			},
		},
		{
			Name: "media",
		},
	}
}
