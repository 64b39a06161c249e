// Package outbox delivers domain events recorded transactionally alongside
// state changes. Rows are claimed in batches and published to the message
// broker with at-least-once semantics.
package outbox

import "time"

const (
	StatusPending = "pending"
	StatusSent    = "sent"
	StatusFailed  = "failed"
)

// Message is one undelivered domain event.
type Message struct {
	ID        string
	Topic     string
	Payload   []byte
	Attempts  int
	CreatedAt time.Time
}
