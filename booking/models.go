package booking

import "time"

// Status represents the lifecycle of a booking record.
type Status string

const (
	StatusPending   Status = "pending"
	StatusUpcoming  Status = "upcoming"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Party identifies which side of a booking a user occupies. Roles are
// positional: the sender issued the booking request, the receiver got it.
type Party string

const (
	PartySender   Party = "sender"
	PartyReceiver Party = "receiver"
)

// Booking mirrors the bookings table columns touched by the service.
type Booking struct {
	ID         string
	SenderID   string
	ReceiverID string

	Title            string
	Description      string
	Venue            string
	Address          string
	EventDate        time.Time
	StartTime        string
	PersonalMessage  string
	TicketPrice      int64
	AudienceEstimate int
	ArtistFee        int64
	DoorDeal         bool
	DoorPercentage   float64
	ByAgreement      bool
	SenderContact    []byte
	ReceiverContact  []byte

	ApprovedBySender   bool
	ApprovedByReceiver bool
	SenderApprovedAt   *time.Time
	ReceiverApprovedAt *time.Time
	LastModifiedAt     time.Time

	Status    Status
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TimelineEvent captures an immutable business event for a booking.
type TimelineEvent struct {
	ID        int64
	BookingID string
	Type      string
	ActorID   *string
	CreatedAt time.Time
	Payload   []byte
}

const (
	// OutboxTopicApproved is published whenever a party signs off.
	OutboxTopicApproved = "booking.approved"
	// OutboxTopicApprovalRevoked is published when a stale counterparty
	// approval is reset and they must re-review.
	OutboxTopicApprovalRevoked = "booking.approval_revoked"
	// OutboxTopicConfirmed is published once both parties hold valid approvals.
	OutboxTopicConfirmed = "booking.confirmed"
	// OutboxTopicRequested is published when a new booking request is sent.
	OutboxTopicRequested = "booking.requested"
	// OutboxTopicCancelled is published when either party cancels.
	OutboxTopicCancelled = "booking.cancelled"
	// OutboxTopicEdited is published when agreement content changes.
	OutboxTopicEdited = "booking.edited"
)
