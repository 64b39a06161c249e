package concept

import "time"

// Kind selects which service offer a concept describes.
type Kind string

const (
	KindTeaching        Kind = "teaching"
	KindSessionMusician Kind = "session_musician"
	KindArrangerOffer   Kind = "arranger_offer"
)

// Status is the publish state of a concept.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
)

// Concept is the typed record the wizard engine accumulates. Per-kind fields
// are plain optionals; only the steps for the concept's kind validate them.
type Concept struct {
	ID          string
	OwnerUserID string
	Kind        Kind

	Title       string
	Description string
	City        string
	Genres      []string
	Price       int64
	ByAgreement bool

	// teaching
	LessonFormat string
	StudentLevel string

	// session musician
	Instruments      []string
	TravelDistanceKM int

	// arrangør offer
	MinAudience int
	MaxAudience int

	// file-bank references
	ImageFileID    *string
	TechSpecFileID *string
	RiderFileID    *string

	Status    Status
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsValidKind reports whether the kind is one of the supported offers.
func IsValidKind(kind Kind) bool {
	switch kind {
	case KindTeaching, KindSessionMusician, KindArrangerOffer:
		return true
	default:
		return false
	}
}
