package band

import "time"

// Profile captures the subset of band data exposed via the public API layer.
type Profile struct {
	ID          string
	OwnerUserID string
	Name        string
	Genre       string
	City        string
	Bio         string
	CreatedAt   time.Time
}
