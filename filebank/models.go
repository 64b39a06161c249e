package filebank

import "time"

// Kind classifies a file-bank entry.
type Kind string

const (
	KindImage    Kind = "image"
	KindTechSpec Kind = "tech_spec"
	KindRider    Kind = "rider"
)

// File mirrors the files table: a named reference to an object in the
// storage bucket, owned by one user and attachable to concepts and events.
type File struct {
	ID          string
	OwnerUserID string
	Kind        Kind
	Name        string
	BucketPath  string
	SizeBytes   int64
	CreatedAt   time.Time
}
