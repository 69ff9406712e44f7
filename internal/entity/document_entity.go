package entity

import (
	"time"

	"github.com/google/uuid"
)

const (
	DocumentStatusPending   = "pending" // registered, chunks not yet embedded
	DocumentStatusIndexed   = "indexed"
	DocumentStatusNew       = "new"
	DocumentStatusDuplicate = "duplicate"
)

// Document is an uploaded source document. ContentHash is computed over the
// whole byte payload before any chunking; it is the dedup key.
type Document struct {
	Id          uuid.UUID
	Collection  string
	Name        string
	ContentHash string
	Content     string
	Status      string
	CreatedAt   time.Time
	IndexedAt   *time.Time
}
