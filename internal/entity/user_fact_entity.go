package entity

import (
	"time"

	"github.com/google/uuid"
)

// UserFact is one key/value entry in the per-user fact table. Merge semantics
// are last-write-wins; facts survive across sessions.
type UserFact struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	FactKey   string
	FactValue string
	CreatedAt time.Time
	UpdatedAt *time.Time
}
