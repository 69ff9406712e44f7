package entity

import (
	"time"

	"github.com/google/uuid"
)

// TurnEmbedding is one semantic-index entry: an embedded summary of a past
// turn, appended after the turn is committed.
type TurnEmbedding struct {
	Id             uuid.UUID
	UserId         uuid.UUID
	SessionId      uuid.UUID
	TurnId         uuid.UUID
	Summary        string
	EmbeddingValue []float32
	Score          float64 // similarity score, populated on search results only
	CreatedAt      time.Time
}
