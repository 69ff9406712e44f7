package entity

import (
	"time"

	"github.com/google/uuid"
)

// KnowledgeChunk is one embedded slice of a document, owned by a collection.
type KnowledgeChunk struct {
	Id             uuid.UUID
	DocumentId     uuid.UUID
	Collection     string
	Position       int
	Text           string
	EmbeddingValue []float32
	Score          float64 // similarity score, populated on search results only
	CreatedAt      time.Time
}
