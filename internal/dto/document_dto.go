package dto

import (
	"time"

	"github.com/google/uuid"
)

type RegisterDocumentRequest struct {
	Collection string `json:"collection" validate:"omitempty,max=100"`
	Name       string `json:"name" validate:"required,max=255"`
	Content    string `json:"content" validate:"required"`
}

type RegisterDocumentResponse struct {
	Id          uuid.UUID `json:"id"`
	Status      string    `json:"status"` // "new" or "duplicate"
	ContentHash string    `json:"content_hash"`
}

type DocumentResponse struct {
	Id          uuid.UUID  `json:"id"`
	Collection  string     `json:"collection"`
	Name        string     `json:"name"`
	ContentHash string     `json:"content_hash"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	IndexedAt   *time.Time `json:"indexed_at,omitempty"`
}
