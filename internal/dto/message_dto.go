package dto

import "github.com/google/uuid"

// IngestDocumentMessage is the queue payload that triggers chunking and
// embedding of a registered document.
type IngestDocumentMessage struct {
	DocumentId uuid.UUID `json:"document_id"`
}
