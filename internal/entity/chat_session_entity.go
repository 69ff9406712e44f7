package entity

import (
	"time"

	"github.com/google/uuid"
)

type ChatSession struct {
	Id           uuid.UUID
	UserId       uuid.UUID
	Title        string
	Mode         string // "" (router decides), "retrieval" or "tool_calling"
	Collection   string // target knowledge-base collection for retrieval turns
	CreatedAt    time.Time
	LastActiveAt *time.Time
	DeletedAt    *time.Time
}
