package entity

import (
	"time"

	"github.com/google/uuid"
)

// ToolInvocation is one record in a turn's tool trace.
type ToolInvocation struct {
	Tool     string `json:"tool"`
	Input    string `json:"input"`
	Output   string `json:"output,omitempty"`
	Error    string `json:"error,omitempty"`
	Proposed bool   `json:"proposed,omitempty"` // side-effecting tool turned into a proposal
}

// Turn is one user message and its eventual system reply. It is mutated while
// flowing through the pipeline and immutable once persisted.
type Turn struct {
	Id            uuid.UUID
	SessionId     uuid.UUID
	UserId        uuid.UUID
	RawText       string
	SanitizedText string
	Answer        string
	ExecutorUsed  string
	ToolTrace     []ToolInvocation
	CreatedAt     time.Time
}
