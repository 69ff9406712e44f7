package events

import (
	"time"

	"github.com/google/uuid"
)

// Event type codes published on the bus.
const (
	TypeProposalCreated  = "PROPOSAL_CREATED"
	TypeProposalResolved = "PROPOSAL_RESOLVED"
	TypeTurnCompleted    = "TURN_COMPLETED"
	TypeDocumentIndexed  = "DOCUMENT_INDEXED"
)

func NewProposalCreatedEvent(proposalID, sessionID, userID uuid.UUID, toolName string) Event {
	return BaseEvent{
		Type: TypeProposalCreated,
		Data: map[string]interface{}{
			"proposal_id": proposalID.String(),
			"session_id":  sessionID.String(),
			"user_id":     userID.String(),
			"tool_name":   toolName,
		},
		OccurredAt: time.Now(),
	}
}

func NewProposalResolvedEvent(proposalID, sessionID, userID uuid.UUID, status string) Event {
	return BaseEvent{
		Type: TypeProposalResolved,
		Data: map[string]interface{}{
			"proposal_id": proposalID.String(),
			"session_id":  sessionID.String(),
			"user_id":     userID.String(),
			"status":      status,
		},
		OccurredAt: time.Now(),
	}
}

func NewTurnCompletedEvent(turnID, sessionID, userID uuid.UUID, executorUsed string) Event {
	return BaseEvent{
		Type: TypeTurnCompleted,
		Data: map[string]interface{}{
			"turn_id":    turnID.String(),
			"session_id": sessionID.String(),
			"user_id":    userID.String(),
			"executor":   executorUsed,
		},
		OccurredAt: time.Now(),
	}
}

func NewDocumentIndexedEvent(documentID uuid.UUID, collection, status string) Event {
	return BaseEvent{
		Type: TypeDocumentIndexed,
		Data: map[string]interface{}{
			"document_id": documentID.String(),
			"collection":  collection,
			"status":      status,
		},
		OccurredAt: time.Now(),
	}
}
