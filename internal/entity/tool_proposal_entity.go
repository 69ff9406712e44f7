package entity

import (
	"time"

	"github.com/google/uuid"
)

// Proposal lifecycle. Pending is the only non-terminal status.
const (
	ProposalStatusPending       = "pending"
	ProposalStatusApproved      = "approved"
	ProposalStatusRejected      = "rejected"
	ProposalStatusExpired       = "expired"
	ProposalStatusResolved      = "resolved"
	ProposalStatusResolvedError = "resolved_error"
)

// ToolProposal is a not-yet-executed side-effecting action awaiting human
// approval. A session owns at most one pending proposal.
type ToolProposal struct {
	Id         uuid.UUID
	SessionId  uuid.UUID
	UserId     uuid.UUID
	ToolName   string
	Parameters map[string]interface{}
	Summary    string
	Status     string
	Result     string
	CreatedAt  time.Time
	ResolvedAt *time.Time
}

// IsTerminal reports whether the proposal can no longer change state.
func (p *ToolProposal) IsTerminal() bool {
	return p.Status != ProposalStatusPending && p.Status != ProposalStatusApproved
}
