package executor

import (
	"context"

	"ai-assistant-be/internal/entity"
	"ai-assistant-be/pkg/memorytier"
)

// Input is everything an executor needs for one turn. Executors read it,
// they never reach back into the orchestrator.
type Input struct {
	Session *entity.ChatSession
	Turn    *entity.Turn
	Memory  *memorytier.Context
}

// Output is the result of running one executor. When Proposal is set the
// turn suspends instead of completing: Answer holds the confirmation
// question shown to the user, and no memory commit happens yet.
type Output struct {
	Answer    string
	ToolTrace []entity.ToolInvocation
	Proposal  *entity.ToolProposal
}

// Executor runs one turn end to end for its strategy. Implementations make
// at most one text-generation call per invocation.
type Executor interface {
	Execute(ctx context.Context, in *Input) (*Output, error)
}
