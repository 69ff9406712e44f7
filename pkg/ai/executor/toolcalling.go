package executor

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"ai-assistant-be/internal/entity"
	"ai-assistant-be/internal/pkg/logger"
	"ai-assistant-be/internal/repository/unitofwork"
	"ai-assistant-be/pkg/llm"
	"ai-assistant-be/pkg/tools"
)

const toolCallingSystemPrompt = `You are a helpful assistant. Tool results for the user's request are provided; use them to answer directly and concisely. If a tool failed, say what could not be done. Do not invent results.`

// ToolCallingExecutor plans tool invocations from the message, runs the
// pure ones immediately, and turns side-effecting ones into pending
// proposals that suspend the turn until a human resolves them.
type ToolCallingExecutor struct {
	registry    *tools.Registry
	uowFactory  unitofwork.RepositoryFactory
	llmProvider llm.LLMProvider
	logger      logger.ILogger
}

func NewToolCallingExecutor(
	registry *tools.Registry,
	uowFactory unitofwork.RepositoryFactory,
	llmProvider llm.LLMProvider,
	log logger.ILogger,
) (*ToolCallingExecutor, error) {
	// Every tool the planner can name must resolve now, not mid-turn.
	if err := registry.Validate(plannableTools()); err != nil {
		return nil, fmt.Errorf("tool registry incomplete: %w", err)
	}
	return &ToolCallingExecutor{
		registry:    registry,
		uowFactory:  uowFactory,
		llmProvider: llmProvider,
		logger:      log,
	}, nil
}

var _ Executor = &ToolCallingExecutor{}

// plannableTools lists every name planCalls can emit.
func plannableTools() []string {
	return []string{
		"calculator",
		"datetime",
		"wikipedia",
		"web_search",
		"calendar_create_event",
		"calendar_list_events",
	}
}

func (e *ToolCallingExecutor) Execute(ctx context.Context, in *Input) (*Output, error) {
	text := in.Turn.SanitizedText
	calls := planCalls(text)

	out := &Output{}

	for _, call := range calls {
		tool, err := e.registry.Get(call.Tool)
		if err != nil {
			return nil, err
		}

		if tool.Kind() == tools.KindSideEffecting {
			return e.propose(ctx, in, call)
		}

		invocation := entity.ToolInvocation{
			Tool:  call.Tool,
			Input: encodeParams(call.Params),
		}
		result, err := tool.Invoke(ctx, call.Params)
		if err != nil {
			// A failed pure tool is recorded, not fatal: the synthesis
			// step can still explain what went wrong.
			invocation.Error = err.Error()
			e.logger.Warn("ToolCallingExecutor", "Tool invocation failed", map[string]interface{}{
				"tool":  call.Tool,
				"error": err.Error(),
			})
		} else {
			invocation.Output = result
		}
		out.ToolTrace = append(out.ToolTrace, invocation)
	}

	answer, err := e.synthesize(ctx, in, out.ToolTrace)
	if err != nil {
		return nil, err
	}
	out.Answer = answer

	return out, nil
}

// propose implicitly rejects any stale pending proposal for the session and
// creates a new one, so at most one pending proposal exists per session.
func (e *ToolCallingExecutor) propose(ctx context.Context, in *Input, call plannedCall) (*Output, error) {
	uow := e.uowFactory.NewUnitOfWork(ctx)

	stale, err := uow.ToolProposalRepository().FindPendingBySession(ctx, in.Session.Id)
	if err != nil {
		return nil, fmt.Errorf("check pending proposal: %w", err)
	}
	if stale != nil {
		now := time.Now()
		stale.Status = entity.ProposalStatusRejected
		stale.ResolvedAt = &now
		if err := uow.ToolProposalRepository().Update(ctx, stale); err != nil {
			return nil, fmt.Errorf("reject stale proposal: %w", err)
		}
		e.logger.Info("ToolCallingExecutor", "Stale proposal implicitly rejected", map[string]interface{}{
			"proposal_id": stale.Id,
			"session_id":  in.Session.Id,
		})
	}

	params := make(map[string]interface{}, len(call.Params))
	for k, v := range call.Params {
		params[k] = v
	}

	proposal := &entity.ToolProposal{
		Id:         uuid.New(),
		SessionId:  in.Session.Id,
		UserId:     in.Turn.UserId,
		ToolName:   call.Tool,
		Parameters: params,
		Summary:    summarizeProposal(call),
		Status:     entity.ProposalStatusPending,
		CreatedAt:  time.Now(),
	}
	if err := uow.ToolProposalRepository().Create(ctx, proposal); err != nil {
		return nil, fmt.Errorf("create proposal: %w", err)
	}

	return &Output{
		Answer: fmt.Sprintf(
			"%s Reply \"approve\" to confirm or \"reject\" to cancel.",
			proposal.Summary,
		),
		ToolTrace: []entity.ToolInvocation{{
			Tool:     call.Tool,
			Input:    encodeParams(call.Params),
			Proposed: true,
		}},
		Proposal: proposal,
	}, nil
}

func (e *ToolCallingExecutor) synthesize(ctx context.Context, in *Input, trace []entity.ToolInvocation) (string, error) {
	var prompt strings.Builder

	if digest := in.Memory.Digest(); digest != "" {
		prompt.WriteString(digest)
		prompt.WriteString("\n\n")
	}

	if len(trace) > 0 {
		prompt.WriteString("Tool results:\n")
		for _, inv := range trace {
			if inv.Error != "" {
				fmt.Fprintf(&prompt, "- %s failed: %s\n", inv.Tool, inv.Error)
			} else {
				fmt.Fprintf(&prompt, "- %s: %s\n", inv.Tool, inv.Output)
			}
		}
		prompt.WriteString("\n")
	}

	prompt.WriteString("User message: ")
	prompt.WriteString(in.Turn.SanitizedText)

	answer, err := e.llmProvider.Chat(ctx, []llm.Message{
		{Role: "system", Content: toolCallingSystemPrompt},
		{Role: "user", Content: prompt.String()},
	}, llm.WithTemperature(0.7))
	if err != nil {
		return "", fmt.Errorf("generate answer: %w", err)
	}
	return answer, nil
}

func summarizeProposal(call plannedCall) string {
	if call.Tool == "calendar_create_event" {
		summary := fmt.Sprintf("I'd like to create the event %q on %s", call.Params["title"], call.Params["date"])
		if t := call.Params["time"]; t != "" {
			summary += " at " + t
		}
		return summary + "."
	}
	return fmt.Sprintf("I'd like to run %s with %s.", call.Tool, encodeParams(call.Params))
}

func encodeParams(params map[string]string) string {
	b, err := json.Marshal(params)
	if err != nil {
		return "{}"
	}
	return string(b)
}
