package executor

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-assistant-be/internal/entity"
	"ai-assistant-be/pkg/memorytier"
	"ai-assistant-be/pkg/tools"
)

func newToolRegistry(t *testing.T) *tools.Registry {
	t.Helper()
	calendar := tools.NewCalendarClient("http://calendar.local", "test-key")
	r, err := tools.NewRegistry(
		tools.NewCalculatorTool(),
		tools.NewDateTimeTool(),
		tools.NewWikipediaTool(""),
		tools.NewWebSearchTool("test-key"),
		tools.NewCalendarCreateTool(calendar),
		tools.NewCalendarListTool(calendar),
	)
	require.NoError(t, err)
	return r
}

func newToolInput(text string) *Input {
	sessionId := uuid.New()
	return &Input{
		Session: &entity.ChatSession{Id: sessionId, UserId: uuid.New()},
		Turn: &entity.Turn{
			Id:            uuid.New(),
			SessionId:     sessionId,
			UserId:        uuid.New(),
			SanitizedText: text,
		},
		Memory: &memorytier.Context{},
	}
}

func TestToolCallingPureToolThenSynthesis(t *testing.T) {
	llmFake := &fakeLLM{answer: "15% of 2500 is 375."}
	proposals := newFakeProposalRepo()
	factory := &fakeUowFactory{uow: &fakeUow{proposals: proposals}}

	e, err := NewToolCallingExecutor(newToolRegistry(t), factory, llmFake, nopLogger{})
	require.NoError(t, err)

	out, err := e.Execute(context.Background(), newToolInput("what is 15% of 2500?"))

	require.NoError(t, err)
	require.Len(t, out.ToolTrace, 1)
	assert.Equal(t, "calculator", out.ToolTrace[0].Tool)
	assert.Equal(t, "375", out.ToolTrace[0].Output)
	assert.Empty(t, out.ToolTrace[0].Error)
	assert.Equal(t, 1, llmFake.calls, "exactly one synthesis call")
	assert.Nil(t, out.Proposal)
	assert.Empty(t, proposals.created)
}

func TestToolCallingNoToolsStillAnswers(t *testing.T) {
	llmFake := &fakeLLM{answer: "Hello! How can I help?"}
	factory := &fakeUowFactory{uow: &fakeUow{proposals: newFakeProposalRepo()}}

	e, err := NewToolCallingExecutor(newToolRegistry(t), factory, llmFake, nopLogger{})
	require.NoError(t, err)

	out, err := e.Execute(context.Background(), newToolInput("hello there"))

	require.NoError(t, err)
	assert.Empty(t, out.ToolTrace)
	assert.Equal(t, 1, llmFake.calls)
	assert.Equal(t, "Hello! How can I help?", out.Answer)
}

func TestToolCallingSideEffectBecomesProposal(t *testing.T) {
	llmFake := &fakeLLM{answer: "should not be used"}
	proposals := newFakeProposalRepo()
	factory := &fakeUowFactory{uow: &fakeUow{proposals: proposals}}

	e, err := NewToolCallingExecutor(newToolRegistry(t), factory, llmFake, nopLogger{})
	require.NoError(t, err)

	out, err := e.Execute(context.Background(), newToolInput("schedule a meeting with Sam tomorrow at 3pm"))

	require.NoError(t, err)
	require.NotNil(t, out.Proposal)
	assert.Equal(t, entity.ProposalStatusPending, out.Proposal.Status)
	assert.Equal(t, "calendar_create_event", out.Proposal.ToolName)
	assert.Equal(t, "Sam", out.Proposal.Parameters["title"])
	assert.Equal(t, "tomorrow", out.Proposal.Parameters["date"])
	assert.Equal(t, "3pm", out.Proposal.Parameters["time"])
	assert.Contains(t, out.Answer, "approve")
	assert.Equal(t, 0, llmFake.calls, "suspended turn makes no generation call")

	require.Len(t, out.ToolTrace, 1)
	assert.True(t, out.ToolTrace[0].Proposed)
	assert.Empty(t, out.ToolTrace[0].Output, "the side effect must not have run")
}

func TestToolCallingNewProposalRejectsStalePending(t *testing.T) {
	proposals := newFakeProposalRepo()
	factory := &fakeUowFactory{uow: &fakeUow{proposals: proposals}}

	e, err := NewToolCallingExecutor(newToolRegistry(t), factory, &fakeLLM{}, nopLogger{})
	require.NoError(t, err)

	in := newToolInput("schedule a meeting with Sam tomorrow at 3pm")

	stale := &entity.ToolProposal{
		Id:        uuid.New(),
		SessionId: in.Session.Id,
		UserId:    in.Turn.UserId,
		ToolName:  "calendar_create_event",
		Status:    entity.ProposalStatusPending,
		CreatedAt: time.Now().Add(-time.Hour),
	}
	require.NoError(t, proposals.Create(context.Background(), stale))

	out, err := e.Execute(context.Background(), in)

	require.NoError(t, err)
	require.NotNil(t, out.Proposal)
	assert.NotEqual(t, stale.Id, out.Proposal.Id)

	assert.Equal(t, entity.ProposalStatusRejected, stale.Status)
	assert.NotNil(t, stale.ResolvedAt)

	// Only the new proposal remains pending.
	pending, err := proposals.FindPendingBySession(context.Background(), in.Session.Id)
	require.NoError(t, err)
	require.NotNil(t, pending)
	assert.Equal(t, out.Proposal.Id, pending.Id)
}

func TestToolCallingFailedPureToolIsRecordedNotFatal(t *testing.T) {
	llmFake := &fakeLLM{answer: "I could not compute that."}
	factory := &fakeUowFactory{uow: &fakeUow{proposals: newFakeProposalRepo()}}

	e, err := NewToolCallingExecutor(newToolRegistry(t), factory, llmFake, nopLogger{})
	require.NoError(t, err)

	out, err := e.Execute(context.Background(), newToolInput("what is 1 / 0"))

	require.NoError(t, err)
	require.Len(t, out.ToolTrace, 1)
	assert.NotEmpty(t, out.ToolTrace[0].Error)
	assert.Equal(t, 1, llmFake.calls, "synthesis still runs after a tool failure")
}
