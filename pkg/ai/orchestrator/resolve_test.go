package orchestrator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-assistant-be/internal/constant"
	"ai-assistant-be/internal/entity"
	"ai-assistant-be/pkg/ai/executor"
	"ai-assistant-be/pkg/events"
)

func pendingProposal(h *harness, createdAt time.Time) *entity.ToolProposal {
	p := &entity.ToolProposal{
		Id:        uuid.New(),
		SessionId: h.sessionId,
		UserId:    h.userId,
		ToolName:  "calendar_create_event",
		Parameters: map[string]interface{}{
			"title": "standup",
			"date":  "tomorrow",
		},
		Status:    entity.ProposalStatusPending,
		CreatedAt: createdAt,
	}
	h.uow.proposals.byId[p.Id] = p
	return p
}

func TestResolveProposalApprove(t *testing.T) {
	h := newHarness(t, defaultConfig())
	h.runner.result = "Event \"standup\" created for tomorrow."
	p := pendingProposal(h, time.Now())

	res, err := h.orch.ResolveProposal(context.Background(), p.Id, h.userId, executor.IntentApprove)

	require.NoError(t, err)
	assert.False(t, res.AlreadyTerminal)
	assert.Equal(t, entity.ProposalStatusResolved, p.Status)
	assert.Equal(t, h.runner.result, res.Answer)
	assert.Equal(t, h.runner.result, p.Result)
	assert.NotNil(t, p.ResolvedAt)
	assert.Equal(t, 1, h.runner.calls)
	assert.Contains(t, h.publisher.types(), events.TypeProposalResolved)
}

func TestResolveProposalSanitizesAnswerAndCommitsMemory(t *testing.T) {
	h := newHarness(t, defaultConfig())
	h.runner.result = "Invitation sent to alice@example.com <script>x</script>"
	p := pendingProposal(h, time.Now())

	res, err := h.orch.ResolveProposal(context.Background(), p.Id, h.userId, executor.IntentApprove)

	require.NoError(t, err)
	assert.Contains(t, res.Answer, "[REDACTED-EMAIL]")
	assert.NotContains(t, res.Answer, "alice@example.com")
	assert.NotContains(t, res.Answer, "<script>")

	// The resolution lands in the turn history and reaches memory like any
	// other completed exchange.
	require.Len(t, h.uow.turns.turns, 1)
	assert.Equal(t, res.Answer, h.uow.turns.turns[0].Answer)
	assert.Equal(t, executor.IntentApprove, h.uow.turns.turns[0].RawText)

	require.Len(t, h.memory.commits, 1)
	assert.Equal(t, h.uow.turns.turns[0].Id, h.memory.commits[0].TurnId)
	assert.Equal(t, res.Answer, h.memory.commits[0].AssistantText)
}

func TestResolveProposalReject(t *testing.T) {
	h := newHarness(t, defaultConfig())
	p := pendingProposal(h, time.Now())

	res, err := h.orch.ResolveProposal(context.Background(), p.Id, h.userId, executor.IntentReject)

	require.NoError(t, err)
	assert.Equal(t, entity.ProposalStatusRejected, p.Status)
	assert.Equal(t, 0, h.runner.calls, "rejected side effects never run")
	assert.Contains(t, res.Answer, "cancelled")
}

func TestResolveProposalSideEffectFailureIsTerminal(t *testing.T) {
	h := newHarness(t, defaultConfig())
	h.runner.err = errors.New("calendar unreachable")
	p := pendingProposal(h, time.Now())

	res, err := h.orch.ResolveProposal(context.Background(), p.Id, h.userId, executor.IntentApprove)

	require.NoError(t, err)
	assert.Equal(t, entity.ProposalStatusResolvedError, p.Status)
	assert.Equal(t, constant.AnswerSideEffectFailed, res.Answer)
	assert.Equal(t, 1, h.runner.calls)

	// A second approval attempt does not re-execute.
	res2, err := h.orch.ResolveProposal(context.Background(), p.Id, h.userId, executor.IntentApprove)
	require.NoError(t, err)
	assert.True(t, res2.AlreadyTerminal)
	assert.Equal(t, 1, h.runner.calls)
}

func TestResolveProposalSideEffectTimeout(t *testing.T) {
	cfg := defaultConfig()
	cfg.SideEffectTimeout = 20 * time.Millisecond
	h := newHarness(t, cfg)
	h.runner.slow = 200 * time.Millisecond
	p := pendingProposal(h, time.Now())

	res, err := h.orch.ResolveProposal(context.Background(), p.Id, h.userId, executor.IntentApprove)

	require.NoError(t, err)
	assert.Equal(t, entity.ProposalStatusResolvedError, p.Status)
	assert.Equal(t, constant.AnswerSideEffectFailed, res.Answer)
}

func TestResolveProposalExpiredOnTouch(t *testing.T) {
	h := newHarness(t, defaultConfig())
	p := pendingProposal(h, time.Now().Add(-25*time.Hour))

	res, err := h.orch.ResolveProposal(context.Background(), p.Id, h.userId, executor.IntentApprove)

	require.NoError(t, err)
	assert.Equal(t, entity.ProposalStatusExpired, p.Status)
	assert.Equal(t, 0, h.runner.calls, "expired proposals never execute")
	assert.Contains(t, res.Answer, "expired")
}

func TestResolveProposalTerminalIsIdempotent(t *testing.T) {
	h := newHarness(t, defaultConfig())
	p := pendingProposal(h, time.Now())
	now := time.Now()
	p.Status = entity.ProposalStatusRejected
	p.ResolvedAt = &now

	res, err := h.orch.ResolveProposal(context.Background(), p.Id, h.userId, executor.IntentApprove)

	require.NoError(t, err)
	assert.True(t, res.AlreadyTerminal)
	assert.Equal(t, entity.ProposalStatusRejected, p.Status)
	assert.Equal(t, 0, h.runner.calls)
}

func TestResolveProposalValidation(t *testing.T) {
	h := newHarness(t, defaultConfig())
	p := pendingProposal(h, time.Now())

	_, err := h.orch.ResolveProposal(context.Background(), p.Id, h.userId, "maybe")
	assert.Error(t, err)

	_, err = h.orch.ResolveProposal(context.Background(), uuid.New(), h.userId, executor.IntentApprove)
	assert.ErrorIs(t, err, ErrProposalNotFound)

	// Someone else's proposal is invisible.
	_, err = h.orch.ResolveProposal(context.Background(), p.Id, uuid.New(), executor.IntentApprove)
	assert.ErrorIs(t, err, ErrProposalNotFound)
}

func TestSweeperExpiresStaleProposals(t *testing.T) {
	cfg := defaultConfig()
	cfg.SweepInterval = 10 * time.Millisecond
	h := newHarness(t, cfg)
	stale := pendingProposal(h, time.Now().Add(-25*time.Hour))
	fresh := pendingProposal(h, time.Now())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h.orch.StartSweeper(ctx)

	assert.Eventually(t, func() bool {
		return stale.Status == entity.ProposalStatusExpired
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, entity.ProposalStatusPending, fresh.Status)
}
