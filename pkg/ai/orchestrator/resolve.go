package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"ai-assistant-be/internal/constant"
	"ai-assistant-be/internal/entity"
	"ai-assistant-be/internal/repository/specification"
	"ai-assistant-be/pkg/ai/executor"
	"ai-assistant-be/pkg/events"
)

// ResolutionResult reports the proposal state after a resolution attempt.
type ResolutionResult struct {
	Proposal        *entity.ToolProposal
	Answer          string
	AlreadyTerminal bool
}

// ResolveProposal applies an explicit approve/reject decision from the API.
// Resolving an already-terminal proposal returns its current state without
// re-executing anything.
func (o *Orchestrator) ResolveProposal(ctx context.Context, proposalId, userId uuid.UUID, decision string) (*ResolutionResult, error) {
	if decision != executor.IntentApprove && decision != executor.IntentReject {
		return nil, fmt.Errorf("invalid decision %q", decision)
	}

	uow := o.uowFactory.NewUnitOfWork(ctx)
	proposal, err := uow.ToolProposalRepository().FindOne(ctx, specification.ByID{ID: proposalId})
	if err != nil {
		return nil, fmt.Errorf("load proposal: %w", err)
	}
	if proposal == nil || proposal.UserId != userId {
		return nil, ErrProposalNotFound
	}

	lock := o.locks.get(proposal.SessionId)
	lock.Lock()
	defer lock.Unlock()

	// Re-read under the lock; a concurrent chat-intent resolution may have
	// gotten there first.
	proposal, err = uow.ToolProposalRepository().FindOne(ctx, specification.ByID{ID: proposalId})
	if err != nil {
		return nil, fmt.Errorf("load proposal: %w", err)
	}
	if proposal == nil {
		return nil, ErrProposalNotFound
	}
	if proposal.IsTerminal() {
		return &ResolutionResult{
			Proposal:        proposal,
			Answer:          fmt.Sprintf("This request was already %s.", proposal.Status),
			AlreadyTerminal: true,
		}, nil
	}

	answer, err := o.resolve(ctx, proposal, decision)
	if err != nil {
		return nil, err
	}

	// The answer reaches the user and memory exactly like a chat answer:
	// sanitized, recorded as a turn, committed for fact extraction.
	clean, _ := o.sanitizer.Sanitize(answer)
	turn := &entity.Turn{
		Id:            uuid.New(),
		SessionId:     proposal.SessionId,
		UserId:        proposal.UserId,
		RawText:       decision,
		SanitizedText: decision,
		Answer:        clean,
		CreatedAt:     time.Now(),
	}
	o.persistTurn(ctx, turn)
	o.commitMemory(ctx, turn)

	return &ResolutionResult{Proposal: proposal, Answer: clean}, nil
}

// resolve transitions a pending proposal. Callers hold the session lock.
func (o *Orchestrator) resolve(ctx context.Context, proposal *entity.ToolProposal, intent string) (string, error) {
	uow := o.uowFactory.NewUnitOfWork(ctx)
	now := time.Now()

	// TTL is enforced on touch as well as by the sweeper.
	if o.cfg.ProposalTTL > 0 && now.Sub(proposal.CreatedAt) > o.cfg.ProposalTTL {
		proposal.Status = entity.ProposalStatusExpired
		proposal.ResolvedAt = &now
		if err := uow.ToolProposalRepository().Update(ctx, proposal); err != nil {
			return "", fmt.Errorf("expire proposal: %w", err)
		}
		o.publish(ctx, events.NewProposalResolvedEvent(proposal.Id, proposal.SessionId, proposal.UserId, proposal.Status))
		return "That request has expired. Please ask again if you still want it done.", nil
	}

	if intent == executor.IntentReject {
		proposal.Status = entity.ProposalStatusRejected
		proposal.ResolvedAt = &now
		if err := uow.ToolProposalRepository().Update(ctx, proposal); err != nil {
			return "", fmt.Errorf("reject proposal: %w", err)
		}
		o.publish(ctx, events.NewProposalResolvedEvent(proposal.Id, proposal.SessionId, proposal.UserId, proposal.Status))
		return "Okay, I've cancelled that action.", nil
	}

	// Approval is recorded before the side effect runs, so a crash
	// mid-execution leaves an approved proposal rather than a pending one
	// that could be approved twice.
	proposal.Status = entity.ProposalStatusApproved
	if err := uow.ToolProposalRepository().Update(ctx, proposal); err != nil {
		return "", fmt.Errorf("approve proposal: %w", err)
	}

	params := make(map[string]string, len(proposal.Parameters))
	for k, v := range proposal.Parameters {
		if s, ok := v.(string); ok {
			params[k] = s
		} else {
			params[k] = fmt.Sprintf("%v", v)
		}
	}

	execCtx, cancel := context.WithTimeout(ctx, o.cfg.SideEffectTimeout)
	defer cancel()

	result, execErr := o.registry.Run(execCtx, proposal.ToolName, params)

	resolvedAt := time.Now()
	proposal.ResolvedAt = &resolvedAt

	if execErr != nil {
		// Terminal. An approved side effect that failed or timed out is
		// never retried automatically; the user is told to check and
		// re-ask if needed.
		proposal.Status = entity.ProposalStatusResolvedError
		proposal.Result = execErr.Error()
		if err := uow.ToolProposalRepository().Update(ctx, proposal); err != nil {
			return "", fmt.Errorf("record side effect failure: %w", err)
		}
		o.publish(ctx, events.NewProposalResolvedEvent(proposal.Id, proposal.SessionId, proposal.UserId, proposal.Status))
		o.logger.Error("Orchestrator", "Approved side effect failed", map[string]interface{}{
			"proposal_id": proposal.Id,
			"tool":        proposal.ToolName,
			"error":       execErr.Error(),
		})
		return constant.AnswerSideEffectFailed, nil
	}

	proposal.Status = entity.ProposalStatusResolved
	proposal.Result = result
	if err := uow.ToolProposalRepository().Update(ctx, proposal); err != nil {
		return "", fmt.Errorf("record side effect result: %w", err)
	}
	o.publish(ctx, events.NewProposalResolvedEvent(proposal.Id, proposal.SessionId, proposal.UserId, proposal.Status))

	return result, nil
}

// StartSweeper expires stale pending proposals in the background until the
// context is cancelled.
func (o *Orchestrator) StartSweeper(ctx context.Context) {
	if o.cfg.SweepInterval <= 0 || o.cfg.ProposalTTL <= 0 {
		return
	}

	go func() {
		ticker := time.NewTicker(o.cfg.SweepInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				uow := o.uowFactory.NewUnitOfWork(ctx)
				cutoff := time.Now().Add(-o.cfg.ProposalTTL)
				n, err := uow.ToolProposalRepository().ExpireOlderThan(ctx, cutoff)
				if err != nil {
					o.logger.Error("Orchestrator", "Proposal sweep failed", map[string]interface{}{
						"error": err.Error(),
					})
					continue
				}
				if n > 0 {
					o.logger.Info("Orchestrator", "Expired stale proposals", map[string]interface{}{
						"count": n,
					})
				}
			}
		}
	}()
}
