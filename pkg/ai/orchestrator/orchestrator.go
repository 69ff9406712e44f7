package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"ai-assistant-be/internal/constant"
	"ai-assistant-be/internal/entity"
	"ai-assistant-be/internal/pkg/logger"
	"ai-assistant-be/internal/repository/specification"
	"ai-assistant-be/internal/repository/unitofwork"
	"ai-assistant-be/pkg/ai/executor"
	"ai-assistant-be/pkg/ai/router"
	"ai-assistant-be/pkg/events"
	"ai-assistant-be/pkg/guardrails"
	"ai-assistant-be/pkg/memorytier"
)

// Pipeline states, logged as each turn moves through them.
type State string

const (
	StateStart           State = "START"
	StateValidateInput   State = "VALIDATE_INPUT"
	StateFetchMemory     State = "FETCH_MEMORY"
	StateRoute           State = "ROUTE"
	StateExecute         State = "EXECUTE"
	StateSuspendedOnHitl State = "SUSPENDED_ON_HITL"
	StateSanitizeOutput  State = "SANITIZE_OUTPUT"
	StateCommitMemory    State = "COMMIT_MEMORY"
	StateEnd             State = "END"
)

var (
	ErrSessionNotFound  = errors.New("session not found")
	ErrProposalNotFound = errors.New("proposal not found")
)

// InputValidator screens raw user text. Satisfied by guardrails.Validator.
type InputValidator interface {
	Validate(ctx context.Context, rawText string, userID string) *guardrails.Result
}

// OutputSanitizer cleans outbound text. Satisfied by guardrails.Sanitizer.
type OutputSanitizer interface {
	Sanitize(text string) (string, guardrails.SanitizeMeta)
}

// EventPublisher pushes lifecycle events to the bus. Satisfied by
// nats.Publisher. Publishing is best-effort: a bus outage never fails a turn.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type Config struct {
	// GuardrailsEnabled turns input validation on. Output sanitization is
	// not gated: it always runs.
	GuardrailsEnabled bool
	ProposalTTL       time.Duration
	SweepInterval     time.Duration
	SideEffectTimeout time.Duration
}

// TurnResult is what one processed turn produced.
type TurnResult struct {
	Turn        *entity.Turn
	Answer      string
	Suspended   bool
	Proposal    *entity.ToolProposal
	Blocked     bool
	BlockReason string
	Warnings    []string
	State       State
}

// Orchestrator drives every turn through the fixed pipeline:
// validate, fetch memory, route, execute, sanitize, commit. A turn that
// produces a proposal suspends instead of completing.
type Orchestrator struct {
	cfg        Config
	validator  InputValidator
	sanitizer  OutputSanitizer
	memory     memorytier.Store
	executors  map[string]executor.Executor
	uowFactory unitofwork.RepositoryFactory
	publisher  EventPublisher
	registry   ToolRunner
	locks      *sessionLocks
	logger     logger.ILogger
}

// ToolRunner executes a named tool with parameters. Satisfied by a thin
// wrapper over tools.Registry; narrowed to an interface so resolution can
// be tested without real tools.
type ToolRunner interface {
	Run(ctx context.Context, toolName string, params map[string]string) (string, error)
}

func New(
	cfg Config,
	validator InputValidator,
	sanitizer OutputSanitizer,
	memory memorytier.Store,
	executors map[string]executor.Executor,
	uowFactory unitofwork.RepositoryFactory,
	publisher EventPublisher,
	registry ToolRunner,
	log logger.ILogger,
) *Orchestrator {
	return &Orchestrator{
		cfg:        cfg,
		validator:  validator,
		sanitizer:  sanitizer,
		memory:     memory,
		executors:  executors,
		uowFactory: uowFactory,
		publisher:  publisher,
		registry:   registry,
		locks:      newSessionLocks(),
		logger:     log,
	}
}

// ProcessTurn runs one user message through the pipeline. Turns within a
// session are strictly sequential; the per-session lock is held for the
// whole pipeline.
func (o *Orchestrator) ProcessTurn(ctx context.Context, sessionId, userId uuid.UUID, rawText string) (*TurnResult, error) {
	lock := o.locks.get(sessionId)
	lock.Lock()
	defer lock.Unlock()

	o.transition(sessionId, StateStart)

	uow := o.uowFactory.NewUnitOfWork(ctx)
	session, err := uow.ChatSessionRepository().FindOne(ctx, specification.ByID{ID: sessionId})
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if session == nil || session.UserId != userId {
		return nil, ErrSessionNotFound
	}

	turn := &entity.Turn{
		Id:        uuid.New(),
		SessionId: sessionId,
		UserId:    userId,
		RawText:   rawText,
		CreatedAt: time.Now(),
	}

	// VALIDATE_INPUT
	o.transition(sessionId, StateValidateInput)
	var warnings []string
	if o.cfg.GuardrailsEnabled {
		res := o.validator.Validate(ctx, rawText, userId.String())
		warnings = res.Warnings
		if !res.Passed {
			turn.Answer = res.Reason
			o.persistTurn(ctx, turn)
			o.transition(sessionId, StateEnd)
			return &TurnResult{
				Turn:        turn,
				Answer:      res.Reason,
				Blocked:     true,
				BlockReason: res.Reason,
				Warnings:    warnings,
				State:       StateEnd,
			}, nil
		}
	}
	turn.SanitizedText = strings.TrimSpace(rawText)

	// A pending proposal intercepts plain approval/rejection messages
	// before anything else runs.
	pending, err := uow.ToolProposalRepository().FindPendingBySession(ctx, sessionId)
	if err != nil {
		return nil, fmt.Errorf("check pending proposal: %w", err)
	}
	if pending != nil {
		if intent, ok := executor.ParseResolutionIntent(turn.SanitizedText); ok {
			answer, resolveErr := o.resolve(ctx, pending, intent)
			if resolveErr != nil {
				return nil, resolveErr
			}

			// Resolution answers carry raw tool output, so they pass
			// through the sanitizer and reach memory like any other turn.
			o.transition(sessionId, StateSanitizeOutput)
			clean, _ := o.sanitizer.Sanitize(answer)
			turn.Answer = clean
			o.persistTurn(ctx, turn)

			o.transition(sessionId, StateCommitMemory)
			o.commitMemory(ctx, turn)

			o.transition(sessionId, StateEnd)
			return &TurnResult{
				Turn:     turn,
				Answer:   clean,
				Warnings: warnings,
				State:    StateEnd,
			}, nil
		}
	}

	// FETCH_MEMORY. A broken tier degrades to an empty context rather
	// than failing the turn.
	o.transition(sessionId, StateFetchMemory)
	memCtx, err := o.memory.FetchContext(ctx, userId, sessionId, turn.SanitizedText)
	if err != nil {
		o.logger.Warn("Orchestrator", "Memory fetch failed, continuing without context", map[string]interface{}{
			"session_id": sessionId,
			"error":      err.Error(),
		})
		memCtx = &memorytier.Context{}
	}

	// ROUTE
	o.transition(sessionId, StateRoute)
	decision := router.Route(turn.SanitizedText, session.Mode)
	turn.ExecutorUsed = decision.Executor

	ex, ok := o.executors[decision.Executor]
	if !ok {
		return nil, fmt.Errorf("no executor registered for %q", decision.Executor)
	}

	// EXECUTE
	o.transition(sessionId, StateExecute)
	out, err := ex.Execute(ctx, &executor.Input{
		Session: session,
		Turn:    turn,
		Memory:  memCtx,
	})
	if err != nil {
		o.logger.Error("Orchestrator", "Executor failed", map[string]interface{}{
			"session_id": sessionId,
			"executor":   decision.Executor,
			"error":      err.Error(),
		})
		turn.Answer = constant.AnswerServiceUnavailable
		o.persistTurn(ctx, turn)
		o.transition(sessionId, StateEnd)
		return &TurnResult{
			Turn:     turn,
			Answer:   constant.AnswerServiceUnavailable,
			Warnings: warnings,
			State:    StateEnd,
		}, nil
	}
	turn.ToolTrace = out.ToolTrace

	// SUSPENDED_ON_HITL: the proposal is already persisted; the turn
	// completes with the confirmation question and no memory commit.
	if out.Proposal != nil {
		o.transition(sessionId, StateSuspendedOnHitl)
		confirm, _ := o.sanitizer.Sanitize(out.Answer)
		turn.Answer = confirm
		o.persistTurn(ctx, turn)
		o.publish(ctx, events.NewProposalCreatedEvent(out.Proposal.Id, sessionId, userId, out.Proposal.ToolName))
		return &TurnResult{
			Turn:      turn,
			Answer:    confirm,
			Suspended: true,
			Proposal:  out.Proposal,
			Warnings:  warnings,
			State:     StateSuspendedOnHitl,
		}, nil
	}

	// SANITIZE_OUTPUT always runs, guardrail toggle or not.
	o.transition(sessionId, StateSanitizeOutput)
	clean, meta := o.sanitizer.Sanitize(out.Answer)
	if meta.Failed {
		o.logger.Warn("Orchestrator", "Sanitizer degraded to original text", map[string]interface{}{
			"session_id": sessionId,
		})
	}
	turn.Answer = clean

	o.persistTurn(ctx, turn)
	o.touchSession(ctx, session)

	// COMMIT_MEMORY is async and best-effort.
	o.transition(sessionId, StateCommitMemory)
	o.commitMemory(ctx, turn)

	o.publish(ctx, events.NewTurnCompletedEvent(turn.Id, sessionId, userId, decision.Executor))
	o.transition(sessionId, StateEnd)

	return &TurnResult{
		Turn:     turn,
		Answer:   clean,
		Warnings: warnings,
		State:    StateEnd,
	}, nil
}

// commitMemory enqueues the turn for async fact extraction and semantic
// indexing. Best-effort: a full queue degrades memory, not the turn.
func (o *Orchestrator) commitMemory(ctx context.Context, turn *entity.Turn) {
	if err := o.memory.Commit(ctx, memorytier.CommitRequest{
		TurnId:        turn.Id,
		SessionId:     turn.SessionId,
		UserId:        turn.UserId,
		UserText:      turn.SanitizedText,
		AssistantText: turn.Answer,
	}); err != nil {
		o.logger.Warn("Orchestrator", "Memory commit enqueue failed", map[string]interface{}{
			"turn_id": turn.Id,
			"error":   err.Error(),
		})
	}
}

func (o *Orchestrator) persistTurn(ctx context.Context, turn *entity.Turn) {
	uow := o.uowFactory.NewUnitOfWork(ctx)
	if err := uow.TurnRepository().Create(ctx, turn); err != nil {
		o.logger.Error("Orchestrator", "Failed to persist turn", map[string]interface{}{
			"turn_id": turn.Id,
			"error":   err.Error(),
		})
	}
}

func (o *Orchestrator) touchSession(ctx context.Context, session *entity.ChatSession) {
	now := time.Now()
	session.LastActiveAt = &now
	uow := o.uowFactory.NewUnitOfWork(ctx)
	if err := uow.ChatSessionRepository().Update(ctx, session); err != nil {
		o.logger.Warn("Orchestrator", "Failed to update session activity", map[string]interface{}{
			"session_id": session.Id,
			"error":      err.Error(),
		})
	}
}

func (o *Orchestrator) publish(ctx context.Context, event events.Event) {
	if o.publisher == nil {
		return
	}
	if err := o.publisher.Publish(ctx, event); err != nil {
		o.logger.Warn("Orchestrator", "Event publish failed", map[string]interface{}{
			"event": event.EventType(),
			"error": err.Error(),
		})
	}
}

func (o *Orchestrator) transition(sessionId uuid.UUID, state State) {
	o.logger.Debug("Orchestrator", "State transition", map[string]interface{}{
		"session_id": sessionId,
		"state":      string(state),
	})
}
