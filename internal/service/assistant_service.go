package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"ai-assistant-be/internal/constant"
	"ai-assistant-be/internal/dto"
	"ai-assistant-be/internal/entity"
	"ai-assistant-be/internal/pkg/logger"
	"ai-assistant-be/internal/repository/memory"
	"ai-assistant-be/internal/repository/specification"
	"ai-assistant-be/internal/repository/unitofwork"
	"ai-assistant-be/pkg/ai/orchestrator"
)

type IAssistantService interface {
	CreateSession(ctx context.Context, userId uuid.UUID, req *dto.CreateSessionRequest) (*dto.CreateSessionResponse, error)
	ListSessions(ctx context.Context, userId uuid.UUID) ([]dto.SessionResponse, error)
	GetSession(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) (*dto.SessionResponse, error)
	DeleteSession(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) error

	Chat(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID, req *dto.ChatRequest) (*dto.ChatResponse, error)
	ListTurns(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID, limit int) ([]dto.TurnResponse, error)

	GetPendingProposal(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) (*dto.ProposalResponse, error)
	ResolveProposal(ctx context.Context, userId uuid.UUID, proposalId uuid.UUID, req *dto.ResolveProposalRequest) (*dto.ResolveProposalResponse, error)
}

type assistantService struct {
	orch         *orchestrator.Orchestrator
	uowFactory   unitofwork.RepositoryFactory
	sessionCache *memory.SessionCache
	logger       logger.ILogger
}

func NewAssistantService(
	orch *orchestrator.Orchestrator,
	uowFactory unitofwork.RepositoryFactory,
	sessionCache *memory.SessionCache,
	log logger.ILogger,
) IAssistantService {
	return &assistantService{
		orch:         orch,
		uowFactory:   uowFactory,
		sessionCache: sessionCache,
		logger:       log,
	}
}

func (s *assistantService) CreateSession(ctx context.Context, userId uuid.UUID, req *dto.CreateSessionRequest) (*dto.CreateSessionResponse, error) {
	session := &entity.ChatSession{
		Id:         uuid.New(),
		UserId:     userId,
		Title:      req.Title,
		Mode:       req.Mode,
		Collection: constant.CollectionUnified,
		CreatedAt:  time.Now(),
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.ChatSessionRepository().Create(ctx, session); err != nil {
		return nil, err
	}
	s.sessionCache.Save(session)

	return &dto.CreateSessionResponse{Id: session.Id}, nil
}

func (s *assistantService) ListSessions(ctx context.Context, userId uuid.UUID) ([]dto.SessionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	sessions, err := uow.ChatSessionRepository().FindAll(ctx,
		specification.ByUserId{UserId: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	out := make([]dto.SessionResponse, 0, len(sessions))
	for _, session := range sessions {
		out = append(out, toSessionResponse(session))
	}
	return out, nil
}

func (s *assistantService) GetSession(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) (*dto.SessionResponse, error) {
	session, err := s.loadOwnedSession(ctx, userId, sessionId)
	if err != nil {
		return nil, err
	}
	res := toSessionResponse(session)
	return &res, nil
}

func (s *assistantService) DeleteSession(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) error {
	if _, err := s.loadOwnedSession(ctx, userId, sessionId); err != nil {
		return err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.ChatSessionRepository().Delete(ctx, sessionId); err != nil {
		return err
	}
	s.sessionCache.Delete(sessionId.String())
	return nil
}

func (s *assistantService) Chat(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID, req *dto.ChatRequest) (*dto.ChatResponse, error) {
	result, err := s.orch.ProcessTurn(ctx, sessionId, userId, req.Message)
	if err != nil {
		return nil, err
	}

	res := &dto.ChatResponse{
		TurnId:       result.Turn.Id,
		Answer:       result.Answer,
		ExecutorUsed: result.Turn.ExecutorUsed,
		Suspended:    result.Suspended,
		Blocked:      result.Blocked,
		Warnings:     result.Warnings,
	}
	if result.Proposal != nil {
		res.ProposalId = &result.Proposal.Id
	}
	return res, nil
}

func (s *assistantService) ListTurns(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID, limit int) ([]dto.TurnResponse, error) {
	if _, err := s.loadOwnedSession(ctx, userId, sessionId); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	turns, err := uow.TurnRepository().FindRecent(ctx, sessionId, limit)
	if err != nil {
		return nil, err
	}

	out := make([]dto.TurnResponse, 0, len(turns))
	for _, turn := range turns {
		out = append(out, dto.TurnResponse{
			Id:           turn.Id,
			Message:      turn.RawText,
			Answer:       turn.Answer,
			ExecutorUsed: turn.ExecutorUsed,
			ToolTrace:    turn.ToolTrace,
			CreatedAt:    turn.CreatedAt,
		})
	}
	return out, nil
}

func (s *assistantService) GetPendingProposal(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) (*dto.ProposalResponse, error) {
	if _, err := s.loadOwnedSession(ctx, userId, sessionId); err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	proposal, err := uow.ToolProposalRepository().FindPendingBySession(ctx, sessionId)
	if err != nil {
		return nil, err
	}
	if proposal == nil {
		return nil, nil
	}

	res := toProposalResponse(proposal)
	return &res, nil
}

func (s *assistantService) ResolveProposal(ctx context.Context, userId uuid.UUID, proposalId uuid.UUID, req *dto.ResolveProposalRequest) (*dto.ResolveProposalResponse, error) {
	result, err := s.orch.ResolveProposal(ctx, proposalId, userId, req.Decision)
	if err != nil {
		return nil, err
	}

	return &dto.ResolveProposalResponse{
		Proposal: toProposalResponse(result.Proposal),
		Answer:   result.Answer,
	}, nil
}

// loadOwnedSession checks the cache first; the DB stays the source of truth.
func (s *assistantService) loadOwnedSession(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) (*entity.ChatSession, error) {
	if cached, ok := s.sessionCache.Get(sessionId.String()); ok && cached.UserId == userId {
		return cached, nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	session, err := uow.ChatSessionRepository().FindOne(ctx, specification.ByID{ID: sessionId})
	if err != nil {
		return nil, err
	}
	if session == nil || session.UserId != userId {
		return nil, orchestrator.ErrSessionNotFound
	}
	s.sessionCache.Save(session)
	return session, nil
}

func toSessionResponse(session *entity.ChatSession) dto.SessionResponse {
	return dto.SessionResponse{
		Id:           session.Id,
		Title:        session.Title,
		Mode:         session.Mode,
		Collection:   session.Collection,
		CreatedAt:    session.CreatedAt,
		LastActiveAt: session.LastActiveAt,
	}
}

func toProposalResponse(p *entity.ToolProposal) dto.ProposalResponse {
	return dto.ProposalResponse{
		Id:         p.Id,
		SessionId:  p.SessionId,
		ToolName:   p.ToolName,
		Parameters: p.Parameters,
		Summary:    p.Summary,
		Status:     p.Status,
		Result:     p.Result,
		CreatedAt:  p.CreatedAt,
		ResolvedAt: p.ResolvedAt,
	}
}
