package orchestrator

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"ai-assistant-be/internal/entity"
	"ai-assistant-be/internal/repository/contract"
	"ai-assistant-be/internal/repository/specification"
	"ai-assistant-be/internal/repository/unitofwork"
	"ai-assistant-be/pkg/ai/executor"
	"ai-assistant-be/pkg/events"
	"ai-assistant-be/pkg/guardrails"
	"ai-assistant-be/pkg/memorytier"
)

type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{}) {}
func (nopLogger) Info(string, string, map[string]interface{})  {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}
func (nopLogger) Error(string, string, map[string]interface{}) {}
func (nopLogger) Sync() error                                  { return nil }

// --- guardrails ---

type fakeValidator struct {
	result *guardrails.Result
	calls  int
}

func (f *fakeValidator) Validate(_ context.Context, _ string, _ string) *guardrails.Result {
	f.calls++
	return f.result
}

// --- memory ---

type fakeMemory struct {
	fetchCalls int
	fetchErr   error
	commits    []memorytier.CommitRequest
	commitErr  error
	fetchedCtx *memorytier.Context
}

func (f *fakeMemory) FetchContext(_ context.Context, _, _ uuid.UUID, _ string) (*memorytier.Context, error) {
	f.fetchCalls++
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	if f.fetchedCtx != nil {
		return f.fetchedCtx, nil
	}
	return &memorytier.Context{}, nil
}

func (f *fakeMemory) Commit(_ context.Context, req memorytier.CommitRequest) error {
	if f.commitErr != nil {
		return f.commitErr
	}
	f.commits = append(f.commits, req)
	return nil
}

// --- executor ---

type fakeExecutor struct {
	calls int
	out   *executor.Output
	err   error
}

func (f *fakeExecutor) Execute(_ context.Context, _ *executor.Input) (*executor.Output, error) {
	f.calls++
	return f.out, f.err
}

// --- tool runner ---

type fakeRunner struct {
	calls  int
	result string
	err    error
	slow   time.Duration
}

func (f *fakeRunner) Run(ctx context.Context, _ string, _ map[string]string) (string, error) {
	f.calls++
	if f.slow > 0 {
		select {
		case <-time.After(f.slow):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return f.result, f.err
}

// --- publisher ---

type fakePublisher struct {
	published []events.Event
}

func (f *fakePublisher) Publish(_ context.Context, e events.Event) error {
	f.published = append(f.published, e)
	return nil
}

func (f *fakePublisher) types() []string {
	var out []string
	for _, e := range f.published {
		out = append(out, e.EventType())
	}
	return out
}

// --- repositories ---

type fakeSessionRepo struct {
	sessions map[uuid.UUID]*entity.ChatSession
	updated  int
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[uuid.UUID]*entity.ChatSession)}
}

func (r *fakeSessionRepo) Create(_ context.Context, s *entity.ChatSession) error {
	r.sessions[s.Id] = s
	return nil
}

func (r *fakeSessionRepo) Update(_ context.Context, s *entity.ChatSession) error {
	r.updated++
	r.sessions[s.Id] = s
	return nil
}

func (r *fakeSessionRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.sessions, id)
	return nil
}

func (r *fakeSessionRepo) FindOne(_ context.Context, specs ...specification.Specification) (*entity.ChatSession, error) {
	for _, spec := range specs {
		if byId, ok := spec.(specification.ByID); ok {
			return r.sessions[byId.ID], nil
		}
	}
	return nil, errors.New("unsupported spec")
}

func (r *fakeSessionRepo) FindAll(_ context.Context, _ ...specification.Specification) ([]*entity.ChatSession, error) {
	return nil, nil
}

func (r *fakeSessionRepo) Count(_ context.Context, _ ...specification.Specification) (int64, error) {
	return int64(len(r.sessions)), nil
}

type fakeTurnRepo struct {
	turns []*entity.Turn
}

func (r *fakeTurnRepo) Create(_ context.Context, t *entity.Turn) error {
	r.turns = append(r.turns, t)
	return nil
}

func (r *fakeTurnRepo) FindOne(_ context.Context, _ ...specification.Specification) (*entity.Turn, error) {
	return nil, nil
}

func (r *fakeTurnRepo) FindAll(_ context.Context, _ ...specification.Specification) ([]*entity.Turn, error) {
	return r.turns, nil
}

func (r *fakeTurnRepo) Count(_ context.Context, _ ...specification.Specification) (int64, error) {
	return int64(len(r.turns)), nil
}

func (r *fakeTurnRepo) FindRecent(_ context.Context, _ uuid.UUID, limit int) ([]*entity.Turn, error) {
	if len(r.turns) > limit {
		return r.turns[len(r.turns)-limit:], nil
	}
	return r.turns, nil
}

type fakeProposalRepo struct {
	byId map[uuid.UUID]*entity.ToolProposal
}

func newFakeProposalRepo() *fakeProposalRepo {
	return &fakeProposalRepo{byId: make(map[uuid.UUID]*entity.ToolProposal)}
}

func (r *fakeProposalRepo) Create(_ context.Context, p *entity.ToolProposal) error {
	r.byId[p.Id] = p
	return nil
}

func (r *fakeProposalRepo) Update(_ context.Context, p *entity.ToolProposal) error {
	r.byId[p.Id] = p
	return nil
}

func (r *fakeProposalRepo) FindOne(_ context.Context, specs ...specification.Specification) (*entity.ToolProposal, error) {
	for _, spec := range specs {
		if byId, ok := spec.(specification.ByID); ok {
			return r.byId[byId.ID], nil
		}
	}
	return nil, errors.New("unsupported spec")
}

func (r *fakeProposalRepo) FindAll(_ context.Context, _ ...specification.Specification) ([]*entity.ToolProposal, error) {
	return nil, nil
}

func (r *fakeProposalRepo) FindPendingBySession(_ context.Context, sessionId uuid.UUID) (*entity.ToolProposal, error) {
	for _, p := range r.byId {
		if p.SessionId == sessionId && p.Status == entity.ProposalStatusPending {
			return p, nil
		}
	}
	return nil, nil
}

func (r *fakeProposalRepo) ExpireOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	var n int64
	now := time.Now()
	for _, p := range r.byId {
		if p.Status == entity.ProposalStatusPending && p.CreatedAt.Before(cutoff) {
			p.Status = entity.ProposalStatusExpired
			p.ResolvedAt = &now
			n++
		}
	}
	return n, nil
}

// --- unit of work ---

type fakeUow struct {
	sessions  *fakeSessionRepo
	turns     *fakeTurnRepo
	proposals *fakeProposalRepo
}

func (u *fakeUow) Begin(context.Context) error { return nil }
func (u *fakeUow) Commit() error               { return nil }
func (u *fakeUow) Rollback() error             { return nil }

func (u *fakeUow) ChatSessionRepository() contract.ChatSessionRepository       { return u.sessions }
func (u *fakeUow) TurnRepository() contract.TurnRepository                     { return u.turns }
func (u *fakeUow) ToolProposalRepository() contract.ToolProposalRepository     { return u.proposals }
func (u *fakeUow) UserFactRepository() contract.UserFactRepository             { return nil }
func (u *fakeUow) TurnEmbeddingRepository() contract.TurnEmbeddingRepository   { return nil }
func (u *fakeUow) DocumentRepository() contract.DocumentRepository             { return nil }
func (u *fakeUow) KnowledgeChunkRepository() contract.KnowledgeChunkRepository { return nil }

type fakeUowFactory struct {
	uow *fakeUow
}

func (f *fakeUowFactory) NewUnitOfWork(context.Context) unitofwork.UnitOfWork { return f.uow }
