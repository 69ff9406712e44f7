package executor

import (
	"context"
	"time"

	"github.com/google/uuid"

	"ai-assistant-be/internal/entity"
	"ai-assistant-be/internal/repository/contract"
	"ai-assistant-be/internal/repository/specification"
	"ai-assistant-be/internal/repository/unitofwork"
	"ai-assistant-be/pkg/llm"
)

// --- logger ---

type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{}) {}
func (nopLogger) Info(string, string, map[string]interface{})  {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}
func (nopLogger) Error(string, string, map[string]interface{}) {}
func (nopLogger) Sync() error                                  { return nil }

// --- llm ---

type fakeLLM struct {
	calls  int
	answer string
	err    error
}

func (f *fakeLLM) Chat(_ context.Context, _ []llm.Message, _ ...llm.Option) (string, error) {
	f.calls++
	return f.answer, f.err
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return f.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, opts...)
}

// --- embedding ---

type fakeEmbedder struct {
	calls int
}

func (f *fakeEmbedder) Generate(_ context.Context, _ string, _ string) ([]float32, error) {
	f.calls++
	return []float32{0.1, 0.2, 0.3}, nil
}

// --- repositories ---

type fakeProposalRepo struct {
	pending  *entity.ToolProposal
	created  []*entity.ToolProposal
	updated  []*entity.ToolProposal
	proposal map[uuid.UUID]*entity.ToolProposal
}

func newFakeProposalRepo() *fakeProposalRepo {
	return &fakeProposalRepo{proposal: make(map[uuid.UUID]*entity.ToolProposal)}
}

func (r *fakeProposalRepo) Create(_ context.Context, p *entity.ToolProposal) error {
	r.created = append(r.created, p)
	r.proposal[p.Id] = p
	if p.Status == entity.ProposalStatusPending {
		r.pending = p
	}
	return nil
}

func (r *fakeProposalRepo) Update(_ context.Context, p *entity.ToolProposal) error {
	r.updated = append(r.updated, p)
	r.proposal[p.Id] = p
	if r.pending != nil && r.pending.Id == p.Id && p.Status != entity.ProposalStatusPending {
		r.pending = nil
	}
	return nil
}

func (r *fakeProposalRepo) FindOne(_ context.Context, _ ...specification.Specification) (*entity.ToolProposal, error) {
	return nil, nil
}

func (r *fakeProposalRepo) FindAll(_ context.Context, _ ...specification.Specification) ([]*entity.ToolProposal, error) {
	return nil, nil
}

func (r *fakeProposalRepo) FindPendingBySession(_ context.Context, sessionId uuid.UUID) (*entity.ToolProposal, error) {
	if r.pending != nil && r.pending.SessionId == sessionId {
		return r.pending, nil
	}
	return nil, nil
}

func (r *fakeProposalRepo) ExpireOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	if r.pending != nil && r.pending.CreatedAt.Before(cutoff) {
		now := time.Now()
		r.pending.Status = entity.ProposalStatusExpired
		r.pending.ResolvedAt = &now
		r.pending = nil
		return 1, nil
	}
	return 0, nil
}

type fakeChunkRepo struct {
	chunks []*entity.KnowledgeChunk
}

func (r *fakeChunkRepo) CreateBatch(_ context.Context, chunks []*entity.KnowledgeChunk) error {
	r.chunks = append(r.chunks, chunks...)
	return nil
}

func (r *fakeChunkRepo) DeleteByDocumentId(_ context.Context, _ uuid.UUID) error { return nil }

func (r *fakeChunkRepo) FindAll(_ context.Context, _ ...specification.Specification) ([]*entity.KnowledgeChunk, error) {
	return r.chunks, nil
}

func (r *fakeChunkRepo) Count(_ context.Context, _ ...specification.Specification) (int64, error) {
	return int64(len(r.chunks)), nil
}

func (r *fakeChunkRepo) SearchSimilar(_ context.Context, _ []float32, k int, collection string) ([]*entity.KnowledgeChunk, error) {
	var out []*entity.KnowledgeChunk
	for _, c := range r.chunks {
		if c.Collection == collection {
			out = append(out, c)
		}
	}
	if len(out) > k {
		out = out[:k]
	}
	return out, nil
}

// --- unit of work ---

type fakeUow struct {
	proposals *fakeProposalRepo
	chunks    *fakeChunkRepo
}

func (u *fakeUow) Begin(context.Context) error { return nil }
func (u *fakeUow) Commit() error               { return nil }
func (u *fakeUow) Rollback() error             { return nil }

func (u *fakeUow) ChatSessionRepository() contract.ChatSessionRepository       { return nil }
func (u *fakeUow) TurnRepository() contract.TurnRepository                     { return nil }
func (u *fakeUow) ToolProposalRepository() contract.ToolProposalRepository     { return u.proposals }
func (u *fakeUow) UserFactRepository() contract.UserFactRepository             { return nil }
func (u *fakeUow) TurnEmbeddingRepository() contract.TurnEmbeddingRepository   { return nil }
func (u *fakeUow) DocumentRepository() contract.DocumentRepository             { return nil }
func (u *fakeUow) KnowledgeChunkRepository() contract.KnowledgeChunkRepository { return u.chunks }

type fakeUowFactory struct {
	uow *fakeUow
}

func (f *fakeUowFactory) NewUnitOfWork(context.Context) unitofwork.UnitOfWork { return f.uow }
