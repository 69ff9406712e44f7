package memorytier

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"ai-assistant-be/internal/repository/unitofwork"
	"ai-assistant-be/pkg/embedding"
)

// CommitRequest is the payload queued after a completed turn. The commit
// path is asynchronous: a failed commit never fails the turn that produced it.
type CommitRequest struct {
	TurnId        uuid.UUID `json:"turn_id"`
	SessionId     uuid.UUID `json:"session_id"`
	UserId        uuid.UUID `json:"user_id"`
	UserText      string    `json:"user_text"`
	AssistantText string    `json:"assistant_text"`
}

// Store assembles per-turn memory context and enqueues post-turn commits.
type Store interface {
	// FetchContext reads all three memory tiers for a turn. Tier reads run
	// concurrently; a failure in any tier fails the whole fetch.
	FetchContext(ctx context.Context, userId, sessionId uuid.UUID, queryText string) (*Context, error)

	// Commit enqueues the turn for asynchronous memory processing.
	Commit(ctx context.Context, req CommitRequest) error
}

type store struct {
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.Provider
	publisher         message.Publisher
	commitTopic       string
	recentWindow      int
	similarTopK       int
}

func NewStore(
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.Provider,
	publisher message.Publisher,
	commitTopic string,
	recentWindow int,
	similarTopK int,
) Store {
	return &store{
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
		publisher:         publisher,
		commitTopic:       commitTopic,
		recentWindow:      recentWindow,
		similarTopK:       similarTopK,
	}
}

func (s *store) FetchContext(ctx context.Context, userId, sessionId uuid.UUID, queryText string) (*Context, error) {
	memCtx := &Context{
		Facts: make(map[string]string),
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		uow := s.uowFactory.NewUnitOfWork(gctx)
		recent, err := uow.TurnRepository().FindRecent(gctx, sessionId, s.recentWindow)
		if err != nil {
			return fmt.Errorf("fetch recent turns: %w", err)
		}
		memCtx.Recent = recent
		return nil
	})

	g.Go(func() error {
		uow := s.uowFactory.NewUnitOfWork(gctx)
		facts, err := uow.UserFactRepository().FindAllByUserId(gctx, userId)
		if err != nil {
			return fmt.Errorf("fetch user facts: %w", err)
		}
		for _, f := range facts {
			memCtx.Facts[f.FactKey] = f.FactValue
		}
		return nil
	})

	g.Go(func() error {
		vector, err := s.embeddingProvider.Generate(gctx, queryText, embedding.TaskRetrievalQuery)
		if err != nil {
			return fmt.Errorf("embed query: %w", err)
		}
		uow := s.uowFactory.NewUnitOfWork(gctx)
		similar, err := uow.TurnEmbeddingRepository().SearchSimilar(gctx, vector, s.similarTopK, userId, sessionId)
		if err != nil {
			return fmt.Errorf("search similar turns: %w", err)
		}
		memCtx.Similar = similar
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return memCtx, nil
}

func (s *store) Commit(ctx context.Context, req CommitRequest) error {
	payload, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("marshal commit request: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.SetContext(ctx)

	if err := s.publisher.Publish(s.commitTopic, msg); err != nil {
		return fmt.Errorf("publish commit request: %w", err)
	}
	return nil
}
