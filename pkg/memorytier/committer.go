package memorytier

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"ai-assistant-be/internal/entity"
	"ai-assistant-be/internal/repository/unitofwork"
	"ai-assistant-be/pkg/embedding"
)

// Committer applies one CommitRequest to the fact table and the semantic
// index. HandleCommit is idempotent enough for at-least-once delivery:
// fact upserts are last-write-wins and a duplicate index entry only costs
// a redundant row with the same summary.
type Committer struct {
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.Provider
}

func NewCommitter(uowFactory unitofwork.RepositoryFactory, embeddingProvider embedding.Provider) *Committer {
	return &Committer{
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
	}
}

func (c *Committer) HandleCommit(ctx context.Context, req CommitRequest) error {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	// Fact table first: cheap, no model call.
	now := time.Now()
	for key, value := range ExtractFacts(req.UserText) {
		fact := &entity.UserFact{
			Id:        uuid.New(),
			UserId:    req.UserId,
			FactKey:   key,
			FactValue: value,
			CreatedAt: now,
			UpdatedAt: &now,
		}
		if err := uow.UserFactRepository().Upsert(ctx, fact); err != nil {
			return fmt.Errorf("upsert fact %q: %w", key, err)
		}
	}

	// Semantic index entry: one embedded summary of the whole exchange.
	summary := buildTurnSummary(req.UserText, req.AssistantText)
	vector, err := c.embeddingProvider.Generate(ctx, summary, embedding.TaskRetrievalDocument)
	if err != nil {
		return fmt.Errorf("embed turn summary: %w", err)
	}

	turnEmbedding := &entity.TurnEmbedding{
		Id:             uuid.New(),
		UserId:         req.UserId,
		SessionId:      req.SessionId,
		TurnId:         req.TurnId,
		Summary:        summary,
		EmbeddingValue: vector,
		CreatedAt:      now,
	}
	if err := uow.TurnEmbeddingRepository().Create(ctx, turnEmbedding); err != nil {
		return fmt.Errorf("create turn embedding: %w", err)
	}

	return nil
}

const maxSummaryChars = 1000

func buildTurnSummary(userText, assistantText string) string {
	summary := fmt.Sprintf("User asked: %s\nAssistant replied: %s", userText, assistantText)
	if len(summary) > maxSummaryChars {
		summary = summary[:maxSummaryChars]
	}
	return summary
}
