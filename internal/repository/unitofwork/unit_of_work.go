package unitofwork

import (
	"context"

	"ai-assistant-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	ChatSessionRepository() contract.ChatSessionRepository
	TurnRepository() contract.TurnRepository
	ToolProposalRepository() contract.ToolProposalRepository
	UserFactRepository() contract.UserFactRepository
	TurnEmbeddingRepository() contract.TurnEmbeddingRepository
	DocumentRepository() contract.DocumentRepository
	KnowledgeChunkRepository() contract.KnowledgeChunkRepository
}
