package executor

import (
	"context"
	"fmt"
	"strings"

	"ai-assistant-be/internal/constant"
	"ai-assistant-be/internal/pkg/logger"
	"ai-assistant-be/internal/repository/unitofwork"
	"ai-assistant-be/pkg/embedding"
	"ai-assistant-be/pkg/llm"
)

const retrievalSystemPrompt = `You are a helpful assistant. Answer the user's question using ONLY the provided context passages. If the context does not contain the answer, say so plainly. Cite nothing outside the context.`

// RetrievalExecutor answers from the knowledge base: embed the question,
// pull the nearest chunks from the session's collection, and synthesize an
// answer grounded on them. When nothing relevant is found it returns the
// canned no-info answer without calling the model.
type RetrievalExecutor struct {
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.Provider
	llmProvider       llm.LLMProvider
	topK              int
	logger            logger.ILogger
}

func NewRetrievalExecutor(
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.Provider,
	llmProvider llm.LLMProvider,
	topK int,
	log logger.ILogger,
) *RetrievalExecutor {
	return &RetrievalExecutor{
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
		llmProvider:       llmProvider,
		topK:              topK,
		logger:            log,
	}
}

var _ Executor = &RetrievalExecutor{}

func (e *RetrievalExecutor) Execute(ctx context.Context, in *Input) (*Output, error) {
	question := in.Turn.SanitizedText

	collection := in.Session.Collection
	if collection == "" {
		collection = constant.CollectionUnified
	}

	queryVector, err := e.embeddingProvider.Generate(ctx, question, embedding.TaskRetrievalQuery)
	if err != nil {
		return nil, fmt.Errorf("embed question: %w", err)
	}

	uow := e.uowFactory.NewUnitOfWork(ctx)
	chunks, err := uow.KnowledgeChunkRepository().SearchSimilar(ctx, queryVector, e.topK, collection)
	if err != nil {
		return nil, fmt.Errorf("search knowledge base: %w", err)
	}

	if len(chunks) == 0 {
		e.logger.Info("RetrievalExecutor", "No relevant chunks", map[string]interface{}{
			"session_id": in.Session.Id,
			"collection": collection,
		})
		return &Output{Answer: constant.AnswerNoRelevantInfo}, nil
	}

	var contextBlock strings.Builder
	for i, chunk := range chunks {
		fmt.Fprintf(&contextBlock, "[%d] %s\n\n", i+1, chunk.Text)
	}

	var userPrompt strings.Builder
	if digest := in.Memory.Digest(); digest != "" {
		userPrompt.WriteString(digest)
		userPrompt.WriteString("\n\n")
	}
	userPrompt.WriteString("Context passages:\n")
	userPrompt.WriteString(contextBlock.String())
	userPrompt.WriteString("Question: ")
	userPrompt.WriteString(question)

	answer, err := e.llmProvider.Chat(ctx, []llm.Message{
		{Role: "system", Content: retrievalSystemPrompt},
		{Role: "user", Content: userPrompt.String()},
	}, llm.WithTemperature(0.2))
	if err != nil {
		return nil, fmt.Errorf("generate answer: %w", err)
	}

	return &Output{Answer: answer}, nil
}
