package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"

	"ai-assistant-be/internal/constant"
	"ai-assistant-be/internal/dto"
	"ai-assistant-be/internal/entity"
	"ai-assistant-be/internal/pkg/logger"
	"ai-assistant-be/internal/repository/specification"
	"ai-assistant-be/internal/repository/unitofwork"
	"ai-assistant-be/pkg/embedding"
	"ai-assistant-be/pkg/events"
	"ai-assistant-be/pkg/utils"
)

// Chunking parameters for the knowledge base. Character based, with overlap
// so sentences spanning a boundary stay retrievable.
const (
	chunkSize    = 1500
	chunkOverlap = 200
)

type IIngestionService interface {
	// RegisterDocument stores a document and enqueues it for indexing,
	// unless an identical payload already exists in the collection.
	RegisterDocument(ctx context.Context, req *dto.RegisterDocumentRequest) (*dto.RegisterDocumentResponse, error)
	ListDocuments(ctx context.Context, collection string) ([]dto.DocumentResponse, error)
	GetDocument(ctx context.Context, documentId uuid.UUID) (*dto.DocumentResponse, error)

	// ProcessDocument is the consumer side: chunk, embed and index one
	// registered document. Safe under at-least-once delivery.
	ProcessDocument(ctx context.Context, documentId uuid.UUID) error
}

type ingestionService struct {
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.Provider
	publisher         message.Publisher
	eventPublisher    EventPublisher
	ingestTopic       string
	logger            logger.ILogger
}

// EventPublisher pushes lifecycle events onto the external bus.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

func NewIngestionService(
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.Provider,
	publisher message.Publisher,
	eventPublisher EventPublisher,
	ingestTopic string,
	log logger.ILogger,
) IIngestionService {
	return &ingestionService{
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
		publisher:         publisher,
		eventPublisher:    eventPublisher,
		ingestTopic:       ingestTopic,
		logger:            log,
	}
}

func (s *ingestionService) RegisterDocument(ctx context.Context, req *dto.RegisterDocumentRequest) (*dto.RegisterDocumentResponse, error) {
	collection := req.Collection
	if collection == "" {
		collection = constant.CollectionUnified
	}

	// The hash covers the whole payload, computed before any chunking.
	sum := sha256.Sum256([]byte(req.Content))
	contentHash := hex.EncodeToString(sum[:])

	uow := s.uowFactory.NewUnitOfWork(ctx)
	existing, err := uow.DocumentRepository().FindOne(ctx,
		specification.ByCollection{Collection: collection},
		specification.ByContentHash{Hash: contentHash},
	)
	if err != nil {
		return nil, fmt.Errorf("dedup lookup: %w", err)
	}
	if existing != nil {
		s.logger.Info("IngestionService", "Duplicate document skipped", map[string]interface{}{
			"document_id": existing.Id,
			"collection":  collection,
		})
		return &dto.RegisterDocumentResponse{
			Id:          existing.Id,
			Status:      entity.DocumentStatusDuplicate,
			ContentHash: contentHash,
		}, nil
	}

	document := &entity.Document{
		Id:          uuid.New(),
		Collection:  collection,
		Name:        req.Name,
		ContentHash: contentHash,
		Content:     req.Content,
		Status:      entity.DocumentStatusPending,
		CreatedAt:   time.Now(),
	}
	if err := uow.DocumentRepository().Create(ctx, document); err != nil {
		return nil, fmt.Errorf("create document: %w", err)
	}

	if err := s.enqueueIngest(document.Id); err != nil {
		// The row exists with status pending; a re-register of the same
		// payload returns duplicate, so surface the enqueue failure.
		return nil, fmt.Errorf("enqueue ingest: %w", err)
	}

	return &dto.RegisterDocumentResponse{
		Id:          document.Id,
		Status:      entity.DocumentStatusNew,
		ContentHash: contentHash,
	}, nil
}

func (s *ingestionService) ListDocuments(ctx context.Context, collection string) ([]dto.DocumentResponse, error) {
	specs := []specification.Specification{
		specification.OrderBy{Field: "created_at", Desc: true},
	}
	if collection != "" {
		specs = append(specs, specification.ByCollection{Collection: collection})
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	documents, err := uow.DocumentRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	out := make([]dto.DocumentResponse, 0, len(documents))
	for _, doc := range documents {
		out = append(out, toDocumentResponse(doc))
	}
	return out, nil
}

func (s *ingestionService) GetDocument(ctx context.Context, documentId uuid.UUID) (*dto.DocumentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	document, err := uow.DocumentRepository().FindOne(ctx, specification.ByID{ID: documentId})
	if err != nil {
		return nil, err
	}
	if document == nil {
		return nil, nil
	}
	res := toDocumentResponse(document)
	return &res, nil
}

func (s *ingestionService) ProcessDocument(ctx context.Context, documentId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	document, err := uow.DocumentRepository().FindOne(ctx, specification.ByID{ID: documentId})
	if err != nil {
		return fmt.Errorf("load document: %w", err)
	}
	if document == nil {
		// The row was deleted after registration. Nothing to retry.
		s.logger.Warn("IngestionService", "Document gone before indexing", map[string]interface{}{
			"document_id": documentId,
		})
		return nil
	}

	pieces := utils.SplitText(document.Content, chunkSize, chunkOverlap)
	now := time.Now()

	chunks := make([]*entity.KnowledgeChunk, 0, len(pieces))
	for i, piece := range pieces {
		vector, err := s.embeddingProvider.Generate(ctx, piece, embedding.TaskRetrievalDocument)
		if err != nil {
			return fmt.Errorf("embed chunk %d of %d: %w", i+1, len(pieces), err)
		}
		chunks = append(chunks, &entity.KnowledgeChunk{
			Id:             uuid.New(),
			DocumentId:     document.Id,
			Collection:     document.Collection,
			Position:       i,
			Text:           piece,
			EmbeddingValue: vector,
			CreatedAt:      now,
		})
	}

	// Replace-then-insert keeps redelivery idempotent: a second pass wipes
	// any chunks a partially failed first pass left behind.
	if err := uow.KnowledgeChunkRepository().DeleteByDocumentId(ctx, document.Id); err != nil {
		return fmt.Errorf("clear existing chunks: %w", err)
	}
	if err := uow.KnowledgeChunkRepository().CreateBatch(ctx, chunks); err != nil {
		return fmt.Errorf("store chunks: %w", err)
	}

	document.Status = entity.DocumentStatusIndexed
	document.IndexedAt = &now
	if err := uow.DocumentRepository().Update(ctx, document); err != nil {
		return fmt.Errorf("mark document indexed: %w", err)
	}

	s.logger.Info("IngestionService", "Document indexed", map[string]interface{}{
		"document_id": document.Id,
		"collection":  document.Collection,
		"chunks":      len(chunks),
	})

	if s.eventPublisher != nil {
		if err := s.eventPublisher.Publish(ctx, events.NewDocumentIndexedEvent(document.Id, document.Collection, document.Status)); err != nil {
			s.logger.Warn("IngestionService", "Event publish failed", map[string]interface{}{
				"document_id": document.Id,
				"error":       err.Error(),
			})
		}
	}
	return nil
}

func (s *ingestionService) enqueueIngest(documentId uuid.UUID) error {
	payload, err := json.Marshal(dto.IngestDocumentMessage{DocumentId: documentId})
	if err != nil {
		return err
	}
	msg := message.NewMessage(uuid.NewString(), payload)
	return s.publisher.Publish(s.ingestTopic, msg)
}

func toDocumentResponse(doc *entity.Document) dto.DocumentResponse {
	return dto.DocumentResponse{
		Id:          doc.Id,
		Collection:  doc.Collection,
		Name:        doc.Name,
		ContentHash: doc.ContentHash,
		Status:      doc.Status,
		CreatedAt:   doc.CreatedAt,
		IndexedAt:   doc.IndexedAt,
	}
}
