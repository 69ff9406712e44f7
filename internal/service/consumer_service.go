package service

import (
	"context"
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"ai-assistant-be/internal/dto"
	"ai-assistant-be/internal/pkg/logger"
	"ai-assistant-be/pkg/memorytier"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains the in-process queues: memory commits written after
// each completed turn, and document ingestion jobs. Each topic is processed
// sequentially in its own goroutine so per-topic ordering holds.
type consumerService struct {
	pubSub      *gochannel.GoChannel
	commitTopic string
	ingestTopic string
	committer   *memorytier.Committer
	ingestion   IIngestionService
	logger      logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	commitTopic string,
	ingestTopic string,
	committer *memorytier.Committer,
	ingestion IIngestionService,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:      pubSub,
		commitTopic: commitTopic,
		ingestTopic: ingestTopic,
		committer:   committer,
		ingestion:   ingestion,
		logger:      log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	commits, err := cs.pubSub.Subscribe(ctx, cs.commitTopic)
	if err != nil {
		return err
	}
	ingests, err := cs.pubSub.Subscribe(ctx, cs.ingestTopic)
	if err != nil {
		return err
	}

	go func() {
		for msg := range commits {
			cs.processCommit(ctx, msg)
		}
	}()
	go func() {
		for msg := range ingests {
			cs.processIngest(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processCommit(ctx context.Context, msg *message.Message) {
	var req memorytier.CommitRequest
	if err := json.Unmarshal(msg.Payload, &req); err != nil {
		cs.logger.Error("ConsumerService", "Failed to unmarshal commit message", map[string]interface{}{
			"error": err.Error(),
		})
		msg.Ack() // malformed payloads never become valid, drop them
		return
	}

	if err := cs.committer.HandleCommit(ctx, req); err != nil {
		cs.logger.Error("ConsumerService", "Memory commit failed", map[string]interface{}{
			"turn_id": req.TurnId,
			"error":   err.Error(),
		})
		msg.Nack()
		return
	}

	cs.logger.Debug("ConsumerService", "Memory commit applied", map[string]interface{}{
		"turn_id": req.TurnId,
	})
	msg.Ack()
}

func (cs *consumerService) processIngest(ctx context.Context, msg *message.Message) {
	var payload dto.IngestDocumentMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("ConsumerService", "Failed to unmarshal ingest message", map[string]interface{}{
			"error": err.Error(),
		})
		msg.Ack()
		return
	}

	if err := cs.ingestion.ProcessDocument(ctx, payload.DocumentId); err != nil {
		cs.logger.Error("ConsumerService", "Document indexing failed", map[string]interface{}{
			"document_id": payload.DocumentId,
			"error":       err.Error(),
		})
		msg.Nack()
		return
	}
	msg.Ack()
}
