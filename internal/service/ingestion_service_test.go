package service

import (
	"context"
	"strings"
	"testing"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-assistant-be/internal/constant"
	"ai-assistant-be/internal/dto"
	"ai-assistant-be/internal/entity"
	"ai-assistant-be/internal/repository/contract"
	"ai-assistant-be/internal/repository/specification"
	"ai-assistant-be/internal/repository/unitofwork"
	"ai-assistant-be/pkg/events"
)

// --- fakes ---

type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{}) {}
func (nopLogger) Info(string, string, map[string]interface{})  {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}
func (nopLogger) Error(string, string, map[string]interface{}) {}
func (nopLogger) Sync() error                                  { return nil }

type fakeEmbedder struct {
	calls int
}

func (f *fakeEmbedder) Generate(_ context.Context, _ string, _ string) ([]float32, error) {
	f.calls++
	return []float32{0.1, 0.2, 0.3}, nil
}

type fakeQueuePublisher struct {
	published map[string][]*message.Message
}

func newFakeQueuePublisher() *fakeQueuePublisher {
	return &fakeQueuePublisher{published: make(map[string][]*message.Message)}
}

func (f *fakeQueuePublisher) Publish(topic string, messages ...*message.Message) error {
	f.published[topic] = append(f.published[topic], messages...)
	return nil
}

func (f *fakeQueuePublisher) Close() error { return nil }

type fakeEventPublisher struct {
	events []events.Event
}

func (f *fakeEventPublisher) Publish(_ context.Context, event events.Event) error {
	f.events = append(f.events, event)
	return nil
}

type fakeDocumentRepo struct {
	docs []*entity.Document
}

func (r *fakeDocumentRepo) Create(_ context.Context, document *entity.Document) error {
	r.docs = append(r.docs, document)
	return nil
}

func (r *fakeDocumentRepo) Update(_ context.Context, document *entity.Document) error {
	for i, d := range r.docs {
		if d.Id == document.Id {
			r.docs[i] = document
		}
	}
	return nil
}

func (r *fakeDocumentRepo) FindOne(_ context.Context, specs ...specification.Specification) (*entity.Document, error) {
	for _, doc := range r.docs {
		if matchesDocument(doc, specs) {
			return doc, nil
		}
	}
	return nil, nil
}

func (r *fakeDocumentRepo) FindAll(_ context.Context, specs ...specification.Specification) ([]*entity.Document, error) {
	var out []*entity.Document
	for _, doc := range r.docs {
		if matchesDocument(doc, specs) {
			out = append(out, doc)
		}
	}
	return out, nil
}

func (r *fakeDocumentRepo) Count(_ context.Context, _ ...specification.Specification) (int64, error) {
	return int64(len(r.docs)), nil
}

func matchesDocument(doc *entity.Document, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ByID:
			if doc.Id != s.ID {
				return false
			}
		case specification.ByCollection:
			if doc.Collection != s.Collection {
				return false
			}
		case specification.ByContentHash:
			if doc.ContentHash != s.Hash {
				return false
			}
		}
	}
	return true
}

type fakeChunkRepo struct {
	chunks  []*entity.KnowledgeChunk
	deletes int
}

func (r *fakeChunkRepo) CreateBatch(_ context.Context, chunks []*entity.KnowledgeChunk) error {
	r.chunks = append(r.chunks, chunks...)
	return nil
}

func (r *fakeChunkRepo) DeleteByDocumentId(_ context.Context, documentId uuid.UUID) error {
	r.deletes++
	kept := r.chunks[:0]
	for _, c := range r.chunks {
		if c.DocumentId != documentId {
			kept = append(kept, c)
		}
	}
	r.chunks = kept
	return nil
}

func (r *fakeChunkRepo) FindAll(_ context.Context, _ ...specification.Specification) ([]*entity.KnowledgeChunk, error) {
	return r.chunks, nil
}

func (r *fakeChunkRepo) Count(_ context.Context, _ ...specification.Specification) (int64, error) {
	return int64(len(r.chunks)), nil
}

func (r *fakeChunkRepo) SearchSimilar(_ context.Context, _ []float32, _ int, _ string) ([]*entity.KnowledgeChunk, error) {
	return nil, nil
}

type fakeUow struct {
	docs   *fakeDocumentRepo
	chunks *fakeChunkRepo
}

func (u *fakeUow) Begin(context.Context) error { return nil }
func (u *fakeUow) Commit() error               { return nil }
func (u *fakeUow) Rollback() error             { return nil }

func (u *fakeUow) ChatSessionRepository() contract.ChatSessionRepository { panic("not used") }
func (u *fakeUow) TurnRepository() contract.TurnRepository               { panic("not used") }
func (u *fakeUow) ToolProposalRepository() contract.ToolProposalRepository {
	panic("not used")
}
func (u *fakeUow) UserFactRepository() contract.UserFactRepository { panic("not used") }
func (u *fakeUow) TurnEmbeddingRepository() contract.TurnEmbeddingRepository {
	panic("not used")
}
func (u *fakeUow) DocumentRepository() contract.DocumentRepository             { return u.docs }
func (u *fakeUow) KnowledgeChunkRepository() contract.KnowledgeChunkRepository { return u.chunks }

type fakeUowFactory struct {
	uow *fakeUow
}

func (f *fakeUowFactory) NewUnitOfWork(context.Context) unitofwork.UnitOfWork { return f.uow }

type ingestionHarness struct {
	service IIngestionService
	docs    *fakeDocumentRepo
	chunks  *fakeChunkRepo
	queue   *fakeQueuePublisher
	bus     *fakeEventPublisher
	embed   *fakeEmbedder
}

func newIngestionHarness() *ingestionHarness {
	docs := &fakeDocumentRepo{}
	chunks := &fakeChunkRepo{}
	queue := newFakeQueuePublisher()
	bus := &fakeEventPublisher{}
	embed := &fakeEmbedder{}
	svc := NewIngestionService(
		&fakeUowFactory{uow: &fakeUow{docs: docs, chunks: chunks}},
		embed,
		queue,
		bus,
		"KB_INGEST_DOCUMENT",
		nopLogger{},
	)
	return &ingestionHarness{service: svc, docs: docs, chunks: chunks, queue: queue, bus: bus, embed: embed}
}

// --- tests ---

func TestRegisterDocument_NewDocumentIsEnqueued(t *testing.T) {
	h := newIngestionHarness()

	res, err := h.service.RegisterDocument(context.Background(), &dto.RegisterDocumentRequest{
		Collection: "research",
		Name:       "paper.txt",
		Content:    "quantum error correction basics",
	})
	require.NoError(t, err)

	assert.Equal(t, entity.DocumentStatusNew, res.Status)
	assert.Len(t, res.ContentHash, 64)
	require.Len(t, h.docs.docs, 1)
	assert.Equal(t, entity.DocumentStatusPending, h.docs.docs[0].Status)
	assert.Len(t, h.queue.published["KB_INGEST_DOCUMENT"], 1)
}

func TestRegisterDocument_IdenticalContentIsDeduplicated(t *testing.T) {
	h := newIngestionHarness()
	ctx := context.Background()

	first, err := h.service.RegisterDocument(ctx, &dto.RegisterDocumentRequest{
		Collection: "research",
		Name:       "paper.txt",
		Content:    "quantum error correction basics",
	})
	require.NoError(t, err)

	// Same payload, different name: the hash decides, not the filename.
	second, err := h.service.RegisterDocument(ctx, &dto.RegisterDocumentRequest{
		Collection: "research",
		Name:       "paper-copy.txt",
		Content:    "quantum error correction basics",
	})
	require.NoError(t, err)

	assert.Equal(t, entity.DocumentStatusDuplicate, second.Status)
	assert.Equal(t, first.Id, second.Id)
	assert.Equal(t, first.ContentHash, second.ContentHash)
	assert.Len(t, h.docs.docs, 1, "duplicate must not create a second row")
	assert.Len(t, h.queue.published["KB_INGEST_DOCUMENT"], 1, "duplicate must not enqueue again")
}

func TestRegisterDocument_DedupIsScopedToCollection(t *testing.T) {
	h := newIngestionHarness()
	ctx := context.Background()

	_, err := h.service.RegisterDocument(ctx, &dto.RegisterDocumentRequest{
		Collection: "research",
		Name:       "paper.txt",
		Content:    "shared content",
	})
	require.NoError(t, err)

	res, err := h.service.RegisterDocument(ctx, &dto.RegisterDocumentRequest{
		Collection: "archive",
		Name:       "paper.txt",
		Content:    "shared content",
	})
	require.NoError(t, err)

	assert.Equal(t, entity.DocumentStatusNew, res.Status)
	assert.Len(t, h.docs.docs, 2)
}

func TestRegisterDocument_EmptyCollectionDefaultsToUnified(t *testing.T) {
	h := newIngestionHarness()

	_, err := h.service.RegisterDocument(context.Background(), &dto.RegisterDocumentRequest{
		Name:    "notes.txt",
		Content: "some notes",
	})
	require.NoError(t, err)

	require.Len(t, h.docs.docs, 1)
	assert.Equal(t, constant.CollectionUnified, h.docs.docs[0].Collection)
}

func TestProcessDocument_ChunksEmbedsAndMarksIndexed(t *testing.T) {
	h := newIngestionHarness()
	ctx := context.Background()

	res, err := h.service.RegisterDocument(ctx, &dto.RegisterDocumentRequest{
		Collection: "research",
		Name:       "long.txt",
		Content:    strings.Repeat("sentence about vectors. ", 200), // ~4800 chars, several chunks
	})
	require.NoError(t, err)

	require.NoError(t, h.service.ProcessDocument(ctx, res.Id))

	doc := h.docs.docs[0]
	assert.Equal(t, entity.DocumentStatusIndexed, doc.Status)
	require.NotNil(t, doc.IndexedAt)

	require.NotEmpty(t, h.chunks.chunks)
	assert.Greater(t, len(h.chunks.chunks), 1)
	for i, chunk := range h.chunks.chunks {
		assert.Equal(t, res.Id, chunk.DocumentId)
		assert.Equal(t, "research", chunk.Collection)
		assert.Equal(t, i, chunk.Position)
		assert.NotEmpty(t, chunk.EmbeddingValue)
	}
	assert.Equal(t, len(h.chunks.chunks), h.embed.calls)

	require.Len(t, h.bus.events, 1)
	assert.Equal(t, events.TypeDocumentIndexed, h.bus.events[0].EventType())
}

func TestProcessDocument_RedeliveryReplacesChunks(t *testing.T) {
	h := newIngestionHarness()
	ctx := context.Background()

	res, err := h.service.RegisterDocument(ctx, &dto.RegisterDocumentRequest{
		Collection: "research",
		Name:       "long.txt",
		Content:    strings.Repeat("sentence about vectors. ", 200),
	})
	require.NoError(t, err)

	require.NoError(t, h.service.ProcessDocument(ctx, res.Id))
	firstCount := len(h.chunks.chunks)

	require.NoError(t, h.service.ProcessDocument(ctx, res.Id))

	assert.Equal(t, firstCount, len(h.chunks.chunks), "second delivery must not duplicate chunks")
	assert.Equal(t, 2, h.chunks.deletes)
}

func TestProcessDocument_MissingDocumentIsNotAnError(t *testing.T) {
	h := newIngestionHarness()

	err := h.service.ProcessDocument(context.Background(), uuid.New())

	assert.NoError(t, err)
	assert.Empty(t, h.chunks.chunks)
	assert.Empty(t, h.bus.events)
}
