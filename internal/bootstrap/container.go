package bootstrap

import (
	"context"
	"log"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"ai-assistant-be/internal/config"
	"ai-assistant-be/internal/constant"
	"ai-assistant-be/internal/controller"
	"ai-assistant-be/internal/handler"
	"ai-assistant-be/internal/pkg/logger"
	"ai-assistant-be/internal/repository/memory"
	"ai-assistant-be/internal/repository/unitofwork"
	"ai-assistant-be/internal/service"
	"ai-assistant-be/internal/websocket"
	"ai-assistant-be/pkg/ai/executor"
	"ai-assistant-be/pkg/ai/orchestrator"
	"ai-assistant-be/pkg/embedding"
	"ai-assistant-be/pkg/events"
	"ai-assistant-be/pkg/guardrails"
	"ai-assistant-be/pkg/guardrails/ratelimit"
	"ai-assistant-be/pkg/llm"
	llmfactory "ai-assistant-be/pkg/llm/factory"
	"ai-assistant-be/pkg/memorytier"
	pktNats "ai-assistant-be/pkg/nats"
	"ai-assistant-be/pkg/tools"
)

type Container struct {
	// Controllers
	AssistantController controller.IAssistantController
	DocumentController  controller.IDocumentController

	// Background services (exposed for main.go to run)
	ConsumerService service.IConsumerService
	Orchestrator    *orchestrator.Orchestrator

	// WebSockets
	EventsHandler *handler.EventsHandler
	WebSocketHub  *websocket.Hub
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. In-process queues
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. Model providers
	baseEmbedding, err := embedding.NewProvider(
		cfg.Ai.EmbeddingProvider,
		cfg.Ai.GeminiAPIKey,
		cfg.Ai.OllamaBaseURL,
		cfg.Ai.OllamaEmbedModel,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize embedding provider: %v", err)
	}
	embeddingProvider := embedding.NewRetryProvider(baseEmbedding, cfg.Ai.MaxRetries)
	log.Printf("[INFO] Using embedding provider: %s", cfg.Ai.EmbeddingProvider)

	baseLLM, err := llmfactory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Ai.GeminiAPIKey,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM provider: %v", err)
	}
	llmProvider := llm.NewRetryProvider(baseLLM, cfg.Ai.MaxRetries)
	log.Printf("[INFO] Using LLM provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 4. External infrastructure
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS publisher: %v", err)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS subscriber: %v", err)
	}

	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	// 5. Guardrails
	var rateStore ratelimit.Store
	if cfg.Guardrails.RateStore == "redis" {
		rateStore = ratelimit.NewRedisStore(rdb)
	} else {
		rateStore = ratelimit.NewMemoryStore()
	}
	validator := guardrails.NewValidator(guardrails.ValidatorConfig{
		MaxInputChars:  cfg.Guardrails.MaxInputChars,
		MaxInputTokens: cfg.Guardrails.MaxInputTokens,
		RatePerMinute:  cfg.Guardrails.RatePerMinute,
		RatePerHour:    cfg.Guardrails.RatePerHour,
	}, rateStore, sysLogger)
	sanitizer := guardrails.NewSanitizer(cfg.Guardrails.MaxOutputChars)

	// 6. Memory tiers
	memoryStore := memorytier.NewStore(
		uowFactory,
		embeddingProvider,
		pubSub,
		cfg.Memory.CommitTopicName,
		cfg.Memory.RecentWindow,
		cfg.Memory.SimilarTopK,
	)
	committer := memorytier.NewCommitter(uowFactory, embeddingProvider)

	// 7. Tools
	calendarClient := tools.NewCalendarClient(cfg.Tools.CalendarBaseURL, cfg.Tools.CalendarAPIKey)
	registry, err := tools.NewRegistry(
		tools.NewCalculatorTool(),
		tools.NewDateTimeTool(),
		tools.NewWikipediaTool(cfg.Tools.WikipediaURL),
		tools.NewWebSearchTool(cfg.Tools.SerperAPIKey),
		tools.NewCalendarCreateTool(calendarClient),
		tools.NewCalendarListTool(calendarClient),
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to build tool registry: %v", err)
	}

	// 8. Executors
	retrievalExecutor := executor.NewRetrievalExecutor(
		uowFactory,
		embeddingProvider,
		llmProvider,
		cfg.Tools.RetrievalTopK,
		sysLogger,
	)
	toolCallingExecutor, err := executor.NewToolCallingExecutor(
		registry,
		uowFactory,
		llmProvider,
		sysLogger,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to build tool-calling executor: %v", err)
	}
	executors := map[string]executor.Executor{
		constant.ExecutorRetrieval:   retrievalExecutor,
		constant.ExecutorToolCalling: toolCallingExecutor,
	}

	// 9. Orchestrator
	var eventPublisher orchestrator.EventPublisher
	if natsPub != nil {
		eventPublisher = natsPub
	}
	orch := orchestrator.New(
		orchestrator.Config{
			GuardrailsEnabled: cfg.Guardrails.Enabled,
			ProposalTTL:       cfg.Hitl.ProposalTTL,
			SweepInterval:     cfg.Hitl.SweepInterval,
			SideEffectTimeout: cfg.Ai.RequestTimeout,
		},
		validator,
		sanitizer,
		memoryStore,
		executors,
		uowFactory,
		eventPublisher,
		registry,
		sysLogger,
	)

	// 10. WebSocket hub, fed by the NATS event stream
	wsLogger := logger.NewIsolatedLogger("logs/events.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	if natsSub != nil {
		if err := natsSub.Subscribe("events.>", "ws-forwarder", forwardToHub(wsHub)); err != nil {
			log.Printf("[WARN] Failed to subscribe to event stream: %v", err)
		}
	}

	// 11. Services
	var svcEventPublisher service.EventPublisher
	if natsPub != nil {
		svcEventPublisher = natsPub
	}
	assistantService := service.NewAssistantService(orch, uowFactory, memory.NewSessionCache(), sysLogger)
	ingestionService := service.NewIngestionService(
		uowFactory,
		embeddingProvider,
		pubSub,
		svcEventPublisher,
		cfg.Memory.IngestTopicName,
		sysLogger,
	)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Memory.CommitTopicName,
		cfg.Memory.IngestTopicName,
		committer,
		ingestionService,
		sysLogger,
	)

	return &Container{
		AssistantController: controller.NewAssistantController(assistantService),
		DocumentController:  controller.NewDocumentController(ingestionService),

		ConsumerService: consumerService,
		Orchestrator:    orch,

		EventsHandler: handler.NewEventsHandler(wsHub, wsLogger),
		WebSocketHub:  wsHub,
	}
}

// forwardToHub pushes every bus event carrying a user_id to that user's
// websocket connections. Events without a user_id are broadcast.
func forwardToHub(hub *websocket.Hub) pktNats.EventHandler {
	return func(_ context.Context, event events.Event) error {
		payload := event.Payload()
		userIDStr, _ := payload["user_id"].(string)
		if userIDStr == "" {
			hub.Broadcast(event.EventType(), payload)
			return nil
		}
		userID, err := uuid.Parse(userIDStr)
		if err != nil {
			return nil
		}
		hub.Send(userID, event.EventType(), payload)
		return nil
	}
}
