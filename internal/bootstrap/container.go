package bootstrap

import (
	"context"
	"log"

	"ai-concierge-be/internal/config"
	"ai-concierge-be/internal/controller"
	"ai-concierge-be/internal/pkg/logger"
	"ai-concierge-be/internal/repository"
	"ai-concierge-be/internal/service"
	"ai-concierge-be/internal/websocket"
	"ai-concierge-be/pkg/classifier"
	"ai-concierge-be/pkg/corrector"
	"ai-concierge-be/pkg/embedding"
	"ai-concierge-be/pkg/knowledge"
	"ai-concierge-be/pkg/language"
	"ai-concierge-be/pkg/llm/factory"
	"ai-concierge-be/pkg/query"
	"ai-concierge-be/pkg/responder"
	"ai-concierge-be/pkg/router"
	"ai-concierge-be/pkg/session"

	pktNats "ai-concierge-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	ConciergeController controller.IConciergeController
	KnowledgeController controller.IKnowledgeController

	// WebSocket chat transport
	ChatHandler *websocket.ChatHandler

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. Providers
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.OllamaModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	} else {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Ai.GeminiAPIKey)
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	}

	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Ai.HuggingFaceAPIKey,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 4. Session store
	var sessions session.Store
	if cfg.Concierge.SessionBackend == "redis" {
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
		sessions = session.NewRedisStore(rdb, cfg.Concierge.SessionTTL)
		log.Printf("[INFO] Using Session Backend: REDIS")
	} else {
		sessions = session.NewMemoryStore(cfg.Concierge.SessionTTL)
		log.Printf("[INFO] Using Session Backend: MEMORY")
	}

	// 5. NATS (turn events for presentation layer, best-effort)
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	var turnPublisher service.TurnPublisher
	if natsPub != nil {
		turnPublisher = natsPub
	}

	// 6. Query understanding pipeline
	corr := corrector.NewDefault()
	detector := language.NewDetector(query.Language(cfg.Concierge.DefaultLanguage))
	cls := classifier.NewDefault()
	filter := knowledge.NewDefaultFilter()
	rtr := router.New(detector, cls, sessions)
	clarifier := responder.NewClarifier(cls, cfg.Concierge.ClarificationRetryBudget)

	// 7. Retrieval + responders
	knowledgeRepo := repository.NewKnowledgeRepository(db)
	retriever := repository.NewVectorRetriever(knowledgeRepo, embeddingProvider)

	responders := make(map[query.ResponderName]responder.Responder)
	for name, profile := range responder.DefaultProfiles() {
		responders[name] = responder.NewKnowledgeResponder(profile, retriever, filter, llmProvider, log.Default())
	}
	responders[query.ResponderMemory] = responder.NewMemoryResponder(llmProvider, log.Default())

	// 8. Services
	conciergeService := service.NewConciergeService(
		corr,
		detector,
		rtr,
		sessions,
		responders,
		clarifier,
		turnPublisher,
		sysLogger,
	)
	knowledgeService := service.NewKnowledgeService(pubSub, cfg.Concierge.IngestTopic, knowledgeRepo)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Concierge.IngestTopic,
		knowledgeRepo,
		embeddingProvider,
	)

	return &Container{
		ConciergeController: controller.NewConciergeController(conciergeService),
		KnowledgeController: controller.NewKnowledgeController(knowledgeService),
		ChatHandler:         websocket.NewChatHandler(conciergeService, sysLogger),

		ConsumerService: consumerService,
	}
}
