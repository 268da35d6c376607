package bootstrap

import (
	"context"
	"log"
	"time"

	"b2b-catalog-be/internal/config"
	"b2b-catalog-be/internal/controller"
	"b2b-catalog-be/internal/pkg/logger"
	"b2b-catalog-be/internal/repository/memory"
	redisrepo "b2b-catalog-be/internal/repository/redis"
	"b2b-catalog-be/internal/repository/unitofwork"
	"b2b-catalog-be/internal/service"
	"b2b-catalog-be/pkg/dialog"
	"b2b-catalog-be/pkg/embedding"
	"b2b-catalog-be/pkg/inquiry"
	"b2b-catalog-be/pkg/llm/factory"
	"b2b-catalog-be/pkg/orders"
	"b2b-catalog-be/pkg/response"
	"b2b-catalog-be/pkg/retrieval"
	"b2b-catalog-be/pkg/slots"
	"b2b-catalog-be/pkg/store"

	pkgNats "b2b-catalog-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	ConversationController controller.IConversationController
	ProductController      controller.IProductController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// Exposed for CLI binaries that drive the engine directly.
	ConversationService service.IConversationService
	ProductService      service.IProductService
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	engineLogger := log.Default()

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. AI Providers
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.OllamaModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	} else {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Ai.GoogleGemini)
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	}

	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 4. Session Store
	sessionTTL := time.Duration(cfg.Engine.SessionTTLMinutes) * time.Minute
	var sessionStore store.SessionStore
	if cfg.App.SessionBackend == "redis" {
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
		sessionStore = redisrepo.NewSessionRepository(rdb, sessionTTL)
		log.Printf("[INFO] Using Session Backend: REDIS")
	} else {
		sessionStore = memory.NewSessionRepository(sessionTTL)
		log.Printf("[INFO] Using Session Backend: MEMORY")
	}

	// 5. Infrastructure
	natsPub, err := pkgNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}

	// 6. Conversation Engine
	policy := inquiry.NewPolicy(cfg.Engine.DegradationThreshold, engineLogger)
	machine := dialog.NewMachine(policy, engineLogger)
	extractor := slots.NewExtractor()
	workflow := orders.NewWorkflow(engineLogger)
	responder := response.NewGenerator(llmProvider, engineLogger)

	structuredBackend := service.NewStructuredSearchBackend(uowFactory, cfg.Engine.StockThreshold)
	semanticBackend := service.NewSemanticSearchBackend(
		uowFactory,
		embeddingProvider,
		cfg.Engine.SimilarityCutoff,
		cfg.Engine.StockThreshold,
	)
	orchestrator := retrieval.NewOrchestrator(structuredBackend, semanticBackend, engineLogger, retrieval.Config{
		TopK:            cfg.Engine.TopK,
		BackendTimeout:  time.Duration(cfg.Engine.BackendTimeoutMs) * time.Millisecond,
		ExactMatchBonus: cfg.Engine.ExactMatchBonus,
		StockThreshold:  cfg.Engine.StockThreshold,
	})

	// 7. Services
	publisherService := service.NewPublisherService(cfg.App.EmbedProductTopic, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.App.EmbedProductTopic,
		uowFactory,
		embeddingProvider,
	)

	productService := service.NewProductService(uowFactory, publisherService, natsPub)
	conversationService := service.NewConversationService(
		uowFactory,
		sessionStore,
		extractor,
		machine,
		orchestrator,
		workflow,
		responder,
		productService,
		natsPub,
		engineLogger,
	)

	sysLogger.Info("bootstrap", "Container initialized", map[string]interface{}{
		"session_backend":    cfg.App.SessionBackend,
		"embedding_provider": cfg.Ai.EmbeddingProvider,
		"llm_provider":       cfg.Ai.LLMProvider,
	})

	// 8. Controllers
	return &Container{
		ConversationController: controller.NewConversationController(conversationService),
		ProductController:      controller.NewProductController(productService),
		ConsumerService:        consumerService,
		ConversationService:    conversationService,
		ProductService:         productService,
	}
}
