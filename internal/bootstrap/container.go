package bootstrap

import (
	"context"
	"log"
	"os"

	"cargo-chatbot-be/internal/config"
	"cargo-chatbot-be/internal/controller"
	"cargo-chatbot-be/internal/pkg/logger"
	"cargo-chatbot-be/internal/pkg/mailer"
	"cargo-chatbot-be/internal/repository/unitofwork"
	"cargo-chatbot-be/internal/service"
	"cargo-chatbot-be/internal/websocket"
	"cargo-chatbot-be/pkg/embedding"
	"cargo-chatbot-be/pkg/llm/factory"
	"cargo-chatbot-be/pkg/rag/generate"
	"cargo-chatbot-be/pkg/rag/pipeline"
	"cargo-chatbot-be/pkg/rag/retrieve"
	"cargo-chatbot-be/pkg/rag/search"
	"cargo-chatbot-be/pkg/rag/session"

	pktNats "cargo-chatbot-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	ChatController       controller.IChatController
	AnalyticsController  controller.IAnalyticsController
	EscalationController controller.IEscalationController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// WebSockets
	WebSocketHub *websocket.Hub

	// Session store, exposed for the expiry sweeper in main.go
	SessionManager *session.Manager
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
	)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. AI Providers
	embeddingProvider, err := embedding.NewEmbeddingProvider(
		cfg.Ai.EmbeddingProvider,
		cfg.Ai.EmbeddingModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Keys.OpenAI,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize Embedding Provider: %v", err)
	}
	log.Printf("[INFO] Using Embedding Provider: %s (%s)", cfg.Ai.EmbeddingProvider, cfg.Ai.EmbeddingModel)

	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Keys.OpenAI,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// In-memory conversation sessions
	sessionManager := session.NewManager()
	sessionManager.SetDefaultWindowSize(cfg.Chat.DefaultWindowSize)

	// 3.5 Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}

	// Redis
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
		rdb = nil
	}

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/escalation.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	publisherService := service.NewPublisherService(cfg.Keys.InteractionTopic, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Keys.InteractionTopic,
		uowFactory,
	)

	// 4. RAG Pipeline
	ragLogger := log.New(os.Stdout, "", log.LstdFlags)
	searcher := search.NewSearcher(embeddingProvider, uowFactory, ragLogger)
	retriever := retrieve.NewRetriever(searcher, ragLogger)
	generator := generate.NewGenerator(llmProvider, ragLogger)
	ragPipeline := pipeline.New(retriever, generator, ragLogger)

	// 5. Services
	chatService := service.NewChatService(
		sessionManager,
		ragPipeline,
		publisherService,
		natsPub,
		sysLogger,
	)
	analyticsService := service.NewAnalyticsService(uowFactory, sysLogger)

	escalationService := service.NewEscalationService(
		natsSub,
		wsHub,
		emailService,
		cfg.App.SupportEmail,
		wsLogger,
	)
	if natsSub != nil {
		go escalationService.Start()
	}

	// 6. Controllers
	return &Container{
		ChatController:       controller.NewChatController(chatService),
		AnalyticsController:  controller.NewAnalyticsController(analyticsService),
		EscalationController: controller.NewEscalationController(wsHub, wsLogger),
		ConsumerService:      consumerService,
		WebSocketHub:         wsHub,
		SessionManager:       sessionManager,
	}
}
