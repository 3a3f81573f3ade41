package bootstrap

import (
	"context"
	"log"

	"tubemind-be/internal/config"
	"tubemind-be/internal/controller"
	"tubemind-be/internal/handler"
	"tubemind-be/internal/pkg/logger"
	"tubemind-be/internal/repository/memory"
	"tubemind-be/internal/repository/unitofwork"
	"tubemind-be/internal/service"
	"tubemind-be/internal/websocket"
	"tubemind-be/pkg/agent"
	"tubemind-be/pkg/embedding"
	embeddingJina "tubemind-be/pkg/embedding/jina"
	"tubemind-be/pkg/llm/factory"
	"tubemind-be/pkg/recommend"
	rerankJina "tubemind-be/pkg/rerank/jina"
	"tubemind-be/pkg/retrieval"
	"tubemind-be/pkg/search"
	"tubemind-be/pkg/transcript"

	pktNats "tubemind-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	ChatController  controller.IChatController
	VideoController controller.IVideoController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// WebSockets
	ChatHandler  *handler.ChatHandler
	WebSocketHub *websocket.Hub
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. AI Providers
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "jina" {
		embeddingProvider = embeddingJina.NewJinaProvider(cfg.Keys.Jina)
		log.Printf("[INFO] Using Embedding Provider: JINA AI")
	} else {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.OllamaModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	}

	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Keys.Groq,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	reranker := rerankJina.NewJinaReranker(cfg.Keys.Jina)

	// In-Memory Session Storage
	sessionRepo := memory.NewSessionRepository()

	// 4. Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
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
	wsLogger := logger.NewIsolatedLogger("logs/chat_ws.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// 5. Retrieval Pipeline
	llmLogger := service.NewLLMLogger()
	retriever := retrieval.NewRetriever(
		embeddingProvider,
		reranker,
		&passageSource{uowFactory: uowFactory},
		llmLogger,
	)

	// 6. Search & Transcript plumbing
	webSearcher := search.NewDuckDuckGo()
	summarizer := search.NewWikipedia()
	videoSearcher := search.NewYouTubeSearch()
	fetcher := transcript.NewYouTubeFetcher()
	recommender := recommend.NewRecommender(llmProvider, videoSearcher, webSearcher, llmLogger)

	// 7. Orchestration Graph
	graph := agent.NewGraph(
		agent.NewRouterNode(llmProvider, llmLogger),
		agent.NewGroundedAgent(llmProvider, webSearcher, llmLogger),
		agent.NewWebSearchAgent(llmProvider, webSearcher, summarizer, llmLogger),
		agent.NewConversationalAgent(llmProvider, llmLogger),
		agent.NewSuggestionNode(llmProvider, llmLogger),
		llmLogger,
	)

	// 8. Services
	publisherService := service.NewPublisherService(cfg.Keys.IngestTopic, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Keys.IngestTopic,
		uowFactory,
		embeddingProvider,
		natsPub,
	)

	videoService := service.NewVideoService(
		uowFactory,
		fetcher,
		publisherService,
		recommender,
		sysLogger,
	)

	chatService := service.NewChatService(
		uowFactory,
		sessionRepo,
		retriever,
		graph,
		wsHub,
		sysLogger,
		llmLogger,
	)

	// 9. Handlers & Controllers
	chatHandler := handler.NewChatHandler(wsHub, chatService, wsLogger)

	return &Container{
		ChatController:  controller.NewChatController(chatService),
		VideoController: controller.NewVideoController(videoService),
		ConsumerService: consumerService,
		ChatHandler:     chatHandler,
		WebSocketHub:    wsHub,
	}
}
