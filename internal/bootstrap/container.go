package bootstrap

import (
	"context"
	"log"
	"time"

	"ai-docqa-be/internal/config"
	"ai-docqa-be/internal/controller"
	"ai-docqa-be/internal/pkg/logger"
	"ai-docqa-be/internal/repository/contract"
	"ai-docqa-be/internal/repository/implementation"
	"ai-docqa-be/internal/repository/memory"
	"ai-docqa-be/internal/service"
	"ai-docqa-be/pkg/cache"
	"ai-docqa-be/pkg/chunker"
	"ai-docqa-be/pkg/embedding"
	"ai-docqa-be/pkg/llm/factory"
	"ai-docqa-be/pkg/parser"
	"ai-docqa-be/pkg/rag/pipeline"
	"ai-docqa-be/pkg/rag/response"
	"ai-docqa-be/pkg/rag/retriever"
	"ai-docqa-be/pkg/storage"

	pktNats "ai-docqa-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	CorpusController controller.ICorpusController

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

	// 3. Embedding Provider
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.OllamaModel,
			cfg.Ai.EmbeddingDimension,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	} else {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Keys.GoogleGemini, cfg.Ai.EmbeddingDimension)
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	}
	embeddingProvider = embedding.NewRetryingProvider(embeddingProvider, cfg.Rag.RetryAttempts)

	// 4. LLM Provider
	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Keys.GoogleGemini,
		time.Duration(cfg.Ai.LLMTimeoutSeconds)*time.Second,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 5. Storage Backends
	var vectorIndex contract.VectorIndex
	var documentRepo contract.DocumentRepository
	if cfg.Rag.IndexDriver == "memory" {
		vectorIndex = memory.NewVectorIndex(cfg.Ai.EmbeddingDimension)
		documentRepo = memory.NewDocumentRepository()
		log.Printf("[INFO] Using Vector Index: MEMORY (dim=%d)", cfg.Ai.EmbeddingDimension)
	} else {
		if db == nil {
			log.Fatalf("[FATAL] pgvector index requires a database connection")
		}
		vectorIndex = implementation.NewPgVectorIndex(db, cfg.Ai.EmbeddingDimension)
		documentRepo = implementation.NewDocumentRepository(db)
		log.Printf("[INFO] Using Vector Index: PGVECTOR (dim=%d)", cfg.Ai.EmbeddingDimension)
	}

	// 6. Query Embedding Cache
	var vectorCache cache.VectorCache
	if cfg.Rag.CacheDriver == "redis" {
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
		vectorCache = cache.NewRedisCache(rdb, 1*time.Hour)
		log.Printf("[INFO] Using Embedding Cache: REDIS")
	} else {
		vectorCache = cache.NewMemoryCache(1 * time.Hour)
		log.Printf("[INFO] Using Embedding Cache: MEMORY")
	}

	// 7. NATS Event Bus
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}

	// 8. Pipeline Components
	documentParser := parser.NewDocumentParser()
	textChunker, err := chunker.New(cfg.Rag.ChunkSize, cfg.Rag.ChunkOverlap)
	if err != nil {
		log.Fatalf("[FATAL] Invalid chunker configuration: %v", err)
	}

	ingestPipeline := pipeline.New(
		documentParser,
		textChunker,
		embeddingProvider,
		vectorIndex,
		documentRepo,
		sysLogger,
	)
	chunkRetriever := retriever.New(
		embeddingProvider,
		vectorCache,
		vectorIndex,
		cfg.Rag.TopKMax,
		sysLogger,
	)
	generator := response.NewGenerator(llmProvider, cfg.Rag.SimilarityThreshold, sysLogger)

	fetcher := storage.NewHTTPFetcher(0)

	// 9. Services
	publisherService := service.NewPublisherService(cfg.Keys.IngestTopic, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Keys.IngestTopic,
		ingestPipeline,
		fetcher,
		natsPub,
		sysLogger,
	)

	corpusService := service.NewCorpusService(
		ingestPipeline,
		chunkRetriever,
		generator,
		vectorIndex,
		documentRepo,
		publisherService,
		natsPub,
		cfg.Rag.TopKDefault,
		sysLogger,
	)

	// 10. Controllers
	return &Container{
		CorpusController: controller.NewCorpusController(corpusService),
		ConsumerService:  consumerService,
	}
}
