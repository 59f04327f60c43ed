package bootstrap

import (
	"context"
	"fmt"
	"log"
	"time"

	"dimensa-be/internal/config"
	"dimensa-be/internal/constant"
	"dimensa-be/internal/controller"
	"dimensa-be/internal/pkg/logger"
	"dimensa-be/internal/repository/contract"
	"dimensa-be/internal/repository/implementation"
	"dimensa-be/internal/repository/memory"
	redisRepo "dimensa-be/internal/repository/redis"
	"dimensa-be/internal/service"
	"dimensa-be/pkg/embedding"
	"dimensa-be/pkg/events"
	"dimensa-be/pkg/generation"
	"dimensa-be/pkg/llm"
	"dimensa-be/pkg/llm/factory"
	pkgMemory "dimensa-be/pkg/memory"
	pktNats "dimensa-be/pkg/nats"
	"dimensa-be/pkg/pipeline"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	GenerationController controller.IGenerationController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	Logger logger.ILogger

	closers []func()
}

// NewContainer constructs every long-lived resource once. db may be nil when
// the in-process vector index is selected.
func NewContainer(db *gorm.DB, cfg *config.Config) (*Container, error) {
	c := &Container{}

	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	auditLogger := logger.NewIsolatedLogger(cfg.App.AuditLogFilePath)
	c.Logger = sysLogger
	c.closers = append(c.closers, func() {
		_ = auditLogger.Sync()
		_ = sysLogger.Sync()
	})

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 64},
		watermillLogger,
	)
	c.closers = append(c.closers, func() { _ = pubSub.Close() })

	var natsPub events.Publisher
	if cfg.App.NatsURL != "" {
		p, err := pktNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		} else {
			natsPub = p
			c.closers = append(c.closers, p.Close)
		}
	}
	publisherService := service.NewPublisherService(pubSub, service.PipelineEventsTopic, natsPub, sysLogger)
	c.ConsumerService = service.NewConsumerService(pubSub, service.PipelineEventsTopic, auditLogger)

	// 3. Memory
	shortTermRepo, err := c.newShortTermRepository(cfg)
	if err != nil {
		return nil, err
	}

	embeddingProvider, err := embedding.NewProvider(
		cfg.Ai.EmbeddingProvider,
		cfg.Ai.EmbeddingModel,
		cfg.Ai.EmbeddingAPIKey,
		embedding.WithBaseURL(cfg.Ai.EmbeddingBaseURL),
	)
	if err != nil {
		return nil, err
	}
	log.Printf("[INFO] Using Embedding Provider: %s (%s)", cfg.Ai.EmbeddingProvider, cfg.Ai.EmbeddingModel)

	recordRepo, err := newMemoryRecordRepository(db, cfg)
	if err != nil {
		return nil, err
	}

	shortTerm := pkgMemory.NewShortTerm(shortTermRepo)
	longTerm := pkgMemory.NewLongTerm(embeddingProvider, recordRepo)
	contextBuilder := pkgMemory.NewContextBuilder(shortTerm, longTerm, cfg.Memory.TopK)

	// 4. Remote services
	timeouts := generation.Timeouts{
		Connect: cfg.Generation.ConnectTimeout,
		Read:    cfg.Generation.ReadTimeout,
		Write:   cfg.Generation.WriteTimeout,
	}
	httpClient := generation.NewHTTPClient(timeouts)

	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.LLMBaseURL,
		cfg.Ai.LLMAPIKey,
		httpClient,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize LLM provider: %w", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	expander := pipeline.NewExpander(
		llmProvider,
		constant.ExpansionSystemPrompt,
		constant.ExpansionUserPromptTemplate,
		llm.WithTemperature(cfg.Ai.LLMTemperature),
	)

	// 5. Services
	orchestrator := pipeline.NewOrchestrator(pipeline.Dependencies{
		ContextBuilder: contextBuilder,
		Expander:       expander,
		Images:         generation.NewImageClient(cfg.Generation.ImageServiceURL, httpClient),
		Models:         generation.NewModelClient(cfg.Generation.Model3DServiceURL, httpClient),
		ShortTerm:      shortTerm,
		LongTerm:       longTerm,
		Publisher:      publisherService,
		Logger:         sysLogger,
	})
	generationService := service.NewGenerationService(orchestrator, cfg.App.PipelineTimeout, sysLogger)

	// 6. Controllers
	c.GenerationController = controller.NewGenerationController(generationService)

	return c, nil
}

// Close releases connections in reverse construction order.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
}

func (c *Container) newShortTermRepository(cfg *config.Config) (contract.ShortTermMemoryRepository, error) {
	switch cfg.Memory.ShortTermBackend {
	case "memory", "":
		return memory.NewShortTermMemoryRepository(), nil
	case "redis":
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
			opt = &redis.Options{
				Addr: cfg.App.RedisURL,
			}
		}
		rdb := redis.NewClient(opt)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if _, err := rdb.Ping(ctx).Result(); err != nil {
			log.Printf("[WARN] Failed to connect to Redis: %v", err)
		}
		c.closers = append(c.closers, func() { _ = rdb.Close() })
		return redisRepo.NewShortTermMemoryRepository(rdb), nil
	default:
		return nil, fmt.Errorf("unsupported short-term backend: %s", cfg.Memory.ShortTermBackend)
	}
}

func newMemoryRecordRepository(db *gorm.DB, cfg *config.Config) (contract.MemoryRecordRepository, error) {
	switch cfg.Memory.VectorBackend {
	case "memory":
		return memory.NewMemoryRecordRepository(), nil
	case "pgvector", "":
		if db == nil {
			return nil, fmt.Errorf("vector backend pgvector requires a database connection")
		}
		repo := implementation.NewMemoryRecordRepository(db)

		// Fails fast when cmd/migrate has not been run
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		count, err := repo.Count(ctx)
		if err != nil {
			return nil, fmt.Errorf("memory index not ready, run cmd/migrate: %w", err)
		}
		log.Printf("[INFO] Long-term memory index ready (%d records)", count)
		return repo, nil
	default:
		return nil, fmt.Errorf("unsupported vector backend: %s", cfg.Memory.VectorBackend)
	}
}
