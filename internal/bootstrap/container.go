package bootstrap

import (
	"context"
	"fmt"
	"log"
	"time"

	"ai-triage-be/internal/config"
	"ai-triage-be/internal/constant"
	"ai-triage-be/internal/controller"
	"ai-triage-be/internal/pkg/logger"
	"ai-triage-be/internal/repository/memory"
	"ai-triage-be/internal/repository/unitofwork"
	"ai-triage-be/internal/service"
	"ai-triage-be/pkg/ai/pipeline"
	"ai-triage-be/pkg/ai/prompt"
	"ai-triage-be/pkg/ai/reasoning"
	"ai-triage-be/pkg/ai/scrubber"
	"ai-triage-be/pkg/archive"
	"ai-triage-be/pkg/llm"
	"ai-triage-be/pkg/llm/ollama"
	"ai-triage-be/pkg/lock"
	pktNats "ai-triage-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	Logger logger.ILogger

	TriageController controller.ITriageController
	TriageEngine     service.ITriageEngine

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	closers []func()
}

// Close releases connections opened by NewContainer.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
}

// NewContainer wires the application. A nil db selects the in-memory store.
func NewContainer(ctx context.Context, db *gorm.DB, cfg *config.Config) (*Container, error) {
	c := &Container{}

	// 1. Logging
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.IsProduction(), logger.ParseLevel(cfg.App.LogLevel))
	auditLogger := logger.NewIsolatedLogger(cfg.App.AuditLogFilePath)
	c.Logger = sysLogger
	c.closers = append(c.closers, func() {
		_ = sysLogger.Sync()
		_ = auditLogger.Sync()
	})

	// 2. Storage
	var uowFactory unitofwork.RepositoryFactory
	if db != nil {
		uowFactory = unitofwork.NewRepositoryFactory(db)
	} else {
		sysLogger.Warn("BOOTSTRAP", "No database configured, using in-memory store", nil)
		uowFactory = memory.NewRepositoryFactory(memory.NewStore(0))
	}

	// 3. Event Bus
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NewStdLogger(false, false))
	c.closers = append(c.closers, func() { _ = pubSub.Close() })

	var natsPub *pktNats.Publisher
	if cfg.App.NatsURL != "" {
		p, err := pktNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		} else {
			natsPub = p
			c.closers = append(c.closers, p.Close)
		}
	}
	publisher := service.NewEventPublisher(constant.TriageEventsTopic, pubSub, natsPub, sysLogger)

	// 4. Locking
	locker, err := newLocker(ctx, cfg, sysLogger)
	if err != nil {
		return nil, err
	}

	// 5. AI pipeline
	prompts := prompt.Default()
	if cfg.Ai.PromptOverridesPath != "" {
		prompts, err = prompt.Load(cfg.Ai.PromptOverridesPath)
		if err != nil {
			return nil, fmt.Errorf("load prompt overrides: %w", err)
		}
	}

	active := cfg.Ai.Active()
	provider, err := reasoning.New(ctx, reasoning.Config{
		Provider:    cfg.Ai.ActiveLLM,
		Model:       active.Model,
		BaseURL:     active.BaseURL,
		APIKey:      active.APIKey,
		Timeout:     cfg.Ai.Timeout,
		Temperature: cfg.Ai.Temperature,
		MaxTokens:   cfg.Ai.MaxTokens,
	})
	if err != nil {
		return nil, err
	}

	var scrubEngine llm.LLMProvider
	if cfg.Scrubber.Enabled {
		scrubEngine = ollama.NewOllamaProvider(cfg.Scrubber.BaseURL, cfg.Scrubber.Model, cfg.Scrubber.Timeout)
	}
	sanitizer := scrubber.New(scrubEngine, prompts, sysLogger,
		scrubber.WithTimeout(cfg.Scrubber.Timeout),
		scrubber.WithCacheSize(cfg.Scrubber.CacheSize),
		scrubber.WithAuditSink(service.NewScrubAuditSink(publisher)),
	)

	interview := pipeline.NewInterviewPipeline(sanitizer, provider, prompts, sysLogger)

	// 6. Archive
	var archiver archive.Archiver
	if cfg.Storage.Enabled() {
		store, err := archive.NewS3Store(archive.S3Config{
			Endpoint:  cfg.Storage.Endpoint,
			AccessKey: cfg.Storage.AccessKey,
			SecretKey: cfg.Storage.SecretKey,
			Bucket:    cfg.Storage.Bucket,
			UseSSL:    cfg.Storage.UseSSL,
		})
		if err != nil {
			log.Printf("[WARN] Archive disabled: %v", err)
		} else {
			archiver = store
		}
	}

	// 7. Services
	c.TriageEngine = service.NewTriageEngine(uowFactory, interview, locker, publisher, sysLogger)
	c.ConsumerService = service.NewConsumerService(pubSub, constant.TriageEventsTopic, uowFactory, archiver, auditLogger, sysLogger)

	// 8. Controllers
	c.TriageController = controller.NewTriageController(c.TriageEngine, cfg.App.JwtSecret)

	sysLogger.Info("BOOTSTRAP", "Container ready", map[string]interface{}{
		"provider":       provider.Name(),
		"scrubber":       cfg.Scrubber.Enabled,
		"lock_backend":   cfg.Lock.Backend,
		"archive":        archiver != nil,
		"prompt_version": prompts.Version,
	})

	return c, nil
}

func newLocker(ctx context.Context, cfg *config.Config, sysLogger logger.ILogger) (lock.Locker, error) {
	if cfg.Lock.Backend != "redis" {
		return lock.NewLocalLocker(), nil
	}

	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{Addr: cfg.App.RedisURL}
	}
	rdb := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis lock backend unavailable: %w", err)
	}

	sysLogger.Info("BOOTSTRAP", "Using Redis encounter locks", map[string]interface{}{"ttl": cfg.Lock.TTL.String()})
	return lock.NewRedisLocker(rdb, cfg.Lock.TTL), nil
}
