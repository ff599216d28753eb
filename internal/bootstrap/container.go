package bootstrap

import (
	"log"

	"github.com/redis/go-redis/v9"

	"github.com/404-t/lotobot-backend/internal/config"
	"github.com/404-t/lotobot-backend/internal/controller"
	"github.com/404-t/lotobot-backend/internal/pkg/logger"
	"github.com/404-t/lotobot-backend/internal/repository/memory"
	"github.com/404-t/lotobot-backend/internal/service"
	"github.com/404-t/lotobot-backend/pkg/ai/agent"
	"github.com/404-t/lotobot-backend/pkg/cache"
	"github.com/404-t/lotobot-backend/pkg/embedding"
	"github.com/404-t/lotobot-backend/pkg/llm/factory"
	"github.com/404-t/lotobot-backend/pkg/rag"
	"github.com/404-t/lotobot-backend/pkg/stoloto"
)

type Container struct {
	// Controllers
	AiController      controller.IAiController
	StolotoController controller.IStolotoController

	// Exposed for background warmup in main.go
	Agent *agent.Agent

	stolotoClient *stoloto.Client
	store         *cache.Store
	logger        logger.ILogger
}

func NewContainer(cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	opts, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Panicf("Invalid REDIS_URL: %v", err)
	}
	rdb := redis.NewClient(opts)
	store := cache.NewStore(rdb, sysLogger)

	// 2. Upstream Gateway
	stolotoClient := stoloto.NewClient(cfg.Stoloto.RateLimit, cfg.Stoloto.PartnerToken, cfg.Stoloto.UserAgent, sysLogger)

	mainSection := stoloto.NewMainSection(stolotoClient, cfg.Stoloto.CMSBaseURL, cfg.Stoloto.SectionTTL)
	tabsSection := stoloto.NewTabsSection(stolotoClient, cfg.Stoloto.CMSBaseURL, cfg.Stoloto.SectionTTL)
	packetsSection := stoloto.NewPacketsSection(stolotoClient, cfg.Stoloto.MobileBaseURL, cfg.Stoloto.SectionTTL)

	// 3. AI Providers
	var embeddingProvider embedding.Provider
	if cfg.Ai.EmbeddingProvider == "gemini" {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Ai.GeminiApiKey)
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	} else {
		embeddingProvider = embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.OllamaEmbeddingModel)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaEmbeddingModel)
	}

	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		llmBaseURL(cfg),
		cfg.Ai.LLMApiKey,
	)
	if err != nil {
		log.Panicf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 4. Retrieval Core
	index := rag.NewIndex(embeddingProvider, sysLogger)
	aiAgent := agent.New(llmProvider, index, store, mainSection, tabsSection, packetsSection, sysLogger)

	// 5. Session Layer
	sessionRegistry := memory.NewSessionRegistry()
	chatLogger := logger.NewIsolatedLogger(cfg.App.ChatLogFilePath)
	chatService := service.NewChatService(aiAgent, store, sessionRegistry, chatLogger)

	// 6. Controllers
	return &Container{
		AiController:      controller.NewAiController(aiAgent, chatService, chatLogger),
		StolotoController: controller.NewStolotoController(stolotoClient, store, cfg, sysLogger, mainSection, tabsSection, packetsSection),
		Agent:             aiAgent,
		stolotoClient:     stolotoClient,
		store:             store,
		logger:            sysLogger,
	}
}

// Close releases the container's long-lived resources.
func (c *Container) Close() {
	c.stolotoClient.Close()
	if err := c.store.Close(); err != nil {
		c.logger.Warn("Bootstrap", "Failed to close redis store", map[string]interface{}{"error": err.Error()})
	}
	_ = c.logger.Sync()
}

func llmBaseURL(cfg *config.Config) string {
	if cfg.Ai.LLMProvider == "ollama" {
		return cfg.Ai.OllamaBaseURL
	}
	return cfg.Ai.LLMBaseURL
}
