package main

import (
	"log"

	"recap-backend/config"
	"recap-backend/handlers"
	"recap-backend/llm"
	"recap-backend/observability"
	"recap-backend/repository"
	"recap-backend/service"
	"recap-backend/storage"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := config.NewLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	profile, err := cfg.Profile()
	if err != nil {
		logger.Fatal("Failed to load domain profile", zap.Error(err))
	}

	// Initialize storage
	logStorage, err := storage.NewStorage(cfg.Storage)
	if err != nil {
		logger.Fatal("Failed to initialize storage", zap.Error(err))
	}
	logger.Info("Storage initialized", zap.String("type", string(cfg.Storage.Type)))

	// Initialize completion provider
	completer, err := llm.New(cfg.LLM)
	if err != nil {
		logger.Fatal("Failed to initialize completion provider", zap.Error(err))
	}
	logger.Info("Completion provider initialized", zap.String("provider", completer.Name()))

	metrics := observability.NewMetrics(prometheus.DefaultRegisterer)

	// Initialize repositories
	courtListener := repository.NewCourtListenerRepository(cfg.CourtListener, logger)

	// Initialize services
	caseService := service.NewCaseService(
		service.CaseWithSearcher(courtListener),
		service.CaseWithProfile(profile),
		service.CaseWithLimit(cfg.SearchLimit),
		service.CaseWithTimeout(cfg.CourtListener.Timeout),
		service.CaseWithLogger(logger),
		service.CaseWithMetrics(metrics),
	)

	chatService := service.NewChatService(
		service.ChatWithCaseService(caseService),
		service.ChatWithCompleter(completer),
		service.ChatWithStorage(logStorage),
		service.ChatWithGeneration(cfg.LLM.Model, cfg.LLMTemperature, cfg.LLMMaxTokens),
		service.ChatWithLogger(logger),
		service.ChatWithMetrics(metrics),
	)

	// Initialize handlers
	chatHandler := handlers.NewChatHandler(chatService, logger)
	caseHandler := handlers.NewCaseHandler(caseService, courtListener, logger)

	// Setup Gin router
	r := gin.Default()

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"profile": profile.Name,
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API routes
	api := r.Group("/api")
	{
		// Chat endpoints
		api.POST("/chat", chatHandler.Chat)
		api.GET("/exchanges/:id", chatHandler.GetExchange)

		// Case endpoints
		api.GET("/cases/search", caseHandler.SearchCases)
		api.GET("/dockets/:id", caseHandler.GetDocket)
		api.GET("/recap-documents/:id", caseHandler.GetRecapDocument)
	}

	logger.Info("Server starting", zap.String("port", cfg.Port), zap.String("profile", profile.Name))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Fatal("Failed to start server", zap.Error(err))
	}
}
