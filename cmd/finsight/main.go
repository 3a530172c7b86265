package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"finsight/internal/api"
	"finsight/internal/api/handlers"
	"finsight/internal/repository"
	"finsight/internal/service"
	"finsight/pkg/auth"
	"finsight/pkg/config"
	"finsight/pkg/logger"
	"finsight/pkg/postgres"

	"go.uber.org/zap"
)

// @title Finsight API
// @version 1.0
// @description AI-powered personal finance backend: document-to-transaction extraction, analytics and advisory chat
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@finsight.dev

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize global logger
	if err := logger.Init(cfg.Logger.Level); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	appLogger := logger.Get()
	appLogger.Info("Starting Finsight service")

	// Initialize database
	ctx := context.Background()
	db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Initialize repositories
	userRepo := repository.NewUserRepository(db, appLogger)
	docRepo := repository.NewDocumentRepository(db, appLogger)
	txRepo := repository.NewTransactionRepository(db, appLogger)
	budgetRepo := repository.NewBudgetRepository(db, appLogger)

	// Initialize JWT manager
	jwtManager := auth.NewJWTManager(cfg.JWT.SecretKey, cfg.JWT.Expiration, cfg.JWT.RefreshExp)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtManager, appLogger)

	llmService, err := service.NewLLMService(&cfg.GigaChat, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize LLM service", zap.Error(err))
	}
	defer llmService.Close()

	ocrService := service.NewOCRService(cfg.OCR.Languages, appLogger)
	csvService := service.NewCSVService(cfg.Currency.BaseCurrency, appLogger)
	extractionService := service.NewExtractionService(llmService, csvService, ocrService, ocrService, appLogger)

	currencyService := service.NewCurrencyService(
		cfg.Currency.RateAPIURL,
		cfg.Currency.RequestTimeout,
		service.NewMemoryRateCache(),
		cfg.Currency.FallbackRates,
		appLogger,
	)

	docService := service.NewDocumentService(docRepo, txRepo, extractionService, currencyService, cfg.Currency.BaseCurrency, cfg.Upload.Dir, appLogger)
	txService := service.NewTransactionService(txRepo, appLogger)
	budgetService := service.NewBudgetService(budgetRepo, txRepo, appLogger)
	insightsService := service.NewInsightsService(cfg.Currency.BaseCurrency, appLogger)
	analyticsService := service.NewAnalyticsService(txRepo, insightsService, cfg.Currency.BaseCurrency, appLogger)
	advisorService := service.NewAdvisorService(llmService, appLogger)
	chatService := service.NewChatService(advisorService, txRepo, budgetRepo, cfg.Currency.BaseCurrency, appLogger)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, appLogger)
	docHandler := handlers.NewDocumentHandler(docService, appLogger)
	txHandler := handlers.NewTransactionHandler(txService, appLogger)
	budgetHandler := handlers.NewBudgetHandler(budgetService, appLogger)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService, appLogger)
	chatHandler := handlers.NewChatHandler(chatService, appLogger)

	// Setup router
	app := api.SetupRouter(
		authHandler,
		docHandler,
		txHandler,
		budgetHandler,
		analyticsHandler,
		chatHandler,
		jwtManager,
		cfg.Upload.Dir,
		appLogger,
	)

	// Start server
	go func() {
		addr := ":" + cfg.Server.Port
		appLogger.Info("Server starting", zap.String("address", addr))
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server")
	if err := app.Shutdown(); err != nil {
		appLogger.Error("Server shutdown error", zap.Error(err))
	}
}
