package api

import (
	"finsight/docs"
	"finsight/internal/api/handlers"
	"finsight/pkg/auth"
	"finsight/pkg/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"
)

func SetupRouter(
	authHandler *handlers.AuthHandler,
	docHandler *handlers.DocumentHandler,
	txHandler *handlers.TransactionHandler,
	budgetHandler *handlers.BudgetHandler,
	analyticsHandler *handlers.AnalyticsHandler,
	chatHandler *handlers.ChatHandler,
	jwtManager *auth.JWTManager,
	uploadDir string,
	appLogger *zap.Logger,
) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	// Middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))
	app.Use(logger.New())

	// Swagger docs are registered by the docs package init()
	_ = docs.SwaggerInfo
	app.Get("/swagger/*", swagger.HandlerDefault)

	app.Static("/uploads", uploadDir)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Auth routes (public)
	authGroup := app.Group("/user/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/refresh", authHandler.RefreshToken)

	// Protected routes
	protected := app.Group("/api/v1", middleware.AuthMiddleware(jwtManager, appLogger))

	documents := protected.Group("/documents")
	documents.Post("/upload", docHandler.UploadDocument)
	documents.Get("", docHandler.ListDocuments)
	documents.Post("/:id/process", docHandler.ProcessDocument)

	transactions := protected.Group("/transactions")
	transactions.Get("", txHandler.ListTransactions)
	transactions.Get("/export", txHandler.ExportTransactions)

	budgets := protected.Group("/budgets")
	budgets.Post("", budgetHandler.SetBudget)
	budgets.Get("", budgetHandler.ListBudgets)
	budgets.Get("/progress", budgetHandler.BudgetProgress)

	analytics := protected.Group("/analytics")
	analytics.Get("/summary", analyticsHandler.Summary)
	analytics.Get("/categories", analyticsHandler.CategoryBreakdown)
	analytics.Get("/monthly", analyticsHandler.MonthlySeries)
	analytics.Get("/weekdays", analyticsHandler.WeekdaySpend)
	analytics.Get("/insights", analyticsHandler.Insights)

	protected.Post("/chat", chatHandler.Chat)

	return app
}
