package main

import (
	"context"
	"log"
	"time"

	"finsight/internal/models"
	"finsight/internal/repository"
	"finsight/pkg/auth"
	"finsight/pkg/config"
	"finsight/pkg/logger"
	"finsight/pkg/postgres"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	demoEmail    = "demo@finsight.dev"
	demoUsername = "demo"
	demoPassword = "demo12345"
)

// Seeds a demo user with sample budgets and transactions so the API has
// data to show right after a fresh database is created.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Logger.Level); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	appLogger := logger.Get()

	ctx := context.Background()
	db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	userRepo := repository.NewUserRepository(db, appLogger)
	docRepo := repository.NewDocumentRepository(db, appLogger)
	txRepo := repository.NewTransactionRepository(db, appLogger)
	budgetRepo := repository.NewBudgetRepository(db, appLogger)

	appLogger.Info("Starting database seeding")

	userID, err := seedUser(ctx, userRepo, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to seed demo user", zap.Error(err))
	}

	if err := seedBudgets(ctx, budgetRepo, userID); err != nil {
		appLogger.Fatal("Failed to seed budgets", zap.Error(err))
	}

	if err := seedTransactions(ctx, docRepo, txRepo, userID, cfg.Currency.BaseCurrency); err != nil {
		appLogger.Fatal("Failed to seed transactions", zap.Error(err))
	}

	appLogger.Info("Database seeding completed",
		zap.String("email", demoEmail),
		zap.String("password", demoPassword),
	)
}

func seedUser(ctx context.Context, userRepo *repository.UserRepository, logger *zap.Logger) (uuid.UUID, error) {
	if existing, err := userRepo.GetByEmail(ctx, demoEmail); err == nil {
		logger.Info("Demo user already exists, reusing", zap.String("id", existing.ID.String()))
		return existing.ID, nil
	}

	hash, err := auth.HashPassword(demoPassword)
	if err != nil {
		return uuid.Nil, err
	}

	now := time.Now()
	user := &models.User{
		ID:        uuid.New(),
		Username:  demoUsername,
		Email:     demoEmail,
		Password:  hash,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := userRepo.Create(ctx, user); err != nil {
		return uuid.Nil, err
	}
	return user.ID, nil
}

func seedBudgets(ctx context.Context, budgetRepo *repository.BudgetRepository, userID uuid.UUID) error {
	limits := map[models.Category]float64{
		models.CategoryFood:          5000,
		models.CategoryTransport:     1500,
		models.CategoryShopping:      3000,
		models.CategoryEntertainment: 2000,
		models.CategoryHousing:       12000,
	}

	now := time.Now()
	for category, limit := range limits {
		budget := &models.Budget{
			ID:           uuid.New(),
			UserID:       userID,
			Category:     category,
			MonthlyLimit: limit,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := budgetRepo.Upsert(ctx, budget); err != nil {
			return err
		}
	}
	return nil
}

func seedTransactions(ctx context.Context, docRepo *repository.DocumentRepository, txRepo *repository.TransactionRepository, userID uuid.UUID, currency string) error {
	now := time.Now()

	// One synthetic statement document to own the transactions.
	doc := &models.Document{
		ID:        uuid.New(),
		UserID:    userID,
		Type:      models.DocTypeBankStatement,
		FileName:  "seed-statement.csv",
		FileSize:  0,
		FileURL:   "",
		Summary:   "Seeded demo statement",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := docRepo.Create(ctx, doc); err != nil {
		return err
	}

	samples := []struct {
		daysAgo     int
		description string
		amount      float64
		category    models.Category
		txType      models.TransactionType
	}{
		{1, "ICA Supermarket", 642.50, models.CategoryFood, models.TypeExpense},
		{2, "SL Monthly Pass", 970, models.CategoryTransport, models.TypeExpense},
		{3, "Spotify Premium", 119, models.CategoryEntertainment, models.TypeExpense},
		{5, "Apotek Hjärtat", 245.90, models.CategoryHealth, models.TypeExpense},
		{7, "H&M Online", 899, models.CategoryShopping, models.TypeExpense},
		{10, "Rent March", 11500, models.CategoryHousing, models.TypeExpense},
		{12, "Willys Groceries", 812.35, models.CategoryFood, models.TypeExpense},
		{14, "Cinema Tickets", 320, models.CategoryEntertainment, models.TypeExpense},
		{20, "Udemy Course", 149, models.CategoryEducation, models.TypeExpense},
		{25, "Monthly Salary", 38500, models.CategorySalary, models.TypeIncome},
		{32, "ICA Supermarket", 555.20, models.CategoryFood, models.TypeExpense},
		{40, "Rent February", 11500, models.CategoryHousing, models.TypeExpense},
		{55, "Monthly Salary", 38500, models.CategorySalary, models.TypeIncome},
	}

	transactions := make([]*models.Transaction, len(samples))
	for i, s := range samples {
		transactions[i] = &models.Transaction{
			ID:          uuid.New(),
			DocumentID:  doc.ID,
			UserID:      userID,
			Date:        now.AddDate(0, 0, -s.daysAgo),
			Description: s.description,
			Amount:      s.amount,
			Currency:    currency,
			Category:    s.category,
			Type:        s.txType,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
	}

	return txRepo.CreateBatch(ctx, transactions)
}
