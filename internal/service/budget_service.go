package service

import (
	"context"
	"errors"
	"time"

	"finsight/internal/dto"
	"finsight/internal/models"
	"finsight/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrUnknownCategory = errors.New("unknown category")

type BudgetService struct {
	budgetRepo *repository.BudgetRepository
	txRepo     *repository.TransactionRepository
	logger     *zap.Logger
}

func NewBudgetService(budgetRepo *repository.BudgetRepository, txRepo *repository.TransactionRepository, logger *zap.Logger) *BudgetService {
	return &BudgetService{
		budgetRepo: budgetRepo,
		txRepo:     txRepo,
		logger:     logger,
	}
}

// Set creates or replaces the monthly limit for one category.
func (s *BudgetService) Set(ctx context.Context, userID uuid.UUID, req *dto.SetBudgetRequest) (*dto.BudgetResponse, error) {
	category := models.Category(req.Category)
	if !models.ValidCategory(category) {
		return nil, ErrUnknownCategory
	}

	now := time.Now()
	budget := &models.Budget{
		ID:           uuid.New(),
		UserID:       userID,
		Category:     category,
		MonthlyLimit: req.MonthlyLimit,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.budgetRepo.Upsert(ctx, budget); err != nil {
		return nil, err
	}

	return &dto.BudgetResponse{
		Category:     string(budget.Category),
		MonthlyLimit: budget.MonthlyLimit,
	}, nil
}

func (s *BudgetService) List(ctx context.Context, userID uuid.UUID) ([]dto.BudgetResponse, error) {
	budgets, err := s.budgetRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.BudgetResponse, len(budgets))
	for i, b := range budgets {
		responses[i] = dto.BudgetResponse{
			Category:     string(b.Category),
			MonthlyLimit: b.MonthlyLimit,
		}
	}
	return responses, nil
}

// Progress reports current-month spending against each budgeted category.
func (s *BudgetService) Progress(ctx context.Context, userID uuid.UUID) ([]dto.BudgetProgressResponse, error) {
	budgets, err := s.budgetRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(budgets) == 0 {
		return nil, nil
	}

	transactions, err := s.txRepo.ListByUserID(ctx, userID, repository.TransactionFilter{Type: models.TypeExpense})
	if err != nil {
		return nil, err
	}

	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	spent := make(map[models.Category]float64)
	for _, tx := range transactions {
		if tx.Date.Before(monthStart) {
			continue
		}
		spent[tx.Category] += tx.Amount
	}

	responses := make([]dto.BudgetProgressResponse, len(budgets))
	for i, b := range budgets {
		progress := dto.BudgetProgressResponse{
			Category:     string(b.Category),
			MonthlyLimit: b.MonthlyLimit,
			Spent:        spent[b.Category],
		}
		if b.MonthlyLimit > 0 {
			progress.Percent = progress.Spent / b.MonthlyLimit * 100
		}
		responses[i] = progress
	}
	return responses, nil
}
