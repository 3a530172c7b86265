package service

import (
	"context"
	"fmt"
	"strings"

	"finsight/internal/models"
	"finsight/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// maxContextTransactions bounds how many recent transactions are spelled out
// line by line in the advisor prompt. Totals cover the rest.
const maxContextTransactions = 10

// ChatService assembles the user's financial context from persisted data and
// forwards the conversation to the advisor.
type ChatService struct {
	advisor      *AdvisorService
	txRepo       *repository.TransactionRepository
	budgetRepo   *repository.BudgetRepository
	baseCurrency string
	logger       *zap.Logger
}

func NewChatService(advisor *AdvisorService, txRepo *repository.TransactionRepository, budgetRepo *repository.BudgetRepository, baseCurrency string, logger *zap.Logger) *ChatService {
	return &ChatService{
		advisor:      advisor,
		txRepo:       txRepo,
		budgetRepo:   budgetRepo,
		baseCurrency: baseCurrency,
		logger:       logger,
	}
}

func (s *ChatService) Chat(ctx context.Context, userID uuid.UUID, message string, history []ChatTurn) (string, error) {
	financialContext, err := s.buildContext(ctx, userID)
	if err != nil {
		return "", err
	}
	return s.advisor.Respond(ctx, message, financialContext, history)
}

// buildContext summarizes the user's data as plain text: totals, expense
// breakdown by category, budgets and the most recent transactions.
func (s *ChatService) buildContext(ctx context.Context, userID uuid.UUID) (string, error) {
	transactions, err := s.txRepo.ListByUserID(ctx, userID, repository.TransactionFilter{})
	if err != nil {
		return "", fmt.Errorf("failed to load transactions: %w", err)
	}

	var builder strings.Builder

	var totalIncome, totalExpense float64
	byCategory := make(map[models.Category]float64)
	for _, tx := range transactions {
		switch tx.Type {
		case models.TypeIncome:
			totalIncome += tx.Amount
		case models.TypeExpense:
			totalExpense += tx.Amount
			byCategory[tx.Category] += tx.Amount
		}
	}

	fmt.Fprintf(&builder, "Total income: %.2f %s\n", totalIncome, s.baseCurrency)
	fmt.Fprintf(&builder, "Total expenses: %.2f %s\n", totalExpense, s.baseCurrency)
	fmt.Fprintf(&builder, "Net balance: %.2f %s\n", totalIncome-totalExpense, s.baseCurrency)

	if len(byCategory) > 0 {
		builder.WriteString("\nExpenses by category:\n")
		for _, cat := range models.Categories {
			if sum, ok := byCategory[cat]; ok {
				fmt.Fprintf(&builder, "- %s: %.2f %s\n", cat, sum, s.baseCurrency)
			}
		}
	}

	budgets, err := s.budgetRepo.ListByUserID(ctx, userID)
	if err != nil {
		s.logger.Warn("Failed to load budgets for chat context", zap.Error(err))
	} else if len(budgets) > 0 {
		builder.WriteString("\nMonthly budgets:\n")
		for _, b := range budgets {
			fmt.Fprintf(&builder, "- %s: %.2f %s\n", b.Category, b.MonthlyLimit, s.baseCurrency)
		}
	}

	if len(transactions) > 0 {
		builder.WriteString("\nRecent transactions:\n")
		limit := len(transactions)
		if limit > maxContextTransactions {
			limit = maxContextTransactions
		}
		for _, tx := range transactions[:limit] {
			fmt.Fprintf(&builder, "- %s | %s | %.2f %s | %s | %s\n",
				tx.Date.Format("2006-01-02"), tx.Description, tx.Amount, tx.Currency, tx.Category, tx.Type)
		}
	} else {
		builder.WriteString("\nNo transactions recorded yet.\n")
	}

	return builder.String(), nil
}
