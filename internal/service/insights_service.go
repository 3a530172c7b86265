package service

import (
	"fmt"
	"sort"

	"finsight/internal/models"

	"go.uber.org/zap"
)

// InsightsService derives headline observations and warnings from a user's
// persisted transactions for the dashboard.
type InsightsService struct {
	baseCurrency string
	logger       *zap.Logger
}

func NewInsightsService(baseCurrency string, logger *zap.Logger) *InsightsService {
	return &InsightsService{
		baseCurrency: baseCurrency,
		logger:       logger,
	}
}

// Generate computes insights and warnings over the given transactions.
func (s *InsightsService) Generate(transactions []models.Transaction) (insights, warnings []string) {
	if len(transactions) == 0 {
		return nil, nil
	}

	var expenses []models.Transaction
	var totalExpense, totalIncome float64
	byCategory := make(map[models.Category]float64)

	for _, tx := range transactions {
		switch tx.Type {
		case models.TypeExpense:
			expenses = append(expenses, tx)
			totalExpense += tx.Amount
			byCategory[tx.Category] += tx.Amount
		case models.TypeIncome:
			totalIncome += tx.Amount
		}
	}

	if len(expenses) > 0 && totalExpense > 0 {
		topCat, topSum := topCategory(byCategory)
		insights = append(insights, fmt.Sprintf(
			"Biggest spending category: %s at %.0f%% of total expenses",
			topCat, topSum/totalExpense*100,
		))

		avg := totalExpense / float64(len(expenses))
		insights = append(insights, fmt.Sprintf(
			"Average transaction value: %.0f %s", avg, s.baseCurrency,
		))

		if outliers := countAboveP90(expenses); outliers > 0 {
			warnings = append(warnings, fmt.Sprintf(
				"You have %d unusually large transactions worth reviewing", outliers,
			))
		}
	}

	if totalIncome > 0 && totalExpense > 0 {
		ratio := totalExpense / totalIncome * 100
		if ratio > 80 {
			warnings = append(warnings, fmt.Sprintf(
				"Your expenses are %.0f%% of your income, budget is tight", ratio,
			))
		} else {
			insights = append(insights, fmt.Sprintf(
				"Your expenses are %.0f%% of your income, finances look healthy", ratio,
			))
		}
	}

	return insights, warnings
}

func topCategory(byCategory map[models.Category]float64) (models.Category, float64) {
	var best models.Category
	var bestSum float64
	for cat, sum := range byCategory {
		if sum > bestSum || (sum == bestSum && cat < best) {
			best = cat
			bestSum = sum
		}
	}
	return best, bestSum
}

// countAboveP90 counts expenses strictly above the 90th percentile amount.
func countAboveP90(expenses []models.Transaction) int {
	amounts := make([]float64, len(expenses))
	for i, tx := range expenses {
		amounts[i] = tx.Amount
	}
	sort.Float64s(amounts)

	idx := int(0.9 * float64(len(amounts)-1))
	threshold := amounts[idx]

	count := 0
	for _, a := range amounts {
		if a > threshold {
			count++
		}
	}
	return count
}
