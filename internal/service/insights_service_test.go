package service

import (
	"strings"
	"testing"

	"finsight/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func expense(amount float64, category models.Category) models.Transaction {
	return models.Transaction{Amount: amount, Category: category, Type: models.TypeExpense}
}

func income(amount float64) models.Transaction {
	return models.Transaction{Amount: amount, Category: models.CategorySalary, Type: models.TypeIncome}
}

func TestInsightsEmpty(t *testing.T) {
	svc := NewInsightsService("SEK", zap.NewNop())
	insights, warnings := svc.Generate(nil)
	assert.Empty(t, insights)
	assert.Empty(t, warnings)
}

func TestInsightsTopCategoryAndAverage(t *testing.T) {
	svc := NewInsightsService("SEK", zap.NewNop())
	transactions := []models.Transaction{
		expense(600, models.CategoryFood),
		expense(300, models.CategoryTransport),
		expense(100, models.CategoryShopping),
	}

	insights, _ := svc.Generate(transactions)
	require.NotEmpty(t, insights)

	assert.Contains(t, insights[0], "Food")
	assert.Contains(t, insights[0], "60%")

	var foundAvg bool
	for _, in := range insights {
		if strings.Contains(in, "Average transaction value") {
			foundAvg = true
			assert.Contains(t, in, "333 SEK")
		}
	}
	assert.True(t, foundAvg)
}

func TestInsightsTightBudgetWarning(t *testing.T) {
	svc := NewInsightsService("SEK", zap.NewNop())
	transactions := []models.Transaction{
		income(1000),
		expense(900, models.CategoryHousing),
	}

	_, warnings := svc.Generate(transactions)
	require.NotEmpty(t, warnings)
	assert.Contains(t, warnings[len(warnings)-1], "90% of your income")
}

func TestInsightsHealthyRatio(t *testing.T) {
	svc := NewInsightsService("SEK", zap.NewNop())
	transactions := []models.Transaction{
		income(1000),
		expense(400, models.CategoryFood),
	}

	insights, warnings := svc.Generate(transactions)

	var foundHealthy bool
	for _, in := range insights {
		if strings.Contains(in, "finances look healthy") {
			foundHealthy = true
		}
	}
	assert.True(t, foundHealthy)

	for _, w := range warnings {
		assert.NotContains(t, w, "budget is tight")
	}
}

func TestInsightsOutlierWarning(t *testing.T) {
	svc := NewInsightsService("SEK", zap.NewNop())
	var transactions []models.Transaction
	for i := 0; i < 20; i++ {
		transactions = append(transactions, expense(100, models.CategoryFood))
	}
	transactions = append(transactions, expense(5000, models.CategoryShopping))

	_, warnings := svc.Generate(transactions)

	var foundOutlier bool
	for _, w := range warnings {
		if strings.Contains(w, "unusually large transactions") {
			foundOutlier = true
			assert.Contains(t, w, "1 unusually large")
		}
	}
	assert.True(t, foundOutlier)
}
