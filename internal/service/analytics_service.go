package service

import (
	"context"
	"sort"

	"finsight/internal/dto"
	"finsight/internal/models"
	"finsight/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AnalyticsService aggregates a user's persisted transactions into the
// dashboard numbers. Aggregation happens in memory over one repository read
// per request; datasets here are personal-finance sized.
type AnalyticsService struct {
	txRepo       *repository.TransactionRepository
	insights     *InsightsService
	baseCurrency string
	logger       *zap.Logger
}

func NewAnalyticsService(txRepo *repository.TransactionRepository, insights *InsightsService, baseCurrency string, logger *zap.Logger) *AnalyticsService {
	return &AnalyticsService{
		txRepo:       txRepo,
		insights:     insights,
		baseCurrency: baseCurrency,
		logger:       logger,
	}
}

func (s *AnalyticsService) Summary(ctx context.Context, userID uuid.UUID) (*dto.SummaryResponse, error) {
	transactions, err := s.txRepo.ListByUserID(ctx, userID, repository.TransactionFilter{})
	if err != nil {
		return nil, err
	}

	resp := &dto.SummaryResponse{Currency: s.baseCurrency}
	for _, tx := range transactions {
		switch tx.Type {
		case models.TypeIncome:
			resp.TotalIncome += tx.Amount
		case models.TypeExpense:
			resp.TotalExpense += tx.Amount
		}
	}
	resp.Net = resp.TotalIncome - resp.TotalExpense
	return resp, nil
}

// CategoryBreakdown sums expenses per category, largest first.
func (s *AnalyticsService) CategoryBreakdown(ctx context.Context, userID uuid.UUID) ([]dto.CategoryBreakdownItem, error) {
	transactions, err := s.txRepo.ListByUserID(ctx, userID, repository.TransactionFilter{Type: models.TypeExpense})
	if err != nil {
		return nil, err
	}

	byCategory := make(map[models.Category]float64)
	for _, tx := range transactions {
		byCategory[tx.Category] += tx.Amount
	}

	items := make([]dto.CategoryBreakdownItem, 0, len(byCategory))
	for cat, amount := range byCategory {
		items = append(items, dto.CategoryBreakdownItem{
			Category: string(cat),
			Amount:   amount,
		})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Amount != items[j].Amount {
			return items[i].Amount > items[j].Amount
		}
		return items[i].Category < items[j].Category
	})
	return items, nil
}

// MonthlySeries returns income and expense totals per month, oldest first.
func (s *AnalyticsService) MonthlySeries(ctx context.Context, userID uuid.UUID) ([]dto.MonthlySeriesItem, error) {
	transactions, err := s.txRepo.ListByUserID(ctx, userID, repository.TransactionFilter{})
	if err != nil {
		return nil, err
	}

	type totals struct{ income, expense float64 }
	byMonth := make(map[string]*totals)
	for _, tx := range transactions {
		month := tx.Date.Format("2006-01")
		t, ok := byMonth[month]
		if !ok {
			t = &totals{}
			byMonth[month] = t
		}
		switch tx.Type {
		case models.TypeIncome:
			t.income += tx.Amount
		case models.TypeExpense:
			t.expense += tx.Amount
		}
	}

	months := make([]string, 0, len(byMonth))
	for month := range byMonth {
		months = append(months, month)
	}
	sort.Strings(months)

	items := make([]dto.MonthlySeriesItem, len(months))
	for i, month := range months {
		items[i] = dto.MonthlySeriesItem{
			Month:   month,
			Income:  byMonth[month].income,
			Expense: byMonth[month].expense,
		}
	}
	return items, nil
}

// WeekdaySpend sums expenses per weekday, Monday through Sunday.
func (s *AnalyticsService) WeekdaySpend(ctx context.Context, userID uuid.UUID) ([]dto.WeekdaySpendItem, error) {
	transactions, err := s.txRepo.ListByUserID(ctx, userID, repository.TransactionFilter{Type: models.TypeExpense})
	if err != nil {
		return nil, err
	}

	byWeekday := make(map[string]float64)
	for _, tx := range transactions {
		byWeekday[tx.Date.Weekday().String()] += tx.Amount
	}

	order := []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}
	items := make([]dto.WeekdaySpendItem, len(order))
	for i, day := range order {
		items[i] = dto.WeekdaySpendItem{
			Weekday: day,
			Amount:  byWeekday[day],
		}
	}
	return items, nil
}

func (s *AnalyticsService) Insights(ctx context.Context, userID uuid.UUID) (*dto.InsightsResponse, error) {
	transactions, err := s.txRepo.ListByUserID(ctx, userID, repository.TransactionFilter{})
	if err != nil {
		return nil, err
	}

	flat := make([]models.Transaction, len(transactions))
	for i, tx := range transactions {
		flat[i] = *tx
	}

	insights, warnings := s.insights.Generate(flat)
	return &dto.InsightsResponse{
		Insights: insights,
		Warnings: warnings,
	}, nil
}
