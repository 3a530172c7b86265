package dto

type SummaryResponse struct {
	TotalIncome  float64 `json:"total_income"`
	TotalExpense float64 `json:"total_expense"`
	Net          float64 `json:"net"`
	Currency     string  `json:"currency"`
}

type CategoryBreakdownItem struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
}

type MonthlySeriesItem struct {
	Month   string  `json:"month"` // YYYY-MM
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
}

type WeekdaySpendItem struct {
	Weekday string  `json:"weekday"`
	Amount  float64 `json:"amount"`
}

type InsightsResponse struct {
	Insights []string `json:"insights"`
	Warnings []string `json:"warnings"`
}
