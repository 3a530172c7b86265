package dto

type SetBudgetRequest struct {
	Category     string  `json:"category" validate:"required"`
	MonthlyLimit float64 `json:"monthly_limit" validate:"required,gt=0"`
}

type BudgetResponse struct {
	Category     string  `json:"category"`
	MonthlyLimit float64 `json:"monthly_limit"`
}

type BudgetProgressResponse struct {
	Category     string  `json:"category"`
	MonthlyLimit float64 `json:"monthly_limit"`
	Spent        float64 `json:"spent"`
	Percent      float64 `json:"percent"`
}
