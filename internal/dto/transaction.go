package dto

type TransactionResponse struct {
	ID               string   `json:"id"`
	Date             string   `json:"date"`
	Description      string   `json:"description"`
	Amount           float64  `json:"amount"`
	Currency         string   `json:"currency"`
	Category         string   `json:"category"`
	Type             string   `json:"type"`
	OriginalAmount   *float64 `json:"original_amount,omitempty"`
	OriginalCurrency string   `json:"original_currency,omitempty"`
	CreatedAt        string   `json:"created_at"`
}
