package models

import (
	"time"

	"github.com/google/uuid"
)

// Transaction is a persisted transaction row, created from a
// TransactionDraft once its document has been accepted.
type Transaction struct {
	ID               uuid.UUID       `db:"id"`
	DocumentID       uuid.UUID       `db:"document_id"`
	UserID           uuid.UUID       `db:"user_id"`
	Date             time.Time       `db:"transaction_date"`
	Description      string          `db:"description"`
	Amount           float64         `db:"amount"`
	Currency         string          `db:"currency"`
	Category         Category        `db:"category"`
	Type             TransactionType `db:"transaction_type"`
	OriginalAmount   *float64        `db:"original_amount"`
	OriginalCurrency *string         `db:"original_currency"`
	CreatedAt        time.Time       `db:"created_at"`
	UpdatedAt        time.Time       `db:"updated_at"`
}
