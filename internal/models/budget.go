package models

import (
	"time"

	"github.com/google/uuid"
)

// Budget is a per-category monthly spending limit.
type Budget struct {
	ID           uuid.UUID `db:"id"`
	UserID       uuid.UUID `db:"user_id"`
	Category     Category  `db:"category"`
	MonthlyLimit float64   `db:"monthly_limit"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}
