package models

import (
	"time"

	"github.com/google/uuid"
)

type Document struct {
	ID            uuid.UUID `db:"id"`
	UserID        uuid.UUID `db:"user_id"`
	Type          DocType   `db:"doc_type"`
	FileName      string    `db:"file_name"`
	FileSize      int64     `db:"file_size"`
	FileURL       string    `db:"file_url"`
	Summary       string    `db:"summary"`
	ExtractedText string    `db:"extracted_text"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}
