package service

import (
	"errors"
	"testing"

	"finsight/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseExtraction(t *testing.T) {
	const payload = `{
		"doc_type": "receipt",
		"currency": "SEK",
		"summary": "Grocery receipt",
		"transactions": [
			{"date": "2024-03-05", "description": "ICA Supermarket", "amount": 642.5, "category": "Food", "type": "expense"}
		]
	}`

	tests := []struct {
		name string
		raw  string
	}{
		{"bare json", payload},
		{"fenced", "```\n" + payload + "\n```"},
		{"fenced with language tag", "```json\n" + payload + "\n```"},
		{"surrounding whitespace", "\n\n  " + payload + "  \n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseExtraction(tt.raw)
			require.NoError(t, err)

			assert.Equal(t, models.DocTypeReceipt, result.DocType)
			assert.Equal(t, "SEK", result.Currency)
			require.Len(t, result.Transactions, 1)
			assert.Equal(t, "ICA Supermarket", result.Transactions[0].Description)
			assert.Equal(t, 642.5, result.Transactions[0].Amount)
			assert.Equal(t, models.CategoryFood, result.Transactions[0].Category)
		})
	}
}

func TestParseExtractionMalformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"prose", "I cannot analyze this document."},
		{"truncated json", `{"doc_type": "receipt", "transactions": [`},
		{"fence with prose", "```\nnot json at all\n```"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseExtraction(tt.raw)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedOutput))
		})
	}
}

func TestStripCodeFence(t *testing.T) {
	assert.Equal(t, `{"a":1}`, stripCodeFence("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripCodeFence("```\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripCodeFence(`{"a":1}`))
	// Unterminated fence still yields the body.
	assert.Equal(t, `{"a":1}`, stripCodeFence("```json\n{\"a\":1}"))
}
