package service

import (
	"errors"
	"testing"

	"finsight/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestCSVService() *CSVService {
	return NewCSVService("SEK", zap.NewNop())
}

func TestCSVNormalizeMinimalColumns(t *testing.T) {
	csvText := "date,amount\n2024-01-05,-120.50\n2024-01-06,300\n"

	result, err := newTestCSVService().Normalize(csvText)
	require.NoError(t, err)

	assert.Equal(t, models.DocTypeCSV, result.DocType)
	assert.Equal(t, "SEK", result.Currency)
	require.Len(t, result.Transactions, 2)

	first := result.Transactions[0]
	assert.Equal(t, "2024-01-05", first.Date)
	assert.Equal(t, 120.50, first.Amount)
	assert.Equal(t, models.TypeExpense, first.Type)
	assert.Equal(t, "Transaction", first.Description)
	assert.Equal(t, models.CategoryOther, first.Category)

	second := result.Transactions[1]
	assert.Equal(t, 300.0, second.Amount)
	assert.Equal(t, models.TypeIncome, second.Type)
}

func TestCSVNormalizeSynonymHeaders(t *testing.T) {
	tests := []struct {
		name    string
		csvText string
	}{
		{
			"swedish",
			"Datum,Beskrivning,Belopp,Kategori\n2024-02-01,ICA,-250,Food\n",
		},
		{
			"spanish",
			"Fecha,Descripción,Cantidad\n2024-02-01,Mercadona,-250\n",
		},
		{
			"compound english",
			"Transaction_Date,Details,Value\n2024-02-01,Coffee,-250\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := newTestCSVService().Normalize(tt.csvText)
			require.NoError(t, err)
			require.Len(t, result.Transactions, 1)
			assert.Equal(t, "2024-02-01", result.Transactions[0].Date)
			assert.Equal(t, 250.0, result.Transactions[0].Amount)
			assert.Equal(t, models.TypeExpense, result.Transactions[0].Type)
		})
	}
}

func TestCSVNormalizeTypeColumnWinsOverSign(t *testing.T) {
	csvText := "date,amount,type\n2024-03-01,500,Expense\n2024-03-02,500,credit\n"

	result, err := newTestCSVService().Normalize(csvText)
	require.NoError(t, err)
	require.Len(t, result.Transactions, 2)

	assert.Equal(t, models.TypeExpense, result.Transactions[0].Type)
	assert.Equal(t, models.TypeIncome, result.Transactions[1].Type)
}

func TestCSVNormalizeLocaleAmounts(t *testing.T) {
	csvText := "date,amount\n2024-01-05,\"1 234,56\"\n"

	result, err := newTestCSVService().Normalize(csvText)
	require.NoError(t, err)
	require.Len(t, result.Transactions, 1)
	assert.Equal(t, 1234.56, result.Transactions[0].Amount)
}

func TestCSVNormalizeSkipsUnparseableRows(t *testing.T) {
	csvText := "date,amount\n2024-01-05,abc\n2024-01-06,100\n"

	result, err := newTestCSVService().Normalize(csvText)
	require.NoError(t, err)
	require.Len(t, result.Transactions, 1)
	assert.Equal(t, 100.0, result.Transactions[0].Amount)
}

func TestCSVNormalizeNotViable(t *testing.T) {
	tests := []struct {
		name    string
		csvText string
	}{
		{"no amount column", "date,note\n2024-01-05,hello\n"},
		{"no date column", "description,amount\nCoffee,45\n"},
		{"unrelated headers", "foo,bar\n1,2\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newTestCSVService().Normalize(tt.csvText)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrNotViable))
		})
	}
}
