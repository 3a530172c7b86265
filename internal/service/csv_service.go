package service

import (
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"finsight/internal/models"

	"go.uber.org/zap"
)

// Header synonyms per semantic role. Substring match against trimmed,
// lower-cased headers; covers English, Swedish and Spanish bank exports.
var (
	dateHeaders     = []string{"date", "transaction_date", "posting_date", "datum", "fecha"}
	descHeaders     = []string{"description", "details", "merchant", "payee", "beskrivning", "descripción"}
	amountHeaders   = []string{"amount", "value", "sum", "belopp", "cantidad"}
	typeHeaders     = []string{"type", "transaction_type", "typ"}
	categoryHeaders = []string{"category", "kategori", "categoría"}
)

// CSVService is the deterministic tabular normalizer, tried before any AI
// fallback for CSV uploads.
type CSVService struct {
	baseCurrency string
	logger       *zap.Logger
}

func NewCSVService(baseCurrency string, logger *zap.Logger) *CSVService {
	return &CSVService{
		baseCurrency: baseCurrency,
		logger:       logger,
	}
}

// Normalize parses CSV text into an ExtractionResult using header-synonym
// column detection. Date and amount columns are mandatory; if either cannot
// be resolved it returns ErrNotViable so the engine can route to the AI
// path. Rows whose amount fails to parse are skipped individually.
func (s *CSVService) Normalize(csvText string) (*models.ExtractionResult, error) {
	reader := csv.NewReader(strings.NewReader(csvText))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotViable, err)
	}
	if len(records) < 1 {
		return nil, fmt.Errorf("%w: empty file", ErrNotViable)
	}

	headers := make([]string, len(records[0]))
	for i, h := range records[0] {
		headers[i] = strings.ToLower(strings.TrimSpace(h))
	}

	dateCol := findColumn(headers, dateHeaders)
	descCol := findColumn(headers, descHeaders)
	amountCol := findColumn(headers, amountHeaders)
	typeCol := findColumn(headers, typeHeaders)
	categoryCol := findColumn(headers, categoryHeaders)

	if dateCol < 0 || amountCol < 0 {
		return nil, fmt.Errorf("%w: no date or amount column in %v", ErrNotViable, headers)
	}

	var transactions []models.TransactionDraft
	for _, row := range records[1:] {
		if amountCol >= len(row) || dateCol >= len(row) {
			continue
		}

		amount, err := parseLocaleAmount(row[amountCol])
		if err != nil {
			s.logger.Debug("Skipping row with unparseable amount",
				zap.String("raw", row[amountCol]),
			)
			continue
		}

		txType := models.TypeIncome
		if typeCol >= 0 && typeCol < len(row) {
			typ := strings.ToLower(row[typeCol])
			if strings.Contains(typ, "expense") || strings.Contains(typ, "debit") {
				txType = models.TypeExpense
			}
		} else if amount < 0 {
			txType = models.TypeExpense
		}

		description := "Transaction"
		if descCol >= 0 && descCol < len(row) && strings.TrimSpace(row[descCol]) != "" {
			description = strings.TrimSpace(row[descCol])
		}

		category := models.CategoryOther
		if categoryCol >= 0 && categoryCol < len(row) && strings.TrimSpace(row[categoryCol]) != "" {
			category = models.Category(strings.TrimSpace(row[categoryCol]))
		}

		transactions = append(transactions, models.TransactionDraft{
			Date:        strings.TrimSpace(row[dateCol]),
			Description: description,
			Amount:      abs(amount),
			Category:    category,
			Type:        txType,
		})
	}

	return &models.ExtractionResult{
		DocType:      models.DocTypeCSV,
		Currency:     s.baseCurrency,
		Summary:      fmt.Sprintf("CSV file with %d transactions", len(transactions)),
		Transactions: transactions,
	}, nil
}

// findColumn returns the index of the first header containing any synonym,
// or -1. Each role is resolved independently.
func findColumn(headers []string, synonyms []string) int {
	for i, h := range headers {
		for _, syn := range synonyms {
			if strings.Contains(h, syn) {
				return i
			}
		}
	}
	return -1
}

// parseLocaleAmount tolerates decimal commas and embedded spaces,
// e.g. "1 234,56" or "-120.50".
func parseLocaleAmount(raw string) (float64, error) {
	cleaned := strings.ReplaceAll(raw, ",", ".")
	cleaned = strings.ReplaceAll(cleaned, " ", "")
	cleaned = strings.ReplaceAll(cleaned, " ", "")
	return strconv.ParseFloat(cleaned, 64)
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
